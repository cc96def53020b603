package handlers

import (
	"github.com/gofiber/fiber/v2"

	"travelhub/internal/domain"
	"travelhub/internal/log"
	"travelhub/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profile struct {
	domain.UserSummary
	Role domain.Role `json:"role"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	u, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	log.Audit(c, "auth.register", map[string]any{"id": u.ID, "username": u.Username})
	return c.Status(fiber.StatusCreated).JSON(profile{UserSummary: u.Summary(), Role: u.Role})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	tok, u, err := h.Auth.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": in.Username})
		return respondError(c, err)
	}
	c.Locals("user_id", u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return c.JSON(tok)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	return c.JSON(profile{UserSummary: u.Summary(), Role: u.Role})
}
