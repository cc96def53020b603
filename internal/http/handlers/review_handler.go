package handlers

import (
	"github.com/gofiber/fiber/v2"

	"travelhub/internal/domain"
	applog "travelhub/internal/log"
	"travelhub/internal/repos"
	"travelhub/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

func reviewFilter(c *fiber.Ctx) (repos.ReviewFilter, error) {
	rating, err := queryInt(c, "rating")
	if err != nil {
		return repos.ReviewFilter{}, err
	}
	if rating != 0 {
		if err := domain.ValidateRating(rating); err != nil {
			return repos.ReviewFilter{}, err
		}
	}
	return repos.ReviewFilter{
		Rating:    rating,
		ListingID: c.Query("listing"),
		Ordering:  c.Query("ordering"),
		Page:      pageParams(c),
	}, nil
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	f, err := reviewFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Reviews.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ReviewHandler) Mine(c *fiber.Ctx) error {
	f, err := reviewFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Reviews.Mine(c.UserContext(), currentUser(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	r, err := h.Reviews.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(r)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	r, err := h.Reviews.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c.Status(fiber.StatusCreated), "review.create", map[string]any{"id": r.ID, "listing_id": r.ListingID})
	return c.JSON(r)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error { return h.update(c, false) }

func (h *ReviewHandler) Patch(c *fiber.Ctx) error { return h.update(c, true) }

func (h *ReviewHandler) update(c *fiber.Ctx, partial bool) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	r, err := h.Reviews.Update(c.UserContext(), currentUser(c), id, in, partial)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "review.update", map[string]any{"id": r.ID, "partial": partial})
	return c.JSON(r)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Reviews.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	applog.Audit(c.Status(fiber.StatusNoContent), "review.delete", map[string]any{"id": id})
	return nil
}
