package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"travelhub/internal/domain"
	applog "travelhub/internal/log"
	"travelhub/internal/repos"
	"travelhub/internal/services"
	"travelhub/internal/validate"
)

const genericError = "Something went wrong. Please try again."

// ErrorHandler renders errors that escape a handler, including fiber's own
// (unknown route, body too large), as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

// respondError is the single mapping from the error taxonomy to HTTP.
// Unknown errors are logged and answered with a generic body.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr *domain.ValidationError
		terr *domain.TransitionError
		ferr *domain.ForbiddenError
		fe   *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		applog.Security(c.Status(fiber.StatusBadRequest), "validation.fail", map[string]any{"fields": verr.Fields})
		return c.JSON(verr.Fields)
	case errors.As(err, &terr):
		applog.Security(c.Status(fiber.StatusBadRequest), "booking.transition.rejected", map[string]any{"reason": terr.Reason})
		return c.JSON(fiber.Map{"detail": terr.Reason})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
	case errors.As(err, &ferr):
		applog.Security(c.Status(fiber.StatusForbidden), "access.denied", map[string]any{"reason": ferr.Detail})
		return c.JSON(fiber.Map{"detail": ferr.Detail})
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c.Status(fiber.StatusForbidden), "access.denied", nil)
		return c.JSON(fiber.Map{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Authentication credentials were not provided."})
	case errors.Is(err, domain.ErrBadCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "No active account found with the given credentials."})
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": genericError})
}

// parseBody decodes a JSON body into dst; malformed input is a 400.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "JSON parse error.")
	}
	return nil
}

// pathID reads :id; anything that cannot be an id is simply not found.
func pathID(c *fiber.Ctx) (string, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func pageParams(c *fiber.Ctx) repos.Page {
	return repos.Page{
		Number: validate.Page(c.Query("page")),
		Size:   validate.PageSize(c.Query("page_size"), services.DefaultPageSize, services.MaxPageSize),
	}
}

// queryBool parses an optional boolean filter.
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, ok := validate.Bool(raw)
	if !ok {
		return nil, domain.NewFieldError(key, "Enter a valid boolean.")
	}
	return &b, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewFieldError(key, "Enter a whole number.")
	}
	return n, nil
}

func querySearch(c *fiber.Ctx) (string, error) {
	raw := c.Query("search")
	if raw == "" {
		return "", nil
	}
	q, ok := validate.Q(raw)
	if !ok {
		return "", domain.NewFieldError("search", "Search term contains unsupported characters.")
	}
	return q, nil
}
