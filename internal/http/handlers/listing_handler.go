package handlers

import (
	"github.com/gofiber/fiber/v2"

	"travelhub/internal/domain"
	applog "travelhub/internal/log"
	"travelhub/internal/repos"
	"travelhub/internal/services"
)

type ListingHandler struct {
	Listings *services.ListingService
}

func listingFilter(c *fiber.Ctx) (repos.ListingFilter, error) {
	f := repos.ListingFilter{
		Location: c.Query("location"),
		Ordering: c.Query("ordering"),
		Page:     pageParams(c),
	}
	verr := &domain.ValidationError{}
	if t := c.Query("listing_type"); t != "" {
		cat, err := domain.ParseCategory("listing_type", t)
		verr.Merge(err)
		f.Type = string(cat)
	}
	avail, err := queryBool(c, "is_available")
	verr.Merge(err)
	f.Available = avail
	q, err := querySearch(c)
	verr.Merge(err)
	f.Search = q
	return f, verr.OrNil()
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	f, err := listingFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Listings.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	f, err := listingFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Listings.Mine(c.UserContext(), currentUser(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	l, err := h.Listings.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(l)
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var in services.ListingInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	l, err := h.Listings.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c.Status(fiber.StatusCreated), "listing.create", map[string]any{"id": l.ID})
	return c.JSON(l)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error { return h.update(c, false) }

func (h *ListingHandler) Patch(c *fiber.Ctx) error { return h.update(c, true) }

func (h *ListingHandler) update(c *fiber.Ctx, partial bool) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in services.ListingInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	l, err := h.Listings.Update(c.UserContext(), currentUser(c), id, in, partial)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "listing.update", map[string]any{"id": l.ID, "partial": partial})
	return c.JSON(l)
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Listings.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	applog.Audit(c.Status(fiber.StatusNoContent), "listing.delete", map[string]any{"id": id})
	return nil
}

// Reviews lists the reviews attached to one listing.
func (h *ListingHandler) Reviews(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	f, err := reviewFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Listings.Reviews(c.UserContext(), id, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
