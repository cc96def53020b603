package handlers

import (
	"github.com/gofiber/fiber/v2"

	"travelhub/internal/domain"
	applog "travelhub/internal/log"
	"travelhub/internal/repos"
	"travelhub/internal/services"
)

type BookingHandler struct {
	Bookings *services.BookingService
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	f := repos.BookingFilter{
		ListingID: c.Query("listing"),
		Ordering:  c.Query("ordering"),
		Page:      pageParams(c),
	}
	if s := c.Query("status"); s != "" {
		st, err := domain.ParseBookingStatus("status", s)
		if err != nil {
			return respondError(c, err)
		}
		f.Status = string(st)
	}
	page, err := h.Bookings.List(c.UserContext(), currentUser(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.Bookings.Get(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(b)
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var in services.BookingInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	b, err := h.Bookings.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	applog.Audit(c.Status(fiber.StatusCreated), "booking.create", map[string]any{
		"id": b.ID, "listing_id": b.ListingID, "total_price": b.TotalPrice.String(),
	})
	return c.JSON(b)
}

func (h *BookingHandler) Update(c *fiber.Ctx) error { return h.update(c, false) }

func (h *BookingHandler) Patch(c *fiber.Ctx) error { return h.update(c, true) }

func (h *BookingHandler) update(c *fiber.Ctx, partial bool) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in services.BookingInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	ch, err := h.Bookings.Update(c.UserContext(), currentUser(c), id, in, partial)
	if err != nil {
		return respondError(c, err)
	}
	if ch.StatusOverridden() {
		applog.Audit(c, "booking.status.override", map[string]any{
			"id": id, "from": string(ch.Previous), "to": string(ch.Booking.Status),
		})
	}
	applog.Audit(c, "booking.update", map[string]any{"id": id, "partial": partial})
	return c.JSON(ch.Booking)
}

func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Bookings.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	applog.Audit(c.Status(fiber.StatusNoContent), "booking.delete", map[string]any{"id": id})
	return nil
}

func (h *BookingHandler) Confirm(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Bookings.Confirm(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "booking.confirm", map[string]any{"id": id})
	return c.JSON(fiber.Map{"detail": "Booking confirmed successfully."})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Bookings.Cancel(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	applog.Audit(c, "booking.cancel", map[string]any{"id": id})
	return c.JSON(fiber.Map{"detail": "Booking cancelled successfully."})
}
