package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"travelhub/internal/domain"
	"travelhub/internal/metrics"
	"travelhub/internal/notify"
	"travelhub/internal/repos"
	"travelhub/internal/validate"
)

// BookingInput carries client-writable booking fields. total_price is not among
// them: the stored total is always computed.
type BookingInput struct {
	Listing     *string `json:"listing" validate:"omitnil,min=1"`
	CheckIn     *string `json:"check_in"`
	CheckOut    *string `json:"check_out"`
	GuestsCount *int    `json:"guests_count"`
	Status      *string `json:"status"`
}

// ErrStatusWrite rejects a status change through generic update by a non-admin.
var ErrStatusWrite = &domain.ForbiddenError{Detail: "status can only be changed through the confirm and cancel actions."}

// BookingChange is the outcome of a generic update.
type BookingChange struct {
	Booking  *domain.Booking
	Previous domain.BookingStatus
}

// StatusOverridden reports whether the update moved the status.
func (c *BookingChange) StatusOverridden() bool { return c.Booking.Status != c.Previous }

type BookingService struct {
	Bookings *repos.BookingRepo
	Listings *repos.ListingRepo
	Events   notify.Sink
}

func NewBookingService(bookings *repos.BookingRepo, listings *repos.ListingRepo, events notify.Sink) *BookingService {
	return &BookingService{Bookings: bookings, Listings: listings, Events: events}
}

func (in BookingInput) apply(b *domain.Booking, full bool) error {
	verr := &domain.ValidationError{}
	verr.Merge(validate.Struct(in))
	if full {
		required(verr, map[string]bool{
			"listing":      in.Listing == nil,
			"check_in":     in.CheckIn == nil,
			"check_out":    in.CheckOut == nil,
			"guests_count": in.GuestsCount == nil,
		})
	}
	if in.Listing != nil {
		b.ListingID = strings.TrimSpace(*in.Listing)
	}
	if in.CheckIn != nil {
		d, err := domain.ParseDate("check_in", *in.CheckIn)
		verr.Merge(err)
		b.CheckIn = d
	}
	if in.CheckOut != nil {
		d, err := domain.ParseDate("check_out", *in.CheckOut)
		verr.Merge(err)
		b.CheckOut = d
	}
	if in.GuestsCount != nil {
		b.GuestsCount = *in.GuestsCount
	}
	if in.Status != nil {
		st, err := domain.ParseBookingStatus("status", *in.Status)
		verr.Merge(err)
		b.Status = st
	}
	return verr.OrNil()
}

// Create books a listing for actor. Status starts at pending whatever the payload says.
func (s *BookingService) Create(ctx context.Context, actor *domain.User, in BookingInput) (*domain.Booking, error) {
	in.Status = nil
	t := now()
	b := &domain.Booking{ID: uuid.NewString(), GuestID: actor.ID, Status: domain.BookingPending, CreatedAt: t, UpdatedAt: t}
	if err := in.apply(b, true); err != nil {
		return nil, err
	}
	l, err := s.listing(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	b.Reprice(l.PricePerNight)
	if err := b.Validate(l); err != nil {
		return nil, err
	}
	if err := s.Bookings.Create(ctx, b); err != nil {
		if repos.IsMissingRef(err) {
			return nil, invalidListing(b.ListingID)
		}
		return nil, err
	}
	emit(ctx, s.Events, notify.Event{
		Kind: notify.BookingCreated, BookingID: b.ID, ListingID: l.ID, ListingTitle: l.Title,
		Status: string(b.Status), UserID: actor.ID, Username: actor.Username,
	})
	return s.Bookings.Get(ctx, b.ID)
}

// Get returns a booking visible to actor: its guest or an admin.
func (s *BookingService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Booking, error) {
	b, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (b.GuestID != actor.ID && !actor.IsAdmin()) {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// List is always scoped to the actor's own bookings.
func (s *BookingService) List(ctx context.Context, actor *domain.User, f repos.BookingFilter) (Page[domain.Booking], error) {
	f.GuestID = actor.ID
	items, total, err := s.Bookings.List(ctx, f)
	if err != nil {
		return Page[domain.Booking]{}, err
	}
	return newPage(items, total, f.Page), nil
}

// Update applies a full or partial edit and reprices. Only admins may write status here.
func (s *BookingService) Update(ctx context.Context, actor *domain.User, id string, in BookingInput, partial bool) (*BookingChange, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !actor.IsAdmin() {
		return nil, ErrStatusWrite
	}
	prev := b.Status
	if err := in.apply(b, !partial); err != nil {
		return nil, err
	}
	l, err := s.listing(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	b.Reprice(l.PricePerNight)
	if err := b.Validate(l); err != nil {
		return nil, err
	}
	b.UpdatedAt = now()
	if err := s.Bookings.Update(ctx, b); err != nil {
		if repos.IsMissingRef(err) {
			return nil, invalidListing(b.ListingID)
		}
		return nil, err
	}
	out, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.updated(ctx, actor, out)
	return &BookingChange{Booking: out, Previous: prev}, nil
}

// Confirm moves a pending booking to confirmed.
func (s *BookingService) Confirm(ctx context.Context, actor *domain.User, id string) (*domain.Booking, error) {
	return s.transition(ctx, actor, id, "confirm", domain.BookingConfirmed,
		domain.BookingStatus.CanConfirm, domain.BookingPending)
}

// Cancel moves a pending or confirmed booking to cancelled.
func (s *BookingService) Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Booking, error) {
	return s.transition(ctx, actor, id, "cancel", domain.BookingCancelled,
		domain.BookingStatus.CanCancel, domain.BookingPending, domain.BookingConfirmed)
}

// transition checks the precondition on the current row, then applies the change
// with a guarded UPDATE. Losing a race re-reads the row to report why.
func (s *BookingService) transition(ctx context.Context, actor *domain.User, id, action string,
	to domain.BookingStatus, allowed func(domain.BookingStatus) error, from ...domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := allowed(b.Status); err != nil {
		metrics.BookingTransition(action, "rejected")
		return nil, err
	}
	ok, err := s.Bookings.Transition(ctx, id, to, from...)
	if err != nil {
		metrics.BookingTransition(action, "error")
		return nil, err
	}
	if !ok {
		metrics.BookingTransition(action, "rejected")
		cur, err := s.Bookings.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := allowed(cur.Status); err != nil {
			return nil, err
		}
		return nil, &domain.TransitionError{Reason: "Booking was modified concurrently; retry."}
	}
	metrics.BookingTransition(action, "ok")
	out, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.updated(ctx, actor, out)
	return out, nil
}

func (s *BookingService) Delete(ctx context.Context, actor *domain.User, id string) (*domain.Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return b, s.Bookings.Delete(ctx, id)
}

func (s *BookingService) updated(ctx context.Context, actor *domain.User, b *domain.Booking) {
	emit(ctx, s.Events, notify.Event{
		Kind: notify.BookingUpdated, BookingID: b.ID, ListingID: b.ListingID, ListingTitle: b.ListingTitle,
		Status: string(b.Status), UserID: actor.ID, Username: actor.Username,
	})
}

// listing loads the referenced listing, reporting a missing one against the listing field.
func (s *BookingService) listing(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.Listings.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, invalidListing(id)
	}
	return l, err
}
