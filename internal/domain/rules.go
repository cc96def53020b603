package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// maxPrice is the first value that no longer fits NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

// Validate checks the listing rules that the store CHECK constraints mirror.
func (l *Listing) Validate() error {
	verr := &ValidationError{}
	switch p := l.PricePerNight; {
	case !p.IsPositive():
		verr.Add("price_per_night", "Price per night must be greater than 0.")
	case !p.Equal(p.Truncate(2)):
		verr.Add("price_per_night", "Ensure that there are no more than 2 decimal places.")
	case p.GreaterThanOrEqual(maxPrice):
		verr.Add("price_per_night", "Ensure that there are no more than 10 digits in total.")
	}
	if l.MaxGuests <= 0 {
		verr.Add("max_guests", "Max guests must be greater than 0.")
	}
	if !l.Type.Valid() {
		verr.Add("listing_type", fmt.Sprintf("%q is not a valid choice.", string(l.Type)))
	}
	return verr.OrNil()
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return NewFieldError("rating", "Rating must be between 1 and 5.")
	}
	return nil
}

// Reprice recomputes the stored total from the nightly rate. A non-positive
// stay leaves the current total untouched.
func (b *Booking) Reprice(pricePerNight Money) {
	if b.ListingID == "" || b.CheckIn.IsZero() || b.CheckOut.IsZero() {
		return
	}
	if n := b.DurationDays(); n > 0 {
		b.TotalPrice = Money{pricePerNight.Mul(decimal.NewFromInt(int64(n)))}
	}
}

// Validate runs field rules first and, when they pass, reports the first
// failing object rule against the referenced listing.
func (b *Booking) Validate(l *Listing) error {
	verr := &ValidationError{}
	if b.GuestsCount <= 0 {
		verr.Add("guests_count", "Number of guests must be greater than 0.")
	}
	if !b.Status.Valid() {
		verr.Add("status", fmt.Sprintf("%q is not a valid choice.", string(b.Status)))
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	if !b.CheckOut.After(b.CheckIn.Time) {
		return NewObjectError("Check-out date must be after check-in date.")
	}
	if l != nil && b.GuestsCount > l.MaxGuests {
		return NewObjectError(fmt.Sprintf(
			"Number of guests (%d) exceeds maximum capacity of %d for this listing.", b.GuestsCount, l.MaxGuests))
	}
	if l != nil && !l.IsAvailable {
		return NewObjectError("This listing is currently not available for booking.")
	}
	if !b.TotalPrice.IsPositive() {
		return NewFieldError("total_price", "Total price must be greater than 0.")
	}
	return nil
}

// CanConfirm reports whether confirm may move a booking out of s.
func (s BookingStatus) CanConfirm() error {
	if s != BookingPending {
		return &TransitionError{Reason: "Only pending bookings can be confirmed."}
	}
	return nil
}

// CanCancel reports whether cancel may move a booking out of s.
func (s BookingStatus) CanCancel() error {
	switch s {
	case BookingCancelled:
		return &TransitionError{Reason: "Booking is already cancelled."}
	case BookingCompleted:
		return &TransitionError{Reason: "Cannot cancel a completed booking."}
	}
	return nil
}
