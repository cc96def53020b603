package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/internal/domain"
)

func listing(maxGuests int, available bool) *domain.Listing {
	return &domain.Listing{
		ID:            "l-1",
		Type:          domain.CategoryHotel,
		PricePerNight: domain.NewMoney("100.00"),
		MaxGuests:     maxGuests,
		IsAvailable:   available,
	}
}

func booking(in, out domain.Date, guests int) *domain.Booking {
	return &domain.Booking{ListingID: "l-1", CheckIn: in, CheckOut: out, GuestsCount: guests, Status: domain.BookingPending}
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	return verr.Fields
}

func TestRepriceThreeNights(t *testing.T) {
	b := booking(domain.NewDate(2024, 6, 1), domain.NewDate(2024, 6, 4), 2)
	b.Reprice(domain.NewMoney("100.00"))

	assert.Equal(t, "300.00", b.TotalPrice.String())
	assert.Equal(t, 3, b.DurationDays())
	require.NoError(t, b.Validate(listing(2, true)))
}

func TestRepriceKeepsTotalForNonPositiveStay(t *testing.T) {
	b := booking(domain.NewDate(2024, 6, 4), domain.NewDate(2024, 6, 4), 1)
	b.TotalPrice = domain.NewMoney("42.00")
	b.Reprice(domain.NewMoney("100.00"))
	assert.Equal(t, "42.00", b.TotalPrice.String())

	b.ListingID = ""
	b.CheckOut = domain.NewDate(2024, 6, 9)
	b.Reprice(domain.NewMoney("100.00"))
	assert.Equal(t, "42.00", b.TotalPrice.String(), "no listing, no reprice")
}

func TestBookingValidateObjectRules(t *testing.T) {
	june := func(d int) domain.Date { return domain.NewDate(2024, 6, d) }

	cases := []struct {
		name    string
		b       *domain.Booking
		l       *domain.Listing
		field   string
		message string
	}{
		{"dates reversed", booking(june(4), june(1), 1), listing(2, true),
			domain.NonFieldErrors, "Check-out date must be after check-in date."},
		{"same day", booking(june(4), june(4), 1), listing(2, true),
			domain.NonFieldErrors, "Check-out date must be after check-in date."},
		{"over capacity", booking(june(1), june(4), 5), listing(2, true),
			domain.NonFieldErrors, "Number of guests (5) exceeds maximum capacity of 2 for this listing."},
		{"unavailable", booking(june(1), june(4), 1), listing(2, false),
			domain.NonFieldErrors, "This listing is currently not available for booking."},
		{"no guests", booking(june(1), june(4), 0), listing(2, true),
			"guests_count", "Number of guests must be greater than 0."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.b.Reprice(tc.l.PricePerNight)
			f := fields(t, tc.b.Validate(tc.l))
			assert.Equal(t, []string{tc.message}, f[tc.field])
		})
	}
}

func TestListingValidate(t *testing.T) {
	l := listing(0, true)
	l.PricePerNight = domain.NewMoney("0")
	l.Type = "castle"

	f := fields(t, l.Validate())
	assert.Equal(t, []string{"Price per night must be greater than 0."}, f["price_per_night"])
	assert.Equal(t, []string{"Max guests must be greater than 0."}, f["max_guests"])
	assert.Contains(t, f["listing_type"][0], "castle")

	require.NoError(t, listing(1, true).Validate())
}

func TestListingPricePrecision(t *testing.T) {
	for price, msg := range map[string]string{
		"0.001":        "Ensure that there are no more than 2 decimal places.",
		"12.345":       "Ensure that there are no more than 2 decimal places.",
		"100000000.00": "Ensure that there are no more than 10 digits in total.",
	} {
		l := listing(1, true)
		l.PricePerNight = domain.NewMoney(price)
		assert.Equal(t, []string{msg}, fields(t, l.Validate())["price_per_night"], price)
	}

	for _, price := range []string{"0.01", "95.5", "120.000", "99999999.99"} {
		l := listing(1, true)
		l.PricePerNight = domain.NewMoney(price)
		assert.NoError(t, l.Validate(), price)
	}
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		assert.NoError(t, domain.ValidateRating(r))
	}
	for _, r := range []int{0, 6, -1} {
		assert.Equal(t, []string{"Rating must be between 1 and 5."}, fields(t, domain.ValidateRating(r))["rating"])
	}
}

func TestTransitionTable(t *testing.T) {
	assert.NoError(t, domain.BookingPending.CanConfirm())
	for _, st := range []domain.BookingStatus{domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted} {
		var terr *domain.TransitionError
		require.ErrorAs(t, st.CanConfirm(), &terr)
		assert.Equal(t, "Only pending bookings can be confirmed.", terr.Reason)
	}

	assert.NoError(t, domain.BookingPending.CanCancel())
	assert.NoError(t, domain.BookingConfirmed.CanCancel())
	assert.EqualError(t, domain.BookingCancelled.CanCancel(), "Booking is already cancelled.")
	assert.EqualError(t, domain.BookingCompleted.CanCancel(), "Cannot cancel a completed booking.")
}

func TestBookingJSONShape(t *testing.T) {
	b := booking(domain.NewDate(2024, 6, 1), domain.NewDate(2024, 6, 4), 2)
	b.ID = "b-1"
	b.GuestID = "u-1"
	b.Reprice(domain.NewMoney("100.00"))
	b.CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2024-06-01", got["check_in"])
	assert.Equal(t, "300.00", got["total_price"])
	assert.Equal(t, float64(3), got["duration_days"])
	assert.Equal(t, "l-1", got["listing"])
	assert.NotContains(t, got, "guest_id")
}

func TestDateScan(t *testing.T) {
	var d domain.Date
	require.NoError(t, d.Scan("2024-06-01"))
	assert.Equal(t, "2024-06-01", d.String())
	require.NoError(t, d.Scan(time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-07-02", d.String())
	require.NoError(t, d.Scan("2024-08-03 00:00:00+00:00"))
	assert.Equal(t, "2024-08-03", d.String())
	assert.Error(t, d.Scan(12))

	_, err := domain.ParseDate("check_in", "06/01/2024")
	assert.Contains(t, fields(t, err)["check_in"][0], "YYYY-MM-DD")
}

func TestAmenitiesRoundTrip(t *testing.T) {
	var a domain.Amenities
	require.NoError(t, a.Scan(`["wifi","pool"]`))
	assert.Equal(t, domain.Amenities{"wifi", "pool"}, a)

	v, err := domain.Amenities(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	raw, err := json.Marshal(domain.Amenities(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}
