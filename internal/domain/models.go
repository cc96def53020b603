package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Listing struct {
	ID            string              `db:"id" json:"id"`
	Title         string              `db:"title" json:"title"`
	Description   string              `db:"description" json:"description"`
	Type          Category            `db:"listing_type" json:"listing_type"`
	PricePerNight Money               `db:"price_per_night" json:"price_per_night"`
	Location      string              `db:"location" json:"location"`
	Latitude      decimal.NullDecimal `db:"latitude" json:"latitude"`
	Longitude     decimal.NullDecimal `db:"longitude" json:"longitude"`
	Amenities     Amenities           `db:"amenities" json:"amenities"`
	MaxGuests     int                 `db:"max_guests" json:"max_guests"`
	IsAvailable   bool                `db:"is_available" json:"is_available"`
	OwnerID       string              `db:"owner_id" json:"-"`
	Owner         UserSummary         `db:"owner" json:"owner"`
	AverageRating float64             `db:"average_rating" json:"average_rating"` // mean of review ratings, 0 without reviews
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}

type Review struct {
	ID           string      `db:"id" json:"id"`
	ListingID    string      `db:"listing_id" json:"listing"`
	ListingTitle string      `db:"listing_title" json:"listing_title"`
	ReviewerID   string      `db:"reviewer_id" json:"-"`
	Reviewer     UserSummary `db:"reviewer" json:"reviewer"`
	Rating       int         `db:"rating" json:"rating"`
	Comment      string      `db:"comment" json:"comment"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

type Booking struct {
	ID           string        `db:"id" json:"id"`
	ListingID    string        `db:"listing_id" json:"listing"`
	ListingTitle string        `db:"listing_title" json:"listing_title"`
	GuestID      string        `db:"guest_id" json:"-"`
	Guest        UserSummary   `db:"guest" json:"guest"`
	CheckIn      Date          `db:"check_in" json:"check_in"`
	CheckOut     Date          `db:"check_out" json:"check_out"`
	GuestsCount  int           `db:"guests_count" json:"guests_count"`
	TotalPrice   Money         `db:"total_price" json:"total_price"`
	Status       BookingStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// DurationDays is the number of nights between check-in and check-out.
func (b *Booking) DurationDays() int {
	if b.CheckIn.IsZero() || b.CheckOut.IsZero() {
		return 0
	}
	return b.CheckIn.DaysUntil(b.CheckOut)
}

func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		DurationDays int `json:"duration_days"`
	}{plain(b), b.DurationDays()})
}
