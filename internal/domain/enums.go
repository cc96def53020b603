package domain

import "fmt"

type Category string

const (
	CategoryHotel      Category = "hotel"
	CategoryApartment  Category = "apartment"
	CategoryHouse      Category = "house"
	CategoryExperience Category = "experience"
	CategoryRestaurant Category = "restaurant"
)

var categories = []Category{CategoryHotel, CategoryApartment, CategoryHouse, CategoryExperience, CategoryRestaurant}

func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory rejects anything outside the closed set, reporting it against field.
func ParseCategory(field, s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", NewFieldError(field, fmt.Sprintf("%q is not a valid choice.", s))
	}
	return c, nil
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}

func (s BookingStatus) Valid() bool {
	for _, k := range bookingStatuses {
		if s == k {
			return true
		}
	}
	return false
}

func ParseBookingStatus(field, s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.Valid() {
		return "", NewFieldError(field, fmt.Sprintf("%q is not a valid choice.", s))
	}
	return st, nil
}

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)
