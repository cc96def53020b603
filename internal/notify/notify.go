// Package notify delivers post-commit domain events to logs and a message broker.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	applog "travelhub/internal/log"
)

type Kind string

const (
	BookingCreated Kind = "booking.created"
	BookingUpdated Kind = "booking.updated"
	UserRegistered Kind = "user.registered"
)

type Event struct {
	Kind         Kind      `json:"kind"`
	BookingID    string    `json:"booking_id,omitempty"`
	ListingID    string    `json:"listing_id,omitempty"`
	ListingTitle string    `json:"listing_title,omitempty"`
	Status       string    `json:"status,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	Username     string    `json:"username,omitempty"`
	At           time.Time `json:"at"`
}

// Message is the human-readable line for the event.
func (e Event) Message() string {
	switch e.Kind {
	case BookingCreated:
		return fmt.Sprintf("New booking created: %s for %s", e.BookingID, e.ListingTitle)
	case BookingUpdated:
		return fmt.Sprintf("Booking updated: %s - Status: %s", e.BookingID, e.Status)
	case UserRegistered:
		return fmt.Sprintf("New user registered: %s", e.Username)
	}
	return string(e.Kind)
}

// Sink receives events after the triggering write has committed.
// A failing sink never rolls the write back.
type Sink interface {
	Notify(ctx context.Context, e Event) error
}

type LogSink struct{}

func (LogSink) Notify(_ context.Context, e Event) error {
	applog.Info(nil, "notify."+string(e.Kind), map[string]any{
		"message":    e.Message(),
		"booking_id": e.BookingID,
		"listing_id": e.ListingID,
		"status":     e.Status,
		"user_id":    e.UserID,
	})
	return nil
}

// Fanout delivers to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemorySink keeps events in order; safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (m *MemorySink) Notify(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.Err
}

func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MemorySink) Reset() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}
