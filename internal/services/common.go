package services

import (
	"context"
	"time"

	"travelhub/internal/domain"
	applog "travelhub/internal/log"
	"travelhub/internal/metrics"
	"travelhub/internal/notify"
	"travelhub/internal/repos"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Page is the list response envelope.
type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

func newPage[T any](items []T, total int, p repos.Page) Page[T] {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return Page[T]{Count: total, Page: p.Number, PageSize: p.Size, Results: items}
}

var errNotPermitted = &domain.ForbiddenError{Detail: "You do not have permission to perform this action."}

func now() time.Time { return time.Now().UTC() }

// required flags each named field whose value was not supplied.
func required(verr *domain.ValidationError, missing map[string]bool) {
	for field, isMissing := range missing {
		if isMissing {
			verr.Add(field, "This field is required.")
		}
	}
}

// emit delivers e after the triggering write committed. Failures are counted
// and logged; they never reach the caller.
func emit(ctx context.Context, sink notify.Sink, e notify.Event) {
	if sink == nil {
		return
	}
	e.At = now()
	if err := sink.Notify(ctx, e); err != nil {
		metrics.Notification(string(e.Kind), "error")
		applog.Error(nil, "notify.fail", err, map[string]any{"kind": string(e.Kind), "booking_id": e.BookingID})
		return
	}
	metrics.Notification(string(e.Kind), "ok")
}
