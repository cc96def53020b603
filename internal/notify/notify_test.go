package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "travelhub/internal/log"
	"travelhub/internal/notify"
)

func TestMessages(t *testing.T) {
	assert.Equal(t, "New booking created: b-1 for Loft",
		notify.Event{Kind: notify.BookingCreated, BookingID: "b-1", ListingTitle: "Loft"}.Message())
	assert.Equal(t, "Booking updated: b-1 - Status: confirmed",
		notify.Event{Kind: notify.BookingUpdated, BookingID: "b-1", Status: "confirmed"}.Message())
	assert.Equal(t, "New user registered: carol",
		notify.Event{Kind: notify.UserRegistered, Username: "carol"}.Message())
}

func TestFanoutDeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &notify.MemorySink{}
	bad := &notify.MemorySink{Err: errors.New("broker down")}
	f := notify.Fanout{bad, nil, ok}

	err := f.Notify(context.Background(), notify.Event{Kind: notify.BookingCreated, BookingID: "b-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Len(t, ok.Events(), 1)
	assert.Len(t, bad.Events(), 1)
}

func TestLogSinkWritesEntry(t *testing.T) {
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	defer applog.SetOutput(os.Stdout)

	require.NoError(t, notify.LogSink{}.Notify(context.Background(),
		notify.Event{Kind: notify.BookingUpdated, BookingID: "b-9", Status: "cancelled"}))

	var entry struct {
		Action string         `json:"action"`
		Fields map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "notify.booking.updated", entry.Action)
	assert.Equal(t, "Booking updated: b-9 - Status: cancelled", entry.Fields["message"])
}
