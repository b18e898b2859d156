package activity

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// captureWriter records inserted events and signals each write.
type captureWriter struct {
	mu     sync.Mutex
	events []Event
	wrote  chan struct{}
	err    error
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{wrote: make(chan struct{}, 8)}
}

func (w *captureWriter) InsertActivity(_ context.Context, id, userID, capability, contextType, contextID string, at time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		w.wrote <- struct{}{}
		return w.err
	}
	w.events = append(w.events, Event{
		ID:          id,
		UserID:      userID,
		Capability:  capability,
		ContextType: contextType,
		ContextID:   contextID,
		OccurredAt:  at,
	})
	w.wrote <- struct{}{}
	return nil
}

func (w *captureWriter) recorded() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Event, len(w.events))
	copy(out, w.events)
	return out
}

func waitForWrite(t *testing.T, w *captureWriter) {
	t.Helper()
	select {
	case <-w.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("Write never happened")
	}
}

func TestStoreRecorderWritesEvent(t *testing.T) {
	writer := newCaptureWriter()
	rec := NewStoreRecorder(writer, quietLogger(), nil)

	rec.Record(context.Background(), Event{
		UserID:      "user-1",
		Capability:  "CAN_MANAGE_CLUB_SETTINGS",
		ContextType: "club",
		ContextID:   "club-1",
	})

	waitForWrite(t, writer)

	events := writer.recorded()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.UserID != "user-1" || got.Capability != "CAN_MANAGE_CLUB_SETTINGS" || got.ContextID != "club-1" {
		t.Errorf("Unexpected event: %+v", got)
	}
	if got.ID == "" {
		t.Error("Expected a generated event id")
	}
	if got.OccurredAt.IsZero() {
		t.Error("Expected a populated timestamp")
	}
}

func TestStoreRecorderKeepsCallerFields(t *testing.T) {
	writer := newCaptureWriter()
	rec := NewStoreRecorder(writer, quietLogger(), nil)

	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rec.Record(context.Background(), Event{
		ID:         "evt-supplied",
		UserID:     "user-1",
		Capability: "CAN_PIN_DISCUSSIONS",
		OccurredAt: at,
	})

	waitForWrite(t, writer)

	events := writer.recorded()
	if events[0].ID != "evt-supplied" {
		t.Errorf("Supplied id should survive, got %q", events[0].ID)
	}
	if !events[0].OccurredAt.Equal(at) {
		t.Errorf("Supplied timestamp should survive, got %v", events[0].OccurredAt)
	}
}

// TestStoreRecorderOutlivesRequestContext pins the detachment: a
// canceled request context must not stop the write.
func TestStoreRecorderOutlivesRequestContext(t *testing.T) {
	writer := newCaptureWriter()
	rec := NewStoreRecorder(writer, quietLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec.Record(ctx, Event{UserID: "user-1", Capability: "CAN_RSVP_TO_EVENTS"})

	waitForWrite(t, writer)

	if len(writer.recorded()) != 1 {
		t.Error("Write should proceed despite the canceled request context")
	}
}

func TestNopRecorder(t *testing.T) {
	// Must simply not panic.
	NopRecorder{}.Record(context.Background(), Event{UserID: "user-1"})
}
