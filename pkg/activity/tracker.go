// Package activity records which capabilities were exercised, by whom,
// and in what context. Recording is best-effort by contract: Record has
// no error channel, and write failures are counted, never surfaced.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/async"
	"github.com/chapterhouse/bookclub/pkg/observability"
	"github.com/chapterhouse/bookclub/pkg/store"
)

const writeTimeout = 5 * time.Second

// Event is one capability-exercise record.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Capability  string    `json:"capability"`
	ContextType string    `json:"context_type,omitempty"`
	ContextID   string    `json:"context_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Recorder accepts activity events. The missing error return is the
// contract: recording is non-blocking and may not happen.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// StoreRecorder writes events to the record store in the background.
type StoreRecorder struct {
	writer  store.ActivityWriter
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewStoreRecorder creates a new StoreRecorder. metrics may be nil.
func NewStoreRecorder(writer store.ActivityWriter, log *logrus.Logger, metrics *observability.Metrics) *StoreRecorder {
	if log == nil {
		log = logrus.New()
	}
	return &StoreRecorder{writer: writer, log: log, metrics: metrics}
}

// Record queues a fire-and-forget write of the event. The write outlives
// the request that triggered it, so it runs detached from ctx's
// cancellation with its own timeout.
func (r *StoreRecorder) Record(_ context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	onError := func(error) {
		if r.metrics != nil {
			r.metrics.ActivityTrackingFailures.Inc()
		}
	}

	async.SafeGo(context.Background(), writeTimeout, "activity tracking", r.log, onError, func(ctx context.Context) error {
		return r.writer.InsertActivity(ctx, event.ID, event.UserID, event.Capability, event.ContextType, event.ContextID, event.OccurredAt)
	})
}

// NopRecorder discards all events, for tests and wiring without a store.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Event) {}
