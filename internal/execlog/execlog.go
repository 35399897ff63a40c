// Package execlog writes the audit record of each execution attempt. Records
// are not transactional with drafts, counters or schedule changes.
package execlog

import (
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/idempotency"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

type Store interface {
	SaveExecution(models.ExecutionRecord) error
}

// Entry is what the engine knows about an attempt when it finishes.
type Entry struct {
	Intent       models.Intent
	ScheduledFor time.Time
	Status       models.ExecutionStatus
	AIUsed       bool
	DraftID      string
	Err          error
}

type Writer struct {
	store Store
	clock clock.Clock
}

func NewWriter(store Store, clk clock.Clock) *Writer {
	return &Writer{store: store, clock: clk}
}

// Write stores the record under the idempotency key of (intent, scheduledFor).
func (w *Writer) Write(e Entry) error {
	rec := models.ExecutionRecord{
		Key:             idempotency.Key(e.Intent.ID, e.ScheduledFor),
		UserID:          e.Intent.UserID,
		IntentID:        e.Intent.ID,
		ScheduledForUTC: e.ScheduledFor.UTC(),
		Status:          e.Status,
		AIUsed:          e.AIUsed,
		DraftID:         e.DraftID,
		ExecutedAt:      w.clock.Now(),
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	return w.store.SaveExecution(rec)
}
