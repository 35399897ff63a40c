package schedule

import (
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Writer holds the two system-owned intent writes.
type Writer interface {
	UpdateNextRun(ref models.IntentRef, next time.Time, updatedAt time.Time) error
	DisableIntent(ref models.IntentRef, updatedAt time.Time) error
}

type Advancer struct {
	store Writer
	clock clock.Clock
}

func NewAdvancer(store Writer, clk clock.Clock) *Advancer {
	return &Advancer{store: store, clock: clk}
}

// Advance moves intent past scheduledFor. One-time intents are disabled and
// keep their NextRunAtUTC. Failures are logged and swallowed.
func (a *Advancer) Advance(intent models.Intent, scheduledFor time.Time) {
	ref := intent.Ref()
	now := a.clock.Now()

	if intent.IsOneTime() {
		if err := a.store.DisableIntent(ref, now); err != nil {
			logger.Error("Failed to disable one-time intent", "intent", ref, "error", err)
			return
		}
		logger.Debug("Disabled one-time intent", "intent", ref)
		return
	}

	next, err := Next(intent.Frequency, intent.Schedule, scheduledFor)
	if err != nil {
		logger.Error("Failed to compute next run", "intent", ref, "scheduled_for", scheduledFor, "error", err)
		return
	}
	if err := a.store.UpdateNextRun(ref, next, now); err != nil {
		logger.Error("Failed to write next run", "intent", ref, "next_run", next, "error", err)
		return
	}
	logger.Debug("Advanced intent", "intent", ref, "scheduled_for", scheduledFor, "next_run", next)
}
