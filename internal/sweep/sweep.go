// Package sweep finds due intents and runs them through the engine one at a
// time. Sweeps are not mutually exclusive; overlapping runs rely on the
// engine's idempotency check.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/engine"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// DueQuerier returns enabled intents with NextRunAtUTC <= now, oldest first.
type DueQuerier interface {
	QueryDueIntents(now time.Time, limit int) ([]models.Intent, error)
}

// Runner executes a single intent.
type Runner interface {
	RunOne(ctx context.Context, ref models.IntentRef) engine.Outcome
}

// Summary counts one sweep. Failed counts skipped_error outcomes and
// recovered panics; every other outcome is a success.
type Summary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type Sweeper struct {
	store     DueQuerier
	runner    Runner
	clock     clock.Clock
	batchSize int
}

func New(store DueQuerier, runner Runner, clk clock.Clock, batchSize int) *Sweeper {
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}
	return &Sweeper{store: store, runner: runner, clock: clk, batchSize: batchSize}
}

// Run processes up to one batch of due intents. Only a failed due query is
// returned as an error. Once ctx is done no further intents are picked up.
func (s *Sweeper) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	now := s.clock.Now()

	due, err := s.store.QueryDueIntents(now, s.batchSize)
	if err != nil {
		logger.Error("Due intent query failed", "error", err)
		return sum, fmt.Errorf("failed to query due intents: %w", err)
	}
	logger.Debug("Sweep started", "now", now, "due", len(due), "batch_size", s.batchSize)

	for i, intent := range due {
		if ctx.Err() != nil {
			logger.Warn("Sweep cancelled", "remaining", len(due)-i, "error", ctx.Err())
			break
		}

		sum.Processed++
		if s.runOne(ctx, intent.Ref()) {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
	}

	logger.Info("Sweep finished", "processed", sum.Processed, "succeeded", sum.Succeeded, "failed", sum.Failed)
	return sum, nil
}

func (s *Sweeper) runOne(ctx context.Context, ref models.IntentRef) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Intent panicked during sweep", "intent", ref, "panic", r)
			ok = false
		}
	}()

	out := s.runner.RunOne(ctx, ref)
	if out.Failed() {
		logger.Warn("Intent failed during sweep", "intent", ref, "error", out.Err)
		return false
	}
	return true
}
