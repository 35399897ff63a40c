// Package engine runs the per-intent state machine: load, enablement,
// idempotency, routing, cap, generation, draft, advance, record.
//
// RunOne never returns an error and never panics. Every failure degrades to a
// recorded skip so one bad intent cannot affect the rest of a sweep.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/besteffort"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/drafts"
	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/execlog"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/generator"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/idempotency"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/schedule"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/usage"
)

// Store is everything the engine reads and writes.
type Store interface {
	GetIntent(ref models.IntentRef) (models.Intent, error)
	idempotency.Reader
	usage.Reader
	usage.Incrementer
	schedule.Writer
	drafts.Store
	execlog.Store
}

type Config struct {
	Caps      usage.Caps
	AITimeout time.Duration
}

// Outcome describes how one RunOne call ended.
type Outcome struct {
	Ref             models.IntentRef
	Status          models.ExecutionStatus
	Key             string
	ScheduledForUTC time.Time
	AIUsed          bool
	DraftID         string
	Err             error
}

// Failed reports whether the attempt ended in skipped_error.
func (o Outcome) Failed() bool { return o.Status == models.StatusSkippedError }

type Engine struct {
	store    Store
	clock    clock.Clock
	guard    *idempotency.Guard
	caps     *usage.CapGuard
	counters *usage.CounterWriter
	gen      *generator.Boundary
	drafts   *drafts.Writer
	advancer *schedule.Advancer
	log      *execlog.Writer
}

// New wires the engine. gen is always called through a generator.Boundary
// with cfg.AITimeout.
func New(store Store, gen generator.Generator, clk clock.Clock, cfg Config) *Engine {
	return &Engine{
		store:    store,
		clock:    clk,
		guard:    idempotency.NewGuard(store),
		caps:     usage.NewCapGuard(store, clk, cfg.Caps),
		counters: usage.NewCounterWriter(store, clk),
		gen:      generator.NewBoundary(gen, cfg.AITimeout),
		drafts:   drafts.NewWriter(store, clk),
		advancer: schedule.NewAdvancer(store, clk),
		log:      execlog.NewWriter(store, clk),
	}
}

// RunOne executes the intent at ref for its current NextRunAtUTC.
func (e *Engine) RunOne(ctx context.Context, ref models.IntentRef) (out Outcome) {
	out.Ref = ref
	defer func() {
		if r := recover(); r != nil {
			out.Status = models.StatusSkippedError
			out.Err = fmt.Errorf("execution panicked: %v", r)
			logger.Error("Execution panicked", "intent", ref, "panic", r)
		}
	}()

	intent, err := e.store.GetIntent(ref)
	if err != nil {
		out.Status = models.StatusSkippedError
		out.Err = fmt.Errorf("failed to load intent %s: %w", ref, err)
		e.report(out)
		return out
	}
	// The owner always comes from the path.
	intent.UserID = ref.UserID

	scheduledFor := intent.NextRunAtUTC.UTC()
	out.ScheduledForUTC = scheduledFor
	out.Key = idempotency.Key(intent.ID, scheduledFor)

	if !intent.Enabled {
		out.Status = models.StatusSkippedDisabled
		e.record(intent, out)
		return out
	}

	if e.guard.Exists(ref.UserID, intent.ID, scheduledFor) {
		out.Status = models.StatusSkippedIdempotent
		e.report(out)
		return out
	}

	var body string
	switch intent.ReminderType {
	case models.ReminderSimple:
		body, err = simpleBody(intent)
		if err != nil {
			return e.fail(intent, out, err)
		}

	case models.ReminderAI:
		if intent.Content.AI == nil {
			return e.fail(intent, out, apperrors.Dataf("ai intent %s has no prompt", ref))
		}
		decision := e.caps.Allowed(ref.UserID)
		if !decision.Allowed {
			out.Status = models.StatusSkippedCap
			out.Err = fmt.Errorf("%w: %s", apperrors.ErrPolicy, decision.Reason)
			e.advancer.Advance(intent, scheduledFor)
			e.record(intent, out)
			return out
		}

		body, err = e.gen.Generate(ctx, generator.BuildPrompt(*intent.Content.AI))
		if err != nil {
			return e.fail(intent, out, err)
		}
		out.AIUsed = true
		besteffort.Run("increment_usage", func() error {
			return e.counters.Increment(ref.UserID)
		}).Discard("intent", ref)

	default:
		// No known schedule semantics, so the intent is not advanced.
		out.Status = models.StatusSkippedError
		out.Err = apperrors.Dataf("unknown reminder type %q", intent.ReminderType)
		e.record(intent, out)
		return out
	}

	var draftID string
	if besteffort.Run("write_draft", func() error {
		var err error
		draftID, err = e.drafts.Write(intent, body, scheduledFor)
		return err
	}).Discard("intent", ref) {
		out.DraftID = draftID
	}

	out.Status = models.StatusExecuted
	e.advancer.Advance(intent, scheduledFor)
	e.record(intent, out)
	return out
}

// fail ends a known-type attempt as skipped_error. The schedule still
// advances.
func (e *Engine) fail(intent models.Intent, out Outcome, err error) Outcome {
	out.Status = models.StatusSkippedError
	out.AIUsed = false
	out.Err = err
	e.advancer.Advance(intent, out.ScheduledForUTC)
	e.record(intent, out)
	return out
}

func simpleBody(intent models.Intent) (string, error) {
	if intent.Content.Simple == nil || intent.Content.Simple.Message == "" {
		return "", apperrors.Dataf("simple intent %s has no message", intent.Ref())
	}
	return intent.Content.Simple.Message, nil
}

// record writes the execution record and logs the outcome.
func (e *Engine) record(intent models.Intent, out Outcome) {
	besteffort.Run("write_execution", func() error {
		return e.log.Write(execlog.Entry{
			Intent:       intent,
			ScheduledFor: out.ScheduledForUTC,
			Status:       out.Status,
			AIUsed:       out.AIUsed,
			DraftID:      out.DraftID,
			Err:          out.Err,
		})
	}).Discard("intent", out.Ref, "key", out.Key)
	e.report(out)
}

func (e *Engine) report(out Outcome) {
	kv := []interface{}{"intent", out.Ref, "status", out.Status}
	if out.Key != "" {
		kv = append(kv, "key", out.Key)
	}
	if out.DraftID != "" {
		kv = append(kv, "draft", out.DraftID)
	}
	if out.Err == nil {
		logger.Info("Execution finished", kv...)
		return
	}

	kind := apperrors.Classify(out.Err)
	kv = append(kv, "kind", kind, "error", out.Err)
	switch kind {
	case apperrors.KindData:
		logger.Error("Execution failed", kv...)
	case apperrors.KindPolicy:
		logger.Info("Execution skipped", kv...)
	default:
		logger.Warn("Execution failed", kv...)
	}
}
