// Package usage gates and counts paid AI calls per user and system-wide.
//
// The cap guard only reads and fails closed. The counter writer only
// increments, associatively, so concurrent writers never lose updates.
package usage

import (
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Reader reads a counter; a missing counter reads as zero.
type Reader interface {
	GetUsage(scope models.UsageScope, dateKey string) (int, error)
}

// Incrementer adds to a counter without reading it.
type Incrementer interface {
	IncrementUsage(scope models.UsageScope, dateKey string, delta int) error
}

// Caps are the daily limits. A cap of zero denies every call.
type Caps struct {
	User   int
	Global int
}

// Decision is the result of a cap check.
type Decision struct {
	Allowed bool
	Reason  string
}

type CapGuard struct {
	store Reader
	clock clock.Clock
	caps  Caps
}

func NewCapGuard(store Reader, clk clock.Clock, caps Caps) *CapGuard {
	return &CapGuard{store: store, clock: clk, caps: caps}
}

// Allowed reports whether userID may make one more AI call today (UTC).
func (g *CapGuard) Allowed(userID string) Decision {
	day := models.DateKey(g.clock.Now())

	userCount, err := g.store.GetUsage(models.UserScope(userID), day)
	if err != nil {
		logger.Warn("Usage read failed, denying", "user", userID, "scope", "user", "error", err)
		return Decision{Reason: fmt.Sprintf("user usage unavailable: %v", err)}
	}
	if userCount >= g.caps.User {
		return Decision{Reason: fmt.Sprintf("user daily cap reached (%d/%d)", userCount, g.caps.User)}
	}

	globalCount, err := g.store.GetUsage(models.GlobalScope, day)
	if err != nil {
		logger.Warn("Usage read failed, denying", "user", userID, "scope", "global", "error", err)
		return Decision{Reason: fmt.Sprintf("global usage unavailable: %v", err)}
	}
	if globalCount >= g.caps.Global {
		return Decision{Reason: fmt.Sprintf("global daily cap reached (%d/%d)", globalCount, g.caps.Global)}
	}

	return Decision{Allowed: true}
}

type CounterWriter struct {
	store Incrementer
	clock clock.Clock
}

func NewCounterWriter(store Incrementer, clk clock.Clock) *CounterWriter {
	return &CounterWriter{store: store, clock: clk}
}

// Increment records one AI call against the user and global counters for
// today. Both increments are attempted even if the first fails.
func (w *CounterWriter) Increment(userID string) error {
	day := models.DateKey(w.clock.Now())

	userErr := w.store.IncrementUsage(models.UserScope(userID), day, 1)
	globalErr := w.store.IncrementUsage(models.GlobalScope, day, 1)

	switch {
	case userErr != nil && globalErr != nil:
		return fmt.Errorf("failed to increment user and global usage: %v; %w", userErr, globalErr)
	case userErr != nil:
		return fmt.Errorf("failed to increment user usage: %w", userErr)
	case globalErr != nil:
		return fmt.Errorf("failed to increment global usage: %w", globalErr)
	}
	return nil
}
