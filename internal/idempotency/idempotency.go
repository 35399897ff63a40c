// Package idempotency derives the deterministic identity of "this intent at
// this scheduled moment" and answers whether that identity has already run.
package idempotency

import (
	"errors"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Key returns intentID + "_" + the UTC scheduled time at nanosecond
// precision. The suffix is fixed width and contains no "_", so distinct
// inputs never collide even when intent ids contain underscores.
func Key(intentID string, scheduledFor time.Time) string {
	return intentID + "_" + scheduledFor.UTC().Format(constants.TimestampFormat)
}

// Reader is the slice of the store the guard needs.
type Reader interface {
	GetExecution(userID, key string) (models.ExecutionRecord, error)
}

type Guard struct {
	store Reader
}

func NewGuard(store Reader) *Guard {
	return &Guard{store: store}
}

// Exists reports whether the intent already ran for scheduledFor. A
// skipped_disabled record does not count: the intent was inert then and must
// still fire at that slot once re-enabled. Read failures fail open.
func (g *Guard) Exists(userID, intentID string, scheduledFor time.Time) bool {
	key := Key(intentID, scheduledFor)
	rec, err := g.store.GetExecution(userID, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Idempotency check failed, proceeding", "user", userID, "key", key, "error", err)
		}
		return false
	}
	return rec.Status != models.StatusSkippedDisabled
}
