// Package drafts persists execution output as immutable, user-owned artifacts.
package drafts

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Store appends drafts. There is no update or delete.
type Store interface {
	AddDraft(models.Draft) error
}

type Writer struct {
	store Store
	clock clock.Clock
	newID func() (uuid.UUID, error)
}

func NewWriter(store Store, clk clock.Clock) *Writer {
	return &Writer{store: store, clock: clk, newID: uuid.NewV7}
}

// Write stores body as a new draft for intent at scheduledFor and returns its
// id. Each call gets a fresh time-ordered id, so concurrent writers never
// collide.
func (w *Writer) Write(intent models.Intent, body string, scheduledFor time.Time) (string, error) {
	id, err := w.newID()
	if err != nil {
		return "", fmt.Errorf("failed to generate draft id: %w", err)
	}

	draft := models.Draft{
		ID:              id.String(),
		UserID:          intent.UserID,
		IntentID:        intent.ID,
		Type:            intent.ReminderType,
		Content:         body,
		ScheduledForUTC: scheduledFor.UTC(),
		CreatedAt:       w.clock.Now(),
	}
	if err := w.store.AddDraft(draft); err != nil {
		return "", err
	}
	return draft.ID, nil
}
