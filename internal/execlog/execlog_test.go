package execlog

import (
	"errors"
	"testing"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/idempotency"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/memory"
)

func TestWriter_Write(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)
	scheduled := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	intent := models.Intent{ID: "r1", UserID: "u1"}

	err := NewWriter(store, clock.Fixed(now)).Write(Entry{
		Intent:       intent,
		ScheduledFor: scheduled,
		Status:       models.StatusSkippedError,
		Err:          errors.New("ai provider failure: timeout"),
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rec, err := store.GetExecution("u1", idempotency.Key("r1", scheduled))
	if err != nil {
		t.Fatalf("record not stored under idempotency key: %v", err)
	}
	if rec.Status != models.StatusSkippedError || rec.AIUsed || rec.DraftID != "" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Error != "ai provider failure: timeout" {
		t.Errorf("Error = %q", rec.Error)
	}
	if !rec.ExecutedAt.Equal(now) || !rec.ScheduledForUTC.Equal(scheduled) {
		t.Errorf("timestamps = %v / %v", rec.ExecutedAt, rec.ScheduledForUTC)
	}
}

func TestWriter_RejectsIdempotentStatus(t *testing.T) {
	err := NewWriter(memory.NewStore(), clock.Real{}).Write(Entry{
		Intent:       models.Intent{ID: "r1", UserID: "u1"},
		ScheduledFor: time.Now(),
		Status:       models.StatusSkippedIdempotent,
	})
	if err == nil {
		t.Error("skipped_idempotent must never be persisted")
	}
}
