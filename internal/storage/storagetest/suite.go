// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage"
)

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Intent returns a valid daily simple intent due at next.
func Intent(userID, id string, next time.Time) models.Intent {
	return models.Intent{
		ID:           id,
		UserID:       userID,
		Enabled:      true,
		Frequency:    models.FrequencyDaily,
		Schedule:     models.Schedule{Time: "09:00", Timezone: "UTC"},
		ReminderType: models.ReminderSimple,
		Content:      models.NewSimpleContent("Post the standup notes"),
		NextRunAtUTC: next,
		CreatedAt:    base.Add(-24 * time.Hour),
		UpdatedAt:    base.Add(-24 * time.Hour),
	}
}

// Run exercises a freshly initialised provider. newProvider must return an
// empty, ready-to-use store.
func Run(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Run("IntentRoundTrip", func(t *testing.T) {
		s := newProvider(t)
		in := Intent("u1", "r1", base)
		in.ReminderType = models.ReminderAI
		in.Content = models.NewAIContent(models.AIContent{Prompt: "Weekly recap", Tone: "warm", Platform: "linkedin"})
		in.Frequency = models.FrequencyWeekly
		in.Schedule.DaysOfWeek = []time.Weekday{time.Monday, time.Thursday}
		in.Schedule.Timezone = "Europe/Berlin"

		if err := s.AddIntent(in); err != nil {
			t.Fatalf("AddIntent failed: %v", err)
		}
		got, err := s.GetIntent(in.Ref())
		if err != nil {
			t.Fatalf("GetIntent failed: %v", err)
		}
		if got.UserID != "u1" || got.ID != "r1" || !got.Enabled {
			t.Errorf("unexpected identity: %+v", got)
		}
		if !got.NextRunAtUTC.Equal(base) {
			t.Errorf("NextRunAtUTC = %v, want %v", got.NextRunAtUTC, base)
		}
		if got.Content.AI == nil || got.Content.AI.Prompt != "Weekly recap" {
			t.Errorf("content not preserved: %+v", got.Content)
		}
		if len(got.Schedule.DaysOfWeek) != 2 || got.Schedule.Timezone != "Europe/Berlin" {
			t.Errorf("schedule not preserved: %+v", got.Schedule)
		}
	})

	t.Run("GetIntentNotFound", func(t *testing.T) {
		s := newProvider(t)
		_, err := s.GetIntent(models.IntentRef{UserID: "u1", IntentID: "missing"})
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("IntentsAreScopedByOwner", func(t *testing.T) {
		s := newProvider(t)
		mustAdd(t, s, Intent("u1", "r1", base))
		mustAdd(t, s, Intent("u2", "r1", base))

		list, err := s.ListIntents("u1")
		if err != nil {
			t.Fatalf("ListIntents failed: %v", err)
		}
		if len(list) != 1 || list[0].UserID != "u1" {
			t.Errorf("expected only u1's intent, got %+v", list)
		}
		if _, err := s.GetIntent(models.IntentRef{UserID: "u3", IntentID: "r1"}); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("foreign owner lookup should miss, got %v", err)
		}

		all, err := s.AllIntents()
		if err != nil {
			t.Fatalf("AllIntents failed: %v", err)
		}
		if len(all) != 2 || all[0].UserID != "u1" || all[1].UserID != "u2" {
			t.Errorf("AllIntents = %+v, want u1 then u2", all)
		}
	})

	t.Run("QueryDueIntents", func(t *testing.T) {
		s := newProvider(t)
		mustAdd(t, s, Intent("u1", "late", base.Add(-2*time.Hour)))
		mustAdd(t, s, Intent("u1", "now", base))
		mustAdd(t, s, Intent("u2", "earliest", base.Add(-3*time.Hour)))
		mustAdd(t, s, Intent("u1", "future", base.Add(time.Minute)))
		off := Intent("u1", "off", base.Add(-time.Hour))
		off.Enabled = false
		mustAdd(t, s, off)

		due, err := s.QueryDueIntents(base, 10)
		if err != nil {
			t.Fatalf("QueryDueIntents failed: %v", err)
		}
		var ids []string
		for _, in := range due {
			ids = append(ids, in.ID)
		}
		want := []string{"earliest", "late", "now"}
		if len(ids) != len(want) {
			t.Fatalf("due = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("due[%d] = %s, want %s", i, ids[i], want[i])
			}
		}

		limited, err := s.QueryDueIntents(base, 2)
		if err != nil {
			t.Fatalf("QueryDueIntents failed: %v", err)
		}
		if len(limited) != 2 || limited[0].ID != "earliest" {
			t.Errorf("limit not applied in order: %+v", limited)
		}
	})

	t.Run("SystemWrites", func(t *testing.T) {
		s := newProvider(t)
		in := Intent("u1", "r1", base)
		mustAdd(t, s, in)

		next := base.Add(24 * time.Hour)
		if err := s.UpdateNextRun(in.Ref(), next, base); err != nil {
			t.Fatalf("UpdateNextRun failed: %v", err)
		}
		if err := s.DisableIntent(in.Ref(), base); err != nil {
			t.Fatalf("DisableIntent failed: %v", err)
		}
		got, err := s.GetIntent(in.Ref())
		if err != nil {
			t.Fatalf("GetIntent failed: %v", err)
		}
		if !got.NextRunAtUTC.Equal(next) || got.Enabled {
			t.Errorf("system writes not applied: next=%v enabled=%v", got.NextRunAtUTC, got.Enabled)
		}
		if got.Content.Simple == nil || got.Content.Simple.Message != "Post the standup notes" {
			t.Errorf("system writes touched content: %+v", got.Content)
		}

		if err := s.SetIntentEnabled(in.Ref(), true, base); err != nil {
			t.Fatalf("SetIntentEnabled failed: %v", err)
		}
		got, _ = s.GetIntent(in.Ref())
		if !got.Enabled {
			t.Error("expected intent to be re-enabled")
		}

		missing := models.IntentRef{UserID: "u1", IntentID: "missing"}
		if err := s.UpdateNextRun(missing, next, base); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing intent, got %v", err)
		}
	})

	t.Run("ExecutionsAreWriteOnce", func(t *testing.T) {
		s := newProvider(t)
		rec := models.ExecutionRecord{
			Key: "r1_k", UserID: "u1", IntentID: "r1", ScheduledForUTC: base,
			Status: models.StatusExecuted, DraftID: "d1", ExecutedAt: base,
		}
		if err := s.SaveExecution(rec); err != nil {
			t.Fatalf("SaveExecution failed: %v", err)
		}
		dup := rec
		dup.Status = models.StatusSkippedError
		dup.DraftID = ""
		if err := s.SaveExecution(dup); err != nil {
			t.Fatalf("duplicate SaveExecution should be a no-op, got %v", err)
		}
		got, err := s.GetExecution("u1", "r1_k")
		if err != nil {
			t.Fatalf("GetExecution failed: %v", err)
		}
		if got.Status != models.StatusExecuted || got.DraftID != "d1" {
			t.Errorf("record overwritten: %+v", got)
		}
		if _, err := s.GetExecution("u2", "r1_k"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("execution visible to another user: %v", err)
		}
	})

	t.Run("DisabledSkipIsSuperseded", func(t *testing.T) {
		s := newProvider(t)
		rec := models.ExecutionRecord{
			Key: "r1_k", UserID: "u1", IntentID: "r1", ScheduledForUTC: base,
			Status: models.StatusSkippedDisabled, ExecutedAt: base,
		}
		if err := s.SaveExecution(rec); err != nil {
			t.Fatalf("SaveExecution failed: %v", err)
		}
		rec.Status = models.StatusExecuted
		rec.ExecutedAt = base.Add(time.Hour)
		if err := s.SaveExecution(rec); err != nil {
			t.Fatalf("SaveExecution failed: %v", err)
		}
		got, err := s.GetExecution("u1", "r1_k")
		if err != nil {
			t.Fatalf("GetExecution failed: %v", err)
		}
		if got.Status != models.StatusExecuted {
			t.Errorf("status = %s, want executed", got.Status)
		}

		list, err := s.ListExecutions("u1", 10)
		if err != nil {
			t.Fatalf("ListExecutions failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("expected one record per key, got %d", len(list))
		}
	})

	t.Run("IdempotentStatusIsRejected", func(t *testing.T) {
		s := newProvider(t)
		err := s.SaveExecution(models.ExecutionRecord{
			Key: "k", UserID: "u1", IntentID: "r1", Status: models.StatusSkippedIdempotent,
			ScheduledForUTC: base, ExecutedAt: base,
		})
		if err == nil {
			t.Error("expected skipped_idempotent records to be rejected")
		}
	})

	t.Run("Drafts", func(t *testing.T) {
		s := newProvider(t)
		for i, id := range []string{"d1", "d2"} {
			d := models.Draft{
				ID: id, UserID: "u1", IntentID: "r1", Type: models.ReminderSimple,
				Content: "body " + id, ScheduledForUTC: base, CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := s.AddDraft(d); err != nil {
				t.Fatalf("AddDraft failed: %v", err)
			}
		}
		if err := s.AddDraft(models.Draft{ID: "d1", UserID: "u1", IntentID: "r1", ScheduledForUTC: base, CreatedAt: base}); err == nil {
			t.Error("expected duplicate draft id to be rejected")
		}

		list, err := s.ListDrafts("u1", 10)
		if err != nil {
			t.Fatalf("ListDrafts failed: %v", err)
		}
		if len(list) != 2 || list[0].ID != "d2" {
			t.Errorf("expected newest first, got %+v", list)
		}
		if list[1].Content != "body d1" {
			t.Errorf("content not preserved: %q", list[1].Content)
		}
		others, _ := s.ListDrafts("u2", 10)
		if len(others) != 0 {
			t.Errorf("drafts leaked across users: %+v", others)
		}
	})

	t.Run("UsageCounters", func(t *testing.T) {
		s := newProvider(t)
		day := models.DateKey(base)
		if n, err := s.GetUsage(models.UserScope("u1"), day); err != nil || n != 0 {
			t.Fatalf("fresh counter = %d, %v; want 0, nil", n, err)
		}
		for i := 0; i < 3; i++ {
			if err := s.IncrementUsage(models.GlobalScope, day, 1); err != nil {
				t.Fatalf("IncrementUsage failed: %v", err)
			}
		}
		if err := s.IncrementUsage(models.UserScope("u1"), day, 1); err != nil {
			t.Fatalf("IncrementUsage failed: %v", err)
		}

		if n, _ := s.GetUsage(models.GlobalScope, day); n != 3 {
			t.Errorf("global = %d, want 3", n)
		}
		if n, _ := s.GetUsage(models.UserScope("u1"), day); n != 1 {
			t.Errorf("user = %d, want 1", n)
		}
		if n, _ := s.GetUsage(models.GlobalScope, models.DateKey(base.Add(24*time.Hour))); n != 0 {
			t.Errorf("next day = %d, want 0", n)
		}
	})
}

func mustAdd(t *testing.T, s storage.Provider, in models.Intent) {
	t.Helper()
	if err := s.AddIntent(in); err != nil {
		t.Fatalf("AddIntent(%s) failed: %v", in.ID, err)
	}
}
