package usage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/memory"
)

var now = time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)

func TestCapGuard_Allowed(t *testing.T) {
	day := models.DateKey(now)

	tests := []struct {
		name       string
		userCount  int
		global     int
		fail       memory.Op
		wantOK     bool
		wantReason string
	}{
		{name: "fresh day", wantOK: true},
		{name: "user at cap", userCount: 1, wantReason: "user daily cap"},
		{name: "global at cap with idle user", global: 100, wantReason: "global daily cap"},
		{name: "global over cap", global: 150, wantReason: "global daily cap"},
		{name: "global just under cap", global: 99, wantOK: true},
		{name: "read failure fails closed", fail: memory.OpGetUsage, wantReason: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			if tt.userCount > 0 {
				_ = store.IncrementUsage(models.UserScope("u1"), day, tt.userCount)
			}
			if tt.global > 0 {
				_ = store.IncrementUsage(models.GlobalScope, day, tt.global)
			}
			if tt.fail != "" {
				store.Fail(tt.fail, errors.New("deadline exceeded"))
			}

			guard := NewCapGuard(store, clock.Fixed(now), Caps{User: 1, Global: 100})
			got := guard.Allowed("u1")
			if got.Allowed != tt.wantOK {
				t.Fatalf("Allowed = %v (%s), want %v", got.Allowed, got.Reason, tt.wantOK)
			}
			if tt.wantReason != "" && !strings.Contains(got.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to mention %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestCapGuard_UsesUTCDay(t *testing.T) {
	store := memory.NewStore()
	_ = store.IncrementUsage(models.UserScope("u1"), "2024-01-01", 1)

	// 2024-01-02 01:00 in UTC+5 is still 2024-01-01 in UTC.
	local := time.Date(2024, 1, 2, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	if NewCapGuard(store, clock.Fixed(local), Caps{User: 1, Global: 100}).Allowed("u1").Allowed {
		t.Error("expected yesterday's local count to apply on the same UTC day")
	}

	next := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !NewCapGuard(store, clock.Fixed(next), Caps{User: 1, Global: 100}).Allowed("u1").Allowed {
		t.Error("expected a fresh allowance on the next UTC day")
	}
}

func TestCapGuard_NeverWrites(t *testing.T) {
	store := memory.NewStore()
	NewCapGuard(store, clock.Fixed(now), Caps{User: 1, Global: 100}).Allowed("u1")
	if store.Calls(memory.OpIncrementUsage) != 0 {
		t.Error("cap guard must not write counters")
	}
}

func TestCounterWriter_Increment(t *testing.T) {
	store := memory.NewStore()
	w := NewCounterWriter(store, clock.Fixed(now))

	for i := 0; i < 2; i++ {
		if err := w.Increment("u1"); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if err := w.Increment("u2"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	day := models.DateKey(now)
	if n, _ := store.GetUsage(models.UserScope("u1"), day); n != 2 {
		t.Errorf("u1 = %d, want 2", n)
	}
	if n, _ := store.GetUsage(models.UserScope("u2"), day); n != 1 {
		t.Errorf("u2 = %d, want 1", n)
	}
	if n, _ := store.GetUsage(models.GlobalScope, day); n != 3 {
		t.Errorf("global = %d, want 3", n)
	}
}

func TestCounterWriter_ReportsFailure(t *testing.T) {
	store := memory.NewStore()
	store.Fail(memory.OpIncrementUsage, errors.New("read-only replica"))

	err := NewCounterWriter(store, clock.Fixed(now)).Increment("u1")
	if err == nil {
		t.Fatal("expected error")
	}
	if store.Calls(memory.OpIncrementUsage) != 2 {
		t.Errorf("expected both counters to be attempted, got %d calls", store.Calls(memory.OpIncrementUsage))
	}
}
