package models

import "time"

// ExecutionStatus is the terminal outcome of one execution attempt.
type ExecutionStatus string

const (
	StatusExecuted        ExecutionStatus = "executed"
	StatusSkippedDisabled ExecutionStatus = "skipped_disabled"
	StatusSkippedCap      ExecutionStatus = "skipped_cap"
	StatusSkippedError    ExecutionStatus = "skipped_error"
	// StatusSkippedIdempotent is reported to callers but never persisted: an
	// attempt that finds its key already executed writes nothing.
	StatusSkippedIdempotent ExecutionStatus = "skipped_idempotent"
)

// Persisted reports whether records with this status are written to the store.
func (s ExecutionStatus) Persisted() bool {
	return s != StatusSkippedIdempotent && s != ""
}

// ExecutionRecord is the audit entry for an intent at one scheduled moment.
// Key is derived from (IntentID, ScheduledForUTC) and doubles as the
// idempotency key.
type ExecutionRecord struct {
	Key             string          `json:"key"`
	UserID          string          `json:"user_id"`
	IntentID        string          `json:"intent_id"`
	ScheduledForUTC time.Time       `json:"scheduled_for_utc"`
	Status          ExecutionStatus `json:"status"`
	AIUsed          bool            `json:"ai_used"`
	DraftID         string          `json:"draft_id,omitempty"`
	Error           string          `json:"error,omitempty"`
	ExecutedAt      time.Time       `json:"executed_at"`
}
