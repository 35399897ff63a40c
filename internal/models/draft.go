package models

import "time"

// Draft is the immutable output of an execution, owned by the intent's user.
type Draft struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	IntentID        string       `json:"intent_id"`
	Type            ReminderType `json:"type"`
	Content         string       `json:"content"`
	ScheduledForUTC time.Time    `json:"scheduled_for_utc"`
	CreatedAt       time.Time    `json:"created_at"`
}
