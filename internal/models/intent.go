package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
)

// Frequency is how often an intent fires.
type Frequency string

const (
	FrequencyOneTime    Frequency = "one_time"
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyWeekdays   Frequency = "weekdays"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyEveryNDays Frequency = "every_n_days"
)

// ReminderType selects the content payload.
type ReminderType string

const (
	ReminderSimple ReminderType = "simple"
	ReminderAI     ReminderType = "ai"
)

// Schedule holds the frequency-specific parameters of an intent. Which fields
// matter depends on the intent's Frequency.
type Schedule struct {
	Time         string         `json:"time" validate:"required,datetime=15:04"`                      // HH:MM in Timezone
	Timezone     string         `json:"timezone,omitempty" validate:"omitempty,timezone"`             // IANA name, UTC when empty
	Date         string         `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`      // one_time only
	DaysOfWeek   []time.Weekday `json:"days_of_week,omitempty" validate:"omitempty,dive,min=0,max=6"` // weekly only
	DayOfMonth   int            `json:"day_of_month,omitempty" validate:"omitempty,min=1,max=31"`     // monthly only
	IntervalDays int            `json:"interval_days,omitempty" validate:"omitempty,min=1"`           // every_n_days only
}

// SimpleContent is a static message copied into the draft verbatim.
type SimpleContent struct {
	Message string `json:"message" validate:"required"`
}

// AIContent carries the generation parameters for an AI draft.
type AIContent struct {
	Prompt   string `json:"prompt" validate:"required"`
	Role     string `json:"role,omitempty"`
	Tone     string `json:"tone,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Content is a tagged union: exactly one of Simple or AI is set, matching
// Type. A stored document with an unrecognised type decodes with Type set and
// both payloads nil so the engine can reject it at routing time.
type Content struct {
	Type   ReminderType
	Simple *SimpleContent
	AI     *AIContent
}

func NewSimpleContent(message string) Content {
	return Content{Type: ReminderSimple, Simple: &SimpleContent{Message: message}}
}

func NewAIContent(ai AIContent) Content {
	return Content{Type: ReminderAI, AI: &ai}
}

type contentWire struct {
	Type     ReminderType `json:"type"`
	Message  string       `json:"message,omitempty"`
	Prompt   string       `json:"prompt,omitempty"`
	Role     string       `json:"role,omitempty"`
	Tone     string       `json:"tone,omitempty"`
	Platform string       `json:"platform,omitempty"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	w := contentWire{Type: c.Type}
	switch {
	case c.Simple != nil:
		w.Message = c.Simple.Message
	case c.AI != nil:
		w.Prompt = c.AI.Prompt
		w.Role = c.AI.Role
		w.Tone = c.AI.Tone
		w.Platform = c.AI.Platform
	}
	return json.Marshal(w)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var w contentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Content{Type: w.Type}
	switch w.Type {
	case ReminderSimple:
		c.Simple = &SimpleContent{Message: w.Message}
	case ReminderAI:
		c.AI = &AIContent{Prompt: w.Prompt, Role: w.Role, Tone: w.Tone, Platform: w.Platform}
	}
	return nil
}

// Intent is a user-owned reminder. NextRunAtUTC is written once at creation
// and afterwards only by the schedule advancer.
type Intent struct {
	ID           string       `json:"id" validate:"required,excludes=/"`
	UserID       string       `json:"user_id" validate:"required,excludes=/"`
	Enabled      bool         `json:"enabled"`
	Frequency    Frequency    `json:"frequency" validate:"required,oneof=one_time daily weekly weekdays monthly every_n_days"`
	Schedule     Schedule     `json:"schedule"`
	ReminderType ReminderType `json:"reminder_type" validate:"required,oneof=simple ai"`
	Content      Content      `json:"content"`
	NextRunAtUTC time.Time    `json:"next_run_at_utc"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats and the cross-field rules between Frequency,
// Schedule, ReminderType and Content.
func (i *Intent) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("invalid intent: %w", err)
	}

	switch i.Frequency {
	case FrequencyOneTime:
		if i.Schedule.Date == "" {
			return fmt.Errorf("date must be specified for one_time intents")
		}
	case FrequencyWeekly:
		if len(i.Schedule.DaysOfWeek) == 0 {
			return fmt.Errorf("days of week must be specified for weekly intents")
		}
	case FrequencyMonthly:
		if i.Schedule.DayOfMonth == 0 {
			return fmt.Errorf("day of month must be specified for monthly intents")
		}
	case FrequencyEveryNDays:
		if i.Schedule.IntervalDays < 1 {
			return fmt.Errorf("interval must be at least 1 for every_n_days intents")
		}
	}

	if i.Content.Type != i.ReminderType {
		return fmt.Errorf("content type %q does not match reminder type %q", i.Content.Type, i.ReminderType)
	}
	switch i.ReminderType {
	case ReminderSimple:
		if i.Content.Simple == nil {
			return fmt.Errorf("simple intents need a message")
		}
		if err := validate.Struct(i.Content.Simple); err != nil {
			return fmt.Errorf("invalid simple content: %w", err)
		}
	case ReminderAI:
		if i.Content.AI == nil {
			return fmt.Errorf("ai intents need a prompt")
		}
		if err := validate.Struct(i.Content.AI); err != nil {
			return fmt.Errorf("invalid ai content: %w", err)
		}
	}
	return nil
}

// IsOneTime returns true if the intent fires once and then disables itself.
func (i *Intent) IsOneTime() bool {
	return i.Frequency == FrequencyOneTime
}

// Ref returns the storage reference of the intent.
func (i *Intent) Ref() IntentRef {
	return IntentRef{UserID: i.UserID, IntentID: i.ID}
}

// FormatFrequency returns a human-readable description of when the intent fires.
func (i *Intent) FormatFrequency() string {
	tz := i.Schedule.Timezone
	if tz == "" {
		tz = "UTC"
	}
	switch i.Frequency {
	case FrequencyOneTime:
		return fmt.Sprintf("Once on %s at %s %s", i.Schedule.Date, i.Schedule.Time, tz)
	case FrequencyDaily:
		return fmt.Sprintf("Daily at %s %s", i.Schedule.Time, tz)
	case FrequencyWeekdays:
		return fmt.Sprintf("Weekdays at %s %s", i.Schedule.Time, tz)
	case FrequencyWeekly:
		days := make([]string, len(i.Schedule.DaysOfWeek))
		for n, wd := range i.Schedule.DaysOfWeek {
			days[n] = wd.String()[:3]
		}
		return fmt.Sprintf("Weekly on %s at %s %s", strings.Join(days, ", "), i.Schedule.Time, tz)
	case FrequencyMonthly:
		return fmt.Sprintf("Monthly on day %d at %s %s", i.Schedule.DayOfMonth, i.Schedule.Time, tz)
	case FrequencyEveryNDays:
		if i.Schedule.IntervalDays == 1 {
			return fmt.Sprintf("Daily at %s %s", i.Schedule.Time, tz)
		}
		return fmt.Sprintf("Every %d days at %s %s", i.Schedule.IntervalDays, i.Schedule.Time, tz)
	default:
		return "Unknown"
	}
}

// IntentRef identifies an intent inside its owner's namespace.
type IntentRef struct {
	UserID   string
	IntentID string
}

// Path renders the reference as users/{uid}/reminders/{id}.
func (r IntentRef) Path() string {
	return constants.UserPathCollection + "/" + r.UserID + "/" + constants.IntentPathCollection + "/" + r.IntentID
}

func (r IntentRef) String() string { return r.Path() }

// ParseIntentPath extracts the owner and intent id from a storage path. The
// owner always comes from the path, never from caller-supplied fields.
func ParseIntentPath(path string) (IntentRef, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != constants.UserPathCollection || parts[2] != constants.IntentPathCollection {
		return IntentRef{}, fmt.Errorf("invalid intent path %q (expected %s/{uid}/%s/{id})", path, constants.UserPathCollection, constants.IntentPathCollection)
	}
	if parts[1] == "" || parts[3] == "" {
		return IntentRef{}, fmt.Errorf("invalid intent path %q: empty segment", path)
	}
	return IntentRef{UserID: parts[1], IntentID: parts[3]}, nil
}
