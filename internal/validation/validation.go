package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/schedule"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictUnknownReminderType ConflictType = "unknown_reminder_type"
	ConflictUnknownFrequency    ConflictType = "unknown_frequency"
	ConflictInvalidSchedule     ConflictType = "invalid_schedule"
	ConflictInvalidContent      ConflictType = "invalid_content"
	ConflictMissingNextRun      ConflictType = "missing_next_run"
	ConflictOverdue             ConflictType = "overdue"
)

// OverdueThreshold is how far behind an enabled intent may fall before it is
// reported. Anything older usually means no sweep is running.
const OverdueThreshold = 15 * time.Minute

// Conflict represents a detected problem with one intent
type Conflict struct {
	Type        ConflictType
	Description string
	Intent      models.IntentRef
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s: %s\n", conflict.Intent, conflict.Description)
	}
	return report
}

// Validator checks stored intents for states the engine cannot make
// progress on.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateIntents checks every intent. now is used for the overdue check.
func (v *Validator) ValidateIntents(intents []models.Intent, now time.Time) ValidationResult {
	var result ValidationResult

	sorted := make([]models.Intent, len(intents))
	copy(sorted, intents)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Ref().Path() < sorted[j].Ref().Path()
	})

	for _, intent := range sorted {
		result.Conflicts = append(result.Conflicts, v.validateIntent(intent, now)...)
	}
	return result
}

func (v *Validator) validateIntent(intent models.Intent, now time.Time) []Conflict {
	var conflicts []Conflict
	add := func(t ConflictType, format string, args ...interface{}) {
		conflicts = append(conflicts, Conflict{Type: t, Description: fmt.Sprintf(format, args...), Intent: intent.Ref()})
	}

	switch intent.ReminderType {
	case models.ReminderSimple, models.ReminderAI:
	default:
		if !intent.Enabled {
			// Never picked up by a sweep.
			break
		}
		add(ConflictUnknownReminderType, "reminder type %q is not supported; the intent is recorded as an error and never advances", intent.ReminderType)
	}

	knownFrequency := true
	switch intent.Frequency {
	case models.FrequencyOneTime, models.FrequencyDaily, models.FrequencyWeekly,
		models.FrequencyWeekdays, models.FrequencyMonthly, models.FrequencyEveryNDays:
	default:
		knownFrequency = false
		add(ConflictUnknownFrequency, "frequency %q is not supported", intent.Frequency)
	}

	if knownFrequency {
		var err error
		if intent.IsOneTime() {
			_, err = schedule.First(intent.Frequency, intent.Schedule, now)
		} else {
			from := intent.NextRunAtUTC
			if from.IsZero() {
				from = now
			}
			_, err = schedule.Next(intent.Frequency, intent.Schedule, from)
		}
		if err != nil {
			add(ConflictInvalidSchedule, "next run cannot be computed: %v", err)
		}
	}

	switch {
	case intent.ReminderType != models.ReminderSimple && intent.ReminderType != models.ReminderAI:
	case intent.Content.Type != intent.ReminderType:
		add(ConflictInvalidContent, "content type %q does not match reminder type %q", intent.Content.Type, intent.ReminderType)
	case intent.ReminderType == models.ReminderSimple && (intent.Content.Simple == nil || intent.Content.Simple.Message == ""):
		add(ConflictInvalidContent, "simple intent has no message")
	case intent.ReminderType == models.ReminderAI && (intent.Content.AI == nil || intent.Content.AI.Prompt == ""):
		add(ConflictInvalidContent, "ai intent has no prompt")
	}

	if intent.Enabled {
		switch {
		case intent.NextRunAtUTC.IsZero():
			add(ConflictMissingNextRun, "enabled intent has no next run time and will never be picked up")
		case now.Sub(intent.NextRunAtUTC) > OverdueThreshold:
			add(ConflictOverdue, "due since %s (%s ago); is a sweep running?",
				intent.NextRunAtUTC.Format(time.RFC3339), now.Sub(intent.NextRunAtUTC).Truncate(time.Minute))
		}
	}

	return conflicts
}

// AutoFixUnknownTypes disables enabled intents with an unsupported reminder
// type so they stop occupying sweep batches. Only the enabled flag is
// written.
func AutoFixUnknownTypes(conflicts []Conflict, disableFunc func(ref models.IntentRef) error) []FixAction {
	actions := []FixAction{}
	seen := make(map[models.IntentRef]bool)

	for _, conflict := range conflicts {
		if conflict.Type != ConflictUnknownReminderType || seen[conflict.Intent] {
			continue
		}
		seen[conflict.Intent] = true

		if err := disableFunc(conflict.Intent); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to disable %s: %v", conflict.Intent, err),
				SourceConflict: conflict,
			})
			continue
		}
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Disabled %s", conflict.Intent),
			SourceConflict: conflict,
		})
	}

	return actions
}
