// Package schedule computes when an intent fires next and advances intents
// after an execution attempt.
//
// Recurring cadence is anchored to the frozen scheduled time of the attempt,
// never to the wall clock, so late or slow executions do not drift the
// timeline.
package schedule

import (
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/utils"
)

// maxSearchDays bounds the day-by-day search. Long enough for a monthly rule
// on the 31st to find its next month.
const maxSearchDays = 400

// Next returns the first occurrence strictly after scheduledFor, in UTC.
// It depends only on its arguments.
func Next(freq models.Frequency, sched models.Schedule, scheduledFor time.Time) (time.Time, error) {
	if freq == models.FrequencyOneTime {
		return time.Time{}, fmt.Errorf("one_time intents have no next occurrence")
	}
	return search(freq, sched, scheduledFor, scheduledFor)
}

// First returns the initial NextRunAtUTC for a newly created intent: the
// first occurrence at or after now. A one_time intent fires at its date and
// time even if that is already in the past, so the next sweep picks it up.
func First(freq models.Frequency, sched models.Schedule, now time.Time) (time.Time, error) {
	loc, err := utils.LoadLocation(sched.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	if freq == models.FrequencyOneTime {
		at, err := utils.CombineDateAndTime(sched.Date, sched.Time, loc)
		if err != nil {
			return time.Time{}, err
		}
		return at.UTC(), nil
	}
	if freq == models.FrequencyEveryNDays {
		// The cadence starts on the first day the time of day is reachable.
		freq = models.FrequencyDaily
	}
	return search(freq, sched, now.Add(-time.Nanosecond), now)
}

// search walks calendar days in the schedule timezone starting at after's
// local date and returns the first matching occurrence strictly after after.
func search(freq models.Frequency, sched models.Schedule, after, anchor time.Time) (time.Time, error) {
	loc, err := utils.LoadLocation(sched.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := utils.ParseTimeOfDay(sched.Time)
	if err != nil {
		return time.Time{}, err
	}

	localAfter := after.In(loc)
	localAnchor := anchor.In(loc)
	for i := 0; i <= maxSearchDays; i++ {
		day := time.Date(localAfter.Year(), localAfter.Month(), localAfter.Day()+i, 0, 0, 0, 0, loc)
		if !occursOn(freq, sched, day, localAnchor) {
			continue
		}
		candidate := utils.AtTimeOfDay(day, hour, minute, loc)
		if candidate.After(after) {
			return candidate.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("no %s occurrence within %d days of %s", freq, maxSearchDays, after.UTC().Format(time.RFC3339))
}
