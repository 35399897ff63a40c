package utils

import (
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// An empty name means UTC; schedules never follow the host's local zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ParseTimeOfDay parses HH:MM into hour and minute.
func ParseTimeOfDay(timeStr string) (hour, minute int, err error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format %q: %w", timeStr, err)
	}
	return t.Hour(), t.Minute(), nil
}

// AtTimeOfDay returns hour:minute on the calendar day of day, in loc.
// Wall times skipped by a DST transition are normalised forward by time.Date.
func AtTimeOfDay(day time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single time.Time in the specified timezone.
func CombineDateAndTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	hour, minute, err := ParseTimeOfDay(timeStr)
	if err != nil {
		return time.Time{}, err
	}

	return AtTimeOfDay(date, hour, minute, loc), nil
}

// DaysBetween counts calendar days from a to b, ignoring time of day and
// DST. Both are read as dates in their own location.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, _, err := ParseTimeOfDay(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
