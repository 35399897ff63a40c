package schedule

import (
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/utils"
)

// occursOn reports whether a recurring intent fires on the calendar day of
// date (read in date's location). anchor is the day every_n_days counts from.
func occursOn(freq models.Frequency, sched models.Schedule, date, anchor time.Time) bool {
	switch freq {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		for _, wd := range sched.DaysOfWeek {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	case models.FrequencyWeekdays:
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case models.FrequencyMonthly:
		// Months without the day (e.g. the 31st in April) are skipped
		return date.Day() == sched.DayOfMonth
	case models.FrequencyEveryNDays:
		if sched.IntervalDays < 1 {
			return false
		}
		days := utils.DaysBetween(anchor, date)
		return days >= 0 && days%sched.IntervalDays == 0
	default:
		return false
	}
}
