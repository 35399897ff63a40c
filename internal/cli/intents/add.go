package intents

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/schedule"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/utils"
)

type IntentAddCmd struct {
	User      string `short:"u" help:"Owning user id." required:""`
	ID        string `help:"Intent id. Generated when empty."`
	Frequency string `short:"f" help:"Frequency (one_time|daily|weekly|weekdays|monthly|every_n_days)." default:"daily" enum:"one_time,daily,weekly,weekdays,monthly,every_n_days"`
	At        string `short:"t" help:"Time of day (HH:MM) in the schedule timezone." required:""`
	Timezone  string `short:"z" help:"IANA timezone of the schedule." default:"UTC"`
	Date      string `short:"d" help:"Date (YYYY-MM-DD) for one_time intents."`
	Weekdays  string `short:"w" help:"Comma-separated weekdays for weekly intents."`
	MonthDay  int    `help:"Day of month (1-31) for monthly intents."`
	Interval  int    `short:"i" help:"Interval in days for every_n_days intents." default:"1"`
	Message   string `short:"m" help:"Static message. Makes a simple intent."`
	Prompt    string `short:"p" help:"Generation prompt. Makes an AI intent."`
	Role      string `help:"Role the AI writes as."`
	Tone      string `help:"Tone of the AI draft."`
	Platform  string `help:"Platform the AI draft targets."`
	Disabled  bool   `help:"Create the intent disabled."`
}

func (c *IntentAddCmd) Validate() error {
	if (c.Message == "") == (c.Prompt == "") {
		return fmt.Errorf("exactly one of --message or --prompt is required")
	}
	if c.Message != "" && (c.Role != "" || c.Tone != "" || c.Platform != "") {
		return fmt.Errorf("--role, --tone and --platform only apply to --prompt intents")
	}
	if !utils.ValidateTimeFormat(c.At) {
		return fmt.Errorf("invalid time %q (expected HH:MM)", c.At)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}

	switch models.Frequency(c.Frequency) {
	case models.FrequencyOneTime:
		if c.Date == "" {
			return fmt.Errorf("--date is required for one_time intents")
		}
	case models.FrequencyWeekly:
		if c.Weekdays == "" {
			return fmt.Errorf("--weekdays is required for weekly intents")
		}
	case models.FrequencyMonthly:
		if c.MonthDay < 1 || c.MonthDay > 31 {
			return fmt.Errorf("--month-day must be between 1 and 31 for monthly intents")
		}
	case models.FrequencyEveryNDays:
		if c.Interval < 1 {
			return fmt.Errorf("--interval must be at least 1 for every_n_days intents")
		}
	}
	return nil
}

// Build turns the flags into an intent with its first NextRunAtUTC.
func (c *IntentAddCmd) Build(ctx *cli.Context) (models.Intent, error) {
	now := ctx.Now()

	id := strings.TrimSpace(c.ID)
	if id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return models.Intent{}, fmt.Errorf("failed to generate intent id: %w", err)
		}
		id = u.String()
	}

	sched := models.Schedule{Time: c.At, Timezone: c.Timezone}
	freq := models.Frequency(c.Frequency)
	switch freq {
	case models.FrequencyOneTime:
		sched.Date = c.Date
	case models.FrequencyWeekly:
		days, err := cli.ParseWeekdays(c.Weekdays)
		if err != nil {
			return models.Intent{}, err
		}
		sched.DaysOfWeek = days
	case models.FrequencyMonthly:
		sched.DayOfMonth = c.MonthDay
	case models.FrequencyEveryNDays:
		sched.IntervalDays = c.Interval
	}

	intent := models.Intent{
		ID:        id,
		UserID:    strings.TrimSpace(c.User),
		Enabled:   !c.Disabled,
		Frequency: freq,
		Schedule:  sched,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Prompt != "" {
		intent.ReminderType = models.ReminderAI
		intent.Content = models.NewAIContent(models.AIContent{
			Prompt:   c.Prompt,
			Role:     c.Role,
			Tone:     c.Tone,
			Platform: c.Platform,
		})
	} else {
		intent.ReminderType = models.ReminderSimple
		intent.Content = models.NewSimpleContent(c.Message)
	}

	next, err := schedule.First(freq, sched, now)
	if err != nil {
		return models.Intent{}, fmt.Errorf("failed to compute first run: %w", err)
	}
	intent.NextRunAtUTC = next

	if err := intent.Validate(); err != nil {
		return models.Intent{}, err
	}
	return intent, nil
}

func (c *IntentAddCmd) Run(ctx *cli.Context) error {
	intent, err := c.Build(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Store.AddIntent(intent); err != nil {
		return fmt.Errorf("failed to add intent: %w", err)
	}

	fmt.Printf("Added intent: %s\n", intent.Ref())
	fmt.Printf("  %s, %s\n", intent.FormatFrequency(), cli.RenderEnabled(intent.Enabled))
	fmt.Printf("  Next run: %s\n", cli.FormatTimestamp(intent.NextRunAtUTC))
	if intent.NextRunAtUTC.Before(ctx.Now()) {
		fmt.Println(cli.WarnStyle.Render("  The first run is in the past and will fire on the next sweep."))
	}
	return nil
}
