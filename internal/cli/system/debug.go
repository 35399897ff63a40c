package system

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/idempotency"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/schedule"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/utils"
)

type DebugCmd struct {
	DBPath     *DebugDBPathCmd     `cmd:"" help:"Show database path."`
	DumpIntent *DebugDumpIntentCmd `cmd:"" help:"Dump intent data as JSON."`
	DumpConfig *DebugDumpConfigCmd `cmd:"" help:"Dump effective configuration as YAML (secrets omitted)."`
	Next       *DebugNextCmd       `cmd:"" help:"Show upcoming occurrences of an intent."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpIntentCmd struct {
	Path string `arg:"" help:"Intent path (users/{uid}/reminders/{id})."`
}

func (cmd *DebugDumpIntentCmd) Run(ctx *cli.Context) error {
	ref, err := models.ParseIntentPath(cmd.Path)
	if err != nil {
		return err
	}

	intent, err := ctx.Store.GetIntent(ref)
	if err != nil {
		return fmt.Errorf("failed to get intent: %w", err)
	}

	return printJSON(intent)
}

type DebugDumpConfigCmd struct{}

func (cmd *DebugDumpConfigCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	cfg.Database = maskPassword(cfg.Database)
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// DebugNextCmd walks the schedule from the intent's current NextRunAtUTC
// without writing anything.
type DebugNextCmd struct {
	Path  string `arg:"" help:"Intent path (users/{uid}/reminders/{id})."`
	Count int    `short:"n" help:"Number of occurrences to show." default:"5"`
}

type occurrence struct {
	ScheduledForUTC time.Time `json:"scheduled_for_utc"`
	Local           string    `json:"local"`
	Key             string    `json:"key"`
}

func (cmd *DebugNextCmd) Run(ctx *cli.Context) error {
	ref, err := models.ParseIntentPath(cmd.Path)
	if err != nil {
		return err
	}
	intent, err := ctx.Store.GetIntent(ref)
	if err != nil {
		return fmt.Errorf("failed to get intent: %w", err)
	}

	occ, err := upcoming(intent, cmd.Count)
	if err != nil {
		return err
	}
	return printJSON(occ)
}

func upcoming(intent models.Intent, count int) ([]occurrence, error) {
	loc, err := utils.LoadLocation(intent.Schedule.Timezone)
	if err != nil {
		return nil, err
	}

	var out []occurrence
	at := intent.NextRunAtUTC
	for i := 0; i < count && !at.IsZero(); i++ {
		out = append(out, occurrence{
			ScheduledForUTC: at,
			Local:           at.In(loc).Format("Mon 2006-01-02 15:04 MST"),
			Key:             idempotency.Key(intent.ID, at),
		})
		if intent.IsOneTime() {
			break
		}
		if at, err = schedule.Next(intent.Frequency, intent.Schedule, at); err != nil {
			return nil, fmt.Errorf("failed to compute next occurrence: %w", err)
		}
	}
	return out, nil
}

func printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
