package dispatch

import (
	"context"
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// RunCmd executes one intent now, as if it had been delivered by a trigger.
// The scheduled slot is the intent's current NextRunAtUTC, so running an
// intent that is not yet due consumes its upcoming occurrence.
type RunCmd struct {
	Path string `arg:"" help:"Intent path (users/{uid}/reminders/{id})."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	ref, err := models.ParseIntentPath(c.Path)
	if err != nil {
		return err
	}

	out := ctx.Engine().RunOne(context.Background(), ref)

	fmt.Printf("%s: %s\n", ref, cli.RenderStatus(out.Status))
	if !out.ScheduledForUTC.IsZero() {
		fmt.Printf("  Slot:  %s\n", cli.FormatTimestamp(out.ScheduledForUTC))
	}
	if out.DraftID != "" {
		fmt.Printf("  Draft: %s\n", out.DraftID)
	}
	if out.Err != nil {
		fmt.Printf("  %s\n", cli.DangerStyle.Render(out.Err.Error()))
	}
	if out.Failed() {
		return fmt.Errorf("execution of %s failed", ref)
	}
	return nil
}
