package history

import (
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

type ExecutionListCmd struct {
	User   string `short:"u" help:"Owning user id." required:""`
	Limit  int    `short:"n" help:"Maximum number of records." default:"20"`
	Status string `short:"s" help:"Only show records with this status."`
}

func (c *ExecutionListCmd) Validate() error {
	switch models.ExecutionStatus(c.Status) {
	case "", models.StatusExecuted, models.StatusSkippedDisabled, models.StatusSkippedCap, models.StatusSkippedError:
		return nil
	}
	return fmt.Errorf("invalid status %q", c.Status)
}

func (c *ExecutionListCmd) Run(ctx *cli.Context) error {
	// Filtering happens after the limit is applied by the store, so fetch
	// everything when a status filter is set.
	limit := c.Limit
	if c.Status != "" {
		limit = 0
	}
	recs, err := ctx.Store.ListExecutions(c.User, limit)
	if err != nil {
		return fmt.Errorf("failed to get executions: %w", err)
	}

	shown := 0
	for _, rec := range recs {
		if c.Status != "" && rec.Status != models.ExecutionStatus(c.Status) {
			continue
		}
		if shown == 0 {
			fmt.Println(cli.HeaderStyle.Render("Executions for " + c.User + ":"))
		}
		fmt.Printf("  %s  %-16s  %s", cli.FormatTimestamp(rec.ScheduledForUTC), cli.RenderStatus(rec.Status), rec.IntentID)
		if rec.AIUsed {
			fmt.Print(cli.MutedStyle.Render("  ai"))
		}
		if rec.DraftID != "" {
			fmt.Print(cli.MutedStyle.Render("  draft=" + rec.DraftID))
		}
		if rec.Error != "" {
			fmt.Printf("\n      %s", cli.DangerStyle.Render(cli.Truncate(rec.Error, 72)))
		}
		fmt.Println()
		shown++
		if c.Limit > 0 && shown == c.Limit {
			break
		}
	}
	if shown == 0 {
		fmt.Println("No executions found")
	}
	return nil
}
