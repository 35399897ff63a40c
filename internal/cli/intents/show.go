package intents

import (
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

type IntentShowCmd struct {
	Path    string `arg:"" help:"Intent path (users/{uid}/reminders/{id})."`
	History int    `help:"Number of recent executions to show." default:"5"`
}

func (c *IntentShowCmd) Run(ctx *cli.Context) error {
	ref, err := models.ParseIntentPath(c.Path)
	if err != nil {
		return err
	}
	intent, err := ctx.Store.GetIntent(ref)
	if err != nil {
		return fmt.Errorf("failed to get intent: %w", err)
	}

	fmt.Println(cli.HeaderStyle.Render(ref.Path()))
	fmt.Printf("  Status:    %s\n", cli.RenderEnabled(intent.Enabled))
	fmt.Printf("  Type:      %s\n", intent.ReminderType)
	fmt.Printf("  Schedule:  %s\n", intent.FormatFrequency())
	fmt.Printf("  Next run:  %s\n", cli.FormatTimestamp(intent.NextRunAtUTC))
	fmt.Printf("  Created:   %s\n", cli.FormatTimestamp(intent.CreatedAt))
	fmt.Printf("  Updated:   %s\n", cli.FormatTimestamp(intent.UpdatedAt))

	switch {
	case intent.Content.Simple != nil:
		fmt.Printf("  Message:   %s\n", intent.Content.Simple.Message)
	case intent.Content.AI != nil:
		ai := intent.Content.AI
		fmt.Printf("  Prompt:    %s\n", ai.Prompt)
		if ai.Role != "" {
			fmt.Printf("  Role:      %s\n", ai.Role)
		}
		if ai.Tone != "" {
			fmt.Printf("  Tone:      %s\n", ai.Tone)
		}
		if ai.Platform != "" {
			fmt.Printf("  Platform:  %s\n", ai.Platform)
		}
	}

	if c.History <= 0 {
		return nil
	}
	recs, err := ctx.Store.ListExecutions(ref.UserID, 0)
	if err != nil {
		return fmt.Errorf("failed to get executions: %w", err)
	}

	fmt.Println()
	fmt.Println("Recent executions:")
	shown := 0
	for _, rec := range recs {
		if rec.IntentID != ref.IntentID {
			continue
		}
		fmt.Printf("  %s  %s", cli.FormatTimestamp(rec.ScheduledForUTC), cli.RenderStatus(rec.Status))
		if rec.Error != "" {
			fmt.Printf("  %s", cli.MutedStyle.Render(cli.Truncate(rec.Error, 60)))
		}
		fmt.Println()
		shown++
		if shown == c.History {
			break
		}
	}
	if shown == 0 {
		fmt.Println("  none")
	}
	return nil
}
