package intents

import (
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

type IntentListCmd struct {
	User        string `short:"u" help:"Owning user id." required:""`
	EnabledOnly bool   `help:"Show only enabled intents."`
}

func (c *IntentListCmd) Run(ctx *cli.Context) error {
	intents, err := ctx.Store.ListIntents(c.User)
	if err != nil {
		return fmt.Errorf("failed to get intents: %w", err)
	}
	if len(intents) == 0 {
		fmt.Println("No intents found")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Intents for " + c.User + ":"))
	for _, intent := range intents {
		if c.EnabledOnly && !intent.Enabled {
			continue
		}
		fmt.Printf("  [%s] %s (%s) - %s\n",
			cli.RenderEnabled(intent.Enabled), intent.ID, intent.ReminderType, intent.FormatFrequency())
		fmt.Printf("      Next: %s  %s\n", cli.FormatTimestamp(intent.NextRunAtUTC), cli.MutedStyle.Render(cli.Truncate(summary(intent), 60)))
	}
	return nil
}

func summary(intent models.Intent) string {
	switch {
	case intent.Content.Simple != nil:
		return intent.Content.Simple.Message
	case intent.Content.AI != nil:
		return intent.Content.AI.Prompt
	default:
		return ""
	}
}
