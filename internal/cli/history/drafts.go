package history

import (
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
)

type DraftListCmd struct {
	User  string `short:"u" help:"Owning user id." required:""`
	Limit int    `short:"n" help:"Maximum number of drafts." default:"20"`
	Full  bool   `help:"Print full draft content."`
}

func (c *DraftListCmd) Run(ctx *cli.Context) error {
	drafts, err := ctx.Store.ListDrafts(c.User, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to get drafts: %w", err)
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts found")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Drafts for " + c.User + ":"))
	for _, d := range drafts {
		fmt.Printf("  %s  %s  %s (%s)\n",
			cli.FormatTimestamp(d.ScheduledForUTC), cli.MutedStyle.Render(d.ID), d.IntentID, d.Type)
		if c.Full {
			fmt.Printf("    %s\n", d.Content)
		} else {
			fmt.Printf("    %s\n", cli.Truncate(d.Content, 72))
		}
	}
	return nil
}
