package history

import (
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

type UsageShowCmd struct {
	User string `short:"u" help:"Show this user's counter next to the global one."`
	Date string `short:"d" help:"UTC date (YYYY-MM-DD). Defaults to today."`
}

func (c *UsageShowCmd) Run(ctx *cli.Context) error {
	day := c.Date
	if day == "" {
		day = models.DateKey(ctx.Now())
	} else if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", day)
	}

	global, err := ctx.Store.GetUsage(models.GlobalScope, day)
	if err != nil {
		return fmt.Errorf("failed to read global usage: %w", err)
	}

	fmt.Println(cli.HeaderStyle.Render("AI usage for " + day + " (UTC):"))
	fmt.Printf("  Global: %s\n", renderCount(global, ctx.Config.Engine.GlobalDailyCap))

	if c.User != "" {
		n, err := ctx.Store.GetUsage(models.UserScope(c.User), day)
		if err != nil {
			return fmt.Errorf("failed to read usage for %s: %w", c.User, err)
		}
		fmt.Printf("  %s: %s\n", c.User, renderCount(n, ctx.Config.Engine.UserDailyCap))
	}
	return nil
}

func renderCount(n, limit int) string {
	s := fmt.Sprintf("%d/%d", n, limit)
	if n >= limit {
		return cli.DangerStyle.Render(s)
	}
	return cli.OKStyle.Render(s)
}
