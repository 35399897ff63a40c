package dispatch

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
)

// SweepCmd runs a single sweep over due intents and prints the summary.
type SweepCmd struct{}

func (c *SweepCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := ctx.Sweeper(ctx.Engine()).Run(runCtx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Processed %d intent(s): %s, %s\n",
		summary.Processed,
		cli.OKStyle.Render(fmt.Sprintf("%d succeeded", summary.Succeeded)),
		failedText(summary.Failed))
	return nil
}

func failedText(n int) string {
	s := fmt.Sprintf("%d failed", n)
	if n > 0 {
		return cli.DangerStyle.Render(s)
	}
	return cli.MutedStyle.Render(s)
}
