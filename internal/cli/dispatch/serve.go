package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/server"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/sweep"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd runs the scheduled sweep trigger and the HTTP trigger until
// interrupted.
type ServeCmd struct {
	Addr     string `help:"HTTP listen address. Overrides server.addr."`
	Schedule string `help:"Sweep schedule (cron or @every). Overrides engine.sweep_schedule."`
	NoHTTP   bool   `name:"no-http" help:"Do not start the HTTP trigger."`
	NoTimer  bool   `name:"no-timer" help:"Do not start the scheduled sweep."`
}

func (c *ServeCmd) Validate() error {
	if c.NoHTTP && c.NoTimer {
		return fmt.Errorf("--no-http and --no-timer together leave nothing to serve")
	}
	return nil
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.serve(runCtx, ctx)
}

func (c *ServeCmd) serve(runCtx context.Context, ctx *cli.Context) error {
	eng := ctx.Engine()
	sweeper := ctx.Sweeper(eng)

	var trigger *sweep.Trigger
	if !c.NoTimer {
		spec := c.Schedule
		if spec == "" {
			spec = ctx.Config.Engine.SweepSchedule
		}
		t, err := sweep.NewTrigger(sweeper, spec)
		if err != nil {
			return err
		}
		trigger = t
	}

	var srv *server.Server
	if !c.NoHTTP {
		s, err := server.New(sweeper, eng, ctx.Config.Server.TriggerSecret)
		if errors.Is(err, server.ErrNoSecret) {
			return fmt.Errorf("%w: set REMINDRAI_TRIGGER_SECRET or pass --no-http", err)
		}
		if err != nil {
			return err
		}
		srv = s
	}

	if trigger != nil {
		if err := trigger.Start(runCtx); err != nil {
			return err
		}
		defer trigger.Stop()
	}

	errCh := make(chan error, 1)
	if srv != nil {
		addr := c.Addr
		if addr == "" {
			addr = ctx.Config.Server.Addr
		}
		go func() {
			errCh <- srv.Listen(addr)
		}()
	}

	fmt.Println(cli.HeaderStyle.Render("remindrai serving") + cli.MutedStyle.Render(" (Ctrl+C to stop)"))

	select {
	case <-runCtx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP trigger stopped: %w", err)
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown failed", "error", err)
		}
	}
	return nil
}
