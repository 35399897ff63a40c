package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
)

const stopTimeout = 30 * time.Second

// Trigger fires Run on a cron schedule. Firings are not serialized, so a slow
// sweep may overlap the next one.
type Trigger struct {
	sweeper *Sweeper
	spec    string

	mu     sync.Mutex
	cron   *rcron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewTrigger validates spec, which accepts standard five-field expressions
// and descriptors such as "@every 1m".
func NewTrigger(sweeper *Sweeper, spec string) (*Trigger, error) {
	if spec == "" {
		spec = constants.DefaultSweepSchedule
	}
	if _, err := rcron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return &Trigger{sweeper: sweeper, spec: spec}, nil
}

// Start schedules sweeps until ctx is done or Stop is called.
func (t *Trigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cron != nil {
		return fmt.Errorf("sweep trigger already started")
	}

	t.ctx, t.cancel = context.WithCancel(ctx)
	c := rcron.New()
	if _, err := c.AddFunc(t.spec, t.fire); err != nil {
		t.cancel()
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	t.cron = c
	c.Start()
	logger.Info("Sweep trigger started", "schedule", t.spec)

	go func(runCtx context.Context) {
		<-runCtx.Done()
		t.Stop()
	}(t.ctx)
	return nil
}

func (t *Trigger) fire() {
	t.mu.Lock()
	ctx := t.ctx
	t.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	if _, err := t.sweeper.Run(ctx); err != nil {
		logger.Warn("Scheduled sweep failed", "error", err)
	}
}

// Stop cancels in-flight sweeps and waits for them to return. It is safe to
// call more than once.
func (t *Trigger) Stop() {
	t.mu.Lock()
	c, cancel := t.cron, t.cancel
	t.cron, t.cancel = nil, nil
	t.mu.Unlock()
	if c == nil {
		return
	}

	cancel()
	select {
	case <-c.Stop().Done():
	case <-time.After(stopTimeout):
		logger.Warn("Timed out waiting for running sweeps")
	}
	logger.Info("Sweep trigger stopped")
}
