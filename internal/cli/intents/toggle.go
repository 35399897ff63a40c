package intents

import (
	"errors"
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/idempotency"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// ErrAlreadyRan is returned when enabling a one-time intent whose only slot
// has already been consumed.
var ErrAlreadyRan = errors.New("one-time intent has already run")

// IntentEnableCmd and IntentDisableCmd flip only the enabled flag. The
// schedule is left to the engine: a re-enabled recurring intent fires at its
// existing next run time, even if that is already past. A one-time intent can
// only be re-enabled while its slot is still unconsumed.
type IntentEnableCmd struct {
	Path string `arg:"" help:"Intent path (users/{uid}/reminders/{id})."`
}

func (c *IntentEnableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.Path, true)
}

type IntentDisableCmd struct {
	Path string `arg:"" help:"Intent path (users/{uid}/reminders/{id})."`
}

func (c *IntentDisableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.Path, false)
}

func setEnabled(ctx *cli.Context, path string, enabled bool) error {
	ref, err := models.ParseIntentPath(path)
	if err != nil {
		return err
	}
	if enabled {
		if err := checkReenable(ctx, ref); err != nil {
			return err
		}
	}
	if err := ctx.Store.SetIntentEnabled(ref, enabled, ctx.Now()); err != nil {
		return fmt.Errorf("failed to update intent: %w", err)
	}
	fmt.Printf("%s is now %s\n", ref, cli.RenderEnabled(enabled))
	return nil
}

// checkReenable refuses to enable a one-time intent whose slot already holds
// a record other than skipped_disabled. Such an intent would be due forever
// and only ever resolve to skipped_idempotent.
func checkReenable(ctx *cli.Context, ref models.IntentRef) error {
	intent, err := ctx.Store.GetIntent(ref)
	if err != nil {
		return fmt.Errorf("failed to load intent: %w", err)
	}
	if !intent.IsOneTime() || intent.Enabled {
		return nil
	}

	key := idempotency.Key(intent.ID, intent.NextRunAtUTC)
	rec, err := ctx.Store.GetExecution(ref.UserID, key)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check execution history: %w", err)
	case rec.Status == models.StatusSkippedDisabled:
		return nil
	}
	return fmt.Errorf("%w: %s (%s at %s); add a new intent to schedule it again",
		ErrAlreadyRan, ref, rec.Status, cli.FormatTimestamp(rec.ScheduledForUTC))
}
