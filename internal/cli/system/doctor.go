package system

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/sweep"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/validation"
)

// errWarning marks a check whose failure does not fail the run.
var errWarning = errors.New("warning")

type DoctorCmd struct {
	Fix bool `help:"Disable intents with an unsupported reminder type."`
}

type dbHandle interface {
	GetDB() *sql.DB
}

type check struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{"Schema version", true, checkSchemaVersion},
		{"Migrations complete", true, checkMigrationsComplete},
		{"AI credentials", false, checkAICredentials},
		{"Sweep schedule", false, checkSweepSchedule},
		{"HTTP trigger secret", false, checkTriggerSecret},
		{"Clock/timezone", false, func(*cli.Context) error { return checkClockTimezone() }},
		{"Intent validation", true, cmd.checkIntents},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errWarning):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if h, ok := ctx.Store.(dbHandle); ok {
		db := h.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func checkAICredentials(ctx *cli.Context) error {
	key, err := ctx.Config.ResolveAPIKey()
	if err != nil {
		return fmt.Errorf("%w: could not read API key: %v", errWarning, err)
	}
	if key == "" {
		return fmt.Errorf("%w: no %s API key configured; AI intents will be recorded as skipped_error", errWarning, ctx.Config.AI.Provider)
	}
	return nil
}

func checkSweepSchedule(ctx *cli.Context) error {
	if _, err := sweep.NewTrigger(nil, ctx.Config.Engine.SweepSchedule); err != nil {
		return err
	}
	return nil
}

func checkTriggerSecret(ctx *cli.Context) error {
	if ctx.Config.Server.TriggerSecret == "" {
		return fmt.Errorf("%w: no trigger secret set; 'serve' needs --no-http", errWarning)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}

func (cmd *DoctorCmd) checkIntents(ctx *cli.Context) error {
	intents, err := ctx.Store.AllIntents()
	if err != nil {
		return fmt.Errorf("failed to get intents: %w", err)
	}

	now := ctx.Now()
	result := validation.New().ValidateIntents(intents, now)
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix {
		actions := validation.AutoFixUnknownTypes(result.Conflicts, func(ref models.IntentRef) error {
			return ctx.Store.SetIntentEnabled(ref, false, now)
		})
		for _, a := range actions {
			fmt.Printf("   fix: %s\n", a.Action)
		}
		if intents, err = ctx.Store.AllIntents(); err != nil {
			return fmt.Errorf("failed to get intents: %w", err)
		}
		result = validation.New().ValidateIntents(intents, now)
	}

	// Overdue intents only mean no sweep ran recently.
	blocking := 0
	for _, c := range result.Conflicts {
		if c.Type != validation.ConflictOverdue {
			blocking++
		}
	}
	if blocking == 0 {
		if !result.HasConflicts() {
			return nil
		}
		return fmt.Errorf("%w: %s", errWarning, result.FormatReport())
	}
	return fmt.Errorf("%d intent problem(s)\n%s", blocking, result.FormatReport())
}
