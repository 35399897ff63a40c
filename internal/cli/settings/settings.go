package settings

import (
	"fmt"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
)

// SettingsCmd shows or edits the config file. Updates are written from the
// effective configuration, so values currently overridden by the environment
// are persisted too.
type SettingsCmd struct {
	List bool `help:"List current settings."`

	BatchSize      *int           `help:"Maximum intents processed per sweep."`
	UserDailyCap   *int           `help:"AI calls allowed per user per UTC day."`
	GlobalDailyCap *int           `help:"AI calls allowed system-wide per UTC day."`
	SweepSchedule  *string        `help:"Sweep schedule (cron or @every)."`
	AIProvider     *string        `name:"ai-provider" help:"AI provider (anthropic|openai)."`
	AIModel        *string        `name:"ai-model" help:"AI model name. Empty uses the provider default."`
	AITimeout      *time.Duration `name:"ai-timeout" help:"Timeout for one AI call."`
	ServerAddr     *string        `help:"HTTP trigger listen address."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Config File:           %s\n", ctx.ConfigPath)
		fmt.Printf("  Storage:               %s\n", ctx.Store.GetConfigPath())
		fmt.Println("\nEngine:")
		fmt.Printf("  Batch Size:            %d\n", cfg.Engine.BatchSize)
		fmt.Printf("  User Daily Cap:        %d\n", cfg.Engine.UserDailyCap)
		fmt.Printf("  Global Daily Cap:      %d\n", cfg.Engine.GlobalDailyCap)
		fmt.Printf("  Sweep Schedule:        %s\n", cfg.Engine.SweepSchedule)
		fmt.Println("\nAI:")
		fmt.Printf("  Provider:              %s\n", cfg.AI.Provider)
		fmt.Printf("  Model:                 %s\n", orDefault(cfg.AI.Model))
		fmt.Printf("  Timeout:               %s\n", cfg.AI.Timeout)
		fmt.Printf("  Max Tokens:            %d\n", cfg.AI.MaxTokens)
		fmt.Println("\nServer:")
		fmt.Printf("  Address:               %s\n", cfg.Server.Addr)
		fmt.Printf("  Trigger Secret:        %v\n", cfg.Server.TriggerSecret != "")
		return nil
	}

	updated := false
	if c.BatchSize != nil {
		cfg.Engine.BatchSize = *c.BatchSize
		updated = true
	}
	if c.UserDailyCap != nil {
		cfg.Engine.UserDailyCap = *c.UserDailyCap
		updated = true
	}
	if c.GlobalDailyCap != nil {
		cfg.Engine.GlobalDailyCap = *c.GlobalDailyCap
		updated = true
	}
	if c.SweepSchedule != nil {
		cfg.Engine.SweepSchedule = *c.SweepSchedule
		updated = true
	}
	if c.AIProvider != nil {
		cfg.AI.Provider = *c.AIProvider
		updated = true
	}
	if c.AIModel != nil {
		cfg.AI.Model = *c.AIModel
		updated = true
	}
	if c.AITimeout != nil {
		cfg.AI.Timeout = *c.AITimeout
		updated = true
	}
	if c.ServerAddr != nil {
		cfg.Server.Addr = *c.ServerAddr
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(ctx.ConfigPath); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Config = cfg
	fmt.Println("Settings updated successfully.")
	return nil
}

func orDefault(s string) string {
	if s == "" {
		return "(provider default)"
	}
	return s
}
