package system

import (
	"fmt"
	"os"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/config"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/sqlite"
)

type InitCmd struct {
	Force       bool `help:"Force reset by deleting existing database before initialization."`
	WriteConfig bool `help:"Write the effective configuration to the config file if none exists."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// Only a SQLite file can be reset; a PostgreSQL schema is left alone.
	if _, isFile := ctx.Store.(*sqlite.Store); c.Force && isFile {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Database exists, close it first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized remindrai storage at: %s\n", ctx.Store.GetConfigPath())

	if c.WriteConfig && ctx.ConfigPath != "" {
		path := config.ExpandHome(ctx.ConfigPath)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Config file already exists at: %s\n", path)
			return nil
		}
		if err := ctx.Config.Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote config file: %s\n", path)
	}

	return nil
}
