package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/config"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)

	ctx := &cli.Context{
		Store:      store,
		Config:     config.Default(),
		ConfigPath: filepath.Join(tempDir, "config.yaml"),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if _, err := os.Stat(ctx.ConfigPath); !os.IsNotExist(err) {
		t.Error("config file should only be written with --write-config")
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	normalCmd := &InitCmd{}
	if err := normalCmd.Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}

	// Add some data to verify it gets wiped
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	intent := models.Intent{
		ID:           "r1",
		UserID:       "u1",
		Enabled:      true,
		Frequency:    models.FrequencyDaily,
		Schedule:     models.Schedule{Time: "09:00"},
		ReminderType: models.ReminderSimple,
		Content:      models.NewSimpleContent("m"),
		NextRunAtUTC: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := ctx.Store.AddIntent(intent); err != nil {
		t.Fatalf("failed to add intent: %v", err)
	}

	forceCmd := &InitCmd{Force: true}
	if err := forceCmd.Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("database file was not recreated after force")
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to load store after force: %v", err)
	}
	intents, err := ctx.Store.ListIntents("u1")
	if err != nil {
		t.Fatalf("failed to list intents after force: %v", err)
	}
	if len(intents) != 0 {
		t.Errorf("expected empty database after force, got %d intents", len(intents))
	}
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("database file should not exist initially")
	}

	forceCmd := &InitCmd{Force: true}
	if err := forceCmd.Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent database failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitCmd_WriteConfig(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	ctx.Config.Engine.BatchSize = 7

	cmd := &InitCmd{WriteConfig: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, err := config.Load(ctx.ConfigPath, "")
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if cfg.Engine.BatchSize != 7 {
		t.Errorf("expected batch size 7 in written config, got %d", cfg.Engine.BatchSize)
	}

	// A second run leaves the existing file alone.
	ctx.Config.Engine.BatchSize = 9
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	cfg, _ = config.Load(ctx.ConfigPath, "")
	if cfg.Engine.BatchSize != 7 {
		t.Errorf("existing config was overwritten: batch size %d", cfg.Engine.BatchSize)
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cmd := &MigrateCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("migrate on up-to-date database failed: %v", err)
	}
}
