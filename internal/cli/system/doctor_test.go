package system

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/cli"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/clock"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/config"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/memory"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/sqlite"
)

var doctorNow = time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *sqlite.Store, func()) {
	gokeyring.MockInit()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	ctx := &cli.Context{
		Store:  store,
		Config: config.Default(),
		Clock:  clock.Fixed(doctorNow),
	}

	cleanup := func() {
		store.Close()
	}

	return ctx, store, cleanup
}

func unknownTypeIntent(id string) models.Intent {
	return models.Intent{
		ID:           id,
		UserID:       "u1",
		Enabled:      true,
		Frequency:    models.FrequencyDaily,
		Schedule:     models.Schedule{Time: "09:00"},
		ReminderType: "video",
		Content:      models.Content{Type: "video"},
		NextRunAtUTC: doctorNow.Add(time.Hour),
	}
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	cmd := &DoctorCmd{}
	err := cmd.Run(ctx)

	// Missing API key and trigger secret are warnings only
	if err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	db := store.GetDB()
	if db == nil {
		t.Fatal("database connection is nil")
	}

	// Set an impossible future schema version
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx, store, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if _, err := store.GetDB().Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}

	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestDoctorCmd_UnreachableDB(t *testing.T) {
	gokeyring.MockInit()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	ctx := &cli.Context{Store: store, Config: config.Default(), Clock: clock.Fixed(doctorNow)}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor command should fail when the database is not initialized")
	}
}

func TestDoctorCmd_InvalidIntents(t *testing.T) {
	gokeyring.MockInit()
	store := memory.NewStore()
	store.Seed(unknownTypeIntent("bad"))
	ctx := &cli.Context{Store: store, Config: config.Default(), Clock: clock.Fixed(doctorNow)}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor command should fail with an unsupported reminder type")
	}
	got, _ := store.GetIntent(models.IntentRef{UserID: "u1", IntentID: "bad"})
	if !got.Enabled {
		t.Error("doctor without --fix must not modify intents")
	}
}

func TestDoctorCmd_FixDisablesUnknownTypes(t *testing.T) {
	gokeyring.MockInit()
	store := memory.NewStore()
	store.Seed(unknownTypeIntent("bad"))
	ctx := &cli.Context{Store: store, Config: config.Default(), Clock: clock.Fixed(doctorNow)}

	cmd := &DoctorCmd{Fix: true}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor --fix should resolve the conflict: %v", err)
	}
	got, _ := store.GetIntent(models.IntentRef{UserID: "u1", IntentID: "bad"})
	if got.Enabled {
		t.Error("expected intent to be disabled by --fix")
	}
}

func TestCheckIntents_OverdueIsWarning(t *testing.T) {
	store := memory.NewStore()
	intent := unknownTypeIntent("late")
	intent.ReminderType = models.ReminderSimple
	intent.Content = models.NewSimpleContent("m")
	intent.NextRunAtUTC = doctorNow.Add(-2 * time.Hour)
	store.Seed(intent)
	ctx := &cli.Context{Store: store, Config: config.Default(), Clock: clock.Fixed(doctorNow)}

	err := (&DoctorCmd{}).checkIntents(ctx)
	if !errors.Is(err, errWarning) {
		t.Errorf("expected overdue intent to be a warning, got %v", err)
	}
}

func TestCheckIntents_StoreFailure(t *testing.T) {
	store := memory.NewStore()
	store.Fail(memory.OpAllIntents, errors.New("boom"))
	ctx := &cli.Context{Store: store, Config: config.Default(), Clock: clock.Fixed(doctorNow)}

	err := (&DoctorCmd{}).checkIntents(ctx)
	if err == nil || errors.Is(err, errWarning) {
		t.Errorf("expected hard failure, got %v", err)
	}
}

func TestCheckAICredentials(t *testing.T) {
	gokeyring.MockInit()
	ctx := &cli.Context{Config: config.Default()}

	if err := checkAICredentials(ctx); !errors.Is(err, errWarning) {
		t.Errorf("expected warning without a key, got %v", err)
	}

	ctx.Config.AI.APIKey = "sk-test"
	if err := checkAICredentials(ctx); err != nil {
		t.Errorf("expected no warning with a key, got %v", err)
	}
}

func TestCheckSweepSchedule(t *testing.T) {
	ctx := &cli.Context{Config: config.Default()}
	if err := checkSweepSchedule(ctx); err != nil {
		t.Errorf("default schedule rejected: %v", err)
	}

	ctx.Config.Engine.SweepSchedule = "every minute"
	if err := checkSweepSchedule(ctx); err == nil || !strings.Contains(err.Error(), "invalid sweep schedule") {
		t.Errorf("expected invalid schedule error, got %v", err)
	}
}

func TestCheckClockTimezone(t *testing.T) {
	err := checkClockTimezone()
	if err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}
}
