package postgres

import (
	"os"
	"testing"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/storage/storagetest"
)

// TestStore_Integration runs the shared provider suite against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://remindrai_user@localhost:5432/remindrai_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	storagetest.Run(t, func(t *testing.T) storage.Provider {
		store := New(connStr)
		if err := store.Init(); err != nil {
			t.Fatalf("Failed to initialize store: %v", err)
		}
		for _, table := range []string{"usage_counters", "drafts", "executions", "intents"} {
			if _, err := store.db.Exec("TRUNCATE " + table); err != nil {
				t.Fatalf("Failed to truncate %s: %v", table, err)
			}
		}
		t.Cleanup(func() { store.Close() })
		return store
	})
}
