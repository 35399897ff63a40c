package postgres

import (
	"database/sql"
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// GetUsage returns 0 for a scope/date pair that has never been incremented.
func (s *Store) GetUsage(scope models.UsageScope, dateKey string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT count FROM usage_counters WHERE scope = $1 AND date_key = $2`,
		string(scope), dateKey).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage counter: %w", err)
	}
	return count, nil
}

func (s *Store) IncrementUsage(scope models.UsageScope, dateKey string, delta int) error {
	_, err := s.db.Exec(`
		INSERT INTO usage_counters (scope, date_key, count) VALUES ($1, $2, $3)
		ON CONFLICT (scope, date_key) DO UPDATE SET count = usage_counters.count + EXCLUDED.count
	`, string(scope), dateKey, delta)
	if err != nil {
		return fmt.Errorf("failed to increment usage counter: %w", err)
	}
	return nil
}
