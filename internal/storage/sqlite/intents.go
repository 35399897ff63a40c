package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

const intentColumns = `user_id, id, enabled, frequency, schedule, reminder_type, content,
	next_run_at_utc, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) AddIntent(intent models.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}

	scheduleJSON, err := json.Marshal(intent.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}
	contentJSON, err := json.Marshal(intent.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO intents (`+intentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		intent.UserID, intent.ID, intent.Enabled, string(intent.Frequency), string(scheduleJSON),
		string(intent.ReminderType), string(contentJSON),
		formatTime(intent.NextRunAtUTC), formatTime(intent.CreatedAt), formatTime(intent.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert intent: %w", err)
	}

	return nil
}

func (s *Store) GetIntent(ref models.IntentRef) (models.Intent, error) {
	row := s.db.QueryRow(`
		SELECT `+intentColumns+`
		FROM intents
		WHERE user_id = ? AND id = ?
	`, ref.UserID, ref.IntentID)

	intent, err := scanIntent(row)
	if err == sql.ErrNoRows {
		return models.Intent{}, fmt.Errorf("intent %s: %w", ref, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.Intent{}, fmt.Errorf("failed to get intent: %w", err)
	}
	return intent, nil
}

func (s *Store) ListIntents(userID string) ([]models.Intent, error) {
	rows, err := s.db.Query(`
		SELECT `+intentColumns+`
		FROM intents
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query intents: %w", err)
	}
	return collectIntents(rows)
}

func (s *Store) AllIntents() ([]models.Intent, error) {
	rows, err := s.db.Query(`
		SELECT `+intentColumns+`
		FROM intents
		ORDER BY user_id ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query intents: %w", err)
	}
	return collectIntents(rows)
}

func (s *Store) QueryDueIntents(now time.Time, limit int) ([]models.Intent, error) {
	rows, err := s.db.Query(`
		SELECT `+intentColumns+`
		FROM intents
		WHERE enabled = 1 AND next_run_at_utc <= ?
		ORDER BY next_run_at_utc ASC
		LIMIT ?
	`, formatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due intents: %w", err)
	}
	return collectIntents(rows)
}

func (s *Store) SetIntentEnabled(ref models.IntentRef, enabled bool, updatedAt time.Time) error {
	return s.updateIntent(ref, `UPDATE intents SET enabled = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		enabled, formatTime(updatedAt), ref.UserID, ref.IntentID)
}

func (s *Store) UpdateNextRun(ref models.IntentRef, next time.Time, updatedAt time.Time) error {
	return s.updateIntent(ref, `UPDATE intents SET next_run_at_utc = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		formatTime(next), formatTime(updatedAt), ref.UserID, ref.IntentID)
}

func (s *Store) DisableIntent(ref models.IntentRef, updatedAt time.Time) error {
	return s.SetIntentEnabled(ref, false, updatedAt)
}

func (s *Store) updateIntent(ref models.IntentRef, query string, args ...interface{}) error {
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update intent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("intent %s: %w", ref, apperrors.ErrNotFound)
	}
	return nil
}

func collectIntents(rows *sql.Rows) ([]models.Intent, error) {
	defer rows.Close()

	var intents []models.Intent
	for rows.Next() {
		intent, err := scanIntent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intent: %w", err)
		}
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intents: %w", err)
	}
	return intents, nil
}

func scanIntent(row rowScanner) (models.Intent, error) {
	var intent models.Intent
	var frequency, reminderType string
	var scheduleJSON, contentJSON string
	var nextRunStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&intent.UserID, &intent.ID, &intent.Enabled, &frequency, &scheduleJSON,
		&reminderType, &contentJSON,
		&nextRunStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return models.Intent{}, err
	}

	intent.Frequency = models.Frequency(frequency)
	intent.ReminderType = models.ReminderType(reminderType)

	if err := json.Unmarshal([]byte(scheduleJSON), &intent.Schedule); err != nil {
		return models.Intent{}, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	if err := json.Unmarshal([]byte(contentJSON), &intent.Content); err != nil {
		return models.Intent{}, fmt.Errorf("failed to unmarshal content: %w", err)
	}

	if intent.NextRunAtUTC, err = parseTime("next_run_at_utc", nextRunStr); err != nil {
		return models.Intent{}, err
	}
	if intent.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return models.Intent{}, err
	}
	if intent.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return models.Intent{}, err
	}

	return intent, nil
}
