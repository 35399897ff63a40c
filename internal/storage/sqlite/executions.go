package sqlite

import (
	"database/sql"
	"fmt"

	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

const executionColumns = `user_id, key, intent_id, scheduled_for_utc, status, ai_used, draft_id, error, executed_at`

func (s *Store) GetExecution(userID, key string) (models.ExecutionRecord, error) {
	row := s.db.QueryRow(`
		SELECT `+executionColumns+`
		FROM executions
		WHERE user_id = ? AND key = ?
	`, userID, key)

	rec, err := scanExecution(row)
	if err == sql.ErrNoRows {
		return models.ExecutionRecord{}, fmt.Errorf("execution %s: %w", key, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.ExecutionRecord{}, fmt.Errorf("failed to get execution: %w", err)
	}
	return rec, nil
}

func (s *Store) SaveExecution(rec models.ExecutionRecord) error {
	if !rec.Status.Persisted() {
		return fmt.Errorf("execution status %q is not persisted", rec.Status)
	}

	_, err := s.db.Exec(`
		INSERT INTO executions (`+executionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			status = excluded.status,
			ai_used = excluded.ai_used,
			draft_id = excluded.draft_id,
			error = excluded.error,
			executed_at = excluded.executed_at
		WHERE executions.status = ?
	`,
		rec.UserID, rec.Key, rec.IntentID, formatTime(rec.ScheduledForUTC), string(rec.Status),
		rec.AIUsed, rec.DraftID, rec.Error, formatTime(rec.ExecutedAt),
		string(models.StatusSkippedDisabled),
	)
	if err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}
	return nil
}

func (s *Store) ListExecutions(userID string, limit int) ([]models.ExecutionRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+executionColumns+`
		FROM executions
		WHERE user_id = ?
		ORDER BY executed_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	var records []models.ExecutionRecord
	for rows.Next() {
		rec, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}
	return records, nil
}

func scanExecution(row rowScanner) (models.ExecutionRecord, error) {
	var rec models.ExecutionRecord
	var status, scheduledStr, executedStr string

	if err := row.Scan(
		&rec.UserID, &rec.Key, &rec.IntentID, &scheduledStr, &status,
		&rec.AIUsed, &rec.DraftID, &rec.Error, &executedStr,
	); err != nil {
		return models.ExecutionRecord{}, err
	}

	rec.Status = models.ExecutionStatus(status)

	var err error
	if rec.ScheduledForUTC, err = parseTime("scheduled_for_utc", scheduledStr); err != nil {
		return models.ExecutionRecord{}, err
	}
	if rec.ExecutedAt, err = parseTime("executed_at", executedStr); err != nil {
		return models.ExecutionRecord{}, err
	}
	return rec, nil
}
