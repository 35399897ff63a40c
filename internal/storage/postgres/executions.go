package postgres

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
		WHERE user_id = $1 AND key = $2
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, key) DO UPDATE SET
			status = EXCLUDED.status,
			ai_used = EXCLUDED.ai_used,
			draft_id = EXCLUDED.draft_id,
			error = EXCLUDED.error,
			executed_at = EXCLUDED.executed_at
		WHERE executions.status = $10
	`,
		rec.UserID, rec.Key, rec.IntentID, rec.ScheduledForUTC.UTC(), string(rec.Status),
		rec.AIUsed, rec.DraftID, rec.Error, rec.ExecutedAt.UTC(),
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
		WHERE user_id = $1
		ORDER BY executed_at DESC
		LIMIT $2
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
	var status string

	if err := row.Scan(
		&rec.UserID, &rec.Key, &rec.IntentID, &rec.ScheduledForUTC, &status,
		&rec.AIUsed, &rec.DraftID, &rec.Error, &rec.ExecutedAt,
	); err != nil {
		return models.ExecutionRecord{}, err
	}
	rec.Status = models.ExecutionStatus(status)
	rec.ScheduledForUTC = rec.ScheduledForUTC.UTC()
	rec.ExecutedAt = rec.ExecutedAt.UTC()
	return rec, nil
}
