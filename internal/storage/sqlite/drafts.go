package sqlite

import (
	"fmt"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

func (s *Store) AddDraft(draft models.Draft) error {
	_, err := s.db.Exec(`
		INSERT INTO drafts (id, user_id, intent_id, type, content, scheduled_for_utc, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		draft.ID, draft.UserID, draft.IntentID, string(draft.Type), draft.Content,
		formatTime(draft.ScheduledForUTC), formatTime(draft.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

func (s *Store) ListDrafts(userID string, limit int) ([]models.Draft, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, intent_id, type, content, scheduled_for_utc, created_at
		FROM drafts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		var d models.Draft
		var draftType, scheduledStr, createdStr string
		if err := rows.Scan(&d.ID, &d.UserID, &d.IntentID, &draftType, &d.Content, &scheduledStr, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		d.Type = models.ReminderType(draftType)
		if d.ScheduledForUTC, err = parseTime("scheduled_for_utc", scheduledStr); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafts: %w", err)
	}
	return drafts, nil
}
