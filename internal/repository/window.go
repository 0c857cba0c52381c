package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

type windowRepository struct {
	db *sql.DB
}

// NewWindowRepository creates a new response window repository.
func NewWindowRepository(db *sql.DB) WindowRepository {
	return &windowRepository{db: db}
}

const windowColumns = `id, user_id, conversation_id, platform, inbound_event_id, outbound_event_id,
	participant_id, inbound_at, latency_seconds, confidence, matching_method,
	day_of_week, hour_of_day, working_hours, valid, created_at`

func (r *windowRepository) BulkCreate(ctx context.Context, windows []models.ResponseWindow) error {
	if len(windows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, w := range windows {
		var outboundID any
		if w.OutboundEventID != nil {
			outboundID = *w.OutboundEventID
		}
		// The inbound event ID is unique, so a re-run that produced the
		// same window is a no-op.
		_, err := tx.ExecContext(ctx, `
			INSERT INTO response_windows (`+windowColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(inbound_event_id) DO NOTHING
		`, w.ID, w.UserID, w.ConversationID, w.Platform, w.InboundEventID, outboundID,
			w.ParticipantID, w.InboundAt.UTC(), w.LatencySeconds, w.Confidence, string(w.Method),
			w.DayOfWeek, w.HourOfDay, w.WorkingHours, w.Valid, w.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to create window for inbound %s: %w", w.InboundEventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit windows: %w", err)
	}
	return nil
}

func (r *windowRepository) GetByUserID(ctx context.Context, userID string, start, end time.Time) ([]models.ResponseWindow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+windowColumns+`
		FROM response_windows
		WHERE user_id = ? AND inbound_at >= ? AND inbound_at < ?
		ORDER BY inbound_at ASC
	`, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWindows(rows)
}

func (r *windowRepository) GetByConversation(ctx context.Context, conversationID string) ([]models.ResponseWindow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+windowColumns+`
		FROM response_windows
		WHERE conversation_id = ?
		ORDER BY inbound_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWindows(rows)
}

func (r *windowRepository) MatchedEventIDs(ctx context.Context, conversationID string) (map[string]struct{}, map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT inbound_event_id, outbound_event_id
		FROM response_windows
		WHERE conversation_id = ?
	`, conversationID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	matchedInbound := make(map[string]struct{})
	consumedOutbound := make(map[string]struct{})
	for rows.Next() {
		var inboundID string
		var outboundID sql.NullString
		if err := rows.Scan(&inboundID, &outboundID); err != nil {
			return nil, nil, err
		}
		matchedInbound[inboundID] = struct{}{}
		if outboundID.Valid {
			consumedOutbound[outboundID.String] = struct{}{}
		}
	}
	return matchedInbound, consumedOutbound, rows.Err()
}

func (r *windowRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM response_windows WHERE conversation_id = ?
	`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation windows: %w", err)
	}
	return nil
}

func (r *windowRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM response_windows WHERE user_id = ?
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user windows: %w", err)
	}
	return result.RowsAffected()
}

func scanWindows(rows *sql.Rows) ([]models.ResponseWindow, error) {
	var windows []models.ResponseWindow
	for rows.Next() {
		var w models.ResponseWindow
		var outboundID sql.NullString
		var method string
		err := rows.Scan(
			&w.ID, &w.UserID, &w.ConversationID, &w.Platform, &w.InboundEventID, &outboundID,
			&w.ParticipantID, &w.InboundAt, &w.LatencySeconds, &w.Confidence, &method,
			&w.DayOfWeek, &w.HourOfDay, &w.WorkingHours, &w.Valid, &w.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if outboundID.Valid {
			w.OutboundEventID = &outboundID.String
		}
		w.Method = models.MatchingMethod(method)
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
