package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

type conversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a new conversation repository.
func NewConversationRepository(db *sql.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error) {
	now := time.Now().UTC()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, subject, platform, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, conversation.ID, conversation.UserID, conversation.Subject, conversation.Platform,
		conversation.CreatedAt, conversation.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conversation, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, platform, created_at, updated_at
		FROM conversations
		WHERE id = ?
	`, id)

	return scanConversation(row)
}

func (r *conversationRepository) GetByUserID(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, subject, platform, created_at, updated_at
		FROM conversations
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Subject, &c.Platform, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *conversationRepository) AppendEvents(ctx context.Context, conversationID string, events []models.MessageEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	appended := 0
	for _, e := range events {
		// Duplicate IDs from re-synced batches are silently skipped so
		// ingest stays idempotent.
		result, err := tx.ExecContext(ctx, `
			INSERT INTO message_events (id, conversation_id, timestamp, direction, participant_id, excluded, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, e.ID, conversationID, e.Timestamp.UTC(), string(e.Direction), e.ParticipantID, e.Excluded, now)
		if err != nil {
			return 0, fmt.Errorf("failed to append event %s: %w", e.ID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		appended += int(n)
	}

	if appended > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE conversations SET updated_at = ? WHERE id = ?
		`, now, conversationID); err != nil {
			return 0, fmt.Errorf("failed to touch conversation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit events: %w", err)
	}
	return appended, nil
}

func (r *conversationRepository) GetEvents(ctx context.Context, conversationID string) ([]models.MessageEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, timestamp, direction, participant_id, excluded, created_at
		FROM message_events
		WHERE conversation_id = ?
		ORDER BY timestamp ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.MessageEvent
	for rows.Next() {
		e, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *conversationRepository) GetEvent(ctx context.Context, eventID string) (*models.MessageEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, timestamp, direction, participant_id, excluded, created_at
		FROM message_events
		WHERE id = ?
	`, eventID)

	var e models.MessageEvent
	var direction string
	err := row.Scan(&e.ID, &e.ConversationID, &e.Timestamp, &direction, &e.ParticipantID, &e.Excluded, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Direction = models.Direction(direction)
	return &e, nil
}

func (r *conversationRepository) SetEventExcluded(ctx context.Context, eventID string, excluded bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE message_events SET excluded = ? WHERE id = ?
	`, excluded, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event exclusion: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *conversationRepository) CountInboundByDay(ctx context.Context, userID, platform string, start, end time.Time) (map[string]int, error) {
	query := `
		SELECT strftime('%Y-%m-%d', e.timestamp) AS day, COUNT(*)
		FROM message_events e
		JOIN conversations c ON c.id = e.conversation_id
		WHERE c.user_id = ?
		  AND e.direction = ?
		  AND e.excluded = FALSE
		  AND e.timestamp >= ? AND e.timestamp < ?
	`
	args := []any{userID, string(models.DirectionInbound), start.UTC(), end.UTC()}
	if platform != "" {
		query += " AND c.platform = ?"
		args = append(args, platform)
	}
	query += " GROUP BY day"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

func scanConversation(row *sql.Row) (*models.Conversation, error) {
	var c models.Conversation
	err := row.Scan(&c.ID, &c.UserID, &c.Subject, &c.Platform, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanEventRow(rows *sql.Rows) (models.MessageEvent, error) {
	var e models.MessageEvent
	var direction string
	err := rows.Scan(&e.ID, &e.ConversationID, &e.Timestamp, &direction, &e.ParticipantID, &e.Excluded, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	e.Direction = models.Direction(direction)
	return e, nil
}
