package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

type goalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new response goal repository.
func NewGoalRepository(db *sql.DB) GoalRepository {
	return &goalRepository{db: db}
}

const goalColumns = `id, user_id, platform, target_seconds, enabled,
	current_streak, longest_streak, evaluated_at, created_at, updated_at`

func (r *goalRepository) Create(ctx context.Context, goal *models.ResponseGoal) (*models.ResponseGoal, error) {
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	var platform any
	if goal.Platform != nil {
		platform = *goal.Platform
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO response_goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, goal.ID, goal.UserID, platform, goal.TargetSeconds, goal.Enabled,
		goal.CurrentStreak, goal.LongestStreak, nil, goal.CreatedAt, goal.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*models.ResponseGoal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+goalColumns+`
		FROM response_goals
		WHERE id = ?
	`, id)

	return scanGoal(row)
}

func (r *goalRepository) GetByUserID(ctx context.Context, userID string) ([]models.ResponseGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+goalColumns+`
		FROM response_goals
		WHERE user_id = ?
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGoals(rows)
}

func (r *goalRepository) Update(ctx context.Context, goal *models.ResponseGoal) (*models.ResponseGoal, error) {
	goal.UpdatedAt = time.Now().UTC()

	var platform any
	if goal.Platform != nil {
		platform = *goal.Platform
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE response_goals
		SET platform = ?, target_seconds = ?, enabled = ?, updated_at = ?
		WHERE id = ?
	`, platform, goal.TargetSeconds, goal.Enabled, goal.UpdatedAt, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	return goal, nil
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM response_goals WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
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

func (r *goalRepository) ListEnabled(ctx context.Context) ([]models.ResponseGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+goalColumns+`
		FROM response_goals
		WHERE enabled = TRUE
		ORDER BY user_id, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGoals(rows)
}

func (r *goalRepository) UpdateStreak(ctx context.Context, id string, current, longest int, evaluatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE response_goals
		SET current_streak = ?, longest_streak = ?, evaluated_at = ?, updated_at = ?
		WHERE id = ?
	`, current, longest, evaluatedAt.UTC(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	return nil
}

func scanGoal(row *sql.Row) (*models.ResponseGoal, error) {
	var g models.ResponseGoal
	var platform sql.NullString
	var evaluatedAt sql.NullTime
	err := row.Scan(&g.ID, &g.UserID, &platform, &g.TargetSeconds, &g.Enabled,
		&g.CurrentStreak, &g.LongestStreak, &evaluatedAt, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if platform.Valid {
		g.Platform = &platform.String
	}
	if evaluatedAt.Valid {
		g.EvaluatedAt = &evaluatedAt.Time
	}
	return &g, nil
}

func scanGoals(rows *sql.Rows) ([]models.ResponseGoal, error) {
	var goals []models.ResponseGoal
	for rows.Next() {
		var g models.ResponseGoal
		var platform sql.NullString
		var evaluatedAt sql.NullTime
		err := rows.Scan(&g.ID, &g.UserID, &platform, &g.TargetSeconds, &g.Enabled,
			&g.CurrentStreak, &g.LongestStreak, &evaluatedAt, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if platform.Valid {
			g.Platform = &platform.String
		}
		if evaluatedAt.Valid {
			g.EvaluatedAt = &evaluatedAt.Time
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
