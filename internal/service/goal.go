package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/replytrack/replytrack/internal/analysis"
	"github.com/replytrack/replytrack/internal/logger"
	"github.com/replytrack/replytrack/internal/models"
	"github.com/replytrack/replytrack/internal/repository"
)

type goalService struct {
	goalRepo   repository.GoalRepository
	windowRepo repository.WindowRepository
	nowFn      func() time.Time
}

// NewGoalService creates a new goal service.
func NewGoalService(goalRepo repository.GoalRepository, windowRepo repository.WindowRepository) GoalService {
	return &goalService{
		goalRepo:   goalRepo,
		windowRepo: windowRepo,
		nowFn:      time.Now,
	}
}

func (s *goalService) CreateGoal(ctx context.Context, userID string, req *models.CreateGoalRequest) (*models.ResponseGoal, error) {
	if req.TargetSeconds <= 0 {
		return nil, fmt.Errorf("target must be positive, got %v: %w", req.TargetSeconds, ErrValidation)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	goal := &models.ResponseGoal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Platform:      req.Platform,
		TargetSeconds: req.TargetSeconds,
		Enabled:       enabled,
	}
	return s.goalRepo.Create(ctx, goal)
}

func (s *goalService) GetGoals(ctx context.Context, userID string) ([]models.ResponseGoal, error) {
	return s.goalRepo.GetByUserID(ctx, userID)
}

func (s *goalService) GetGoal(ctx context.Context, userID, goalID string) (*models.ResponseGoal, error) {
	return s.ownedGoal(ctx, userID, goalID)
}

func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, req *models.UpdateGoalRequest) (*models.ResponseGoal, error) {
	goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Platform.Set {
		goal.Platform = req.Platform.ToPtr()
	}
	if req.TargetSeconds != nil {
		if *req.TargetSeconds <= 0 {
			return nil, fmt.Errorf("target must be positive, got %v: %w", *req.TargetSeconds, ErrValidation)
		}
		goal.TargetSeconds = *req.TargetSeconds
	}
	if req.Enabled != nil {
		goal.Enabled = *req.Enabled
	}

	return s.goalRepo.Update(ctx, goal)
}

func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.ownedGoal(ctx, userID, goalID); err != nil {
		return err
	}
	return s.goalRepo.Delete(ctx, goalID)
}

func (s *goalService) GetStreak(ctx context.Context, userID, goalID string) (*models.StreakStatus, error) {
	goal, err := s.ownedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, goal)
}

func (s *goalService) RollForwardAll(ctx context.Context) error {
	goals, err := s.goalRepo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list enabled goals: %w", err)
	}

	var failed int
	for i := range goals {
		if _, err := s.evaluate(ctx, &goals[i]); err != nil {
			failed++
			logger.Ctx(ctx).Error("streak roll-forward failed",
				logger.String("goal_id", goals[i].ID),
				logger.Err(err),
			)
		}
	}

	logger.Ctx(ctx).Info("streak roll-forward finished",
		logger.Int("goals", len(goals)),
		logger.Int("failed", failed),
	)
	return nil
}

// evaluate recomputes the streak counters for one goal over the full
// window history and persists them.
func (s *goalService) evaluate(ctx context.Context, goal *models.ResponseGoal) (*models.StreakStatus, error) {
	now := s.nowFn().UTC()

	// Streaks span the whole history, not a query window.
	all := models.TimeRange{Start: time.Unix(0, 0).UTC(), End: now.Add(24 * time.Hour)}
	windows, err := s.windowRepo.GetByUserID(ctx, goal.UserID, all.Start, all.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}

	platform := ""
	if goal.Platform != nil {
		platform = *goal.Platform
	}
	scoped := analysis.FilterWindows(windows, platform, all)

	result := analysis.EvaluateStreak(scoped, goal.TargetSeconds, now)
	if err := s.goalRepo.UpdateStreak(ctx, goal.ID, result.Current, result.Longest, now); err != nil {
		return nil, err
	}

	status := &models.StreakStatus{
		GoalID:        goal.ID,
		TargetSeconds: goal.TargetSeconds,
		CurrentStreak: result.Current,
		LongestStreak: result.Longest,
		EvaluatedAt:   now,
	}
	if !result.LastDay.IsZero() {
		lastDay := result.LastDay
		status.LastDataDay = &lastDay
	}
	return status, nil
}

func (s *goalService) ownedGoal(ctx context.Context, userID, goalID string) (*models.ResponseGoal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil || goal.UserID != userID {
		return nil, ErrNotFound
	}
	return goal, nil
}
