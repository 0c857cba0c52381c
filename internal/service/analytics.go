package service

import (
	"context"
	"fmt"

	"github.com/replytrack/replytrack/internal/analysis"
	"github.com/replytrack/replytrack/internal/logger"
	"github.com/replytrack/replytrack/internal/models"
	"github.com/replytrack/replytrack/internal/repository"
)

type analyticsService struct {
	windowRepo       repository.WindowRepository
	conversationRepo repository.ConversationRepository
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(windowRepo repository.WindowRepository, conversationRepo repository.ConversationRepository) AnalyticsService {
	return &analyticsService{
		windowRepo:       windowRepo,
		conversationRepo: conversationRepo,
	}
}

func (s *analyticsService) GetMetrics(ctx context.Context, userID, platform string, rng models.TimeRange) (*models.ResponseMetrics, error) {
	// The previous period is fetched as well so the trend comparison has
	// its baseline.
	windows, err := s.windowRepo.GetByUserID(ctx, userID, rng.Previous().Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}

	metrics := analysis.ComputeMetrics(windows, platform, rng)
	return &metrics, nil
}

func (s *analyticsService) GetDailyMetrics(ctx context.Context, userID, platform string, rng models.TimeRange) ([]models.DailyMetrics, error) {
	windows, err := s.windowRepo.GetByUserID(ctx, userID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}

	messageCounts, err := s.conversationRepo.CountInboundByDay(ctx, userID, platform, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to count inbound messages: %w", err)
	}

	return analysis.ComputeDailyMetrics(windows, platform, rng, messageCounts), nil
}

func (s *analyticsService) GetHourlyMetrics(ctx context.Context, userID, platform string, rng models.TimeRange) ([]models.HourlyMetrics, error) {
	windows, err := s.windowRepo.GetByUserID(ctx, userID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}

	return analysis.ComputeHourlyMetrics(windows, platform, rng), nil
}

func (s *analyticsService) ResetWindows(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.windowRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset windows: %w", err)
	}

	logger.Ctx(ctx).Info("response windows reset",
		logger.String("user_id", userID),
		logger.Int("windows_deleted", int(deleted)),
	)
	return deleted, nil
}
