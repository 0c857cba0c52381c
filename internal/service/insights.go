package service

import (
	"context"
	"fmt"
	"time"

	"github.com/replytrack/replytrack/internal/analysis"
	"github.com/replytrack/replytrack/internal/models"
	"github.com/replytrack/replytrack/internal/repository"
)

type insightsService struct {
	windowRepo repository.WindowRepository
	settings   analysis.Settings
	nowFn      func() time.Time
}

// NewInsightsService creates a new insights service.
func NewInsightsService(windowRepo repository.WindowRepository, settings analysis.Settings) InsightsService {
	return &insightsService{
		windowRepo: windowRepo,
		settings:   settings,
		nowFn:      time.Now,
	}
}

func (s *insightsService) GetInsights(ctx context.Context, userID string, rng models.TimeRange) (*models.InsightsResponse, error) {
	windows, err := s.windowRepo.GetByUserID(ctx, userID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}

	now := s.nowFn().UTC()
	return &models.InsightsResponse{
		Insights:   analysis.GenerateInsights(windows, rng, now, s.settings),
		Range:      rng,
		ComputedAt: now,
	}, nil
}
