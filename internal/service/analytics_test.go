package service

import (
	"context"
	"testing"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

var analyticsRange = models.TimeRange{
	Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
}

func TestGetMetricsIncludesPreviousPeriodTrend(t *testing.T) {
	windowRepo := newMockWindowRepository()
	conversationRepo := newMockConversationRepository()
	s := NewAnalyticsService(windowRepo, conversationRepo)

	// Previous period: median 1200. Current period: median 600.
	prev := qualifyingWindow("prev", analyticsRange.Start.Add(-3*24*time.Hour), 1200, "email")
	cur := qualifyingWindow("cur", analyticsRange.Start.Add(24*time.Hour), 600, "email")
	if err := windowRepo.BulkCreate(context.Background(), []models.ResponseWindow{prev, cur}); err != nil {
		t.Fatalf("seed windows failed: %v", err)
	}

	metrics, err := s.GetMetrics(context.Background(), "user-1", "", analyticsRange)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if metrics.SampleCount != 1 {
		t.Fatalf("Expected 1 in-range sample, got %d", metrics.SampleCount)
	}
	if metrics.MedianSeconds != 600 {
		t.Errorf("Expected median 600, got %v", metrics.MedianSeconds)
	}
	if metrics.PreviousMedian != 1200 {
		t.Errorf("Expected previous median 1200, got %v", metrics.PreviousMedian)
	}
	if metrics.TrendDirection != models.TrendImproving {
		t.Errorf("Expected improving trend, got %q", metrics.TrendDirection)
	}
}

func TestGetDailyMetricsCarriesMessageCounts(t *testing.T) {
	windowRepo := newMockWindowRepository()
	conversationRepo := newMockConversationRepository()
	s := NewAnalyticsService(windowRepo, conversationRepo)

	conversation := &models.Conversation{ID: "conv-1", UserID: "user-1", Platform: "email"}
	if _, err := conversationRepo.Create(context.Background(), conversation); err != nil {
		t.Fatalf("seed conversation failed: %v", err)
	}

	day := analyticsRange.Start.Add(10 * time.Hour)
	if _, err := conversationRepo.AppendEvents(context.Background(), "conv-1", []models.MessageEvent{
		{ID: "in-1", Timestamp: day, Direction: models.DirectionInbound},
		{ID: "in-2", Timestamp: day.Add(time.Hour), Direction: models.DirectionInbound},
	}); err != nil {
		t.Fatalf("seed events failed: %v", err)
	}

	w := qualifyingWindow("w-1", day, 900, "email")
	if err := windowRepo.BulkCreate(context.Background(), []models.ResponseWindow{w}); err != nil {
		t.Fatalf("seed window failed: %v", err)
	}

	daily, err := s.GetDailyMetrics(context.Background(), "user-1", "email", analyticsRange)
	if err != nil {
		t.Fatalf("GetDailyMetrics failed: %v", err)
	}
	if len(daily) != 7 {
		t.Fatalf("Expected 7 daily buckets, got %d", len(daily))
	}

	first := daily[0]
	if first.ResponseCount != 1 {
		t.Errorf("Expected 1 response on the first day, got %d", first.ResponseCount)
	}
	if first.MessageCount != 2 {
		t.Errorf("Expected 2 inbound messages on the first day, got %d", first.MessageCount)
	}
	for _, d := range daily[1:] {
		if d.ResponseCount != 0 || d.MessageCount != 0 {
			t.Errorf("Expected empty bucket on %s", d.Date.Format("2006-01-02"))
		}
	}
}

func TestGetHourlyMetricsAlways24Buckets(t *testing.T) {
	windowRepo := newMockWindowRepository()
	s := NewAnalyticsService(windowRepo, newMockConversationRepository())

	hourly, err := s.GetHourlyMetrics(context.Background(), "user-1", "", analyticsRange)
	if err != nil {
		t.Fatalf("GetHourlyMetrics failed: %v", err)
	}
	if len(hourly) != 24 {
		t.Errorf("Expected 24 hourly buckets, got %d", len(hourly))
	}
}

func TestResetWindowsDeletesOnlyOwnWindows(t *testing.T) {
	windowRepo := newMockWindowRepository()
	s := NewAnalyticsService(windowRepo, newMockConversationRepository())

	mine := qualifyingWindow("mine", analyticsRange.Start, 600, "email")
	other := qualifyingWindow("other", analyticsRange.Start, 600, "email")
	other.UserID = "user-2"
	if err := windowRepo.BulkCreate(context.Background(), []models.ResponseWindow{mine, other}); err != nil {
		t.Fatalf("seed windows failed: %v", err)
	}

	deleted, err := s.ResetWindows(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ResetWindows failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 window deleted, got %d", deleted)
	}

	remaining, _ := windowRepo.GetByUserID(context.Background(), "user-2",
		analyticsRange.Start.Add(-time.Hour), analyticsRange.End)
	if len(remaining) != 1 {
		t.Errorf("Expected the other user's window to survive, got %d", len(remaining))
	}
}
