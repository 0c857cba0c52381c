package service

import (
	"context"
	"errors"

	"github.com/replytrack/replytrack/internal/models"
)

// Sentinel errors translated to HTTP problems by the handlers.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("invalid request")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SyncService defines the interface for conversation and event ingestion
// business logic.
type SyncService interface {
	CreateConversation(ctx context.Context, userID string, req *models.CreateConversationRequest) (*models.Conversation, error)
	GetConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error)

	// IngestEvents appends a sync batch and incrementally extends the
	// response windows of the conversation.
	IngestEvents(ctx context.Context, userID, conversationID string, req *models.IngestEventsRequest) (*models.SyncResult, error)

	GetWindows(ctx context.Context, userID, conversationID string) ([]models.ResponseWindow, error)
	PendingEvents(ctx context.Context, userID string) ([]models.PendingEvent, error)

	// SetEventExcluded flips the analytic exclusion flag and rebuilds the
	// windows of the affected conversation.
	SetEventExcluded(ctx context.Context, userID, eventID string, excluded bool) (*models.MessageEvent, error)
	RematchConversation(ctx context.Context, userID, conversationID string) (*models.SyncResult, error)
}

// AnalyticsService defines the interface for aggregate metric queries.
type AnalyticsService interface {
	GetMetrics(ctx context.Context, userID, platform string, rng models.TimeRange) (*models.ResponseMetrics, error)
	GetDailyMetrics(ctx context.Context, userID, platform string, rng models.TimeRange) ([]models.DailyMetrics, error)
	GetHourlyMetrics(ctx context.Context, userID, platform string, rng models.TimeRange) ([]models.HourlyMetrics, error)

	// ResetWindows deletes every derived window for the user. Source
	// events are untouched; the next ingest or rematch rebuilds.
	ResetWindows(ctx context.Context, userID string) (int64, error)
}

// InsightsService defines the interface for generated insights.
type InsightsService interface {
	GetInsights(ctx context.Context, userID string, rng models.TimeRange) (*models.InsightsResponse, error)
}

// GoalService defines the interface for response goal business logic.
type GoalService interface {
	CreateGoal(ctx context.Context, userID string, req *models.CreateGoalRequest) (*models.ResponseGoal, error)
	GetGoals(ctx context.Context, userID string) ([]models.ResponseGoal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*models.ResponseGoal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, req *models.UpdateGoalRequest) (*models.ResponseGoal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error

	// GetStreak evaluates the goal streak against the full window history
	// and persists the refreshed counters.
	GetStreak(ctx context.Context, userID, goalID string) (*models.StreakStatus, error)

	// RollForwardAll refreshes streak counters for every enabled goal.
	// Run nightly by the scheduler.
	RollForwardAll(ctx context.Context) error
}

// AuthService defines the interface for authentication business logic.
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ValidateToken(token string) (*Claims, error)
}
