// Package repository provides data access over the sqlite store.
package repository

import (
	"context"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

// ConversationRepository defines the interface for conversation and message
// event data access.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Conversation, error)

	// AppendEvents inserts the events that are not already present, keyed by
	// event ID, and returns the number actually inserted.
	AppendEvents(ctx context.Context, conversationID string, events []models.MessageEvent) (int, error)
	GetEvents(ctx context.Context, conversationID string) ([]models.MessageEvent, error)
	GetEvent(ctx context.Context, eventID string) (*models.MessageEvent, error)
	SetEventExcluded(ctx context.Context, eventID string, excluded bool) error

	// CountInboundByDay returns inbound event counts per UTC calendar day
	// ("2006-01-02" keys) for the user, optionally filtered by platform.
	CountInboundByDay(ctx context.Context, userID, platform string, start, end time.Time) (map[string]int, error)
}

// WindowRepository defines the interface for response window data access.
type WindowRepository interface {
	BulkCreate(ctx context.Context, windows []models.ResponseWindow) error
	GetByUserID(ctx context.Context, userID string, start, end time.Time) ([]models.ResponseWindow, error)
	GetByConversation(ctx context.Context, conversationID string) ([]models.ResponseWindow, error)

	// MatchedEventIDs returns the inbound event IDs already covered by a
	// window and the outbound event IDs already consumed as replies, for
	// one conversation.
	MatchedEventIDs(ctx context.Context, conversationID string) (matchedInbound, consumedOutbound map[string]struct{}, err error)

	DeleteByConversation(ctx context.Context, conversationID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// GoalRepository defines the interface for response goal data access.
type GoalRepository interface {
	Create(ctx context.Context, goal *models.ResponseGoal) (*models.ResponseGoal, error)
	GetByID(ctx context.Context, id string) (*models.ResponseGoal, error)
	GetByUserID(ctx context.Context, userID string) ([]models.ResponseGoal, error)
	Update(ctx context.Context, goal *models.ResponseGoal) (*models.ResponseGoal, error)
	Delete(ctx context.Context, id string) error

	// ListEnabled returns enabled goals across all users for the nightly
	// streak roll-forward.
	ListEnabled(ctx context.Context) ([]models.ResponseGoal, error)
	UpdateStreak(ctx context.Context, id string, current, longest int, evaluatedAt time.Time) error
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
