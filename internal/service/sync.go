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

type syncService struct {
	conversationRepo repository.ConversationRepository
	windowRepo       repository.WindowRepository
	settings         analysis.Settings
	nowFn            func() time.Time
}

// NewSyncService creates a new sync service.
func NewSyncService(conversationRepo repository.ConversationRepository, windowRepo repository.WindowRepository, settings analysis.Settings) SyncService {
	return &syncService{
		conversationRepo: conversationRepo,
		windowRepo:       windowRepo,
		settings:         settings,
		nowFn:            time.Now,
	}
}

func (s *syncService) CreateConversation(ctx context.Context, userID string, req *models.CreateConversationRequest) (*models.Conversation, error) {
	id := req.ID
	if id == "" {
		id = uuid.New().String()
	} else {
		existing, err := s.conversationRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check conversation: %w", err)
		}
		if existing != nil {
			if existing.UserID != userID {
				return nil, ErrNotFound
			}
			// Re-registering an already synced conversation is a no-op.
			return existing, nil
		}
	}

	conversation := &models.Conversation{
		ID:       id,
		UserID:   userID,
		Subject:  req.Subject,
		Platform: req.Platform,
	}
	return s.conversationRepo.Create(ctx, conversation)
}

func (s *syncService) GetConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.conversationRepo.GetByUserID(ctx, userID)
}

func (s *syncService) GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	return s.ownedConversation(ctx, userID, conversationID)
}

func (s *syncService) IngestEvents(ctx context.Context, userID, conversationID string, req *models.IngestEventsRequest) (*models.SyncResult, error) {
	conversation, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	events := make([]models.MessageEvent, 0, len(req.Events))
	for _, e := range req.Events {
		if e.Direction != models.DirectionInbound && e.Direction != models.DirectionOutbound {
			return nil, fmt.Errorf("event %s: unknown direction %q: %w", e.ID, e.Direction, ErrValidation)
		}
		if e.Timestamp.IsZero() {
			return nil, fmt.Errorf("event %s: timestamp is required: %w", e.ID, ErrValidation)
		}
		events = append(events, models.MessageEvent{
			ID:             e.ID,
			ConversationID: conversation.ID,
			Timestamp:      e.Timestamp,
			Direction:      e.Direction,
			ParticipantID:  e.ParticipantID,
			Excluded:       e.Excluded,
		})
	}

	appended, err := s.conversationRepo.AppendEvents(ctx, conversation.ID, events)
	if err != nil {
		return nil, fmt.Errorf("failed to append events: %w", err)
	}

	result, err := s.match(ctx, conversation, false)
	if err != nil {
		return nil, err
	}
	result.EventsReceived = len(req.Events)
	result.EventsAppended = appended

	logger.Ctx(ctx).Info("sync batch ingested",
		logger.String("conversation_id", conversation.ID),
		logger.Int("events_appended", appended),
		logger.Int("windows_created", result.WindowsCreated),
	)
	return result, nil
}

func (s *syncService) GetWindows(ctx context.Context, userID, conversationID string) ([]models.ResponseWindow, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.windowRepo.GetByConversation(ctx, conversationID)
}

func (s *syncService) PendingEvents(ctx context.Context, userID string) ([]models.PendingEvent, error) {
	conversations, err := s.conversationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	pending := make([]models.PendingEvent, 0)
	for _, conversation := range conversations {
		events, err := s.conversationRepo.GetEvents(ctx, conversation.ID)
		if err != nil {
			return nil, err
		}
		matched, consumed, err := s.windowRepo.MatchedEventIDs(ctx, conversation.ID)
		if err != nil {
			return nil, err
		}

		result := analysis.MatchConversation(events, matched, consumed, s.settings)
		for _, e := range result.Pending {
			pending = append(pending, models.PendingEvent{
				EventID:        e.ID,
				ConversationID: conversation.ID,
				Platform:       conversation.Platform,
				ParticipantID:  e.ParticipantID,
				Timestamp:      e.Timestamp,
				WaitingSeconds: now.Sub(e.Timestamp).Seconds(),
			})
		}
	}
	return pending, nil
}

func (s *syncService) SetEventExcluded(ctx context.Context, userID, eventID string, excluded bool) (*models.MessageEvent, error) {
	event, err := s.conversationRepo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	conversation, err := s.ownedConversation(ctx, userID, event.ConversationID)
	if err != nil {
		return nil, err
	}

	if event.Excluded != excluded {
		if err := s.conversationRepo.SetEventExcluded(ctx, eventID, excluded); err != nil {
			return nil, fmt.Errorf("failed to update exclusion flag: %w", err)
		}
		event.Excluded = excluded

		// Exclusion changes can invalidate existing pairings, so the
		// conversation is rematched from scratch.
		if _, err := s.match(ctx, conversation, true); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func (s *syncService) RematchConversation(ctx context.Context, userID, conversationID string) (*models.SyncResult, error) {
	conversation, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return s.match(ctx, conversation, true)
}

// match runs the pairing pass for one conversation and persists the new
// windows. With rebuild set, existing windows are dropped first and the
// whole history is paired again.
func (s *syncService) match(ctx context.Context, conversation *models.Conversation, rebuild bool) (*models.SyncResult, error) {
	events, err := s.conversationRepo.GetEvents(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	var matched, consumed map[string]struct{}
	if rebuild {
		if err := s.windowRepo.DeleteByConversation(ctx, conversation.ID); err != nil {
			return nil, err
		}
	} else {
		matched, consumed, err = s.windowRepo.MatchedEventIDs(ctx, conversation.ID)
		if err != nil {
			return nil, err
		}
	}

	result := analysis.MatchConversation(events, matched, consumed, s.settings)

	now := s.nowFn().UTC()
	for i := range result.Windows {
		result.Windows[i].ID = uuid.New().String()
		result.Windows[i].UserID = conversation.UserID
		result.Windows[i].Platform = conversation.Platform
		result.Windows[i].CreatedAt = now
	}
	if err := s.windowRepo.BulkCreate(ctx, result.Windows); err != nil {
		return nil, fmt.Errorf("failed to persist windows: %w", err)
	}

	return &models.SyncResult{
		ConversationID: conversation.ID,
		WindowsCreated: len(result.Windows),
		PendingInbound: len(result.Pending),
	}, nil
}

func (s *syncService) ownedConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	// Cross-user access is reported as not found rather than forbidden so
	// conversation IDs are not probeable.
	if conversation == nil || conversation.UserID != userID {
		return nil, ErrNotFound
	}
	return conversation, nil
}
