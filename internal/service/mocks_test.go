package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

// mockConversationRepository is an in-memory ConversationRepository for testing
type mockConversationRepository struct {
	conversations map[string]*models.Conversation
	events        map[string]*models.MessageEvent
	appendCalls   int
}

func newMockConversationRepository() *mockConversationRepository {
	return &mockConversationRepository{
		conversations: make(map[string]*models.Conversation),
		events:        make(map[string]*models.MessageEvent),
	}
}

func (m *mockConversationRepository) Create(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error) {
	now := time.Now().UTC()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	m.conversations[conversation.ID] = conversation
	return conversation, nil
}

func (m *mockConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	if c, ok := m.conversations[id]; ok {
		return c, nil
	}
	return nil, nil
}

func (m *mockConversationRepository) GetByUserID(ctx context.Context, userID string) ([]models.Conversation, error) {
	var result []models.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockConversationRepository) AppendEvents(ctx context.Context, conversationID string, events []models.MessageEvent) (int, error) {
	m.appendCalls++
	appended := 0
	for i := range events {
		e := events[i]
		if _, exists := m.events[e.ID]; exists {
			continue
		}
		e.ConversationID = conversationID
		e.CreatedAt = time.Now().UTC()
		m.events[e.ID] = &e
		appended++
	}
	return appended, nil
}

func (m *mockConversationRepository) GetEvents(ctx context.Context, conversationID string) ([]models.MessageEvent, error) {
	var result []models.MessageEvent
	for _, e := range m.events {
		if e.ConversationID == conversationID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockConversationRepository) GetEvent(ctx context.Context, eventID string) (*models.MessageEvent, error) {
	if e, ok := m.events[eventID]; ok {
		return e, nil
	}
	return nil, nil
}

func (m *mockConversationRepository) SetEventExcluded(ctx context.Context, eventID string, excluded bool) error {
	e, ok := m.events[eventID]
	if !ok {
		return sql.ErrNoRows
	}
	e.Excluded = excluded
	return nil
}

func (m *mockConversationRepository) CountInboundByDay(ctx context.Context, userID, platform string, start, end time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range m.events {
		c, ok := m.conversations[e.ConversationID]
		if !ok || c.UserID != userID || e.Direction != models.DirectionInbound || e.Excluded {
			continue
		}
		if platform != "" && c.Platform != platform {
			continue
		}
		if e.Timestamp.Before(start) || !e.Timestamp.Before(end) {
			continue
		}
		counts[e.Timestamp.UTC().Format("2006-01-02")]++
	}
	return counts, nil
}

// mockWindowRepository is an in-memory WindowRepository for testing
type mockWindowRepository struct {
	windows     map[string]*models.ResponseWindow
	createCalls int
}

func newMockWindowRepository() *mockWindowRepository {
	return &mockWindowRepository{windows: make(map[string]*models.ResponseWindow)}
}

func (m *mockWindowRepository) BulkCreate(ctx context.Context, windows []models.ResponseWindow) error {
	m.createCalls++
	for i := range windows {
		w := windows[i]
		m.windows[w.ID] = &w
	}
	return nil
}

func (m *mockWindowRepository) GetByUserID(ctx context.Context, userID string, start, end time.Time) ([]models.ResponseWindow, error) {
	var result []models.ResponseWindow
	for _, w := range m.windows {
		if w.UserID == userID && !w.InboundAt.Before(start) && w.InboundAt.Before(end) {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockWindowRepository) GetByConversation(ctx context.Context, conversationID string) ([]models.ResponseWindow, error) {
	var result []models.ResponseWindow
	for _, w := range m.windows {
		if w.ConversationID == conversationID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockWindowRepository) MatchedEventIDs(ctx context.Context, conversationID string) (map[string]struct{}, map[string]struct{}, error) {
	matched := make(map[string]struct{})
	consumed := make(map[string]struct{})
	for _, w := range m.windows {
		if w.ConversationID != conversationID {
			continue
		}
		matched[w.InboundEventID] = struct{}{}
		if w.OutboundEventID != nil {
			consumed[*w.OutboundEventID] = struct{}{}
		}
	}
	return matched, consumed, nil
}

func (m *mockWindowRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	for id, w := range m.windows {
		if w.ConversationID == conversationID {
			delete(m.windows, id)
		}
	}
	return nil
}

func (m *mockWindowRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var deleted int64
	for id, w := range m.windows {
		if w.UserID == userID {
			delete(m.windows, id)
			deleted++
		}
	}
	return deleted, nil
}

// mockGoalRepository is an in-memory GoalRepository for testing
type mockGoalRepository struct {
	goals map[string]*models.ResponseGoal
}

func newMockGoalRepository() *mockGoalRepository {
	return &mockGoalRepository{goals: make(map[string]*models.ResponseGoal)}
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *models.ResponseGoal) (*models.ResponseGoal, error) {
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	m.goals[goal.ID] = goal
	return goal, nil
}

func (m *mockGoalRepository) GetByID(ctx context.Context, id string) (*models.ResponseGoal, error) {
	if g, ok := m.goals[id]; ok {
		return g, nil
	}
	return nil, nil
}

func (m *mockGoalRepository) GetByUserID(ctx context.Context, userID string) ([]models.ResponseGoal, error) {
	var result []models.ResponseGoal
	for _, g := range m.goals {
		if g.UserID == userID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGoalRepository) Update(ctx context.Context, goal *models.ResponseGoal) (*models.ResponseGoal, error) {
	if _, ok := m.goals[goal.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	goal.UpdatedAt = time.Now().UTC()
	m.goals[goal.ID] = goal
	return goal, nil
}

func (m *mockGoalRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.goals[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.goals, id)
	return nil
}

func (m *mockGoalRepository) ListEnabled(ctx context.Context) ([]models.ResponseGoal, error) {
	var result []models.ResponseGoal
	for _, g := range m.goals {
		if g.Enabled {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGoalRepository) UpdateStreak(ctx context.Context, id string, current, longest int, evaluatedAt time.Time) error {
	g, ok := m.goals[id]
	if !ok {
		return sql.ErrNoRows
	}
	g.CurrentStreak = current
	g.LongestStreak = longest
	g.EvaluatedAt = &evaluatedAt
	return nil
}

// mockUserRepository is an in-memory UserRepository for testing
type mockUserRepository struct {
	users map[string]*models.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*models.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("email %s already exists", user.Email)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
