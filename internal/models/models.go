package models

import "time"

// Direction indicates whether a message was received or sent.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MatchingMethod describes how a response window was paired.
type MatchingMethod string

const (
	MatchingMethodTimeWindow MatchingMethod = "time_window"
	MatchingMethodThreadID   MatchingMethod = "thread_id"
)

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Conversation is a thread container for message events on one platform.
// Created on the first sync of a platform; events are appended on
// subsequent syncs.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject,omitempty"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageEvent is one directional message observed in a conversation.
// Immutable once created, except for the analytic exclusion flag.
type MessageEvent struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
	Direction      Direction `json:"direction"`
	ParticipantID  string    `json:"participant_id"`
	Excluded       bool      `json:"excluded"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResponseWindow pairs an inbound event with the outbound event that
// answered it. Derived fields are computed at creation time so that
// aggregation never has to walk back to the source events.
type ResponseWindow struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	ConversationID  string         `json:"conversation_id"`
	Platform        string         `json:"platform"`
	InboundEventID  string         `json:"inbound_event_id"`
	OutboundEventID *string        `json:"outbound_event_id,omitempty"`
	ParticipantID   string         `json:"participant_id"`
	InboundAt       time.Time      `json:"inbound_at"`
	LatencySeconds  float64        `json:"latency_seconds"`
	Confidence      float64        `json:"confidence"`
	Method          MatchingMethod `json:"matching_method"`
	DayOfWeek       int            `json:"day_of_week"` // time.Weekday: 0=Sunday .. 6=Saturday
	HourOfDay       int            `json:"hour_of_day"`
	WorkingHours    bool           `json:"working_hours"`
	Valid           bool           `json:"valid"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ResponseGoal is a user target latency, optionally scoped to one platform.
// Streak counters are advanced by the nightly roll-forward and on demand.
type ResponseGoal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Platform      *string    `json:"platform,omitempty"`
	TargetSeconds float64    `json:"target_seconds"`
	Enabled       bool       `json:"enabled"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	EvaluatedAt   *time.Time `json:"evaluated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateConversationRequest represents the request to register a conversation
type CreateConversationRequest struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Platform string `json:"platform" binding:"required"`
}

// IngestEventRequest is one message event in a sync batch
type IngestEventRequest struct {
	ID            string    `json:"id" binding:"required"`
	Timestamp     time.Time `json:"timestamp" binding:"required"`
	Direction     Direction `json:"direction" binding:"required"`
	ParticipantID string    `json:"participant_id"`
	Excluded      bool      `json:"excluded"`
}

// IngestEventsRequest represents a batch of events appended by a platform sync
type IngestEventsRequest struct {
	Events []IngestEventRequest `json:"events" binding:"required"`
}

// SyncResult summarises one ingest call
type SyncResult struct {
	ConversationID string `json:"conversation_id"`
	EventsReceived int    `json:"events_received"`
	EventsAppended int    `json:"events_appended"`
	WindowsCreated int    `json:"windows_created"`
	PendingInbound int    `json:"pending_inbound"`
}

// UpdateExcludedRequest flips the analytic exclusion flag on an event
type UpdateExcludedRequest struct {
	Excluded *bool `json:"excluded" binding:"required"`
}

// CreateGoalRequest represents the request to create a response goal
type CreateGoalRequest struct {
	Platform      *string `json:"platform"`
	TargetSeconds float64 `json:"target_seconds" binding:"required,gt=0"`
	Enabled       *bool   `json:"enabled"`
}

// UpdateGoalRequest represents the request to update a response goal.
// Platform uses NullableString so that "clear the platform filter" and
// "leave it unchanged" are distinguishable.
type UpdateGoalRequest struct {
	Platform      NullableString `json:"platform"`
	TargetSeconds *float64       `json:"target_seconds"`
	Enabled       *bool          `json:"enabled"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents the signup request
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
