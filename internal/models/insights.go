package models

import "time"

// InsightType represents the type of insight
type InsightType string

const (
	InsightTypeTrend          InsightType = "trend"
	InsightTypePattern        InsightType = "pattern"
	InsightTypeAchievement    InsightType = "achievement"
	InsightTypeWarning        InsightType = "warning"
	InsightTypeAnomaly        InsightType = "anomaly"
	InsightTypeRecommendation InsightType = "recommendation"
)

// Insight is one emitted finding. Ephemeral, regenerated each call.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
	DataPoints  int         `json:"data_points"`
}

// InsightsResponse is the API response for generated insights
type InsightsResponse struct {
	Insights   []Insight `json:"insights"`
	Range      TimeRange `json:"range"`
	ComputedAt time.Time `json:"computed_at"`
}

// StreakStatus is the evaluated streak state for one goal
type StreakStatus struct {
	GoalID        string     `json:"goal_id"`
	TargetSeconds float64    `json:"target_seconds"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	EvaluatedAt   time.Time  `json:"evaluated_at"`
	LastDataDay   *time.Time `json:"last_data_day,omitempty"`
}
