package models

import "time"

// TrendDirection classifies a period-over-period change
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendNeutral   TrendDirection = "neutral"
)

// TimeRange is a half-open interval [Start, End)
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Previous returns the immediately preceding range of equal length
func (r TimeRange) Previous() TimeRange {
	length := r.End.Sub(r.Start)
	return TimeRange{Start: r.Start.Add(-length), End: r.Start}
}

// Contains reports whether t falls inside the range
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ResponseMetrics is an aggregate snapshot for a (platform, time range)
// pair. Recomputed on demand, never persisted.
type ResponseMetrics struct {
	SampleCount         int            `json:"sample_count"`
	MedianSeconds       float64        `json:"median_seconds"`
	MeanSeconds         float64        `json:"mean_seconds"`
	P90Seconds          float64        `json:"p90_seconds"`
	P95Seconds          float64        `json:"p95_seconds"`
	MinSeconds          float64        `json:"min_seconds"`
	MaxSeconds          float64        `json:"max_seconds"`
	WorkingHoursMedian  float64        `json:"working_hours_median"`
	OffHoursMedian      float64        `json:"off_hours_median"`
	PreviousMedian      float64        `json:"previous_median"`
	TrendPercentage     float64        `json:"trend_percentage"`
	TrendDirection      TrendDirection `json:"trend_direction"`
}

// DailyMetrics is the per-calendar-day latency bucket. Days with no
// samples are still reported so the series length stays constant.
type DailyMetrics struct {
	Date          time.Time `json:"date"`
	MedianSeconds float64   `json:"median_seconds"`
	MeanSeconds   float64   `json:"mean_seconds"`
	ResponseCount int       `json:"response_count"`
	MessageCount  int       `json:"message_count"`
}

// HourlyMetrics is the per-hour-of-day latency bucket (0-23,
// independent of date). The series always has 24 entries.
type HourlyMetrics struct {
	Hour          int     `json:"hour"`
	MedianSeconds float64 `json:"median_seconds"`
	MeanSeconds   float64 `json:"mean_seconds"`
	ResponseCount int     `json:"response_count"`
}

// PendingEvent is an inbound message still awaiting a reply
type PendingEvent struct {
	EventID        string    `json:"event_id"`
	ConversationID string    `json:"conversation_id"`
	Platform       string    `json:"platform"`
	ParticipantID  string    `json:"participant_id"`
	Timestamp      time.Time `json:"timestamp"`
	WaitingSeconds float64   `json:"waiting_seconds"`
}
