// Package analysis implements the responsiveness analytics core: pairing
// inbound messages with the outbound replies that answer them, and reducing
// the resulting response windows into metrics, insights and goal streaks.
//
// Everything in this package is a pure function of its inputs. There is no
// I/O, no ambient state, and no clock access beyond a caller-supplied "now",
// so all entry points are safe to run concurrently.
package analysis

import (
	"fmt"
	"time"
)

// Settings control matching and aggregation behaviour.
type Settings struct {
	// MatchingWindowDays is the maximum elapsed time in days within which
	// an outbound event may still be considered a reply.
	MatchingWindowDays int

	// ConfidenceThreshold gates which windows count as valid for analytics.
	ConfidenceThreshold float64

	// WorkingHoursStart and WorkingHoursEnd bound the daily working-hours
	// band, as hours of day. The band is [start, end).
	WorkingHoursStart int
	WorkingHoursEnd   int

	// ExcludeWeekends treats Saturday and Sunday as off-hours regardless
	// of the hour of day.
	ExcludeWeekends bool

	// MinimumSampleSize is the valid-window count below which insight
	// generation falls back to the getting-started recommendation.
	MinimumSampleSize int

	// MaxInsights caps the generated insight list, tracking summary included.
	MaxInsights int
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		MatchingWindowDays:  7,
		ConfidenceThreshold: 0.7,
		WorkingHoursStart:   9,
		WorkingHoursEnd:     17,
		ExcludeWeekends:     false,
		MinimumSampleSize:   5,
		MaxInsights:         8,
	}
}

// Validate rejects invalid configuration up front so the hot path never
// has to deal with it.
func (s Settings) Validate() error {
	if s.MatchingWindowDays <= 0 {
		return fmt.Errorf("matching window must be positive, got %d days", s.MatchingWindowDays)
	}
	if s.ConfidenceThreshold < 0 || s.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1], got %v", s.ConfidenceThreshold)
	}
	if s.WorkingHoursStart < 0 || s.WorkingHoursStart > 23 {
		return fmt.Errorf("working hours start must be in [0,23], got %d", s.WorkingHoursStart)
	}
	if s.WorkingHoursEnd < 1 || s.WorkingHoursEnd > 24 {
		return fmt.Errorf("working hours end must be in [1,24], got %d", s.WorkingHoursEnd)
	}
	if s.WorkingHoursEnd <= s.WorkingHoursStart {
		return fmt.Errorf("working hours end (%d) must be after start (%d)", s.WorkingHoursEnd, s.WorkingHoursStart)
	}
	if s.MinimumSampleSize < 1 {
		return fmt.Errorf("minimum sample size must be at least 1, got %d", s.MinimumSampleSize)
	}
	if s.MaxInsights < 1 {
		return fmt.Errorf("max insights must be at least 1, got %d", s.MaxInsights)
	}
	return nil
}

// InWorkingHours reports whether t falls inside the configured band.
func (s Settings) InWorkingHours(t time.Time) bool {
	if s.ExcludeWeekends {
		wd := t.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	h := t.Hour()
	return h >= s.WorkingHoursStart && h < s.WorkingHoursEnd
}
