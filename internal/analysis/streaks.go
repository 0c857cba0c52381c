package analysis

import (
	"sort"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

// StreakResult carries evaluated streak lengths for one target latency.
type StreakResult struct {
	Current int
	Longest int
	// LastDay is the most recent day with data, zero when there is none.
	LastDay time.Time
}

// EvaluateStreak derives day-level goal compliance from windows and a
// target latency. A day qualifies only when every window that day met the
// target. The current streak counts consecutive qualifying days ending at
// today, or at yesterday when today has no data yet; the longest streak
// spans the full history. No data yields zeros.
func EvaluateStreak(windows []models.ResponseWindow, targetSeconds float64, now time.Time) StreakResult {
	if len(windows) == 0 || targetSeconds <= 0 {
		return StreakResult{}
	}

	// All-or-nothing per day: one miss fails the whole day.
	days := make(map[time.Time]bool)
	for _, w := range windows {
		d := dayOf(w.InboundAt)
		pass, seen := days[d]
		if !seen {
			pass = true
		}
		if w.LatencySeconds > targetSeconds {
			pass = false
		}
		days[d] = pass
	}

	ordered := make([]time.Time, 0, len(days))
	for d := range days {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	res := StreakResult{LastDay: ordered[len(ordered)-1]}

	var prevQualifying time.Time
	run := 0
	for _, d := range ordered {
		if !days[d] {
			run = 0
			prevQualifying = time.Time{}
			continue
		}
		if !prevQualifying.IsZero() && d.Equal(prevQualifying.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		prevQualifying = d
		if run > res.Longest {
			res.Longest = run
		}
	}

	anchor := dayOf(now)
	if _, ok := days[anchor]; !ok {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for d := anchor; ; d = d.AddDate(0, 0, -1) {
		pass, ok := days[d]
		if !ok || !pass {
			break
		}
		res.Current++
	}

	return res
}

// dayOf normalizes a timestamp to its calendar day in UTC.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
