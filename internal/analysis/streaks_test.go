package analysis

import (
	"testing"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

var streakNow = time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)

func dayWindow(daysAgo int, latency float64) models.ResponseWindow {
	return validWindow(streakNow.AddDate(0, 0, -daysAgo).Add(-2*time.Hour), latency, "email")
}

func TestEvaluateStreak_NoData(t *testing.T) {
	res := EvaluateStreak(nil, 3600, streakNow)
	if res.Current != 0 || res.Longest != 0 {
		t.Errorf("expected zero streaks, got %+v", res)
	}
	if !res.LastDay.IsZero() {
		t.Errorf("last day = %v, want zero", res.LastDay)
	}
}

func TestEvaluateStreak_ConsecutiveQualifyingDays(t *testing.T) {
	windows := []models.ResponseWindow{
		dayWindow(2, 600),
		dayWindow(1, 1200),
		dayWindow(0, 900),
	}

	res := EvaluateStreak(windows, 3600, streakNow)

	if res.Current != 3 {
		t.Errorf("current = %d, want 3", res.Current)
	}
	if res.Longest != 3 {
		t.Errorf("longest = %d, want 3", res.Longest)
	}
}

func TestEvaluateStreak_MixedDayFailsWholeDay(t *testing.T) {
	// Yesterday had one pass and one miss; all-or-nothing means the day
	// fails and the streak resets.
	windows := []models.ResponseWindow{
		dayWindow(2, 600),
		dayWindow(1, 600),
		dayWindow(1, 7200), // over target
		dayWindow(0, 900),
	}

	res := EvaluateStreak(windows, 3600, streakNow)

	if res.Current != 1 {
		t.Errorf("current = %d, want 1 (yesterday failed)", res.Current)
	}
	if res.Longest != 1 {
		t.Errorf("longest = %d, want 1", res.Longest)
	}
}

func TestEvaluateStreak_AnchorsOnYesterdayWhenTodayHasNoData(t *testing.T) {
	windows := []models.ResponseWindow{
		dayWindow(3, 600),
		dayWindow(2, 600),
		dayWindow(1, 600),
	}

	res := EvaluateStreak(windows, 3600, streakNow)

	if res.Current != 3 {
		t.Errorf("current = %d, want 3 (anchored on yesterday)", res.Current)
	}
}

func TestEvaluateStreak_GapBreaksCurrentStreak(t *testing.T) {
	windows := []models.ResponseWindow{
		dayWindow(5, 600),
		dayWindow(4, 600),
		dayWindow(3, 600),
		// nothing on day 2
		dayWindow(0, 600),
	}

	res := EvaluateStreak(windows, 3600, streakNow)

	if res.Current != 1 {
		t.Errorf("current = %d, want 1 (gap two days ago)", res.Current)
	}
	if res.Longest != 3 {
		t.Errorf("longest = %d, want 3", res.Longest)
	}
}

func TestEvaluateStreak_StaleHistoryLeavesNoCurrentStreak(t *testing.T) {
	windows := []models.ResponseWindow{
		dayWindow(10, 600),
		dayWindow(9, 600),
	}

	res := EvaluateStreak(windows, 3600, streakNow)

	if res.Current != 0 {
		t.Errorf("current = %d, want 0 (no data today or yesterday)", res.Current)
	}
	if res.Longest != 2 {
		t.Errorf("longest = %d, want 2", res.Longest)
	}
}

func TestEvaluateStreak_NonPositiveTarget(t *testing.T) {
	windows := []models.ResponseWindow{dayWindow(0, 600)}
	res := EvaluateStreak(windows, 0, streakNow)
	if res.Current != 0 || res.Longest != 0 {
		t.Errorf("expected zero streaks for zero target, got %+v", res)
	}
}
