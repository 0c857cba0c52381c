package analysis

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

var insightNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func insightRange() models.TimeRange {
	return models.TimeRange{Start: insightNow.AddDate(0, 0, -30), End: insightNow}
}

func TestGenerateInsights_GettingStartedFallback(t *testing.T) {
	tests := []struct {
		name    string
		windows []models.ResponseWindow
	}{
		{"no windows", nil},
		{"below minimum sample size", []models.ResponseWindow{
			validWindow(insightNow.Add(-time.Hour), 600, "email"),
			validWindow(insightNow.Add(-2*time.Hour), 700, "email"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := GenerateInsights(tt.windows, insightRange(), insightNow, DefaultSettings())

			if len(insights) != 1 {
				t.Fatalf("expected exactly 1 insight, got %d", len(insights))
			}
			in := insights[0]
			if in.Type != models.InsightTypeRecommendation {
				t.Errorf("type = %q, want recommendation", in.Type)
			}
			if !strings.Contains(in.Title, "Getting Started") {
				t.Errorf("title = %q, want a getting-started title", in.Title)
			}
			if in.DataPoints != 0 {
				t.Errorf("data points = %d, want 0", in.DataPoints)
			}
		})
	}
}

func TestGenerateInsights_WellDistributedDataYieldsSeveral(t *testing.T) {
	rng := insightRange()
	var windows []models.ResponseWindow
	for i := 0; i < 20; i++ {
		at := rng.Start.AddDate(0, 0, i).Add(time.Duration(8+i%10) * time.Hour)
		lat := float64(300 + 400*(i%5))
		w := validWindow(at, lat, "email")
		w.ParticipantID = []string{"alice", "bob", "carol"}[i%3]
		windows = append(windows, w)
	}

	insights := GenerateInsights(windows, rng, insightNow, DefaultSettings())

	if len(insights) <= 1 {
		t.Fatalf("expected more than one insight, got %d", len(insights))
	}
	if len(insights) > DefaultSettings().MaxInsights {
		t.Fatalf("insight count %d exceeds cap %d", len(insights), DefaultSettings().MaxInsights)
	}
	for _, in := range insights {
		if in.DataPoints <= 0 {
			t.Errorf("insight %q has %d data points, want > 0", in.Title, in.DataPoints)
		}
		if in.Confidence < 0 || in.Confidence > 1 {
			t.Errorf("insight %q confidence %v outside [0,1]", in.Title, in.Confidence)
		}
	}
}

func TestGenerateInsights_CapUnderStress(t *testing.T) {
	rng := insightRange()
	r := rand.New(rand.NewSource(42))
	var windows []models.ResponseWindow
	for i := 0; i < 100; i++ {
		at := rng.Start.Add(time.Duration(r.Intn(30*24)) * time.Hour)
		lat := float64(60 + r.Intn(6*3600))
		w := validWindow(at, lat, []string{"email", "slack", "sms"}[r.Intn(3)])
		w.ParticipantID = []string{"alice", "bob", "carol", "dave"}[r.Intn(4)]
		windows = append(windows, w)
	}

	insights := GenerateInsights(windows, rng, insightNow, DefaultSettings())

	if len(insights) > 10 {
		t.Fatalf("insight count %d exceeds stress bound 10", len(insights))
	}
	if len(insights) > DefaultSettings().MaxInsights {
		t.Fatalf("insight count %d exceeds cap %d", len(insights), DefaultSettings().MaxInsights)
	}

	// Tracking summary survives truncation and stays last.
	last := insights[len(insights)-1]
	if !strings.Contains(last.Title, "Tracking") {
		t.Errorf("last insight = %q, want the tracking summary", last.Title)
	}
}

func TestGenerateInsights_ImprovingTrendIsDetected(t *testing.T) {
	// Fourteen days of steadily falling latency: 3600s down by 200s/day.
	rng := insightRange()
	var windows []models.ResponseWindow
	for i := 0; i < 14; i++ {
		at := insightNow.AddDate(0, 0, i-13).Add(-time.Hour)
		lat := float64(3600 - 200*i)
		windows = append(windows, validWindow(at, lat, "email"))
	}

	insights := GenerateInsights(windows, rng, insightNow, DefaultSettings())

	found := false
	for _, in := range insights {
		improving := strings.Contains(in.Title, "improving") || strings.Contains(in.Title, "faster")
		if (in.Type == models.InsightTypeTrend || in.Type == models.InsightTypeAchievement) && improving {
			found = true
		}
	}
	if !found {
		t.Fatalf("no improvement insight in %+v", titles(insights))
	}
}

func TestGenerateInsights_DayOfWeekPattern(t *testing.T) {
	// Four weeks where Mondays answer in 900s and Fridays in 5400s.
	rng := insightRange()
	monday := time.Date(2025, 2, 17, 10, 0, 0, 0, time.UTC)
	var windows []models.ResponseWindow
	for week := 0; week < 4; week++ {
		windows = append(windows,
			validWindow(monday.AddDate(0, 0, week*7), 900, "email"),
			validWindow(monday.AddDate(0, 0, week*7+4), 5400, "email"),
		)
	}

	insights := GenerateInsights(windows, rng, insightNow, DefaultSettings())

	found := false
	for _, in := range insights {
		if in.Type == models.InsightTypePattern && strings.Contains(in.Title, "Monday") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no Monday pattern insight in %+v", titles(insights))
	}
}

func TestGenerateInsights_Deterministic(t *testing.T) {
	rng := insightRange()
	r := rand.New(rand.NewSource(7))
	var windows []models.ResponseWindow
	for i := 0; i < 40; i++ {
		at := rng.Start.Add(time.Duration(r.Intn(30*24)) * time.Hour)
		lat := float64(120 + r.Intn(3*3600))
		w := validWindow(at, lat, "email")
		w.ParticipantID = []string{"alice", "bob"}[r.Intn(2)]
		windows = append(windows, w)
	}

	first := GenerateInsights(windows, rng, insightNow, DefaultSettings())
	second := GenerateInsights(windows, rng, insightNow, DefaultSettings())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated invocations differ:\n%+v\n%+v", first, second)
	}
}

func TestGenerateInsights_WorkingHoursWarning(t *testing.T) {
	rng := insightRange()
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	var windows []models.ResponseWindow
	for i := 0; i < 4; i++ {
		// Working hours: quick replies.
		windows = append(windows, validWindow(day.AddDate(0, 0, i).Add(10*time.Hour), 600, "email"))
		// Evenings: far slower.
		windows = append(windows, validWindow(day.AddDate(0, 0, i).Add(21*time.Hour), 7200, "email"))
	}

	insights := GenerateInsights(windows, rng, insightNow, DefaultSettings())

	found := false
	for _, in := range insights {
		if in.Type == models.InsightTypeWarning && strings.Contains(in.Title, "working hours") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no off-hours warning in %+v", titles(insights))
	}
}

func titles(insights []models.Insight) []string {
	out := make([]string, 0, len(insights))
	for _, in := range insights {
		out = append(out, in.Title)
	}
	return out
}
