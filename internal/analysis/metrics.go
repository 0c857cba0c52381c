package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

// Trend thresholds: changes inside the +/-5% band are reported as neutral.
const trendNeutralBandPct = 5.0

// ComputeMetrics reduces a window collection to an aggregate snapshot for
// the given platform filter ("" means all platforms) and time range. An
// empty filtered set yields an all-zero result, never an error.
func ComputeMetrics(windows []models.ResponseWindow, platform string, rng models.TimeRange) models.ResponseMetrics {
	filtered := FilterWindows(windows, platform, rng)
	m := models.ResponseMetrics{TrendDirection: models.TrendNeutral}
	if len(filtered) == 0 {
		return m
	}

	latencies := sortedLatencies(filtered)
	m.SampleCount = len(latencies)
	m.MedianSeconds = percentile(latencies, 0.5)
	m.MeanSeconds = mean(latencies)
	m.P90Seconds = percentile(latencies, 0.9)
	m.P95Seconds = percentile(latencies, 0.95)
	m.MinSeconds = latencies[0]
	m.MaxSeconds = latencies[len(latencies)-1]

	var working, off []float64
	for _, w := range filtered {
		if w.WorkingHours {
			working = append(working, w.LatencySeconds)
		} else {
			off = append(off, w.LatencySeconds)
		}
	}
	sort.Float64s(working)
	sort.Float64s(off)
	m.WorkingHoursMedian = percentile(working, 0.5)
	m.OffHoursMedian = percentile(off, 0.5)

	prev := FilterWindows(windows, platform, rng.Previous())
	if len(prev) > 0 {
		m.PreviousMedian = percentile(sortedLatencies(prev), 0.5)
	}
	m.TrendPercentage = (m.MedianSeconds - m.PreviousMedian) / math.Max(m.PreviousMedian, 1) * 100
	switch {
	case m.TrendPercentage < -trendNeutralBandPct:
		m.TrendDirection = models.TrendImproving
	case m.TrendPercentage > trendNeutralBandPct:
		m.TrendDirection = models.TrendDeclining
	}

	return m
}

// ComputeDailyMetrics buckets filtered windows by calendar day. Every day
// in the range is reported, zero-valued when empty, so the series length
// is constant. messageCounts optionally supplies per-day raw message
// volumes keyed by "2006-01-02"; pass nil when unknown.
func ComputeDailyMetrics(windows []models.ResponseWindow, platform string, rng models.TimeRange, messageCounts map[string]int) []models.DailyMetrics {
	filtered := FilterWindows(windows, platform, rng)

	buckets := make(map[string][]float64)
	for _, w := range filtered {
		key := w.InboundAt.Format("2006-01-02")
		buckets[key] = append(buckets[key], w.LatencySeconds)
	}

	var out []models.DailyMetrics
	day := time.Date(rng.Start.Year(), rng.Start.Month(), rng.Start.Day(), 0, 0, 0, 0, rng.Start.Location())
	for day.Before(rng.End) {
		key := day.Format("2006-01-02")
		latencies := buckets[key]
		sort.Float64s(latencies)
		out = append(out, models.DailyMetrics{
			Date:          day,
			MedianSeconds: percentile(latencies, 0.5),
			MeanSeconds:   mean(latencies),
			ResponseCount: len(latencies),
			MessageCount:  messageCounts[key],
		})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// ComputeHourlyMetrics buckets filtered windows by hour of day,
// independent of date. The result always has 24 entries.
func ComputeHourlyMetrics(windows []models.ResponseWindow, platform string, rng models.TimeRange) []models.HourlyMetrics {
	filtered := FilterWindows(windows, platform, rng)

	buckets := make([][]float64, 24)
	for _, w := range filtered {
		h := w.HourOfDay
		if h < 0 || h > 23 {
			continue
		}
		buckets[h] = append(buckets[h], w.LatencySeconds)
	}

	out := make([]models.HourlyMetrics, 24)
	for h, latencies := range buckets {
		sort.Float64s(latencies)
		out[h] = models.HourlyMetrics{
			Hour:          h,
			MedianSeconds: percentile(latencies, 0.5),
			MeanSeconds:   mean(latencies),
			ResponseCount: len(latencies),
		}
	}
	return out
}

// FilterWindows keeps windows valid for analytics, matching the platform
// filter ("" means all) with inbound timestamps inside the range.
func FilterWindows(windows []models.ResponseWindow, platform string, rng models.TimeRange) []models.ResponseWindow {
	var out []models.ResponseWindow
	for _, w := range windows {
		if !w.Valid {
			continue
		}
		if platform != "" && w.Platform != platform {
			continue
		}
		if !rng.Contains(w.InboundAt) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// percentile returns the element at floor(n*fraction) of an ascending
// slice, clamped to the last index. For even-sized inputs the median this
// yields is the lower middle element, not the midpoint average; the
// convention is kept deliberately for parity with historical expectations
// (see DESIGN.md).
func percentile(sorted []float64, fraction float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * fraction)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sortedLatencies(windows []models.ResponseWindow) []float64 {
	latencies := make([]float64, 0, len(windows))
	for _, w := range windows {
		latencies = append(latencies, w.LatencySeconds)
	}
	sort.Float64s(latencies)
	return latencies
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
