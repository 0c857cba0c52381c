package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

// Detector thresholds.
const (
	fastReplySeconds    = 30 * 60      // "fast responder" tier
	slowMedianSeconds   = 4 * 3600     // "slow responder" tier
	offHoursSlowRatio   = 1.5          // off-hours vs working-hours warning
	offHoursFastRatio   = 0.8          // off-hours faster than working hours
	weekTrendPct        = 15.0         // week-over-week change worth reporting
	weekTrendMinSamples = 3            // per week
	anomalyRatio        = 3.0          // day median vs overall median
	anomalyMinSamples   = 3            // same-day samples required
	contactMinResponses = 3            // VIP detector volume floor
	contactFastRatio    = 0.5          // VIP median vs everyone else
	regressionMinPoints = 5            // least-squares fit floor
	regressionMinR2     = 0.6          // fit quality floor
	regressionMinSlope  = 0.05         // daily change relative to the mean
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// GenerateInsights mines valid windows inside the range for human-meaningful
// patterns. Below the minimum sample size it returns exactly one
// getting-started recommendation. Otherwise each detector runs
// independently and emits zero or one insight; the list is sorted by
// confidence, capped to the configured maximum and terminated by the
// tracking summary, which is exempt from truncation.
//
// Output is deterministic for identical inputs: now is caller-supplied and
// every grouping iterates in sorted order.
func GenerateInsights(windows []models.ResponseWindow, rng models.TimeRange, now time.Time, s Settings) []models.Insight {
	valid := FilterWindows(windows, "", rng)
	if len(valid) < s.MinimumSampleSize {
		return []models.Insight{gettingStartedInsight(len(valid), s)}
	}

	var out []models.Insight
	add := func(in models.Insight, ok bool) {
		if ok {
			out = append(out, in)
		}
	}

	add(dayOfWeekInsight(valid))
	add(hourOfDayInsight(valid))
	add(workingHoursInsight(valid))
	add(speedTierInsight(valid))
	add(weekTrendInsight(valid, now))
	add(consistencyInsight(valid))
	add(anomalyInsight(valid))
	add(contactInsight(valid))
	add(regressionInsight(valid))

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > s.MaxInsights-1 {
		out = out[:s.MaxInsights-1]
	}

	return append(out, summaryInsight(valid))
}

func gettingStartedInsight(have int, s Settings) models.Insight {
	return models.Insight{
		Type:       models.InsightTypeRecommendation,
		Title:      "Getting Started",
		Description: fmt.Sprintf(
			"Keep syncing your conversations. %d more tracked responses are needed before trends become meaningful.",
			s.MinimumSampleSize-have),
		Confidence: 1.0,
		DataPoints: 0,
	}
}

// dayOfWeekInsight names the fastest weekday when it measurably differs
// from the slowest.
func dayOfWeekInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	buckets := make([][]float64, 7)
	for _, w := range windows {
		if w.DayOfWeek >= 0 && w.DayOfWeek <= 6 {
			buckets[w.DayOfWeek] = append(buckets[w.DayOfWeek], w.LatencySeconds)
		}
	}

	best, worst := -1, -1
	var bestMed, worstMed float64
	for d := 0; d < 7; d++ {
		if len(buckets[d]) == 0 {
			continue
		}
		sort.Float64s(buckets[d])
		med := percentile(buckets[d], 0.5)
		if best == -1 || med < bestMed {
			best, bestMed = d, med
		}
		if worst == -1 || med > worstMed {
			worst, worstMed = d, med
		}
	}
	if best == -1 || best == worst || bestMed >= worstMed {
		return models.Insight{}, false
	}

	return models.Insight{
		Type:  models.InsightTypePattern,
		Title: fmt.Sprintf("Fastest on %s", dayNames[best]),
		Description: fmt.Sprintf("Your median response time on %s is %s, compared to %s on %s.",
			dayNames[best], FormatDuration(bestMed), FormatDuration(worstMed), dayNames[worst]),
		Confidence: sampleConfidence(len(windows)),
		DataPoints: len(buckets[best]) + len(buckets[worst]),
	}, true
}

// hourOfDayInsight names the peak hour, requiring at least two samples in
// the winning hour so a single lucky reply does not crown it.
func hourOfDayInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	buckets := make([][]float64, 24)
	for _, w := range windows {
		if w.HourOfDay >= 0 && w.HourOfDay <= 23 {
			buckets[w.HourOfDay] = append(buckets[w.HourOfDay], w.LatencySeconds)
		}
	}

	best := -1
	var bestMed float64
	for h := 0; h < 24; h++ {
		if len(buckets[h]) < 2 {
			continue
		}
		sort.Float64s(buckets[h])
		med := percentile(buckets[h], 0.5)
		if best == -1 || med < bestMed {
			best, bestMed = h, med
		}
	}
	if best == -1 {
		return models.Insight{}, false
	}

	return models.Insight{
		Type:  models.InsightTypePattern,
		Title: fmt.Sprintf("Peak hour: %s", formatHour(best)),
		Description: fmt.Sprintf("Replies sent around %s go out fastest, with a median of %s.",
			formatHour(best), FormatDuration(bestMed)),
		Confidence: sampleConfidence(len(buckets[best]) * 4),
		DataPoints: len(buckets[best]),
	}, true
}

// workingHoursInsight compares the working-hours and off-hours cohorts.
func workingHoursInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	var working, off []float64
	for _, w := range windows {
		if w.WorkingHours {
			working = append(working, w.LatencySeconds)
		} else {
			off = append(off, w.LatencySeconds)
		}
	}
	if len(working) == 0 || len(off) == 0 {
		return models.Insight{}, false
	}
	sort.Float64s(working)
	sort.Float64s(off)
	workMed := percentile(working, 0.5)
	offMed := percentile(off, 0.5)
	ratio := offMed / math.Max(workMed, 1)

	if ratio > offHoursSlowRatio {
		return models.Insight{
			Type:  models.InsightTypeWarning,
			Title: "Slower outside working hours",
			Description: fmt.Sprintf("Off-hours replies take a median of %s versus %s during working hours.",
				FormatDuration(offMed), FormatDuration(workMed)),
			Confidence: clamp01(ratio / 3),
			DataPoints: len(working) + len(off),
		}, true
	}
	if ratio < offHoursFastRatio {
		return models.Insight{
			Type:  models.InsightTypeAchievement,
			Title: "Faster off the clock",
			Description: fmt.Sprintf("Off-hours replies go out in a median of %s, quicker than the %s working-hours median.",
				FormatDuration(offMed), FormatDuration(workMed)),
			Confidence: clamp01(1 - ratio),
			DataPoints: len(working) + len(off),
		}, true
	}
	return models.Insight{}, false
}

// speedTierInsight classifies overall responsiveness.
func speedTierInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	fast := 0
	for _, w := range windows {
		if w.LatencySeconds < fastReplySeconds {
			fast++
		}
	}
	fraction := float64(fast) / float64(len(windows))
	if fraction > 0.5 {
		return models.Insight{
			Type:  models.InsightTypeAchievement,
			Title: "Fast responder",
			Description: fmt.Sprintf("%.0f%% of your replies go out within 30 minutes.",
				fraction*100),
			Confidence: fraction,
			DataPoints: fast,
		}, true
	}

	med := percentile(sortedLatencies(windows), 0.5)
	if med > slowMedianSeconds {
		return models.Insight{
			Type:  models.InsightTypeRecommendation,
			Title: "Room to speed up",
			Description: fmt.Sprintf("Your overall median response time is %s. A tighter response goal could help bring it down.",
				FormatDuration(med)),
			Confidence: clamp01(med / (2 * slowMedianSeconds)),
			DataPoints: len(windows),
		}, true
	}
	return models.Insight{}, false
}

// weekTrendInsight compares the last seven days to the seven before.
func weekTrendInsight(windows []models.ResponseWindow, now time.Time) (models.Insight, bool) {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var current, previous []float64
	for _, w := range windows {
		switch {
		case !w.InboundAt.Before(weekAgo):
			current = append(current, w.LatencySeconds)
		case !w.InboundAt.Before(twoWeeksAgo):
			previous = append(previous, w.LatencySeconds)
		}
	}
	if len(current) < weekTrendMinSamples || len(previous) < weekTrendMinSamples {
		return models.Insight{}, false
	}
	sort.Float64s(current)
	sort.Float64s(previous)
	currMed := percentile(current, 0.5)
	prevMed := percentile(previous, 0.5)
	change := (currMed - prevMed) / math.Max(prevMed, 1) * 100

	if change < -weekTrendPct {
		return models.Insight{
			Type:  models.InsightTypeAchievement,
			Title: "Response times improving",
			Description: fmt.Sprintf("Your median dropped from %s to %s over the last week, a %.0f%% improvement.",
				FormatDuration(prevMed), FormatDuration(currMed), -change),
			Confidence: clamp01(-change / 50),
			DataPoints: len(current) + len(previous),
		}, true
	}
	if change > weekTrendPct {
		return models.Insight{
			Type:  models.InsightTypeWarning,
			Title: "Response times slowing down",
			Description: fmt.Sprintf("Your median rose from %s to %s over the last week, a %.0f%% slowdown.",
				FormatDuration(prevMed), FormatDuration(currMed), change),
			Confidence: clamp01(change / 50),
			DataPoints: len(current) + len(previous),
		}, true
	}
	return models.Insight{}, false
}

// consistencyInsight reports when the interquartile range is unusually
// tight or wide relative to the median.
func consistencyInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	latencies := sortedLatencies(windows)
	n := len(latencies)
	if n < 5 {
		return models.Insight{}, false
	}
	q1 := latencies[n/4]
	q3 := latencies[3*n/4]
	med := latencies[n/2]
	if med <= 0 {
		return models.Insight{}, false
	}
	iqr := q3 - q1

	if iqr < 0.5*med {
		return models.Insight{
			Type:  models.InsightTypeAchievement,
			Title: "Consistent responder",
			Description: fmt.Sprintf("Half of your response times fall within a %s band around your %s median.",
				FormatDuration(iqr), FormatDuration(med)),
			Confidence: clamp01(1 - iqr/med),
			DataPoints: n,
		}, true
	}
	if iqr > 2*med {
		return models.Insight{
			Type:  models.InsightTypeWarning,
			Title: "Variable response times",
			Description: fmt.Sprintf("Your response times spread across %s while the median is %s. Some replies wait far longer than others.",
				FormatDuration(iqr), FormatDuration(med)),
			Confidence: clamp01(iqr / (4 * med)),
			DataPoints: n,
		}, true
	}
	return models.Insight{}, false
}

// anomalyInsight flags the day whose median deviates most sharply from the
// overall median, in either direction.
func anomalyInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	overall := percentile(sortedLatencies(windows), 0.5)
	if overall <= 0 {
		return models.Insight{}, false
	}

	buckets := make(map[string][]float64)
	for _, w := range windows {
		key := w.InboundAt.Format("2006-01-02")
		buckets[key] = append(buckets[key], w.LatencySeconds)
	}
	days := make([]string, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Strings(days)

	bestDay := ""
	var bestDeviation, bestMed float64
	bestCount := 0
	for _, d := range days {
		latencies := buckets[d]
		if len(latencies) < anomalyMinSamples {
			continue
		}
		sort.Float64s(latencies)
		med := percentile(latencies, 0.5)
		if med <= 0 {
			continue
		}
		ratio := med / overall
		deviation := math.Max(ratio, 1/ratio)
		if deviation > bestDeviation {
			bestDay, bestDeviation, bestMed, bestCount = d, deviation, med, len(latencies)
		}
	}
	if bestDay == "" || bestDeviation < anomalyRatio {
		return models.Insight{}, false
	}

	direction := "slower"
	if bestMed < overall {
		direction = "faster"
	}
	return models.Insight{
		Type:  models.InsightTypeAnomaly,
		Title: fmt.Sprintf("Unusual day: %s", bestDay),
		Description: fmt.Sprintf("On %s your median response time was %s, markedly %s than your overall %s.",
			bestDay, FormatDuration(bestMed), direction, FormatDuration(overall)),
		Confidence: clamp01(bestDeviation / (2 * anomalyRatio)),
		DataPoints: bestCount,
	}, true
}

// contactInsight finds a contact answered distinctly faster than everyone
// else.
func contactInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	byContact := make(map[string][]float64)
	for _, w := range windows {
		if w.ParticipantID == "" {
			continue
		}
		byContact[w.ParticipantID] = append(byContact[w.ParticipantID], w.LatencySeconds)
	}
	if len(byContact) < 2 {
		return models.Insight{}, false
	}
	contacts := make([]string, 0, len(byContact))
	for c := range byContact {
		contacts = append(contacts, c)
	}
	sort.Strings(contacts)

	bestContact := ""
	var bestRatio, bestMed float64
	bestCount := 0
	for _, c := range contacts {
		latencies := byContact[c]
		if len(latencies) < contactMinResponses {
			continue
		}
		var rest []float64
		for _, other := range contacts {
			if other != c {
				rest = append(rest, byContact[other]...)
			}
		}
		if len(rest) == 0 {
			continue
		}
		sort.Float64s(latencies)
		sort.Float64s(rest)
		med := percentile(latencies, 0.5)
		restMed := percentile(rest, 0.5)
		if restMed <= 0 {
			continue
		}
		ratio := med / restMed
		if bestContact == "" || ratio < bestRatio {
			bestContact, bestRatio, bestMed, bestCount = c, ratio, med, len(latencies)
		}
	}
	if bestContact == "" || bestRatio >= contactFastRatio {
		return models.Insight{}, false
	}

	return models.Insight{
		Type:  models.InsightTypeAchievement,
		Title: fmt.Sprintf("Quick replies to %s", bestContact),
		Description: fmt.Sprintf("You answer %s in a median of %s, far faster than anyone else.",
			bestContact, FormatDuration(bestMed)),
		Confidence: clamp01(1 - bestRatio),
		DataPoints: bestCount,
	}, true
}

// regressionInsight fits latency over time and projects the direction when
// the fit is strong. It never fails on degenerate inputs; poor fits simply
// emit nothing.
func regressionInsight(windows []models.ResponseWindow) (models.Insight, bool) {
	if len(windows) < regressionMinPoints {
		return models.Insight{}, false
	}
	points := make([]models.ResponseWindow, len(windows))
	copy(points, windows)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].InboundAt.Before(points[j].InboundAt)
	})

	origin := points[0].InboundAt
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		x := p.InboundAt.Sub(origin).Hours()
		y := p.LatencySeconds
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return models.Insight{}, false
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	meanY := sumY / n

	var ssRes, ssTot float64
	for _, p := range points {
		x := p.InboundAt.Sub(origin).Hours()
		resid := p.LatencySeconds - (intercept + slope*x)
		ssRes += resid * resid
		d := p.LatencySeconds - meanY
		ssTot += d * d
	}
	if ssTot == 0 {
		return models.Insight{}, false
	}
	r2 := 1 - ssRes/ssTot

	dailyChange := slope * 24
	if r2 < regressionMinR2 || math.Abs(dailyChange) < regressionMinSlope*math.Max(meanY, 1) {
		return models.Insight{}, false
	}

	title := "On track to get faster"
	direction := "drop"
	if slope > 0 {
		title = "Trending slower"
		direction = "grow"
	}
	return models.Insight{
		Type:  models.InsightTypeTrend,
		Title: title,
		Description: fmt.Sprintf("At the current rate your response times %s by about %s per day.",
			direction, FormatDuration(math.Abs(dailyChange))),
		Confidence: clamp01(r2),
		DataPoints: len(points),
	}, true
}

// summaryInsight is appended last and survives truncation.
func summaryInsight(windows []models.ResponseWindow) models.Insight {
	platforms := make(map[string]struct{})
	for _, w := range windows {
		if w.Platform != "" {
			platforms[w.Platform] = struct{}{}
		}
	}
	count := len(platforms)
	if count == 0 {
		count = 1
	}
	noun := "platforms"
	if count == 1 {
		noun = "platform"
	}
	return models.Insight{
		Type:        models.InsightTypePattern,
		Title:       "Tracking summary",
		Description: fmt.Sprintf("Tracking %d responses across %d %s.", len(windows), count, noun),
		Confidence:  1.0,
		DataPoints:  len(windows),
	}
}

// sampleConfidence grows with sample size, floored so thin-but-reported
// patterns still carry some weight.
func sampleConfidence(n int) float64 {
	c := float64(n) / 30
	if c > 1 {
		return 1
	}
	if c < 0.3 {
		return 0.3
	}
	return c
}

// formatHour renders an hour of day as a 12-hour clock label.
func formatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
