package analysis

import (
	"sort"
	"time"

	"github.com/replytrack/replytrack/internal/models"
)

// MatchResult holds the outcome of matching one conversation.
type MatchResult struct {
	// Windows are the newly realized response windows, in inbound
	// timestamp order. IDs and ownership fields are left for the caller
	// to assign before persistence.
	Windows []models.ResponseWindow

	// Pending are non-excluded inbound events that have no qualifying
	// reply yet. They are not represented as windows.
	Pending []models.MessageEvent
}

// MatchConversation pairs each non-excluded inbound event, in timestamp
// order, with the earliest non-excluded outbound event that is strictly
// later and within the matching window. Each outbound event answers at
// most one inbound event.
//
// matchedInbound and consumedOutbound carry the event IDs already bound
// to persisted windows, so re-running after a sync appends new windows
// without duplicating existing ones. Pass nil maps for a full match.
//
// The scan is a single forward merge over the inbound and outbound
// sequences, O(n) per conversation after the initial sort.
func MatchConversation(events []models.MessageEvent, matchedInbound, consumedOutbound map[string]struct{}, s Settings) MatchResult {
	sorted := make([]models.MessageEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var inbounds, outbounds []models.MessageEvent
	for _, ev := range sorted {
		if ev.Excluded {
			continue
		}
		switch ev.Direction {
		case models.DirectionInbound:
			inbounds = append(inbounds, ev)
		case models.DirectionOutbound:
			if _, used := consumedOutbound[ev.ID]; !used {
				outbounds = append(outbounds, ev)
			}
		}
	}

	maxGap := time.Duration(s.MatchingWindowDays) * 24 * time.Hour
	var res MatchResult
	j := 0
	for _, in := range inbounds {
		// Outbounds at or before this inbound can never answer it, nor
		// any later inbound, so the pointer only moves forward.
		for j < len(outbounds) && !outbounds[j].Timestamp.After(in.Timestamp) {
			j++
		}

		if _, done := matchedInbound[in.ID]; done {
			continue
		}

		if j >= len(outbounds) || outbounds[j].Timestamp.Sub(in.Timestamp) > maxGap {
			// Too late to qualify for this inbound, but a later inbound
			// may still claim it, so the outbound is not consumed.
			res.Pending = append(res.Pending, in)
			continue
		}

		out := outbounds[j]
		j++

		latency := out.Timestamp.Sub(in.Timestamp).Seconds()
		if latency <= 0 {
			// Clock skew; discard rather than surface an error.
			continue
		}

		res.Windows = append(res.Windows, newWindow(in, out, latency, s))
	}

	return res
}

func newWindow(in, out models.MessageEvent, latency float64, s Settings) models.ResponseWindow {
	conf := Confidence(latency)
	outID := out.ID
	return models.ResponseWindow{
		ConversationID:  in.ConversationID,
		InboundEventID:  in.ID,
		OutboundEventID: &outID,
		ParticipantID:   in.ParticipantID,
		InboundAt:       in.Timestamp,
		LatencySeconds:  latency,
		Confidence:      conf,
		Method:          models.MatchingMethodTimeWindow,
		DayOfWeek:       int(in.Timestamp.Weekday()),
		HourOfDay:       in.Timestamp.Hour(),
		WorkingHours:    s.InWorkingHours(in.Timestamp),
		Valid:           conf >= s.ConfidenceThreshold,
	}
}
