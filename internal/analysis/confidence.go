package analysis

// Confidence assigns a reliability score to a matched latency using fixed
// decay bands. Long-delay matches stay counted, so totals reconcile, but
// are down-weighted wherever validity filtering applies.
//
// The same bands apply to every matching method; thread-identifier matches
// are not currently given elevated trust.
func Confidence(latencySeconds float64) float64 {
	switch {
	case latencySeconds < 24*3600:
		return 1.0
	case latencySeconds < 48*3600:
		return 0.8
	case latencySeconds < 72*3600:
		return 0.6
	default:
		return 0.4
	}
}
