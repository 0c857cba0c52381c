package analysis

import (
	"fmt"
	"math"
)

// FormatDuration renders a latency in seconds as a compact label using at
// most two units: "30s", "5m", "1h 30m", "1d 1h".
func FormatDuration(seconds float64) string {
	s := int(math.Round(seconds))
	if s < 0 {
		s = 0
	}
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		m, r := s/60, s%60
		if r == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, r)
	case s < 86400:
		h, m := s/3600, (s%3600)/60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		d, h := s/86400, (s%86400)/3600
		if h == 0 {
			return fmt.Sprintf("%dd", d)
		}
		return fmt.Sprintf("%dd %dh", d, h)
	}
}
