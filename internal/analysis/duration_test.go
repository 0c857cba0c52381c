package analysis

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{30, "30s"},
		{300, "5m"},
		{3600, "1h"},
		{5400, "1h 30m"},
		{86400, "1d"},
		{90000, "1d 1h"},
		{0, "0s"},
		{-5, "0s"},
		{90, "1m 30s"},
		{7320, "2h 2m"},
		{172800, "2d"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults are valid", func(s *Settings) {}, false},
		{"negative matching window", func(s *Settings) { s.MatchingWindowDays = -1 }, true},
		{"zero matching window", func(s *Settings) { s.MatchingWindowDays = 0 }, true},
		{"threshold above one", func(s *Settings) { s.ConfidenceThreshold = 1.2 }, true},
		{"negative threshold", func(s *Settings) { s.ConfidenceThreshold = -0.1 }, true},
		{"inverted working hours", func(s *Settings) { s.WorkingHoursStart = 18; s.WorkingHoursEnd = 9 }, true},
		{"zero minimum sample size", func(s *Settings) { s.MinimumSampleSize = 0 }, true},
		{"zero insight cap", func(s *Settings) { s.MaxInsights = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
