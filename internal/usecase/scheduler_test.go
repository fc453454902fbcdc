package usecase

import (
	"testing"
	"time"
)

func TestMatchesRunTime(t *testing.T) {
	tests := []struct {
		clock   string
		runTime string
		want    bool
	}{
		{"2026-08-29T09:00:30Z", "09:00", true},
		{"2026-08-29T09:00:59Z", "09:00", true},
		{"2026-08-29T09:01:00Z", "09:00", false},
		{"2026-08-29T08:59:59Z", "09:00", false},
		{"2026-08-29T21:30:00Z", "21:30", true},
	}
	for _, tt := range tests {
		now, err := time.Parse(time.RFC3339, tt.clock)
		if err != nil {
			t.Fatalf("parsing %q: %v", tt.clock, err)
		}
		if got := matchesRunTime(now, tt.runTime); got != tt.want {
			t.Errorf("matchesRunTime(%s, %s) = %v, want %v", tt.clock, tt.runTime, got, tt.want)
		}
	}
}
