package worker

import (
	"testing"
	"time"
)

func TestExponentialBackoffGrowsAndCaps(t *testing.T) {
	jitter := 250 * time.Millisecond

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
		{20, 5 * time.Minute}, // capped
	}

	for _, tt := range tests {
		d := ExponentialBackoff(tt.attempt)

		if d < tt.base || d > tt.base+jitter {
			t.Fatalf("attempt %d: got %v, want [%v, %v]", tt.attempt, d, tt.base, tt.base+jitter)
		}
	}
}
