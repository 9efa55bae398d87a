package decision

import (
	"math"
	"testing"

	"cardano-pool-sentinel/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		threshold float64
		want      domain.Recommendation
	}{
		{"zero score", 0, 0.5, domain.SafeToTrade},
		{"below threshold", 0.49, 0.5, domain.SafeToTrade},
		{"above threshold", 0.51, 0.5, domain.TooRisky},
		{"far above", 2.0, 0.5, domain.TooRisky},
		{"zero threshold accepts zero", 0, 0, domain.SafeToTrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.score, tt.threshold); got != tt.want {
				t.Errorf("Decide(%f, %f) = %q, want %q", tt.score, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestDecide_InclusiveBoundary(t *testing.T) {
	// The boundary is inclusive: exactly at the threshold is safe, one
	// ulp above is not.
	if got := Decide(0.5, 0.5); got != domain.SafeToTrade {
		t.Errorf("Score at threshold should be safe, got %q", got)
	}
	above := math.Nextafter(0.5, 1)
	if got := Decide(above, 0.5); got != domain.TooRisky {
		t.Errorf("Score just above threshold should be risky, got %q", got)
	}
}
