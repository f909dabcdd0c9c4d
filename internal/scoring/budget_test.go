package scoring

import (
	"testing"

	"github.com/expostand/matchengine/internal/provider"
)

func TestEstimateProjectRange(t *testing.T) {
	e := ProjectRangeEstimator{}

	// A builder with no history gets the starter range.
	lo, hi := e.EstimateProjectRange(&provider.Provider{})
	if lo != baseProjectFloor {
		t.Errorf("floor = %f, want %d", lo, baseProjectFloor)
	}
	if hi != lo*ceilingBaseFactor {
		t.Errorf("ceiling = %f, want %f at rating 0", hi, lo*ceilingBaseFactor)
	}

	// The floor grows with delivery history and saturates at the cap.
	lo50, _ := e.EstimateProjectRange(&provider.Provider{CompletedCount: 50})
	lo100, _ := e.EstimateProjectRange(&provider.Provider{CompletedCount: 100})
	lo500, _ := e.EstimateProjectRange(&provider.Provider{CompletedCount: 500})
	if !(lo50 > lo && lo100 > lo50) {
		t.Errorf("floor should grow with completed projects: %f %f %f", lo, lo50, lo100)
	}
	if lo500 != lo100 {
		t.Errorf("floor should saturate at %d projects: %f != %f", floorProjectCap, lo500, lo100)
	}

	// The ceiling scales with rating.
	_, hiLow := e.EstimateProjectRange(&provider.Provider{CompletedCount: 30, Rating: 2})
	_, hiHigh := e.EstimateProjectRange(&provider.Provider{CompletedCount: 30, Rating: 5})
	if hiHigh <= hiLow {
		t.Errorf("ceiling should grow with rating: %f <= %f", hiHigh, hiLow)
	}

	// Out-of-range inputs are normalised, never negative.
	lo, hi = e.EstimateProjectRange(&provider.Provider{CompletedCount: -3, Rating: 9})
	if lo < 0 || hi < lo {
		t.Errorf("degenerate range %f..%f", lo, hi)
	}
}
