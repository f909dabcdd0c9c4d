package scoring

import "github.com/expostand/matchengine/internal/provider"

// No-overlap fallback points. A lead whose budget exceeds the builder's
// typical ceiling is still a plausible stretch project (30); a lead below
// the builder's floor rarely converts (10). Tunable policy constants, not
// derived rules.
const (
	BudgetOverBonus  = 30
	BudgetUnderBonus = 10
)

// BudgetEstimator estimates a builder's typical project value range in
// EUR. Isolated behind an interface so the heuristic can be tuned or
// replaced without touching ranking control flow.
type BudgetEstimator interface {
	EstimateProjectRange(p *provider.Provider) (lo, hi float64)
}

// ProjectRangeEstimator derives a typical project range from a builder's
// delivery history: the floor grows with completed projects, the ceiling
// scales with rating. Builders with no history get a small starter range.
type ProjectRangeEstimator struct{}

// Compile-time check.
var _ BudgetEstimator = ProjectRangeEstimator{}

const (
	baseProjectFloor   = 5000 // EUR floor for a builder with no history
	floorPerProject    = 200  // EUR added per completed project
	floorProjectCap    = 100  // completed projects counted toward the floor
	ceilingBaseFactor  = 2.0  // ceiling multiple at rating 0
	ceilingRatingSlope = 1.0  // additional multiple per rating point
)

func (ProjectRangeEstimator) EstimateProjectRange(p *provider.Provider) (lo, hi float64) {
	completed := p.CompletedCount
	if completed > floorProjectCap {
		completed = floorProjectCap
	}
	if completed < 0 {
		completed = 0
	}
	lo = baseProjectFloor + floorPerProject*float64(completed)

	rating := p.Rating
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	hi = lo * (ceilingBaseFactor + ceilingRatingSlope*rating)
	return lo, hi
}
