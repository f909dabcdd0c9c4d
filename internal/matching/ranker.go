package matching

import (
	"sort"

	"github.com/expostand/matchengine/internal/lead"
	"github.com/expostand/matchengine/internal/provider"
	"github.com/expostand/matchengine/internal/scoring"
)

// Candidate pairs a builder with its score for one lead.
type Candidate struct {
	Provider  *provider.Provider
	Breakdown scoring.Breakdown
}

// Ranker scores and orders candidates for a lead. It is pure over the
// candidate snapshot: the same inputs always yield the same ordered list.
type Ranker struct {
	scorer     *scoring.Scorer
	minScore   float64
	maxResults int
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithMinScore overrides the eligibility threshold.
func WithMinScore(min float64) RankerOption {
	return func(r *Ranker) { r.minScore = min }
}

// WithMaxResults overrides the result cap.
func WithMaxResults(max int) RankerOption {
	return func(r *Ranker) { r.maxResults = max }
}

// NewRanker creates a ranker around the given scorer.
func NewRanker(scorer *scoring.Scorer, opts ...RankerOption) *Ranker {
	r := &Ranker{
		scorer:     scorer,
		minScore:   DefaultMinScore,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// eligible is the pre-allocation gate: only active builders with credit
// headroom may be matched at all.
func (r *Ranker) eligible(p *provider.Provider) bool {
	if p.Status != provider.StatusActive {
		return false
	}
	if p.Plan.CreditLimited() && p.LeadCredits <= 0 {
		return false
	}
	return true
}

// Rank scores every candidate, drops ineligible ones and those below the
// minimum score, orders the rest and truncates to the cap.
//
// Ties on exact score prefer verified builders, then higher plan tiers,
// then lower provider id so the order is fully deterministic.
func (r *Ranker) Rank(l *lead.Lead, candidates []*provider.Provider) []Candidate {
	ranked := make([]Candidate, 0, len(candidates))
	for _, p := range candidates {
		if p == nil || !r.eligible(p) {
			continue
		}
		b := r.scorer.Score(l, p)
		if b.Total < r.minScore {
			continue
		}
		ranked = append(ranked, Candidate{Provider: p, Breakdown: b})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Provider.Verified != b.Provider.Verified {
			return a.Provider.Verified
		}
		if ar, br := a.Provider.Plan.Rank(), b.Provider.Plan.Rank(); ar != br {
			return ar > br
		}
		return a.Provider.ID < b.Provider.ID
	})

	if len(ranked) > r.maxResults {
		ranked = ranked[:r.maxResults]
	}
	return ranked
}
