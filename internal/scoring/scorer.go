// Package scoring computes the 0-100 compatibility score between one lead
// and one builder. Scoring is pure and deterministic: no state, no I/O,
// no error paths. Malformed input is rejected by the caller before a
// scorer ever sees it.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/expostand/matchengine/internal/lead"
	"github.com/expostand/matchengine/internal/plan"
	"github.com/expostand/matchengine/internal/provider"
)

// Weights are the relative shares of each sub-score in the base score.
type Weights struct {
	Geographic   float64
	Capability   float64
	Budget       float64
	Performance  float64
	Availability float64
	Timeline     float64
	Trust        float64
}

// DefaultWeights is the production weighting.
var DefaultWeights = Weights{
	Geographic:   0.25,
	Capability:   0.20,
	Budget:       0.15,
	Performance:  0.15,
	Availability: 0.10,
	Timeline:     0.10,
	Trust:        0.05,
}

// Bonus points applied after the weighted base is clamped. They break
// ties in favour of higher-commitment builders without letting plan
// spend dominate the fit signal.
const (
	BonusPremiumMember = 5
	BonusTopTierPlan   = 3
	BonusUrgentFast    = 5
)

// Saturation points for the performance composite.
const (
	reviewSaturation    = 50
	yearsSaturation     = 10
	completedSaturation = 100
)

// Breakdown carries each sub-score (0-100, unweighted), the clamped
// weighted base, bonus points and the final total.
type Breakdown struct {
	Geographic   float64 `json:"geographic"`
	Capability   float64 `json:"capability"`
	Budget       float64 `json:"budget"`
	Performance  float64 `json:"performance"`
	Availability float64 `json:"availability"`
	Timeline     float64 `json:"timeline"`
	Trust        float64 `json:"trust"`

	Base    float64  `json:"base"`
	Bonus   float64  `json:"bonus"`
	Total   float64  `json:"total"`
	Reasons []string `json:"reasons,omitempty"`
}

// Scorer computes lead/builder compatibility.
type Scorer struct {
	weights   Weights
	estimator BudgetEstimator
	now       func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default weighting.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithEstimator overrides the budget-range estimator.
func WithEstimator(e BudgetEstimator) Option {
	return func(s *Scorer) { s.estimator = e }
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// NewScorer creates a scorer with production defaults.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:   DefaultWeights,
		estimator: ProjectRangeEstimator{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the total compatibility score and its breakdown.
func (s *Scorer) Score(l *lead.Lead, p *provider.Provider) Breakdown {
	b := Breakdown{
		Geographic:   s.geographicScore(l, p),
		Capability:   s.capabilityScore(l, p),
		Budget:       s.budgetScore(l, p),
		Performance:  s.performanceScore(p),
		Availability: s.availabilityScore(l, p),
		Timeline:     s.timelineScore(l, p),
		Trust:        s.trustScore(p),
	}

	w := s.weights
	base := b.Geographic*w.Geographic +
		b.Capability*w.Capability +
		b.Budget*w.Budget +
		b.Performance*w.Performance +
		b.Availability*w.Availability +
		b.Timeline*w.Timeline +
		b.Trust*w.Trust
	b.Base = clamp(base)

	b.Bonus = bonusPoints(l, p)
	b.Total = clamp(b.Base + b.Bonus)
	b.Reasons = reasons(l, p, &b)
	return b
}

func (s *Scorer) geographicScore(l *lead.Lead, p *provider.Provider) float64 {
	switch {
	case strings.EqualFold(p.HQ.City, l.City):
		return 100
	case p.ServesCity(l.City):
		return 90
	case strings.EqualFold(p.HQ.Country, l.Country):
		return 70
	case p.ServesCountry(l.Country):
		return 60
	case len(p.ServedLocations) >= 6:
		// Six or more distinct markets: treated as international capability.
		return 30
	default:
		return 0
	}
}

func (s *Scorer) capabilityScore(l *lead.Lead, p *provider.Provider) float64 {
	if len(l.Tags) == 0 {
		// No requested capabilities: neutral, let other factors decide.
		return 50
	}
	matched := 0
	for _, want := range l.Tags {
		for _, have := range p.Tags {
			if strings.EqualFold(want, have) {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}
	ratio := float64(matched) / float64(len(l.Tags))
	return 30 + 70*ratio
}

func (s *Scorer) budgetScore(l *lead.Lead, p *provider.Provider) float64 {
	leadLo, leadHi, ok := l.Budget.Range()
	if !ok {
		return 0
	}
	provLo, provHi := s.estimator.EstimateProjectRange(p)

	overlap := minf(leadHi, provHi) - maxf(leadLo, provLo)
	if overlap <= 0 {
		if leadLo >= provHi {
			return BudgetOverBonus
		}
		return BudgetUnderBonus
	}
	return clamp(overlap / (leadHi - leadLo) * 100)
}

func (s *Scorer) performanceScore(p *provider.Provider) float64 {
	rating := clamp(p.Rating / 5 * 100)
	reviews := clamp(float64(min(p.ReviewCount, reviewSaturation)) / reviewSaturation * 100)
	years := clamp(float64(min(p.YearsActive(s.now()), yearsSaturation)) / yearsSaturation * 100)
	completed := clamp(float64(min(p.CompletedCount, completedSaturation)) / completedSaturation * 100)

	return rating*0.40 + reviews*0.20 + years*0.25 + completed*0.15
}

func (s *Scorer) availabilityScore(l *lead.Lead, p *provider.Provider) float64 {
	// Hard floor: an exhausted free-tier builder is effectively unavailable.
	if p.Plan == plan.TierFree && p.LeadCredits <= 0 {
		return 0
	}

	score := 50.0
	if l.Urgency.IsUrgent() {
		switch p.ResponseClass {
		case provider.ResponseFast:
			score += 30
		case provider.ResponseSlow:
			score -= 20
		}
	}

	if !p.LastActiveAt.IsZero() {
		idle := s.now().Sub(p.LastActiveAt)
		switch {
		case idle <= 24*time.Hour:
			score += 20
		case idle > 30*24*time.Hour:
			score -= 20
		}
	}
	return clamp(score)
}

func (s *Scorer) timelineScore(l *lead.Lead, p *provider.Provider) float64 {
	base := [...]float64{40, 55, 70, 85}[l.Urgency.Level()]
	if l.Urgency.Level() >= lead.UrgencySoon.Level() && p.ResponseClass == provider.ResponseFast {
		base += 15
	}
	return clamp(base)
}

func (s *Scorer) trustScore(p *provider.Provider) float64 {
	score := 0.0
	if p.Verified {
		score += 50
	}
	if len(p.Certifications) > 0 {
		score += 30
	}
	if p.PortfolioCount >= 10 {
		score += 20
	}
	return clamp(score)
}

func bonusPoints(l *lead.Lead, p *provider.Provider) float64 {
	bonus := 0.0
	if p.PremiumMember {
		bonus += BonusPremiumMember
	}
	if p.Plan == plan.TierEnterprise {
		bonus += BonusTopTierPlan
	}
	if l.Urgency.IsUrgent() && p.ResponseClass == provider.ResponseFast {
		bonus += BonusUrgentFast
	}
	return bonus
}

// reasons builds human-readable ranking explanations for the strongest
// signals, best first.
func reasons(l *lead.Lead, p *provider.Provider, b *Breakdown) []string {
	var out []string
	switch {
	case b.Geographic >= 100:
		out = append(out, fmt.Sprintf("headquartered in %s", l.City))
	case b.Geographic >= 90:
		out = append(out, fmt.Sprintf("serves %s", l.City))
	case b.Geographic >= 60:
		out = append(out, fmt.Sprintf("active in %s", l.Country))
	}
	if len(l.Tags) > 0 && b.Capability >= 100 {
		out = append(out, "covers all requested capabilities")
	} else if b.Capability > 50 {
		out = append(out, "covers requested capabilities")
	}
	if b.Budget >= 70 {
		out = append(out, "typical project size fits the budget")
	}
	if b.Performance >= 70 {
		out = append(out, fmt.Sprintf("strong track record (%.1f rating, %d projects)", p.Rating, p.CompletedCount))
	}
	if l.Urgency.IsUrgent() && p.ResponseClass == provider.ResponseFast {
		out = append(out, "fast responder for an urgent request")
	}
	if p.Verified {
		out = append(out, "verified builder")
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
