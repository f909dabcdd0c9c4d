package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/expostand/matchengine/internal/allocation"
	"github.com/expostand/matchengine/internal/disclosure"
	"github.com/expostand/matchengine/internal/idgen"
	"github.com/expostand/matchengine/internal/lead"
	"github.com/expostand/matchengine/internal/logging"
	"github.com/expostand/matchengine/internal/metrics"
	"github.com/expostand/matchengine/internal/plan"
	"github.com/expostand/matchengine/internal/provider"
	"github.com/expostand/matchengine/internal/realtime"
	"github.com/expostand/matchengine/internal/traces"
)

// Service wires the ranker, the credit ledger and the provider directory
// into the two engine operations.
type Service struct {
	ranker    *Ranker
	ledger    *allocation.Ledger
	providers provider.Store
	hub       *realtime.Hub // optional; nil disables event streaming
}

// NewService creates a matching service.
func NewService(ranker *Ranker, ledger *allocation.Ledger, providers provider.Store, hub *realtime.Hub) *Service {
	return &Service{
		ranker:    ranker,
		ledger:    ledger,
		providers: providers,
		hub:       hub,
	}
}

// MatchLead runs the full matching pipeline for one lead against the
// supplied candidate snapshot: validate, score, rank, reserve credits,
// stamp disclosure. Candidates come from the caller (pre-filtered by
// region); the engine never fetches providers itself.
//
// An empty result list is a normal outcome, not an error. A failed
// credit reservation demotes that result to preview disclosure instead
// of dropping it; ranking order is best-effort against the snapshot,
// credit correctness is exact.
func (s *Service) MatchLead(ctx context.Context, l *lead.Lead, candidates []*provider.Provider) ([]*MatchResult, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	ctx, span := traces.StartSpan(ctx, "matching.MatchLead", traces.LeadID(l.ID))
	defer span.End()

	ranked := s.ranker.Rank(l, candidates)

	metrics.MatchRunsTotal.Inc()
	if len(ranked) == 0 {
		metrics.MatchEmptyRunsTotal.Inc()
		logging.ForLead(ctx, l.ID).Info("no eligible builders for lead",
			"candidates", len(candidates))
		return []*MatchResult{}, nil
	}

	now := time.Now()
	results := make([]*MatchResult, 0, len(ranked))
	for i, c := range ranked {
		outcome, err := s.ledger.Reserve(ctx, c.Provider.ID, c.Provider.Plan, 1)
		if err != nil {
			return nil, fmt.Errorf("reserve credit for %s: %w", c.Provider.ID, err)
		}

		result := &MatchResult{
			ID:         idgen.WithPrefix("match_"),
			LeadID:     l.ID,
			ProviderID: c.Provider.ID,
			Rank:       i + 1,
			Score:      c.Breakdown.Total,
			Breakdown:  c.Breakdown,
			Reasons:    c.Breakdown.Reasons,
			Allocation: outcome,
			Disclosure: disclosure.Resolve(c.Provider.Plan, outcome),
			CreatedAt:  now,
		}
		results = append(results, result)

		metrics.MatchResultsTotal.WithLabelValues(string(result.Disclosure)).Inc()
		metrics.MatchScores.Observe(result.Score)

		if s.hub != nil {
			s.hub.BroadcastMatchResult(map[string]interface{}{
				"matchId":    result.ID,
				"leadId":     result.LeadID,
				"providerId": result.ProviderID,
				"rank":       result.Rank,
				"score":      result.Score,
				"allocation": string(result.Allocation),
				"disclosure": string(result.Disclosure),
			})
		}
	}

	span.SetAttributes(traces.ResultCount(len(results)))
	if s.hub != nil {
		s.hub.BroadcastMatchRun(map[string]interface{}{
			"leadId":     l.ID,
			"candidates": len(candidates),
			"results":    len(results),
		})
	}
	logging.ForLead(ctx, l.ID).Info("lead matched",
		"candidates", len(candidates),
		"results", len(results),
		"top_score", results[0].Score,
	)
	return results, nil
}

// GetProviderEntitlements returns the read-only entitlement view for a
// builder: plan, live credit balance and default disclosure.
func (s *Service) GetProviderEntitlements(ctx context.Context, providerID string) (*Entitlements, error) {
	p, err := s.providers.Get(ctx, providerID)
	if err != nil {
		if err == provider.ErrNotFound {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	ent, err := plan.Lookup(p.Plan)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", providerID, err)
	}

	remaining := 0
	if !ent.Unlimited {
		remaining, err = s.ledger.Balance(ctx, providerID)
		if err != nil {
			return nil, fmt.Errorf("balance for %s: %w", providerID, err)
		}
	}

	return &Entitlements{
		ProviderID:        providerID,
		Plan:              p.Plan,
		CreditsRemaining:  remaining,
		Unlimited:         ent.Unlimited,
		DisclosureDefault: ent.DisclosureDefault,
	}, nil
}
