// Package matching orchestrates lead-to-builder matching: scoring and
// eligibility across a candidate snapshot, ranking with tie-breaks,
// credit allocation, and disclosure stamping.
package matching

import (
	"errors"
	"time"

	"github.com/expostand/matchengine/internal/allocation"
	"github.com/expostand/matchengine/internal/plan"
	"github.com/expostand/matchengine/internal/scoring"
)

var ErrProviderNotFound = errors.New("matching: provider not found")

// Defaults for the ranking policy.
const (
	// DefaultMinScore is the eligibility threshold: matches below it
	// would waste a builder's limited credits on near-zero fits.
	DefaultMinScore = 40.0
	// DefaultMaxResults caps the ranked list per lead.
	DefaultMaxResults = 5
)

// MatchResult is the ephemeral output of one matching run for one
// builder. It is never mutated after creation; the distribution
// collaborator persists it for audit and notification.
type MatchResult struct {
	ID         string             `json:"id"`
	LeadID     string             `json:"leadId"`
	ProviderID string             `json:"providerId"`
	Rank       int                `json:"rank"` // 1-based position
	Score      float64            `json:"score"`
	Breakdown  scoring.Breakdown  `json:"breakdown"`
	Reasons    []string           `json:"reasons,omitempty"`
	Allocation allocation.Outcome `json:"allocation"`
	Disclosure plan.Disclosure    `json:"disclosure"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Entitlements is the read-only view served to dashboards.
type Entitlements struct {
	ProviderID        string          `json:"providerId"`
	Plan              plan.Tier       `json:"plan"`
	CreditsRemaining  int             `json:"creditsRemaining"` // meaningless when Unlimited
	Unlimited         bool            `json:"unlimited"`
	DisclosureDefault plan.Disclosure `json:"disclosureDefault"`
}
