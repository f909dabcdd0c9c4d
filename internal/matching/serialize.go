package matching

import (
	"time"

	"github.com/expostand/matchengine/internal/lead"
	"github.com/expostand/matchengine/internal/plan"
)

// LeadView is the lead as serialised for one matched builder. Contact
// fields are present only under full disclosure; preview views carry
// the request shape without any way to reach the submitter.
type LeadView struct {
	ID           string   `json:"id"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	StandSizeSqm int      `json:"standSizeSqm,omitempty"`
	Budget       string   `json:"budget"`
	Urgency      string   `json:"urgency"`
	Tags         []string `json:"tags,omitempty"`

	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// MatchView is one match result as serialised for delivery.
type MatchView struct {
	MatchID    string          `json:"matchId"`
	ProviderID string          `json:"providerId"`
	Rank       int             `json:"rank"`
	Score      float64         `json:"score"`
	Reasons    []string        `json:"reasons,omitempty"`
	Allocation string          `json:"allocation"`
	Disclosure plan.Disclosure `json:"disclosure"`
	Lead       LeadView        `json:"lead"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// BuildView renders a MatchResult for delivery to its builder. Redaction
// happens here, at the serialisation boundary: the Lead itself is never
// mutated, a preview view just never receives the contact fields.
func BuildView(result *MatchResult, l *lead.Lead) MatchView {
	view := MatchView{
		MatchID:    result.ID,
		ProviderID: result.ProviderID,
		Rank:       result.Rank,
		Score:      result.Score,
		Reasons:    result.Reasons,
		Allocation: string(result.Allocation),
		Disclosure: result.Disclosure,
		CreatedAt:  result.CreatedAt,
		Lead: LeadView{
			ID:           l.ID,
			City:         l.City,
			Country:      l.Country,
			StandSizeSqm: l.StandSizeSqm,
			Budget:       string(l.Budget),
			Urgency:      string(l.Urgency),
			Tags:         l.Tags,
		},
	}
	if result.Disclosure == plan.DisclosureFull {
		view.Lead.ContactName = l.ContactName
		view.Lead.ContactEmail = l.ContactEmail
		view.Lead.ContactPhone = l.ContactPhone
	}
	return view
}

// BuildViews renders every result for one lead.
func BuildViews(results []*MatchResult, l *lead.Lead) []MatchView {
	views := make([]MatchView, 0, len(results))
	for _, r := range results {
		views = append(views, BuildView(r, l))
	}
	return views
}
