// Package lead models an inbound request for exhibition stand building
// services. A lead is immutable once matching begins; re-matching creates
// a new lead rather than mutating the original.
package lead

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingID       = errors.New("lead: missing id")
	ErrMissingLocation = errors.New("lead: missing city or country")
	ErrInvalidBudget   = errors.New("lead: invalid budget bracket")
	ErrInvalidUrgency  = errors.New("lead: invalid urgency")
)

// BudgetBracket is an ordinal budget band. Brackets are a closed
// enumeration so scoring can treat them numerically.
type BudgetBracket string

const (
	BudgetUnder10k  BudgetBracket = "under-10k"
	Budget10kTo25k  BudgetBracket = "10k-25k"
	Budget25kTo50k  BudgetBracket = "25k-50k"
	Budget50kTo100k BudgetBracket = "50k-100k"
	Budget100kPlus  BudgetBracket = "100k-plus"
)

// budgetRanges maps each bracket to a numeric EUR range. The open-ended
// brackets are closed with working bounds so overlap arithmetic stays
// finite.
var budgetRanges = map[BudgetBracket][2]float64{
	BudgetUnder10k:  {3000, 10000},
	Budget10kTo25k:  {10000, 25000},
	Budget25kTo50k:  {25000, 50000},
	Budget50kTo100k: {50000, 100000},
	Budget100kPlus:  {100000, 250000},
}

// Range returns the bracket's numeric EUR bounds.
func (b BudgetBracket) Range() (lo, hi float64, ok bool) {
	r, ok := budgetRanges[b]
	return r[0], r[1], ok
}

// Valid reports whether the bracket is a known enumeration value.
func (b BudgetBracket) Valid() bool {
	_, ok := budgetRanges[b]
	return ok
}

// Urgency is an ordinal timeline class, least to most urgent.
type Urgency string

const (
	UrgencyFlexible Urgency = "flexible"
	UrgencyStandard Urgency = "standard"
	UrgencySoon     Urgency = "soon"
	UrgencyUrgent   Urgency = "urgent"
)

var urgencyLevels = map[Urgency]int{
	UrgencyFlexible: 0,
	UrgencyStandard: 1,
	UrgencySoon:     2,
	UrgencyUrgent:   3,
}

// Valid reports whether the urgency is a known enumeration value.
func (u Urgency) Valid() bool {
	_, ok := urgencyLevels[u]
	return ok
}

// Level returns the urgency's ordinal position (0 = flexible).
func (u Urgency) Level() int {
	return urgencyLevels[u]
}

// IsUrgent reports whether the lead needs a fast-turnaround builder.
func (u Urgency) IsUrgent() bool {
	return u == UrgencyUrgent
}

// Lead is a service request submitted through the marketplace.
type Lead struct {
	ID           string        `json:"id"`
	City         string        `json:"city"`
	Country      string        `json:"country"`
	StandSizeSqm int           `json:"standSizeSqm,omitempty"`
	Budget       BudgetBracket `json:"budget"`
	Urgency      Urgency       `json:"urgency"`
	Tags         []string      `json:"tags,omitempty"` // requested capabilities

	// Contact fields. Never serialised to a matched builder unless the
	// match carries full disclosure; see matching.BuildView.
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate rejects malformed leads before scoring. The engine never
// guesses defaults for missing fields; that would silently change
// matching semantics.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(l.City) == "" || strings.TrimSpace(l.Country) == "" {
		return ErrMissingLocation
	}
	if !l.Budget.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidBudget, l.Budget)
	}
	if !l.Urgency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidUrgency, l.Urgency)
	}
	return nil
}
