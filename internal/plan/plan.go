// Package plan defines the subscription tiers for stand builders and the
// entitlements each tier carries. The catalogue is static reference data:
// matching reads it, the external billing collaborator owns changes to it.
package plan

import "errors"

// ErrUnknownTier is returned when a tier name is not in the catalogue.
var ErrUnknownTier = errors.New("plan: unknown tier")

// Tier identifies a subscription level.
type Tier string

const (
	TierFree         Tier = "free"
	TierBasic        Tier = "basic"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

// BillingCycle is a supported billing interval for a tier.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Disclosure is the level of lead detail a matched builder receives.
type Disclosure string

const (
	// DisclosureFull includes the lead's direct contact fields.
	DisclosureFull Disclosure = "full"
	// DisclosurePreview is a redacted summary without contact fields.
	DisclosurePreview Disclosure = "preview"
)

// Entitlements describes what a tier grants.
type Entitlements struct {
	Tier              Tier           `json:"tier"`
	MonthlyCredits    int            `json:"monthlyCredits"` // ignored when Unlimited
	Unlimited         bool           `json:"unlimited"`
	DisclosureDefault Disclosure     `json:"disclosureDefault"`
	PriceEURMonthly   int            `json:"priceEurMonthly"`
	BillingCycles     []BillingCycle `json:"billingCycles"`
}

// Catalog is the hardcoded tier catalogue.
var Catalog = map[Tier]Entitlements{
	TierFree: {
		Tier:              TierFree,
		MonthlyCredits:    3,
		DisclosureDefault: DisclosurePreview,
		PriceEURMonthly:   0,
		BillingCycles:     []BillingCycle{CycleMonthly},
	},
	TierBasic: {
		Tier:              TierBasic,
		MonthlyCredits:    10,
		DisclosureDefault: DisclosurePreview,
		PriceEURMonthly:   49,
		BillingCycles:     []BillingCycle{CycleMonthly, CycleAnnual},
	},
	TierProfessional: {
		Tier:              TierProfessional,
		MonthlyCredits:    40,
		DisclosureDefault: DisclosureFull,
		PriceEURMonthly:   99,
		BillingCycles:     []BillingCycle{CycleMonthly, CycleAnnual},
	},
	TierEnterprise: {
		Tier:              TierEnterprise,
		Unlimited:         true,
		DisclosureDefault: DisclosureFull,
		PriceEURMonthly:   249,
		BillingCycles:     []BillingCycle{CycleMonthly, CycleAnnual},
	},
}

// Valid reports whether the tier name is in the catalogue.
func Valid(t Tier) bool {
	_, ok := Catalog[t]
	return ok
}

// Lookup returns the entitlements for a tier.
func Lookup(t Tier) (Entitlements, error) {
	e, ok := Catalog[t]
	if !ok {
		return Entitlements{}, ErrUnknownTier
	}
	return e, nil
}

// CreditLimited reports whether the tier consumes lead credits.
// Enterprise matches never touch a credit counter.
func (t Tier) CreditLimited() bool {
	e, ok := Catalog[t]
	if !ok {
		return true
	}
	return !e.Unlimited
}

// rankOrder positions tiers for tie-breaking; higher commitment wins.
var rankOrder = map[Tier]int{
	TierFree:         0,
	TierBasic:        1,
	TierProfessional: 2,
	TierEnterprise:   3,
}

// Rank returns the tier's ordinal position (higher = higher tier).
// Unknown tiers rank lowest.
func (t Tier) Rank() int {
	return rankOrder[t]
}
