// Package disclosure decides how much lead detail a matched builder sees.
package disclosure

import (
	"github.com/expostand/matchengine/internal/allocation"
	"github.com/expostand/matchengine/internal/plan"
)

// Resolve applies the disclosure rules in order:
//
//  1. A failed credit reservation always demotes to preview, regardless
//     of plan — the builder keeps the match in its list but without
//     contact details.
//  2. Professional and enterprise tiers see full detail.
//  3. Lower tiers see full detail only for the match their credit just
//     paid for.
//  4. Everything else is a preview.
func Resolve(tier plan.Tier, outcome allocation.Outcome) plan.Disclosure {
	if outcome == allocation.OutcomeInsufficientCredit {
		return plan.DisclosurePreview
	}
	if tier == plan.TierProfessional || tier == plan.TierEnterprise {
		return plan.DisclosureFull
	}
	if outcome == allocation.OutcomeReserved {
		return plan.DisclosureFull
	}
	return plan.DisclosurePreview
}
