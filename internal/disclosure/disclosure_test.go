package disclosure

import (
	"testing"

	"github.com/expostand/matchengine/internal/allocation"
	"github.com/expostand/matchengine/internal/plan"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name    string
		tier    plan.Tier
		outcome allocation.Outcome
		want    plan.Disclosure
	}{
		{"insufficient credit demotes free", plan.TierFree, allocation.OutcomeInsufficientCredit, plan.DisclosurePreview},
		{"insufficient credit demotes professional", plan.TierProfessional, allocation.OutcomeInsufficientCredit, plan.DisclosurePreview},
		{"insufficient credit demotes enterprise", plan.TierEnterprise, allocation.OutcomeInsufficientCredit, plan.DisclosurePreview},
		{"professional reserved", plan.TierProfessional, allocation.OutcomeReserved, plan.DisclosureFull},
		{"enterprise reserved", plan.TierEnterprise, allocation.OutcomeReserved, plan.DisclosureFull},
		{"free with reservation", plan.TierFree, allocation.OutcomeReserved, plan.DisclosureFull},
		{"basic with reservation", plan.TierBasic, allocation.OutcomeReserved, plan.DisclosureFull},
		{"free without reservation", plan.TierFree, allocation.Outcome(""), plan.DisclosurePreview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.tier, tc.outcome))
		})
	}
}
