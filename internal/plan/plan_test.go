package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownTiers(t *testing.T) {
	for _, tier := range []Tier{TierFree, TierBasic, TierProfessional, TierEnterprise} {
		e, err := Lookup(tier)
		require.NoError(t, err, "tier %s", tier)
		assert.Equal(t, tier, e.Tier)
		assert.NotEmpty(t, e.BillingCycles)
	}
}

func TestLookup_UnknownTier(t *testing.T) {
	_, err := Lookup(Tier("platinum"))
	assert.ErrorIs(t, err, ErrUnknownTier)
	assert.False(t, Valid(Tier("platinum")))
}

func TestCreditLimited(t *testing.T) {
	assert.True(t, TierFree.CreditLimited())
	assert.True(t, TierBasic.CreditLimited())
	assert.True(t, TierProfessional.CreditLimited())
	assert.False(t, TierEnterprise.CreditLimited())

	// Unknown tiers are treated as limited so they can never spend freely.
	assert.True(t, Tier("platinum").CreditLimited())
}

func TestDisclosureDefaults(t *testing.T) {
	assert.Equal(t, DisclosurePreview, Catalog[TierFree].DisclosureDefault)
	assert.Equal(t, DisclosurePreview, Catalog[TierBasic].DisclosureDefault)
	assert.Equal(t, DisclosureFull, Catalog[TierProfessional].DisclosureDefault)
	assert.Equal(t, DisclosureFull, Catalog[TierEnterprise].DisclosureDefault)
}

func TestRank_Ordering(t *testing.T) {
	assert.Greater(t, TierEnterprise.Rank(), TierProfessional.Rank())
	assert.Greater(t, TierProfessional.Rank(), TierBasic.Rank())
	assert.Greater(t, TierBasic.Rank(), TierFree.Rank())
	assert.Equal(t, 0, Tier("bogus").Rank())
}
