package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expostand/matchengine/internal/lead"
	"github.com/expostand/matchengine/internal/plan"
	"github.com/expostand/matchengine/internal/provider"
	"github.com/expostand/matchengine/internal/scoring"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func berlinLead(id string) *lead.Lead {
	return &lead.Lead{
		ID:           id,
		City:         "Berlin",
		Country:      "Germany",
		StandSizeSqm: 120,
		Budget:       lead.Budget10kTo25k,
		Urgency:      lead.UrgencyStandard,
		Tags:         []string{"design", "av"},
		ContactName:  "Anna Keller",
		ContactEmail: "anna.keller@example.com",
		ContactPhone: "+49 30 1234567",
		CreatedAt:    testNow,
	}
}

func berlinBuilder(id string, tier plan.Tier) *provider.Provider {
	return &provider.Provider{
		ID:             id,
		Name:           "Messebau " + id,
		HQ:             provider.Location{City: "Berlin", Country: "Germany"},
		Tags:           []string{"design", "av", "logistics"},
		Rating:         4.5,
		ReviewCount:    30,
		CompletedCount: 40,
		PortfolioCount: 12,
		FoundedYear:    2015,
		ResponseClass:  provider.ResponseStandard,
		Verified:       true,
		Status:         provider.StatusActive,
		Plan:           tier,
		LeadCredits:    5,
		LastActiveAt:   testNow.Add(-2 * time.Hour),
	}
}

func newTestRanker(opts ...RankerOption) *Ranker {
	return NewRanker(scoring.NewScorer(scoring.WithClock(testClock)), opts...)
}

func TestRank_OrdersByScore(t *testing.T) {
	l := berlinLead("lead_order")

	local := berlinBuilder("b_local", plan.TierBasic)

	serves := berlinBuilder("b_serves", plan.TierBasic)
	serves.HQ = provider.Location{City: "Hamburg", Country: "Germany"}
	serves.ServedLocations = []provider.Location{{City: "Berlin", Country: "Germany"}}

	national := berlinBuilder("b_national", plan.TierBasic)
	national.HQ = provider.Location{City: "Munich", Country: "Germany"}

	ranked := newTestRanker().Rank(l, []*provider.Provider{national, serves, local})
	require.Len(t, ranked, 3)
	assert.Equal(t, "b_local", ranked[0].Provider.ID)
	assert.Equal(t, "b_serves", ranked[1].Provider.ID)
	assert.Equal(t, "b_national", ranked[2].Provider.ID)
	assert.Greater(t, ranked[0].Breakdown.Total, ranked[1].Breakdown.Total)
	assert.Greater(t, ranked[1].Breakdown.Total, ranked[2].Breakdown.Total)
}

func TestRank_ExcludesIneligible(t *testing.T) {
	l := berlinLead("lead_gate")

	suspended := berlinBuilder("b_suspended", plan.TierProfessional)
	suspended.Status = provider.StatusSuspended

	exhausted := berlinBuilder("b_exhausted", plan.TierFree)
	exhausted.LeadCredits = 0

	keeper := berlinBuilder("b_keeper", plan.TierBasic)

	ranked := newTestRanker().Rank(l, []*provider.Provider{suspended, exhausted, keeper, nil})
	require.Len(t, ranked, 1)
	assert.Equal(t, "b_keeper", ranked[0].Provider.ID)
}

func TestRank_DropsBelowThreshold(t *testing.T) {
	l := berlinLead("lead_threshold")

	// Wrong continent, no capability overlap, no track record.
	far := &provider.Provider{
		ID:            "b_far",
		Name:          "Far Away Stands",
		HQ:            provider.Location{City: "Tokyo", Country: "Japan"},
		Tags:          []string{"metalwork"},
		ResponseClass: provider.ResponseStandard,
		Status:        provider.StatusActive,
		Plan:          plan.TierBasic,
		LeadCredits:   5,
	}

	ranked := newTestRanker().Rank(l, []*provider.Provider{far})
	assert.Empty(t, ranked)
}

func TestRank_CapsResults(t *testing.T) {
	l := berlinLead("lead_cap")

	var candidates []*provider.Provider
	for _, id := range []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7"} {
		candidates = append(candidates, berlinBuilder(id, plan.TierBasic))
	}

	ranked := newTestRanker().Rank(l, candidates)
	assert.Len(t, ranked, DefaultMaxResults)

	ranked = newTestRanker(WithMaxResults(2)).Rank(l, candidates)
	assert.Len(t, ranked, 2)
}

func TestRank_TieBreaks(t *testing.T) {
	// Score only geography so every Berlin builder lands on exactly 100
	// and the ordering is decided purely by the tie-break chain.
	scorer := scoring.NewScorer(
		scoring.WithClock(testClock),
		scoring.WithWeights(scoring.Weights{Geographic: 1}),
	)
	ranker := NewRanker(scorer)
	l := berlinLead("lead_tie")

	verified := berlinBuilder("z_verified", plan.TierBasic)

	professional := berlinBuilder("m_professional", plan.TierProfessional)
	professional.Verified = false

	basic := berlinBuilder("a_basic", plan.TierBasic)
	basic.Verified = false

	basicTwo := berlinBuilder("b_basic", plan.TierBasic)
	basicTwo.Verified = false

	ranked := ranker.Rank(l, []*provider.Provider{basicTwo, professional, basic, verified})
	require.Len(t, ranked, 4)

	// Same total everywhere: verified first, then plan rank, then id.
	assert.Equal(t, "z_verified", ranked[0].Provider.ID)
	assert.Equal(t, "m_professional", ranked[1].Provider.ID)
	assert.Equal(t, "a_basic", ranked[2].Provider.ID)
	assert.Equal(t, "b_basic", ranked[3].Provider.ID)
	for _, c := range ranked {
		assert.Equal(t, 100.0, c.Breakdown.Total)
	}
}

func TestRank_Deterministic(t *testing.T) {
	l := berlinLead("lead_repeat")
	candidates := []*provider.Provider{
		berlinBuilder("b1", plan.TierBasic),
		berlinBuilder("b2", plan.TierProfessional),
		berlinBuilder("b3", plan.TierFree),
	}

	ranker := newTestRanker()
	first := ranker.Rank(l, candidates)
	for i := 0; i < 10; i++ {
		again := ranker.Rank(l, candidates)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Provider.ID, again[j].Provider.ID)
			assert.Equal(t, first[j].Breakdown.Total, again[j].Breakdown.Total)
		}
	}
}
