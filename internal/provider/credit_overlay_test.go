package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCredits struct {
	balances map[string]int
	err      error
}

func (s *stubCredits) Balance(ctx context.Context, providerID string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.balances[providerID], nil
}

func TestCreditOverlay_Get(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	// The snapshot in the upsert body is stale on purpose.
	p := sampleProvider("b1", "Berlin", "Germany")
	p.LeadCredits = 0
	require.NoError(t, inner.Upsert(ctx, p))

	store := WithLedgerCredits(inner, &stubCredits{balances: map[string]int{"b1": 7}})

	got, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.LeadCredits)

	_, err = store.Get(ctx, "b_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditOverlay_ListByCountry(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	stale := sampleProvider("b_stale", "Berlin", "Germany")
	stale.LeadCredits = 99
	require.NoError(t, inner.Upsert(ctx, stale))
	require.NoError(t, inner.Upsert(ctx, sampleProvider("b_fresh", "Munich", "Germany")))

	store := WithLedgerCredits(inner, &stubCredits{balances: map[string]int{
		"b_stale": 0,
		"b_fresh": 3,
	}})

	got, err := store.ListByCountry(ctx, "Germany", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	byID := map[string]int{}
	for _, p := range got {
		byID[p.ID] = p.LeadCredits
	}
	assert.Equal(t, 0, byID["b_stale"])
	assert.Equal(t, 3, byID["b_fresh"])
}

func TestCreditOverlay_BalanceError(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	require.NoError(t, inner.Upsert(ctx, sampleProvider("b1", "Berlin", "Germany")))

	wantErr := errors.New("ledger down")
	store := WithLedgerCredits(inner, &stubCredits{err: wantErr})

	_, err := store.Get(ctx, "b1")
	assert.ErrorIs(t, err, wantErr)
}
