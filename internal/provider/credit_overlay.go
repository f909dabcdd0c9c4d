package provider

import "context"

// CreditSource reports a builder's authoritative remaining lead credits.
// The allocation ledger satisfies it.
type CreditSource interface {
	Balance(ctx context.Context, providerID string) (int, error)
}

// creditOverlay decorates a Store so directory reads carry the live
// ledger balance instead of the upsert-time snapshot. The SQL store
// derives LeadCredits with a join against the credit table; the memory
// store has no such join, so credits granted after the last upsert
// would never reach the eligibility gate without this.
type creditOverlay struct {
	inner   Store
	credits CreditSource
}

// WithLedgerCredits wraps a Store so Get and ListByCountry return
// profiles whose LeadCredits reflect the ledger.
func WithLedgerCredits(inner Store, credits CreditSource) Store {
	return &creditOverlay{inner: inner, credits: credits}
}

func (o *creditOverlay) Upsert(ctx context.Context, p *Provider) error {
	return o.inner.Upsert(ctx, p)
}

func (o *creditOverlay) Get(ctx context.Context, id string) (*Provider, error) {
	p, err := o.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.refresh(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (o *creditOverlay) ListByCountry(ctx context.Context, country string, limit int) ([]*Provider, error) {
	result, err := o.inner.ListByCountry(ctx, country, limit)
	if err != nil {
		return nil, err
	}
	for _, p := range result {
		if err := o.refresh(ctx, p); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (o *creditOverlay) refresh(ctx context.Context, p *Provider) error {
	balance, err := o.credits.Balance(ctx, p.ID)
	if err != nil {
		return err
	}
	p.LeadCredits = balance
	return nil
}
