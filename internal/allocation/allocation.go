// Package allocation owns the lead-credit ledger.
//
// It is the only code allowed to decrement a builder's credit balance,
// and it does so through a single atomic reserve-or-fail operation: for
// any set of concurrent reservations against one builder, successes never
// exceed the balance. Running out of credit is a policy outcome, not an
// error — callers demote the match to preview disclosure instead of
// dropping it.
package allocation

import (
	"context"
	"errors"

	"github.com/expostand/matchengine/internal/plan"
)

var ErrInvalidAmount = errors.New("allocation: amount must be positive")

// Outcome is the result of a reservation attempt.
type Outcome string

const (
	OutcomeReserved           Outcome = "reserved"
	OutcomeInsufficientCredit Outcome = "insufficient_credit"
)

// Store persists credit balances. TryReserve must be atomic: it either
// decrements the full amount or leaves the balance untouched.
type Store interface {
	TryReserve(ctx context.Context, providerID string, amount int) (bool, error)
	Grant(ctx context.Context, providerID string, amount int) error
	Balance(ctx context.Context, providerID string) (int, error)
}

// Ledger manages builder lead credits.
type Ledger struct {
	store Store
}

// New creates a ledger over the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Reserve consumes credits for a confirmed match. Unlimited tiers
// always succeed without touching a counter.
func (l *Ledger) Reserve(ctx context.Context, providerID string, tier plan.Tier, amount int) (Outcome, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	if !tier.CreditLimited() {
		ReservationsTotal.WithLabelValues(string(OutcomeReserved), "unlimited").Inc()
		return OutcomeReserved, nil
	}

	done := observeOp("reserve")
	defer done()

	ok, err := l.store.TryReserve(ctx, providerID, amount)
	if err != nil {
		return "", err
	}
	if !ok {
		ReservationsTotal.WithLabelValues(string(OutcomeInsufficientCredit), "limited").Inc()
		return OutcomeInsufficientCredit, nil
	}
	ReservationsTotal.WithLabelValues(string(OutcomeReserved), "limited").Inc()
	return OutcomeReserved, nil
}

// Grant adds credits, e.g. on plan renewal. Grants go through the ledger
// so the balance has a single mutation path.
func (l *Ledger) Grant(ctx context.Context, providerID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	done := observeOp("grant")
	defer done()
	return l.store.Grant(ctx, providerID, amount)
}

// Balance returns the builder's remaining credits. Unknown builders have
// a zero balance rather than an error.
func (l *Ledger) Balance(ctx context.Context, providerID string) (int, error) {
	return l.store.Balance(ctx, providerID)
}
