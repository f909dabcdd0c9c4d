package allocation

import (
	"context"
	"database/sql"
	"fmt"
)

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store backed by PostgreSQL. Atomicity comes
// from a conditional UPDATE: the row is locked, the balance check and
// the decrement happen in one statement, and a concurrent reservation
// that loses the race simply matches zero rows.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed credit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) TryReserve(ctx context.Context, providerID string, amount int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE provider_credits
		SET credits = credits - $2, updated_at = NOW()
		WHERE provider_id = $1 AND credits >= $2`,
		providerID, amount)
	if err != nil {
		return false, fmt.Errorf("reserve credits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve credits: %w", err)
	}
	return n == 1, nil
}

func (s *PostgresStore) Grant(ctx context.Context, providerID string, amount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provider_credits (provider_id, credits, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (provider_id) DO UPDATE SET
			credits    = provider_credits.credits + $2,
			updated_at = NOW()`,
		providerID, amount)
	if err != nil {
		return fmt.Errorf("grant credits: %w", err)
	}
	return nil
}

func (s *PostgresStore) Balance(ctx context.Context, providerID string) (int, error) {
	var credits int
	err := s.db.QueryRowContext(ctx, `
		SELECT credits FROM provider_credits WHERE provider_id = $1`,
		providerID).Scan(&credits)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return credits, nil
}
