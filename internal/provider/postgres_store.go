package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store backed by PostgreSQL. The remaining
// credit balance is read from provider_credits, which only the
// allocation ledger writes.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed provider store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const providerColumns = `
	p.id, p.name, p.hq_city, p.hq_country, p.served_locations, p.tags,
	p.certifications, p.rating, p.review_count, p.completed_count,
	p.portfolio_count, p.founded_year, p.response_class, p.verified,
	p.premium_member, p.status, p.plan, COALESCE(c.credits, 0),
	p.last_active_at, p.created_at, p.updated_at`

func (s *PostgresStore) Upsert(ctx context.Context, p *Provider) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrMissingID
	}

	served, err := json.Marshal(p.ServedLocations)
	if err != nil {
		return fmt.Errorf("marshal served locations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO providers (
			id, name, hq_city, hq_country, served_locations, tags,
			certifications, rating, review_count, completed_count,
			portfolio_count, founded_year, response_class, verified,
			premium_member, status, plan, last_active_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,NOW(),NOW())
		ON CONFLICT (id) DO UPDATE SET
			name             = EXCLUDED.name,
			hq_city          = EXCLUDED.hq_city,
			hq_country       = EXCLUDED.hq_country,
			served_locations = EXCLUDED.served_locations,
			tags             = EXCLUDED.tags,
			certifications   = EXCLUDED.certifications,
			rating           = EXCLUDED.rating,
			review_count     = EXCLUDED.review_count,
			completed_count  = EXCLUDED.completed_count,
			portfolio_count  = EXCLUDED.portfolio_count,
			founded_year     = EXCLUDED.founded_year,
			response_class   = EXCLUDED.response_class,
			verified         = EXCLUDED.verified,
			premium_member   = EXCLUDED.premium_member,
			status           = EXCLUDED.status,
			plan             = EXCLUDED.plan,
			last_active_at   = EXCLUDED.last_active_at,
			updated_at       = NOW()`,
		p.ID, p.Name, p.HQ.City, p.HQ.Country, served, pq.Array(p.Tags),
		pq.Array(p.Certifications), p.Rating, p.ReviewCount, p.CompletedCount,
		p.PortfolioCount, p.FoundedYear, p.ResponseClass, p.Verified,
		p.PremiumMember, p.Status, p.Plan, p.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("upsert provider: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Provider, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+providerColumns+`
		FROM providers p
		LEFT JOIN provider_credits c ON c.provider_id = p.id
		WHERE p.id = $1`, id)

	p, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListByCountry(ctx context.Context, country string, limit int) ([]*Provider, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+providerColumns+`
		FROM providers p
		LEFT JOIN provider_credits c ON c.provider_id = p.id
		WHERE p.status = 'active'
		  AND (LOWER(p.hq_country) = LOWER($1)
		       OR EXISTS (
		           SELECT 1 FROM jsonb_array_elements(p.served_locations) loc
		           WHERE LOWER(loc->>'country') = LOWER($1)))
		ORDER BY p.id
		LIMIT $2`, country, limit)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var result []*Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProvider(row scannable) (*Provider, error) {
	var (
		p      Provider
		served []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.HQ.City, &p.HQ.Country, &served,
		pq.Array(&p.Tags), pq.Array(&p.Certifications), &p.Rating,
		&p.ReviewCount, &p.CompletedCount, &p.PortfolioCount,
		&p.FoundedYear, &p.ResponseClass, &p.Verified, &p.PremiumMember,
		&p.Status, &p.Plan, &p.LeadCredits, &p.LastActiveAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(served) > 0 {
		if err := json.Unmarshal(served, &p.ServedLocations); err != nil {
			return nil, fmt.Errorf("unmarshal served locations: %w", err)
		}
	}
	return &p, nil
}
