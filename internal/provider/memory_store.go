package provider

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory directory for demo/development mode.
type MemoryStore struct {
	providers map[string]*Provider
	mu        sync.RWMutex
}

// NewMemoryStore creates a new in-memory provider store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{providers: make(map[string]*Provider)}
}

func (m *MemoryStore) Upsert(ctx context.Context, p *Provider) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrMissingID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if existing, ok := m.providers[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	cp := clone(p)
	m.providers[p.ID] = cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.providers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (m *MemoryStore) ListByCountry(ctx context.Context, country string, limit int) ([]*Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Provider
	for _, p := range m.providers {
		if p.Status != StatusActive {
			continue
		}
		if strings.EqualFold(p.HQ.Country, country) || p.ServesCountry(country) {
			result = append(result, clone(p))
		}
	}
	// Map iteration is random; sort for a stable candidate snapshot.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func clone(p *Provider) *Provider {
	cp := *p
	cp.ServedLocations = append([]Location(nil), p.ServedLocations...)
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Certifications = append([]string(nil), p.Certifications...)
	return &cp
}
