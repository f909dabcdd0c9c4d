package allocation

import (
	"context"
	"sync"
	"sync/atomic"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory credit store for demo/development mode.
// Reservations use a per-builder compare-and-swap loop, so two
// concurrent attempts can never both consume the same last credit.
type MemoryStore struct {
	balances map[string]*atomic.Int64
	mu       sync.RWMutex // guards the map structure, not the counters
}

// NewMemoryStore creates a new in-memory credit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[string]*atomic.Int64)}
}

func (m *MemoryStore) counter(providerID string, create bool) *atomic.Int64 {
	m.mu.RLock()
	c, ok := m.balances[providerID]
	m.mu.RUnlock()
	if ok || !create {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.balances[providerID]; ok {
		return c
	}
	c = &atomic.Int64{}
	m.balances[providerID] = c
	return c
}

func (m *MemoryStore) TryReserve(ctx context.Context, providerID string, amount int) (bool, error) {
	c := m.counter(providerID, false)
	if c == nil {
		return false, nil
	}
	want := int64(amount)
	for {
		cur := c.Load()
		if cur < want {
			return false, nil
		}
		if c.CompareAndSwap(cur, cur-want) {
			return true, nil
		}
	}
}

func (m *MemoryStore) Grant(ctx context.Context, providerID string, amount int) error {
	m.counter(providerID, true).Add(int64(amount))
	return nil
}

func (m *MemoryStore) Balance(ctx context.Context, providerID string) (int, error) {
	c := m.counter(providerID, false)
	if c == nil {
		return 0, nil
	}
	return int(c.Load()), nil
}
