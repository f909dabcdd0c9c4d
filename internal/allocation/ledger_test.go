package allocation

import (
	"context"
	"sync"
	"testing"

	"github.com/expostand/matchengine/internal/plan"
)

func TestReserve_DecrementsBalance(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore())

	if err := l.Grant(ctx, "prov_a", 3); err != nil {
		t.Fatalf("grant: %v", err)
	}

	for i := 0; i < 3; i++ {
		out, err := l.Reserve(ctx, "prov_a", plan.TierBasic, 1)
		if err != nil || out != OutcomeReserved {
			t.Fatalf("reserve %d: outcome=%s err=%v", i, out, err)
		}
	}

	out, err := l.Reserve(ctx, "prov_a", plan.TierBasic, 1)
	if err != nil {
		t.Fatalf("reserve after exhaustion: %v", err)
	}
	if out != OutcomeInsufficientCredit {
		t.Errorf("outcome = %s, want insufficient_credit", out)
	}

	bal, err := l.Balance(ctx, "prov_a")
	if err != nil || bal != 0 {
		t.Errorf("balance = %d (err %v), want 0", bal, err)
	}
}

func TestReserve_ConcurrentLastCredit(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore())
	if err := l.Grant(ctx, "prov_c", 1); err != nil {
		t.Fatalf("grant: %v", err)
	}

	const attempts = 64
	var wg sync.WaitGroup
	outcomes := make(chan Outcome, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := l.Reserve(ctx, "prov_c", plan.TierFree, 1)
			if err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			outcomes <- out
		}()
	}
	wg.Wait()
	close(outcomes)

	reserved := 0
	for out := range outcomes {
		if out == OutcomeReserved {
			reserved++
		}
	}
	if reserved != 1 {
		t.Errorf("%d reservations succeeded for 1 credit, want exactly 1", reserved)
	}

	bal, _ := l.Balance(ctx, "prov_c")
	if bal != 0 {
		t.Errorf("final balance = %d, want 0 and never negative", bal)
	}
}

func TestReserve_UnlimitedTierSkipsCounter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(store)

	// No grant at all: an enterprise builder still reserves successfully.
	for i := 0; i < 10; i++ {
		out, err := l.Reserve(ctx, "prov_ent", plan.TierEnterprise, 1)
		if err != nil || out != OutcomeReserved {
			t.Fatalf("reserve %d: outcome=%s err=%v", i, out, err)
		}
	}
	bal, _ := store.Balance(ctx, "prov_ent")
	if bal != 0 {
		t.Errorf("unlimited tier mutated the counter: balance = %d", bal)
	}
}

func TestReserve_UnknownProvider(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore())
	out, err := l.Reserve(ctx, "ghost", plan.TierFree, 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if out != OutcomeInsufficientCredit {
		t.Errorf("outcome = %s, want insufficient_credit for unknown builder", out)
	}
}

func TestInvalidAmounts(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore())

	if _, err := l.Reserve(ctx, "p", plan.TierFree, 0); err != ErrInvalidAmount {
		t.Errorf("reserve 0: err = %v, want ErrInvalidAmount", err)
	}
	if err := l.Grant(ctx, "p", -5); err != ErrInvalidAmount {
		t.Errorf("grant -5: err = %v, want ErrInvalidAmount", err)
	}
}

func TestGrant_Accumulates(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore())

	if err := l.Grant(ctx, "prov_b", 10); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := l.Grant(ctx, "prov_b", 10); err != nil {
		t.Fatalf("grant: %v", err)
	}
	bal, err := l.Balance(ctx, "prov_b")
	if err != nil || bal != 20 {
		t.Errorf("balance = %d (err %v), want 20", bal, err)
	}
}
