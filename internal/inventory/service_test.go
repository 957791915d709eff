package inventory

import (
	"sync"
	"testing"
)

func TestDecrement_FloorsAtZero(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.SetStock("p1", "M", 3)
	svc := NewService(repo)

	newQty, applied, err := svc.Decrement("p1", "M", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newQty != 0 {
		t.Fatalf("expected stock floored at 0, got %d", newQty)
	}
	if applied != 3 {
		t.Fatalf("expected 3 units applied, got %d", applied)
	}
}

func TestDecrement_ExactQuantity(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.SetStock("p1", "L", 5)
	svc := NewService(repo)

	newQty, applied, err := svc.Decrement("p1", "L", 2)
	if err != nil {
		t.Fatal(err)
	}
	if newQty != 3 || applied != 2 {
		t.Fatalf("expected (3, 2), got (%d, %d)", newQty, applied)
	}
}

func TestDecrement_UnknownVariantRejected(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	if _, _, err := svc.Decrement("missing", "M", 1); err != ErrVariantNotFound {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestDecrement_NonPositiveQuantityRejected(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.SetStock("p1", "M", 5)
	svc := NewService(repo)
	if _, _, err := svc.Decrement("p1", "M", 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

// Two simultaneous orders for the last unit: exactly one unit may be
// reserved in total and the stored stock must end at 0, never -1.
func TestDecrement_ConcurrentLastUnit(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.SetStock("p1", "M", 1)
	svc := NewService(repo)

	var wg sync.WaitGroup
	applied := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, a, err := svc.Decrement("p1", "M", 1)
			if err != nil {
				t.Error(err)
				return
			}
			applied[i] = a
		}(i)
	}
	wg.Wait()

	if total := applied[0] + applied[1]; total != 1 {
		t.Fatalf("expected exactly 1 unit reserved across both orders, got %d", total)
	}
	levels, _ := svc.ListStock()
	if len(levels) != 1 || levels[0].StockQuantity != 0 {
		t.Fatalf("expected final stock 0, got %+v", levels)
	}
}

func TestRestock_ReversesApplied(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.SetStock("p1", "S", 2)
	svc := NewService(repo)

	_, applied, _ := svc.Decrement("p1", "S", 5) // clamps, applied=2
	newQty, err := svc.Restock("p1", "S", applied)
	if err != nil {
		t.Fatal(err)
	}
	if newQty != 2 {
		t.Fatalf("expected stock restored to 2, got %d", newQty)
	}
}

func TestSetStock_RejectsNegative(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	if _, err := svc.SetStock("p1", "M", -1); err == nil {
		t.Fatal("expected error for negative stock")
	}
}
