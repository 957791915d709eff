package inventory

import (
	"errors"
	"sync"
)

var ErrVariantNotFound = errors.New("variant not found")

// Repository persists per-variant stock counts. Decrement must be atomic
// with respect to concurrent callers touching the same variant: no lost
// updates, and the stored quantity never goes below zero.
type Repository interface {
	// Decrement lowers the variant's stock by qty, clamped at zero.
	// It returns the new quantity and the amount actually applied
	// (old - new), which the checkout saga needs to restock exactly
	// when it has to unwind an order.
	Decrement(productID, size string, qty int) (newQty, applied int, err error)
	// Restock adds a previously applied decrement back.
	Restock(productID, size string, qty int) (int, error)
	// SetStock writes an absolute quantity, creating the variant row if
	// it does not exist yet (admin stock edits).
	SetStock(productID, size string, qty int) (Variant, error)
	ListStock() ([]StockLevel, error)
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu       sync.Mutex
	variants map[string]*Variant
	nextID   int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{variants: map[string]*Variant{}}
}

func key(productID, size string) string { return productID + "|" + size }

func (r *InMemoryRepository) Decrement(productID, size string, qty int) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.variants[key(productID, size)]
	if !ok {
		return 0, 0, ErrVariantNotFound
	}
	old := v.StockQuantity
	v.StockQuantity = old - qty
	if v.StockQuantity < 0 {
		v.StockQuantity = 0
	}
	return v.StockQuantity, old - v.StockQuantity, nil
}

func (r *InMemoryRepository) Restock(productID, size string, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.variants[key(productID, size)]
	if !ok {
		return 0, ErrVariantNotFound
	}
	v.StockQuantity += qty
	return v.StockQuantity, nil
}

func (r *InMemoryRepository) SetStock(productID, size string, qty int) (Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(productID, size)
	v, ok := r.variants[k]
	if !ok {
		r.nextID++
		v = &Variant{ID: r.nextID, ProductID: productID, Size: size}
		r.variants[k] = v
	}
	v.StockQuantity = qty
	return *v, nil
}

func (r *InMemoryRepository) ListStock() ([]StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StockLevel, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, StockLevel{ProductID: v.ProductID, Size: v.Size, StockQuantity: v.StockQuantity})
	}
	return out, nil
}
