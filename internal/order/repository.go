package order

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrPaymentConflict is returned when a paid order sees a second,
	// different gateway payment id.
	ErrPaymentConflict = errors.New("order already paid with a different payment")
)

// Repository defines persistence operations for orders. Create must be
// atomic across the header and its items: an order with zero items must
// never be observable afterwards, whatever fails.
type Repository interface {
	Create(ord Order, items []Item) (Order, error)
	Delete(id string) error
	GetByID(id string) (Order, error)
	GetByNumber(number string) (Order, error)
	// List returns recent orders for the admin console, optionally
	// filtered by lifecycle status.
	List(status string, limit int) ([]Order, error)
	// UpdatePayment records the verified gateway ids and flips a pending
	// order to paid/processing. The transition is atomic: of any number
	// of concurrent callers exactly one gets transitioned=true; the rest
	// see the already-updated order with false.
	UpdatePayment(orderNumber, gatewayOrderID, gatewayPaymentID string) (ord Order, transitioned bool, err error)
	UpdateStatus(id, status string) (Order, error)
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	orders map[string]*Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: map[string]*Order{}}
}

func (r *InMemoryRepository) Create(ord Order, items []Item) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) == 0 {
		return Order{}, errors.New("order must have items")
	}
	ord.ID = uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	ord.CreatedAt, ord.UpdatedAt = now, now
	ord.Items = make([]Item, len(items))
	for i, it := range items {
		r.nextID++
		it.ID = r.nextID
		it.OrderID = ord.ID
		ord.Items[i] = it
	}
	stored := ord
	r.orders[ord.ID] = &stored
	return ord, nil
}

func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ord, ok := r.orders[id]; ok {
		return *ord, nil
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) GetByNumber(number string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ord := range r.orders {
		if ord.OrderNumber == number {
			return *ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) List(status string, limit int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0, len(r.orders))
	for _, ord := range r.orders {
		if status != "" && ord.Status != status {
			continue
		}
		out = append(out, *ord)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdatePayment(orderNumber, gatewayOrderID, gatewayPaymentID string) (Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ord := range r.orders {
		if ord.OrderNumber == orderNumber {
			if ord.PaymentStatus != PaymentPending {
				return *ord, false, nil
			}
			ord.RazorpayOrderID = &gatewayOrderID
			ord.RazorpayPaymentID = &gatewayPaymentID
			ord.PaymentStatus = PaymentPaid
			ord.Status = StatusProcessing
			ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return *ord, true, nil
		}
	}
	return Order{}, false, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(id, status string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	ord.Status = status
	ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return *ord, nil
}
