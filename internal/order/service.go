package order

import (
	"errors"
	"fmt"
	"math"

	"github.com/fashionstore/fashion-store-backend/internal/notification"
)

// Service provides business logic for orders.
type Service struct {
	repo Repository
	sink *notification.Sink
}

func NewService(r Repository, sink *notification.Sink) *Service {
	return &Service{repo: r, sink: sink}
}

// Create persists a new order and its items. The header and items land
// atomically; the caller gets either the full order or an error and no row.
func (s *Service) Create(ord Order, items []Item) (Order, error) {
	if len(items) == 0 {
		return Order{}, errors.New("order must contain at least one item")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return Order{}, fmt.Errorf("item %q: quantity must be positive", it.ProductName)
		}
		if it.Price <= 0 {
			return Order{}, fmt.Errorf("item %q: price must be positive", it.ProductName)
		}
	}
	if !ValidPaymentMethod(ord.PaymentMethod) {
		return Order{}, fmt.Errorf("unknown payment method %q", ord.PaymentMethod)
	}
	if roundCents(ord.Subtotal+ord.ShippingCharge) != roundCents(ord.Total) {
		return Order{}, errors.New("total does not match subtotal + shipping charge")
	}

	ord.PaymentStatus = PaymentPending
	ord.Status = StatusPending
	return s.repo.Create(ord, items)
}

// Delete removes an order and its items; used by the checkout saga to
// unwind a partially placed order.
func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

func (s *Service) GetByID(id string) (Order, error) {
	if id == "" {
		return Order{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) GetByNumber(number string) (Order, error) {
	if number == "" {
		return Order{}, ErrNotFound
	}
	return s.repo.GetByNumber(number)
}

func (s *Service) List(status string, limit int) ([]Order, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.repo.List(status, limit)
}

// ConfirmPayment records a verified gateway payment against the order and
// moves it to paid/processing. The store performs the pending-to-paid flip
// atomically, so of any number of concurrent callbacks for one payment
// exactly one wins and fires the confirmation. Replaying the same payment
// id returns the already-paid order without re-firing side effects, while
// a different payment id on a paid order is a conflict.
func (s *Service) ConfirmPayment(orderNumber, gatewayOrderID, gatewayPaymentID string) (Order, error) {
	ord, transitioned, err := s.repo.UpdatePayment(orderNumber, gatewayOrderID, gatewayPaymentID)
	if err != nil {
		return Order{}, err
	}
	if !transitioned {
		if ord.PaymentStatus == PaymentPaid && ord.RazorpayPaymentID != nil && *ord.RazorpayPaymentID == gatewayPaymentID {
			return ord, nil
		}
		return Order{}, ErrPaymentConflict
	}

	// Online orders reach their terminal success state here, so this is
	// the single place the confirmation goes out.
	s.sink.Notify(ConfirmationEvent(ord))
	return ord, nil
}

// UpdateStatus advances the fulfillment state and tells the customer about
// it. The notification is best-effort and never fails the update.
func (s *Service) UpdateStatus(id, newStatus string) (Order, error) {
	if !ValidStatus(newStatus) {
		return Order{}, fmt.Errorf("unknown status %q", newStatus)
	}

	old, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if old.Status == newStatus {
		return old, nil
	}

	updated, err := s.repo.UpdateStatus(id, newStatus)
	if err != nil {
		return Order{}, err
	}

	s.sink.Notify(notification.Event{
		Type:          notification.EventStatusChanged,
		OrderNumber:   updated.OrderNumber,
		CustomerName:  updated.CustomerName,
		CustomerEmail: updated.CustomerEmail,
		OldStatus:     old.Status,
		NewStatus:     updated.Status,
	})
	return updated, nil
}

// ConfirmationEvent builds the order-confirmation notification for ord.
func ConfirmationEvent(ord Order) notification.Event {
	items := make([]notification.EventItem, len(ord.Items))
	for i, it := range ord.Items {
		items[i] = notification.EventItem{
			Name:     it.ProductName,
			Size:     it.Size,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
	}
	return notification.Event{
		Type:           notification.EventOrderConfirmed,
		OrderNumber:    ord.OrderNumber,
		CustomerName:   ord.CustomerName,
		CustomerEmail:  ord.CustomerEmail,
		PaymentMethod:  ord.PaymentMethod,
		Subtotal:       ord.Subtotal,
		ShippingCharge: ord.ShippingCharge,
		Total:          ord.Total,
		Items:          items,
	}
}

// roundCents rounds to currency precision so float formatting noise does
// not fail the total invariant.
func roundCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
