package notification

import (
	"context"
	"log"
	"time"
)

// Event types carried on the notification stream.
const (
	EventOrderConfirmed = "order.confirmed"
	EventStatusChanged  = "order.status_changed"
)

// Event is one outbound customer notification. The checkout path only
// enqueues these; rendering and delivery happen in the worker.
type Event struct {
	Type           string      `json:"type"`
	OrderNumber    string      `json:"orderNumber"`
	CustomerName   string      `json:"customerName"`
	CustomerEmail  string      `json:"customerEmail"`
	PaymentMethod  string      `json:"paymentMethod,omitempty"`
	Subtotal       float64     `json:"subtotal,omitempty"`
	ShippingCharge float64     `json:"shippingCharge,omitempty"`
	Total          float64     `json:"total,omitempty"`
	Items          []EventItem `json:"items,omitempty"`
	OldStatus      string      `json:"oldStatus,omitempty"`
	NewStatus      string      `json:"newStatus,omitempty"`
}

// EventItem is a line-item snapshot included in confirmation events.
type EventItem struct {
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Publisher hands an event to the outbound stream.
type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// Sink is the best-effort dispatch point used by the request path.
// A publish failure is logged and swallowed; it never fails or delays the
// transaction that triggered it.
type Sink struct {
	pub Publisher
}

func NewSink(pub Publisher) *Sink {
	return &Sink{pub: pub}
}

// Notify enqueues the event asynchronously.
func (s *Sink) Notify(event Event) {
	if s == nil || s.pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.pub.Publish(ctx, event.OrderNumber, event); err != nil {
			log.Printf("warning: could not publish %s for %s: %v", event.Type, event.OrderNumber, err)
		}
	}()
}

// LogPublisher is the fallback when no broker is configured: events are
// only written to the server log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, key string, event Event) error {
	log.Printf("notification %s order=%s to=%s", event.Type, key, event.CustomerEmail)
	return nil
}
