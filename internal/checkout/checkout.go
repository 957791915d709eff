package checkout

import (
	"errors"
	"fmt"
	"log"

	"github.com/fashionstore/fashion-store-backend/internal/inventory"
	"github.com/fashionstore/fashion-store-backend/internal/notification"
	"github.com/fashionstore/fashion-store-backend/internal/order"
	"github.com/fashionstore/fashion-store-backend/internal/ordernumber"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrItemUnavailable means a cart line references a variant the
	// ledger does not track; the whole order is rejected.
	ErrItemUnavailable = errors.New("item unavailable")
)

// ItemInput is one cart line as submitted by the client, with the price
// and name snapshot taken at add-to-cart time.
type ItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Request is the checkout submission.
type Request struct {
	Items           []ItemInput           `json:"items"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	Subtotal        float64               `json:"subtotal"`
	ShippingCharge  float64               `json:"shippingCharge"`
	Total           float64               `json:"total"`
	PaymentMethod   string                `json:"paymentMethod"`
}

// Service sequences a checkout attempt: validate the cart, persist the
// order with its items, reserve stock, then either finish (COD) or leave
// the order pending for the payment callback (ONLINE). Stock reservation
// is all-or-nothing: any failure restocks what was taken, deletes the
// order and fails the checkout.
type Service struct {
	orders  *order.Service
	stock   *inventory.Service
	numbers *ordernumber.Generator
	sink    *notification.Sink
}

func NewService(orders *order.Service, stock *inventory.Service, numbers *ordernumber.Generator, sink *notification.Sink) *Service {
	return &Service{orders: orders, stock: stock, numbers: numbers, sink: sink}
}

type reservation struct {
	productID string
	size      string
	applied   int
}

// PlaceOrder runs one checkout attempt end to end.
func (s *Service) PlaceOrder(req Request) (order.Order, error) {
	if len(req.Items) == 0 {
		return order.Order{}, ErrEmptyCart
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		return order.Order{}, fmt.Errorf("shipping address: %w", err)
	}
	if !order.ValidPaymentMethod(req.PaymentMethod) {
		return order.Order{}, fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}

	number, err := s.numbers.Next()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	ord := order.Order{
		OrderNumber:     number,
		CustomerName:    req.ShippingAddress.Name,
		CustomerEmail:   req.ShippingAddress.Email,
		CustomerPhone:   req.ShippingAddress.Phone,
		ShippingAddress: req.ShippingAddress,
		Subtotal:        req.Subtotal,
		ShippingCharge:  req.ShippingCharge,
		Total:           req.Total,
		PaymentMethod:   req.PaymentMethod,
	}
	items := make([]order.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.Item{
			ProductID:    it.ProductID,
			ProductName:  it.Name,
			ProductImage: it.Image,
			Size:         it.Size,
			Quantity:     it.Quantity,
			Price:        it.Price,
		}
	}

	created, err := s.orders.Create(ord, items)
	if err != nil {
		return order.Order{}, err
	}

	// Reserve stock per line item. Decrements are clamped at zero, so a
	// short stock level is not an error; a variant the ledger has never
	// seen is.
	var done []reservation
	for _, it := range req.Items {
		_, applied, err := s.stock.Decrement(it.ProductID, it.Size, it.Quantity)
		if err != nil {
			s.unwind(created.ID, done)
			if errors.Is(err, inventory.ErrVariantNotFound) {
				return order.Order{}, fmt.Errorf("%w: %s (size %s)", ErrItemUnavailable, it.Name, it.Size)
			}
			return order.Order{}, fmt.Errorf("failed to reserve stock: %w", err)
		}
		done = append(done, reservation{productID: it.ProductID, size: it.Size, applied: applied})
	}

	// COD orders are terminal-success at placement; online orders get
	// their confirmation when the payment callback verifies.
	if created.PaymentMethod == order.PaymentMethodCOD {
		s.sink.Notify(order.ConfirmationEvent(created))
	}
	return created, nil
}

// unwind compensates a half-placed order: reservations are returned in
// reverse, then the order row and its items are removed.
func (s *Service) unwind(orderID string, done []reservation) {
	for i := len(done) - 1; i >= 0; i-- {
		r := done[i]
		if r.applied == 0 {
			continue
		}
		if _, err := s.stock.Restock(r.productID, r.size, r.applied); err != nil {
			log.Printf("warning: could not restock %s size %s qty %d: %v", r.productID, r.size, r.applied, err)
		}
	}
	if err := s.orders.Delete(orderID); err != nil {
		log.Printf("warning: could not delete unwound order %s: %v", orderID, err)
	}
}
