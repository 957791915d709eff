package order

import "errors"

// Payment methods accepted at checkout.
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "ONLINE"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Lifecycle statuses, in fulfillment order.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var lifecycleStatuses = map[string]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// ValidStatus reports whether s is one of the defined lifecycle statuses.
func ValidStatus(s string) bool { return lifecycleStatuses[s] }

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

// ShippingAddress is the structured snapshot copied onto the order at
// checkout time. It never changes after that, even if the customer edits
// their saved profile.
type ShippingAddress struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`
}

// Validate checks that every required address field is present.
func (a ShippingAddress) Validate() error {
	switch {
	case a.Name == "":
		return errors.New("name is required")
	case a.Email == "":
		return errors.New("email is required")
	case a.Phone == "":
		return errors.New("phone is required")
	case a.AddressLine1 == "":
		return errors.New("addressLine1 is required")
	case a.City == "":
		return errors.New("city is required")
	case a.State == "":
		return errors.New("state is required")
	case a.Pincode == "":
		return errors.New("pincode is required")
	}
	return nil
}

// Item is one purchased (product, size, quantity) tuple. Name, image and
// price are denormalized at order time so the order history stays accurate
// when the catalog changes later.
type Item struct {
	ID           int     `json:"itemId"`
	OrderID      string  `json:"orderId"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

// Order is one checkout transaction.
type Order struct {
	ID              string          `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCharge  float64         `json:"shippingCharge"`
	Total           float64         `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	Status          string          `json:"status"`

	RazorpayOrderID   *string `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID *string `json:"razorpayPaymentId,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`

	Items []Item `json:"items,omitempty"`
}
