package inventory

import "errors"

// Service provides stock operations for checkout and the admin console.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Decrement reserves qty units of a variant. The result is floored at
// zero; the returned applied amount says how many units were really taken.
func (s *Service) Decrement(productID, size string, qty int) (newQty, applied int, err error) {
	if productID == "" || size == "" {
		return 0, 0, ErrVariantNotFound
	}
	if qty <= 0 {
		return 0, 0, errors.New("quantity must be positive")
	}
	return s.repo.Decrement(productID, size, qty)
}

// Restock returns previously reserved units, used when an order is unwound.
func (s *Service) Restock(productID, size string, qty int) (int, error) {
	if qty <= 0 {
		return 0, errors.New("quantity must be positive")
	}
	return s.repo.Restock(productID, size, qty)
}

// SetStock applies an absolute admin stock edit.
func (s *Service) SetStock(productID, size string, qty int) (Variant, error) {
	if productID == "" || size == "" {
		return Variant{}, errors.New("productId and size required")
	}
	if qty < 0 {
		return Variant{}, errors.New("stock quantity cannot be negative")
	}
	return s.repo.SetStock(productID, size, qty)
}

func (s *Service) ListStock() ([]StockLevel, error) {
	return s.repo.ListStock()
}
