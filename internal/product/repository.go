package product

import "errors"

var ErrNotFound = errors.New("product not found")

// Repository defines catalog read operations.
type Repository interface {
	GetByID(id string) (Product, error)
	GetBySlug(slug string) (Product, error)
	List(category string) ([]Product, error)
}
