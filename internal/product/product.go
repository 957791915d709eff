package product

// Product is a catalog entry. Checkout never reads the catalog directly
// (cart lines carry their own snapshots); this package feeds the
// storefront pages and the admin console.
type Product struct {
	ID          string  `json:"productId"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`

	Variants []Variant `json:"variants,omitempty"`
}

// Variant is the per-size availability shown on the product page.
type Variant struct {
	Size          string `json:"size"`
	StockQuantity int    `json:"stockQuantity"`
}
