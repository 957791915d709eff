package inventory

// Variant is the stock record for one (product, size) pair.
type Variant struct {
	ID            int    `json:"variantId"`
	ProductID     string `json:"productId"`
	Size          string `json:"size"`
	StockQuantity int    `json:"stockQuantity"`
}

// StockLevel is a variant row joined with its product name, as shown on
// the admin inventory screen.
type StockLevel struct {
	ProductID     string `json:"productId"`
	ProductName   string `json:"productName"`
	Size          string `json:"size"`
	StockQuantity int    `json:"stockQuantity"`
}
