package address

// SavedAddress is a shipping profile the customer can reuse at checkout.
// Orders copy the fields into their own snapshot; editing a profile never
// touches past orders.
type SavedAddress struct {
	ID           int    `json:"addressId"`
	UserID       string `json:"-"`
	Label        string `json:"label,omitempty"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`
	IsDefault    bool   `json:"isDefault"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}
