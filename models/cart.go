package models

import (
	"sort"
	"strings"
)

// CartLine is one row in the cart. Display data (name, price, image) is a
// snapshot taken at add time; Stock is kept alongside so quantity updates can
// be validated without going back to the catalog.
type CartLine struct {
	ID         string            `json:"id"`
	ProductID  int               `json:"product_id"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	Image      string            `json:"image"`
	Quantity   int               `json:"quantity"`
	Variants   map[string]string `json:"variants,omitempty"`
	VariantKey string            `json:"variant_key"`
	Stock      int               `json:"stock"`
}

type Cart struct {
	Items         []CartLine `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalAmount   float64    `json:"total_amount"`
	// IsOpen is the transient drawer-visibility flag. It never reaches the
	// store, see CartSnapshot.
	IsOpen bool `json:"is_open"`
}

// CartSnapshot is the record that round-trips through the persistence
// boundary. One snapshot per cart key.
type CartSnapshot struct {
	Items         []CartLine `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalAmount   float64    `json:"totalAmount"`
}

// VariantKey canonicalizes a variant selection into a stable string so the
// same selection always produces the same cart line identity regardless of
// map iteration order. Empty selection yields "".
func VariantKey(variants map[string]string) string {
	if len(variants) == 0 {
		return ""
	}
	keys := make([]string, 0, len(variants))
	for k := range variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+variants[k])
	}
	return strings.Join(parts, "|")
}

type AddToCartRequest struct {
	ProductID int               `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Variants  map[string]string `json:"variants,omitempty"`
}

type CartQuantityUpdate struct {
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity"`
}

type CartRemoveRequest struct {
	LineID string `json:"line_id"`
}

type CartVisibilityRequest struct {
	Open bool `json:"open"`
}
