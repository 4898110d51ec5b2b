package store

import (
	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
)

// LineItem is one cart entry. Identity for merge/dedup purposes is the
// (ProductID, Size, Color) triple: two entries differing only in quantity
// are the same line, entries differing in size or color are distinct.
type LineItem struct {
	ID        string               `json:"id,omitempty"`
	ProductID string               `json:"productId"`
	Name      string               `json:"name"`
	Brand     string               `json:"brand,omitempty"`
	SKU       string               `json:"sku,omitempty"`
	Image     string               `json:"image,omitempty"`
	Price     float64              `json:"price"`
	Quantity  int                  `json:"quantity"`
	Size      string               `json:"size,omitempty"`
	Color     string               `json:"color,omitempty"`
	Shipping  pricing.ShippingMeta `json:"shipping,omitempty"`
}

// Key is the line identity triple.
func (l LineItem) Key() string {
	return l.ProductID + "|" + l.Size + "|" + l.Color
}

// Variant selects a size/color line among those sharing a product id.
type Variant struct {
	Size  string
	Color string
}

// ItemMeta is the cached product snapshot supplied by the product page
// when adding to the cart; it lets the offline path synthesize a line.
type ItemMeta struct {
	Name     string
	Brand    string
	SKU      string
	Image    string
	Price    float64
	Size     string
	Color    string
	Shipping pricing.ShippingMeta
}

func lineFromAPI(it api.CartItem) LineItem {
	return LineItem{
		ID:        it.ID,
		ProductID: it.ProductID,
		Name:      it.Name,
		Brand:     it.Brand,
		SKU:       it.SKU,
		Image:     it.Image,
		Price:     it.Price,
		Quantity:  it.Quantity,
		Size:      it.Size,
		Color:     it.Color,
		Shipping:  it.Shipping,
	}
}

// PricingLines converts cart lines into the calculator's input.
func PricingLines(items []LineItem) []pricing.Line {
	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{UnitPrice: it.Price, Quantity: it.Quantity, Shipping: it.Shipping}
	}
	return lines
}

// Result is the outcome of a store operation. Degraded means the server
// was unreachable and the state shown is the local-only fallback; the
// caller still treats the operation as successful.
type Result struct {
	Items    []LineItem
	Degraded bool
	Cause    error
}
