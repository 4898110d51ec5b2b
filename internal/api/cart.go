package api

import (
	"context"
	"net/http"

	"github.com/andreasstove999/storefront-go/internal/pricing"
)

// CartItem is the server's cart line shape. Size/color distinguish
// variant lines sharing one product id.
type CartItem struct {
	ID        string               `json:"id,omitempty"`
	ProductID string               `json:"productId"`
	Name      string               `json:"name,omitempty"`
	Brand     string               `json:"brand,omitempty"`
	SKU       string               `json:"sku,omitempty"`
	Image     string               `json:"image,omitempty"`
	Price     float64              `json:"price"`
	Quantity  int                  `json:"quantity"`
	Size      string               `json:"size,omitempty"`
	Color     string               `json:"color,omitempty"`
	Shipping  pricing.ShippingMeta `json:"shipping,omitempty"`
}

type Cart struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

type AddCartItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

type UpdateCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type RemoveCartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) Get(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := cc.c.DoJSON(ctx, http.MethodGet, "/api/cart", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CartClient) AddItem(ctx context.Context, req AddCartItemRequest) (*Cart, error) {
	var out Cart
	if err := cc.c.DoJSON(ctx, http.MethodPost, "/api/cart/items", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CartClient) UpdateItem(ctx context.Context, req UpdateCartItemRequest) (*Cart, error) {
	var out Cart
	if err := cc.c.DoJSON(ctx, http.MethodPut, "/api/cart/items", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveItem removes one line. The body-based delete disambiguates
// variant lines sharing a product id.
func (cc *CartClient) RemoveItem(ctx context.Context, req RemoveCartItemRequest) (*Cart, error) {
	var out Cart
	if err := cc.c.DoJSON(ctx, http.MethodDelete, "/api/cart/items", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CartClient) Clear(ctx context.Context) error {
	return cc.c.DoJSON(ctx, http.MethodDelete, "/api/cart", "", nil, nil)
}
