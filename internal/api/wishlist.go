package api

import (
	"context"
	"net/http"
	"net/url"
)

type WishlistItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

type WishlistClient struct{ c *Client }

func NewWishlistClient(c *Client) *WishlistClient { return &WishlistClient{c: c} }

func (wc *WishlistClient) Get(ctx context.Context) (*Wishlist, error) {
	var out Wishlist
	if err := wc.c.DoJSON(ctx, http.MethodGet, "/api/wishlist", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (wc *WishlistClient) Add(ctx context.Context, item WishlistItem) (*Wishlist, error) {
	var out Wishlist
	if err := wc.c.DoJSON(ctx, http.MethodPost, "/api/wishlist/items", "", item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (wc *WishlistClient) Remove(ctx context.Context, productID string) (*Wishlist, error) {
	var out Wishlist
	if err := wc.c.DoJSON(ctx, http.MethodDelete, "/api/wishlist/items/"+url.PathEscape(productID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (wc *WishlistClient) Clear(ctx context.Context) error {
	return wc.c.DoJSON(ctx, http.MethodDelete, "/api/wishlist", "", nil, nil)
}
