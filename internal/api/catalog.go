package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/storefront-go/internal/pricing"
)

// Product is the denormalized catalog snapshot the client caches for
// offline display. Master data is owned by the server.
type Product struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Brand    string               `json:"brand,omitempty"`
	SKU      string               `json:"sku,omitempty"`
	Price    float64              `json:"price"`
	Image    string               `json:"image,omitempty"`
	Sizes    []string             `json:"sizes,omitempty"`
	Colors   []string             `json:"colors,omitempty"`
	Stock    int                  `json:"stock,omitempty"`
	Shipping pricing.ShippingMeta `json:"shipping"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListProducts(ctx context.Context, page, pageSize int, search string) (*ProductListResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("limit", strconv.Itoa(pageSize))
	}
	if search != "" {
		q.Set("search", search)
	}
	var out ProductListResponse
	if err := cc.c.DoJSON(ctx, http.MethodGet, "/api/products", q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CatalogClient) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := cc.c.DoJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
