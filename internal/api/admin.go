package api

import (
	"context"
	"net/http"
	"net/url"
)

// AdminStats is the raw dashboard payload. adminview projects it into
// display rows.
type AdminStats struct {
	TotalOrders    int            `json:"totalOrders"`
	TotalRevenue   float64        `json:"totalRevenue"`
	TotalCustomers int            `json:"totalCustomers"`
	PendingReviews int            `json:"pendingReviews"`
	RecentOrders   []OrderPayload `json:"recentOrders,omitempty"`
}

// StoreSettings is the admin-editable configuration round-tripped as-is.
type StoreSettings struct {
	StoreName        string  `json:"storeName"`
	TaxRate          float64 `json:"taxRate"`
	CODEnabled       bool    `json:"codEnabled"`
	FlatShippingOver float64 `json:"flatShippingOver,omitempty"`
}

type AdminClient struct{ c *Client }

func NewAdminClient(c *Client) *AdminClient { return &AdminClient{c: c} }

func (ac *AdminClient) DashboardStats(ctx context.Context) (*AdminStats, error) {
	var out AdminStats
	if err := ac.c.DoJSON(ctx, http.MethodGet, "/api/admin/stats", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminClient) PendingReviews(ctx context.Context) ([]Review, error) {
	var out ReviewListResponse
	if err := ac.c.DoJSON(ctx, http.MethodGet, "/api/admin/reviews", "pending=true", nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (ac *AdminClient) ApproveReview(ctx context.Context, id string) error {
	return ac.c.DoJSON(ctx, http.MethodPost, "/api/admin/reviews/"+url.PathEscape(id)+"/approve", "", nil, nil)
}

func (ac *AdminClient) DeleteReview(ctx context.Context, id string) error {
	return ac.c.DoJSON(ctx, http.MethodDelete, "/api/admin/reviews/"+url.PathEscape(id), "", nil, nil)
}

func (ac *AdminClient) GetSettings(ctx context.Context) (*StoreSettings, error) {
	var out StoreSettings
	if err := ac.c.DoJSON(ctx, http.MethodGet, "/api/admin/settings", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AdminClient) UpdateSettings(ctx context.Context, s StoreSettings) (*StoreSettings, error) {
	var out StoreSettings
	if err := ac.c.DoJSON(ctx, http.MethodPut, "/api/admin/settings", "", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
