package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// OrderPayload is the raw server order record. The orderview package
// normalizes it into a display-ready view-model.
type OrderPayload struct {
	ID            string           `json:"id"`
	OrderNumber   string           `json:"orderNumber,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	Items         []OrderItem      `json:"items"`
	Subtotal      float64          `json:"subtotal,omitempty"`
	ShippingCost  float64          `json:"shippingCost,omitempty"`
	Tax           float64          `json:"tax,omitempty"`
	CODCharge     float64          `json:"codCharge,omitempty"`
	TotalAmount   float64          `json:"totalAmount"`
	Address       *Address         `json:"address,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Tracking      *TrackingPayload `json:"tracking,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// TrackingPayload is the shipment sub-resource. Timeline entries arrive
// loosely typed; keys and value types vary by carrier source.
type TrackingPayload struct {
	Carrier        string           `json:"carrier,omitempty"`
	TrackingNumber string           `json:"trackingNumber,omitempty"`
	TrackingURL    string           `json:"trackingUrl,omitempty"`
	Timeline       []map[string]any `json:"timeline,omitempty"`
}

type CreateOrderRequest struct {
	Items         []OrderItem `json:"items"`
	Address       Address     `json:"address"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentID     string      `json:"paymentId,omitempty"`
	Subtotal      float64     `json:"subtotal"`
	ShippingCost  float64     `json:"shippingCost"`
	Tax           float64     `json:"tax"`
	CODCharge     float64     `json:"codCharge,omitempty"`
	TotalAmount   float64     `json:"totalAmount"`
}

type OrderListResponse struct {
	Orders []OrderPayload `json:"orders"`
}

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) List(ctx context.Context) ([]OrderPayload, error) {
	var out OrderListResponse
	if err := oc.c.DoJSON(ctx, http.MethodGet, "/api/orders", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (oc *OrderClient) Get(ctx context.Context, id string) (*OrderPayload, error) {
	var out OrderPayload
	if err := oc.c.DoJSON(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrderClient) Create(ctx context.Context, req CreateOrderRequest) (*OrderPayload, error) {
	var out OrderPayload
	if err := oc.c.DoJSON(ctx, http.MethodPost, "/api/orders", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrderClient) Cancel(ctx context.Context, id string) (*OrderPayload, error) {
	var out OrderPayload
	if err := oc.c.DoJSON(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(id)+"/cancel", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tracking fetches the shipment sub-resource. Callers treat a failure as
// "section absent"; order history has no offline cache.
func (oc *OrderClient) Tracking(ctx context.Context, id string) (*TrackingPayload, error) {
	var out TrackingPayload
	if err := oc.c.DoJSON(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id)+"/tracking", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
