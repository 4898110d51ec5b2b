package api

import (
	"context"
	"net/http"
	"net/url"
)

// InitiatePaymentRequest is the generic provider round trip: the response
// carries either a redirect URL (provider-hosted page) or a payment id to
// verify with a follow-up call. COD never goes through here.
type InitiatePaymentRequest struct {
	Amount    float64            `json:"amount"`
	Currency  string             `json:"currency"`
	Provider  string             `json:"provider"`
	OrderData CreateOrderRequest `json:"orderData"`
	ReturnURL string             `json:"returnUrl,omitempty"`
}

type InitiatePaymentResponse struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
	PaymentID   string `json:"paymentId,omitempty"`
}

type PaymentStatus struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"` // pending | success | failed
	OrderID   string `json:"orderId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type PaymentClient struct{ c *Client }

func NewPaymentClient(c *Client) *PaymentClient { return &PaymentClient{c: c} }

func (pc *PaymentClient) Initiate(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	var out InitiatePaymentResponse
	if err := pc.c.DoJSON(ctx, http.MethodPost, "/api/payments/initiate", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *PaymentClient) Verify(ctx context.Context, paymentID string) (*PaymentStatus, error) {
	var out PaymentStatus
	if err := pc.c.DoJSON(ctx, http.MethodGet, "/api/payments/"+url.PathEscape(paymentID)+"/status", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
