package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Approved  bool      `json:"approved,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
}

type ReviewClient struct{ c *Client }

func NewReviewClient(c *Client) *ReviewClient { return &ReviewClient{c: c} }

func (rc *ReviewClient) ListForProduct(ctx context.Context, productID string) ([]Review, error) {
	var out ReviewListResponse
	if err := rc.c.DoJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID)+"/reviews", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (rc *ReviewClient) Create(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	var out Review
	if err := rc.c.DoJSON(ctx, http.MethodPost, "/api/reviews", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
