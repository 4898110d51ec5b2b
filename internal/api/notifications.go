package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
}

type NotificationClient struct{ c *Client }

func NewNotificationClient(c *Client) *NotificationClient { return &NotificationClient{c: c} }

func (nc *NotificationClient) List(ctx context.Context) ([]Notification, error) {
	var out NotificationListResponse
	if err := nc.c.DoJSON(ctx, http.MethodGet, "/api/notifications", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

func (nc *NotificationClient) MarkRead(ctx context.Context, id string) error {
	return nc.c.DoJSON(ctx, http.MethodPost, "/api/notifications/"+url.PathEscape(id)+"/read", "", nil, nil)
}
