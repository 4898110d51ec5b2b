// Package push consumes the storefront's websocket event channel:
// order, payment, and shipment status changes plus new notifications.
// Handlers patch matching in-memory records by id; events whose id
// matches nothing held by the client are silently dropped.
package push

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventOrderStatus    = "order_status"
	EventPaymentStatus  = "payment_status"
	EventShipmentStatus = "shipment_status"
	EventNotification   = "notification"
)

// Event is the wire envelope.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type OrderStatusEvent struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type PaymentStatusEvent struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId,omitempty"`
	Status    string `json:"status"`
}

type ShipmentStatusEvent struct {
	OrderID  string `json:"orderId"`
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
}

type NotificationEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// Handlers receive decoded events. Nil fields are skipped.
type Handlers struct {
	OnOrderStatus    func(OrderStatusEvent)
	OnPaymentStatus  func(PaymentStatusEvent)
	OnShipmentStatus func(ShipmentStatusEvent)
	OnNotification   func(NotificationEvent)
}

type tokenSource interface {
	Token() string
}

type Client struct {
	url       string
	tokens    tokenSource
	handlers  Handlers
	log       *zap.Logger
	reconnect time.Duration
}

func NewClient(url string, tokens tokenSource, handlers Handlers, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:       url,
		tokens:    tokens,
		handlers:  handlers,
		log:       log,
		reconnect: 5 * time.Second,
	}
}

// Run connects and consumes events until ctx is cancelled, reconnecting
// with a fixed backoff on socket loss while a session token exists.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.runOnce(ctx); err != nil {
			c.log.Debug("push channel disconnected", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnect):
		}
		if c.tokens.Token() == "" {
			return
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	tok := c.tokens.Token()
	if tok == "" {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Auth payload is the first frame, mirroring the browser client.
	if err := conn.WriteJSON(map[string]string{"token": tok}); err != nil {
		return err
	}

	// The watcher must not outlive this connection: it ends either on
	// cancellation or when the read loop returns and closes done.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}
		c.dispatch(ev)
	}
}

func (c *Client) dispatch(ev Event) {
	switch ev.Type {
	case EventOrderStatus:
		if c.handlers.OnOrderStatus != nil {
			var e OrderStatusEvent
			if json.Unmarshal(ev.Data, &e) == nil && e.OrderID != "" {
				c.handlers.OnOrderStatus(e)
			}
		}
	case EventPaymentStatus:
		if c.handlers.OnPaymentStatus != nil {
			var e PaymentStatusEvent
			if json.Unmarshal(ev.Data, &e) == nil && e.PaymentID != "" {
				c.handlers.OnPaymentStatus(e)
			}
		}
	case EventShipmentStatus:
		if c.handlers.OnShipmentStatus != nil {
			var e ShipmentStatusEvent
			if json.Unmarshal(ev.Data, &e) == nil && e.OrderID != "" {
				c.handlers.OnShipmentStatus(e)
			}
		}
	case EventNotification:
		if c.handlers.OnNotification != nil {
			var e NotificationEvent
			if json.Unmarshal(ev.Data, &e) == nil {
				c.handlers.OnNotification(e)
			}
		}
	default:
		c.log.Debug("unknown push event type", zap.String("type", ev.Type))
	}
}
