package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type token string

func (t token) Token() string { return string(t) }

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// newPushServer upgrades, checks the auth frame, then streams the given
// events and keeps the socket open until the client goes away.
func newPushServer(t *testing.T, wantToken string, events []Event) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var auth struct {
			Token string `json:"token"`
		}
		if err := conn.ReadJSON(&auth); err != nil || auth.Token != wantToken {
			return
		}
		for _, ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestDispatchesEventsByType(t *testing.T) {
	events := []Event{
		{Type: EventOrderStatus, Data: raw(t, OrderStatusEvent{OrderID: "o1", Status: "shipped"})},
		{Type: EventShipmentStatus, Data: raw(t, ShipmentStatusEvent{OrderID: "o1", Status: "in_transit", Location: "Mumbai"})},
		{Type: EventNotification, Data: raw(t, NotificationEvent{ID: "n1", Title: "Order shipped"})},
		// Unknown types and events without ids are dropped quietly.
		{Type: "unknown_event", Data: raw(t, map[string]string{"x": "y"})},
		{Type: EventOrderStatus, Data: raw(t, OrderStatusEvent{Status: "orphan"})},
	}
	url := newPushServer(t, "tok-1", events)

	got := make(chan string, 8)
	client := NewClient(url, token("tok-1"), Handlers{
		OnOrderStatus:    func(e OrderStatusEvent) { got <- "order:" + e.Status },
		OnShipmentStatus: func(e ShipmentStatusEvent) { got <- "shipment:" + e.Location },
		OnNotification:   func(e NotificationEvent) { got <- "notify:" + e.Title },
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		client.Run(ctx)
		close(done)
	}()

	expect := []string{"order:shipped", "shipment:Mumbai", "notify:Order shipped"}
	for _, want := range expect {
		select {
		case msg := <-got:
			assert.Equal(t, want, msg)
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	cancel()
	<-done
	// The orphan order event must not have been delivered.
	select {
	case msg := <-got:
		t.Fatalf("unexpected extra event %q", msg)
	default:
	}
}

func TestReconnectReleasesConnectionWatchers(t *testing.T) {
	// Server drops every socket right after the auth frame, forcing a
	// reconnect cycle on each iteration.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		var auth struct {
			Token string `json:"token"`
		}
		_ = conn.ReadJSON(&auth)
		conn.Close()
	}))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	client := NewClient(url, token("tok-1"), Handlers{}, nil)
	client.reconnect = time.Millisecond

	before := runtime.NumGoroutine()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		client.Run(ctx)
		close(done)
	}()

	time.Sleep(500 * time.Millisecond)
	during := runtime.NumGoroutine()
	cancel()
	<-done

	// Hundreds of reconnects have happened by now; a per-connection
	// watcher that leaked would show up as one goroutine per cycle.
	if during > before+10 {
		t.Fatalf("goroutines grew from %d to %d across reconnects", before, during)
	}
}

func TestRunStopsWhenSignedOut(t *testing.T) {
	client := NewClient("ws://localhost:0", token(""), Handlers{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		client.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit for a signed-out client")
	}
}
