package mockapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventEnvelope matches the push channel wire format.
type EventEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type hub struct {
	log *zap.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newHub(log *zap.Logger) *hub {
	return &hub{log: log, conns: make(map[*websocket.Conn]bool)}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.Close()
}

func (h *hub) broadcast(ev EventEnvelope) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("push write failed, dropping conn", zap.Error(err))
			delete(h.conns, c)
			c.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWS upgrades the connection and expects the auth token as the
// first frame, matching the client.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&auth); err != nil || auth.Token == "" {
		conn.Close()
		return
	}
	s.mu.Lock()
	_, ok := s.users[auth.Token]
	s.mu.Unlock()
	if !ok {
		conn.Close()
		return
	}

	s.hub.add(conn)
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast lets tests and the dev server push arbitrary events.
func (s *Server) Broadcast(ev EventEnvelope) { s.hub.broadcast(ev) }
