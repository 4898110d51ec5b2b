// Package session holds the signed-in user and bearer token, persists
// them through the storage port, and runs the keep-alive ping while a
// session is active.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/storage"
)

const storageKey = "storefront_session"

type persisted struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Manager implements api.TokenSource and owns session lifecycle. A 401
// from any authenticated call routes here via HandleUnauthorized.
type Manager struct {
	store storage.Store
	log   *zap.Logger

	mu    sync.Mutex
	token string
	user  *api.User

	stopPing context.CancelFunc

	onLogout func()
}

func NewManager(store storage.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{store: store, log: log}
	m.hydrate()
	return m
}

func (m *Manager) hydrate() {
	var p persisted
	err := m.store.GetJSON(context.Background(), storageKey, &p)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warn("session hydrate failed", zap.Error(err))
		}
		return
	}
	m.token = p.Token
	if p.User.ID != "" {
		u := p.User
		m.user = &u
	}
}

// Token returns the current bearer token ("" when signed out).
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the signed-in user snapshot, or nil.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// UserID returns the signed-in user id, or "guest". Stores use it to
// scope their local mirror keys.
func (m *Manager) UserID() string {
	if u := m.User(); u != nil {
		return u.ID
	}
	return "guest"
}

// OnLogout registers the hook fired after session teardown. The CLI uses
// it to route back to the login prompt, the UI analogue of a hard
// redirect to /login.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

// SignIn stores the authenticated session and mirrors it to storage.
func (m *Manager) SignIn(ctx context.Context, resp *api.LoginResponse) error {
	m.mu.Lock()
	m.token = resp.Token
	u := resp.User
	m.user = &u
	m.mu.Unlock()

	if err := m.store.SetJSON(ctx, storageKey, persisted{Token: resp.Token, User: resp.User}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout clears in-memory and persisted session state, stops the
// keep-alive ping, and fires the logout hook.
func (m *Manager) Logout(ctx context.Context) {
	m.StopKeepAlive()

	m.mu.Lock()
	m.token = ""
	m.user = nil
	hook := m.onLogout
	m.mu.Unlock()

	if err := m.store.Delete(ctx, storageKey); err != nil {
		m.log.Warn("clear persisted session failed", zap.Error(err))
	}
	if hook != nil {
		hook()
	}
}

// HandleUnauthorized is wired to the API client's 401 hook.
func (m *Manager) HandleUnauthorized() {
	m.log.Info("session expired, logging out")
	m.Logout(context.Background())
}

// StartKeepAlive pings on a fixed interval until StopKeepAlive or ctx
// cancellation. Safe to call again after a stop; a second start replaces
// the previous loop.
func (m *Manager) StartKeepAlive(ctx context.Context, auth *api.AuthClient, interval time.Duration) {
	m.StopKeepAlive()

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.stopPing = cancel
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.Token() == "" {
					return
				}
				pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
				if err := auth.Ping(pingCtx); err != nil {
					m.log.Debug("keep-alive ping failed", zap.Error(err))
				}
				pingCancel()
			}
		}
	}()
}

// StopKeepAlive cancels the ping loop. It does not block: Logout can be
// reached from inside the loop itself when a ping comes back 401.
func (m *Manager) StopKeepAlive() {
	m.mu.Lock()
	cancel := m.stopPing
	m.stopPing = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
