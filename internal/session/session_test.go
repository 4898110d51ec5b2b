package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/storage"
)

func TestSignInPersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	m := NewManager(mem, nil)

	require.NoError(t, m.SignIn(ctx, &api.LoginResponse{
		Token: "tok-1",
		User:  api.User{ID: "u1", Name: "Asha", Email: "asha@example.com"},
	}))
	assert.Equal(t, "tok-1", m.Token())
	assert.Equal(t, "u1", m.UserID())

	// A fresh manager over the same storage restores the session.
	restored := NewManager(mem, nil)
	assert.Equal(t, "tok-1", restored.Token())
	assert.Equal(t, "u1", restored.UserID())
}

func TestGuestUserID(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), nil)
	assert.Equal(t, "", m.Token())
	assert.Equal(t, "guest", m.UserID())
}

func TestLogoutClearsStateAndFiresHook(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	m := NewManager(mem, nil)
	require.NoError(t, m.SignIn(ctx, &api.LoginResponse{Token: "tok-1", User: api.User{ID: "u1"}}))

	fired := false
	m.OnLogout(func() { fired = true })
	m.Logout(ctx)

	assert.True(t, fired)
	assert.Equal(t, "", m.Token())
	assert.Equal(t, "guest", m.UserID())
	assert.False(t, mem.Has("storefront_session"))
}

func TestHandleUnauthorizedTearsDownSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemoryStore(), nil)
	require.NoError(t, m.SignIn(ctx, &api.LoginResponse{Token: "stale", User: api.User{ID: "u1"}}))

	m.HandleUnauthorized()
	assert.Equal(t, "", m.Token())
	assert.Nil(t, m.User())
}
