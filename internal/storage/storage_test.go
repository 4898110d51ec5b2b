package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blob struct {
	Items []string `json:"items"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.SetJSON(ctx, "storefront_cart_u1", blob{Items: []string{"p1", "p2"}}))

	var got blob
	require.NoError(t, s.GetJSON(ctx, "storefront_cart_u1", &got))
	assert.Equal(t, []string{"p1", "p2"}, got.Items)

	require.NoError(t, s.Delete(ctx, "storefront_cart_u1"))
	assert.ErrorIs(t, s.GetJSON(ctx, "storefront_cart_u1", &got), ErrNotFound)
	// Deleting a missing key is a no-op.
	require.NoError(t, s.Delete(ctx, "storefront_cart_u1"))
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	// Path separators in a key must not escape the state dir.
	require.NoError(t, s.SetJSON(ctx, "../weird/key", blob{Items: []string{"x"}}))
	var got blob
	require.NoError(t, s.GetJSON(ctx, "../weird/key", &got))
	assert.Equal(t, []string{"x"}, got.Items)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	var got blob
	assert.ErrorIs(t, s.GetJSON(context.Background(), "missing", &got), ErrNotFound)
}
