package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the local persistence port for the client. Implementations hold
// small JSON blobs keyed per user (cart mirror, wishlist mirror, session).
// Writes are last-writer-wins; there is no cross-process coordination.
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
