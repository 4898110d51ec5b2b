package store

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/storage"
)

const (
	wishlistKeyPrefix = "storefront_wishlist_"
	legacyWishlistKey = "storefront_wishlist"
)

type wishlistAPI interface {
	Get(ctx context.Context) (*api.Wishlist, error)
	Add(ctx context.Context, item api.WishlistItem) (*api.Wishlist, error)
	Remove(ctx context.Context, productID string) (*api.Wishlist, error)
	Clear(ctx context.Context) error
}

type persistedWishlist struct {
	Items []api.WishlistItem `json:"items"`
}

// WishlistStore follows the cart store's merge/fallback contract, minus
// quantity and pricing.
type WishlistStore struct {
	api     wishlistAPI
	storage storage.Store
	userID  func() string
	log     *zap.Logger

	mu    sync.Mutex
	items []api.WishlistItem
}

func NewWishlistStore(apiClient wishlistAPI, store storage.Store, userID func() string, log *zap.Logger) *WishlistStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &WishlistStore{api: apiClient, storage: store, userID: userID, log: log}
	s.Hydrate(context.Background())
	return s
}

func (s *WishlistStore) key() string { return wishlistKeyPrefix + s.userID() }

func (s *WishlistStore) Hydrate(ctx context.Context) {
	var p persistedWishlist
	err := s.storage.GetJSON(ctx, s.key(), &p)
	if errors.Is(err, storage.ErrNotFound) {
		if legacyErr := s.storage.GetJSON(ctx, legacyWishlistKey, &p); legacyErr == nil {
			_ = s.storage.SetJSON(ctx, s.key(), p)
			_ = s.storage.Delete(ctx, legacyWishlistKey)
		} else {
			return
		}
	} else if err != nil {
		s.log.Warn("wishlist hydrate failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.items = p.Items
	s.mu.Unlock()
}

// WishlistResult mirrors Result for unpriced wishlist entries.
type WishlistResult struct {
	Items    []api.WishlistItem
	Degraded bool
	Cause    error
}

func (s *WishlistStore) Fetch(ctx context.Context) WishlistResult {
	serverList, err := s.api.Get(ctx)
	if err != nil {
		return WishlistResult{Items: s.Items(), Degraded: true, Cause: err}
	}

	s.mu.Lock()
	merged := serverList.Items
	for _, lc := range s.items {
		if !wishlistContains(merged, lc.ProductID) {
			merged = append(merged, lc)
		}
	}
	s.items = merged
	s.mu.Unlock()

	s.mirror(ctx)
	return WishlistResult{Items: s.Items()}
}

func (s *WishlistStore) Add(ctx context.Context, item api.WishlistItem) WishlistResult {
	serverList, err := s.api.Add(ctx, item)
	if err == nil {
		s.replace(ctx, serverList.Items)
		return WishlistResult{Items: s.Items()}
	}

	s.mu.Lock()
	if !wishlistContains(s.items, item.ProductID) {
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	s.mirror(ctx)
	return WishlistResult{Items: s.Items(), Degraded: true, Cause: err}
}

func (s *WishlistStore) Remove(ctx context.Context, productID string) WishlistResult {
	serverList, err := s.api.Remove(ctx, productID)
	if err == nil {
		s.replace(ctx, serverList.Items)
		return WishlistResult{Items: s.Items()}
	}

	s.mu.Lock()
	keep := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			keep = append(keep, it)
		}
	}
	s.items = keep
	s.mu.Unlock()

	s.mirror(ctx)
	return WishlistResult{Items: s.Items(), Degraded: true, Cause: err}
}

// Toggle removes the product when present, adds it otherwise.
func (s *WishlistStore) Toggle(ctx context.Context, item api.WishlistItem) WishlistResult {
	if s.Contains(item.ProductID) {
		return s.Remove(ctx, item.ProductID)
	}
	return s.Add(ctx, item)
}

func (s *WishlistStore) Clear(ctx context.Context) WishlistResult {
	err := s.api.Clear(ctx)

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.mirror(ctx)
	return WishlistResult{Degraded: err != nil, Cause: err}
}

func (s *WishlistStore) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wishlistContains(s.items, productID)
}

func (s *WishlistStore) Items() []api.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *WishlistStore) replace(ctx context.Context, items []api.WishlistItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	s.mirror(ctx)
}

func (s *WishlistStore) mirror(ctx context.Context) {
	if err := s.storage.SetJSON(ctx, s.key(), persistedWishlist{Items: s.Items()}); err != nil {
		s.log.Warn("wishlist mirror write failed", zap.Error(err))
	}
}

func wishlistContains(items []api.WishlistItem, productID string) bool {
	for _, it := range items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
