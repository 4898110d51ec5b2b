// Package store holds the cart and wishlist state containers: server
// state merged with a local mirror, mutations degrading to local-only
// on network failure. The user never sees a hard failure from these
// operations; degraded mode is reported on the Result instead.
package store

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
	"github.com/andreasstove999/storefront-go/internal/storage"
)

const (
	cartKeyPrefix = "storefront_cart_"
	legacyCartKey = "storefront_cart"
)

type cartAPI interface {
	Get(ctx context.Context) (*api.Cart, error)
	AddItem(ctx context.Context, req api.AddCartItemRequest) (*api.Cart, error)
	UpdateItem(ctx context.Context, req api.UpdateCartItemRequest) (*api.Cart, error)
	RemoveItem(ctx context.Context, req api.RemoveCartItemRequest) (*api.Cart, error)
	Clear(ctx context.Context) error
}

type persistedCart struct {
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

type CartStore struct {
	api     cartAPI
	storage storage.Store
	userID  func() string
	log     *zap.Logger

	mu    sync.Mutex
	items []LineItem
}

func NewCartStore(apiClient cartAPI, store storage.Store, userID func() string, log *zap.Logger) *CartStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &CartStore{api: apiClient, storage: store, userID: userID, log: log}
	s.Hydrate(context.Background())
	return s
}

func (s *CartStore) key() string { return cartKeyPrefix + s.userID() }

// Hydrate loads the local mirror synchronously. A legacy unscoped key is
// migrated to the per-user key and deleted on first read.
func (s *CartStore) Hydrate(ctx context.Context) {
	var p persistedCart
	err := s.storage.GetJSON(ctx, s.key(), &p)
	if errors.Is(err, storage.ErrNotFound) {
		if legacyErr := s.storage.GetJSON(ctx, legacyCartKey, &p); legacyErr == nil {
			_ = s.storage.SetJSON(ctx, s.key(), p)
			_ = s.storage.Delete(ctx, legacyCartKey)
			s.log.Info("migrated legacy cart mirror", zap.String("key", s.key()))
		} else {
			return
		}
	} else if err != nil {
		s.log.Warn("cart hydrate failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.items = p.Items
	s.mu.Unlock()
}

// Fetch pulls the server cart and merges it with local-only lines. On
// network failure the mirror state stands and the result is degraded.
func (s *CartStore) Fetch(ctx context.Context) Result {
	serverCart, err := s.api.Get(ctx)
	if err != nil {
		s.log.Debug("cart fetch degraded to local mirror", zap.Error(err))
		return Result{Items: s.Items(), Degraded: true, Cause: err}
	}

	s.mu.Lock()
	merged := mergeLines(serverCart.Items, s.items)
	s.items = merged
	s.mu.Unlock()

	s.mirror(ctx)
	return Result{Items: s.Items()}
}

// mergeLines prefers server data for shared fields but keeps any
// local-only line not yet present server-side, and keeps locally cached
// shipping metadata when the server snapshot lacks it. Lines match by
// identity triple first, then by raw id.
func mergeLines(server []api.CartItem, local []LineItem) []LineItem {
	merged := make([]LineItem, 0, len(server))
	matched := make(map[int]bool, len(local))

	for _, sv := range server {
		line := lineFromAPI(sv)
		idx := -1
		for i, lc := range local {
			if matched[i] {
				continue
			}
			if lc.Key() == line.Key() || (line.ID != "" && lc.ID == line.ID) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			matched[idx] = true
			if line.Shipping.IsZero() && !local[idx].Shipping.IsZero() {
				line.Shipping = local[idx].Shipping
			}
		}
		merged = append(merged, line)
	}

	for i, lc := range local {
		if !matched[i] && !containsKey(merged, lc.Key()) {
			merged = append(merged, lc)
		}
	}
	return merged
}

func containsKey(items []LineItem, key string) bool {
	for _, it := range items {
		if it.Key() == key {
			return true
		}
	}
	return false
}

// Add puts a product in the cart. It never fails from the caller's point
// of view: when the server is unreachable the line is created or bumped
// locally from the supplied snapshot.
func (s *CartStore) Add(ctx context.Context, productID string, quantity int, meta ItemMeta) Result {
	serverCart, err := s.api.AddItem(ctx, api.AddCartItemRequest{
		ProductID: productID,
		Quantity:  quantity,
		Price:     meta.Price,
		Size:      meta.Size,
		Color:     meta.Color,
	})
	if err == nil {
		s.replaceFromServer(ctx, serverCart)
		return Result{Items: s.Items()}
	}

	s.log.Debug("cart add degraded to local mutation",
		zap.String("productId", productID), zap.Error(err))

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		name := meta.Name
		if name == "" {
			name = "Product"
		}
		s.items = append(s.items, LineItem{
			ProductID: productID,
			Name:      name,
			Brand:     meta.Brand,
			SKU:       meta.SKU,
			Image:     meta.Image,
			Price:     meta.Price,
			Quantity:  quantity,
			Size:      meta.Size,
			Color:     meta.Color,
			Shipping:  meta.Shipping,
		})
	}
	s.mu.Unlock()

	s.mirror(ctx)
	return Result{Items: s.Items(), Degraded: true, Cause: err}
}

// UpdateQuantity sets a line's quantity. Stock limits are enforced
// server-side and by the product page's own stepper, not here.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int, variant Variant) Result {
	serverCart, err := s.api.UpdateItem(ctx, api.UpdateCartItemRequest{
		ProductID: productID,
		Quantity:  quantity,
		Size:      variant.Size,
		Color:     variant.Color,
	})
	if err == nil {
		s.replaceFromServer(ctx, serverCart)
		return Result{Items: s.Items()}
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].Size == variant.Size && s.items[i].Color == variant.Color {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	s.mirror(ctx)
	return Result{Items: s.Items(), Degraded: true, Cause: err}
}

// Remove drops a line. The request always carries the variant in the
// body so lines sharing a product id stay distinguishable.
func (s *CartStore) Remove(ctx context.Context, productID string, variant Variant) Result {
	serverCart, err := s.api.RemoveItem(ctx, api.RemoveCartItemRequest{
		ProductID: productID,
		Size:      variant.Size,
		Color:     variant.Color,
	})
	if err == nil {
		s.replaceFromServer(ctx, serverCart)
		return Result{Items: s.Items()}
	}

	s.mu.Lock()
	keep := s.items[:0]
	for _, it := range s.items {
		if it.ProductID == productID && it.Size == variant.Size && it.Color == variant.Color {
			continue
		}
		keep = append(keep, it)
	}
	s.items = keep
	s.mu.Unlock()

	s.mirror(ctx)
	return Result{Items: s.Items(), Degraded: true, Cause: err}
}

// Clear empties the cart unconditionally, online or offline.
func (s *CartStore) Clear(ctx context.Context) Result {
	err := s.api.Clear(ctx)
	if err != nil {
		s.log.Debug("cart clear degraded to local mutation", zap.Error(err))
	}

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.mirror(ctx)
	return Result{Items: nil, Degraded: err != nil, Cause: err}
}

// replaceFromServer swaps state for the server-authoritative cart,
// applying the same shipping-metadata preservation as a fetch merge.
func (s *CartStore) replaceFromServer(ctx context.Context, c *api.Cart) {
	s.mu.Lock()
	local := s.items
	merged := make([]LineItem, 0, len(c.Items))
	for _, sv := range c.Items {
		line := lineFromAPI(sv)
		if line.Shipping.IsZero() {
			for _, lc := range local {
				if lc.Key() == line.Key() && !lc.Shipping.IsZero() {
					line.Shipping = lc.Shipping
					break
				}
			}
		}
		merged = append(merged, line)
	}
	s.items = merged
	s.mu.Unlock()

	s.mirror(ctx)
}

func (s *CartStore) mirror(ctx context.Context) {
	blob := persistedCart{Items: s.Items(), TotalAmount: s.TotalAmount()}
	if err := s.storage.SetJSON(ctx, s.key(), blob); err != nil {
		s.log.Warn("cart mirror write failed", zap.Error(err))
	}
}

// Items returns a copy of the current line items.
func (s *CartStore) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of per-line quantities, always derived from the
// line list.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// TotalAmount is the sum of price x quantity, rounded to cents.
func (s *CartStore) TotalAmount() float64 {
	return pricing.Subtotal(PricingLines(s.Items()))
}
