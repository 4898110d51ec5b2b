package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
	"github.com/andreasstove999/storefront-go/internal/storage"
)

var errNetwork = errors.New("connection refused")

type fakeCartAPI struct {
	getFunc    func(ctx context.Context) (*api.Cart, error)
	addFunc    func(ctx context.Context, req api.AddCartItemRequest) (*api.Cart, error)
	updateFunc func(ctx context.Context, req api.UpdateCartItemRequest) (*api.Cart, error)
	removeFunc func(ctx context.Context, req api.RemoveCartItemRequest) (*api.Cart, error)
	clearFunc  func(ctx context.Context) error
}

func (f *fakeCartAPI) Get(ctx context.Context) (*api.Cart, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx)
	}
	return nil, errNetwork
}

func (f *fakeCartAPI) AddItem(ctx context.Context, req api.AddCartItemRequest) (*api.Cart, error) {
	if f.addFunc != nil {
		return f.addFunc(ctx, req)
	}
	return nil, errNetwork
}

func (f *fakeCartAPI) UpdateItem(ctx context.Context, req api.UpdateCartItemRequest) (*api.Cart, error) {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, req)
	}
	return nil, errNetwork
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, req api.RemoveCartItemRequest) (*api.Cart, error) {
	if f.removeFunc != nil {
		return f.removeFunc(ctx, req)
	}
	return nil, errNetwork
}

func (f *fakeCartAPI) Clear(ctx context.Context) error {
	if f.clearFunc != nil {
		return f.clearFunc(ctx)
	}
	return errNetwork
}

func guest() string { return "guest" }

func newTestCart(t *testing.T, apiClient cartAPI) (*CartStore, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	return NewCartStore(apiClient, mem, guest, nil), mem
}

func TestFetchMergesLocalOnlyLines(t *testing.T) {
	ctx := context.Background()
	server := &api.Cart{Items: []api.CartItem{
		{ProductID: "p1", Name: "Shirt", Price: 500, Quantity: 1, Size: "M"},
	}}
	s, _ := newTestCart(t, &fakeCartAPI{
		getFunc: func(context.Context) (*api.Cart, error) { return server, nil },
	})

	// Offline add creates a local-only line first.
	s.Add(ctx, "p2", 1, ItemMeta{Name: "Bottle", Price: 899})

	res := s.Fetch(ctx)
	require.False(t, res.Degraded)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "p1", res.Items[0].ProductID)
	assert.Equal(t, "p2", res.Items[1].ProductID)
}

func TestFetchNeverDuplicatesIdentityTriple(t *testing.T) {
	ctx := context.Background()
	server := &api.Cart{Items: []api.CartItem{
		{ProductID: "p1", Quantity: 3, Price: 500, Size: "M", Color: "black"},
	}}
	s, _ := newTestCart(t, &fakeCartAPI{
		getFunc: func(context.Context) (*api.Cart, error) { return server, nil },
	})
	s.Add(ctx, "p1", 1, ItemMeta{Size: "M", Color: "black", Price: 500})

	res := s.Fetch(ctx)
	require.Len(t, res.Items, 1)
	// Server data wins for shared fields.
	assert.Equal(t, 3, res.Items[0].Quantity)
}

func TestFetchKeepsLocalShippingMetaWhenServerLacksIt(t *testing.T) {
	ctx := context.Background()
	meta := pricing.ShippingMeta{WeightKg: 1, CODAvailable: true, CODCharge: 25}
	server := &api.Cart{Items: []api.CartItem{
		{ProductID: "p1", Quantity: 2, Price: 500},
	}}
	s, _ := newTestCart(t, &fakeCartAPI{
		getFunc: func(context.Context) (*api.Cart, error) { return server, nil },
	})
	s.Add(ctx, "p1", 1, ItemMeta{Price: 500, Shipping: meta})

	res := s.Fetch(ctx)
	require.Len(t, res.Items, 1)
	assert.Equal(t, meta, res.Items[0].Shipping)
}

func TestFetchFallsBackToMirrorOffline(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCart(t, &fakeCartAPI{})
	s.Add(ctx, "p1", 2, ItemMeta{Name: "Shirt", Price: 500})

	res := s.Fetch(ctx)
	assert.True(t, res.Degraded)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].Quantity)
}

func TestAddOfflineSynthesizesLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCart(t, &fakeCartAPI{})

	res := s.Add(ctx, "p9", 1, ItemMeta{})
	assert.True(t, res.Degraded)
	require.Len(t, res.Items, 1)
	// Missing snapshot defaults: name "Product", price 0.
	assert.Equal(t, "Product", res.Items[0].Name)
	assert.Equal(t, 0.0, res.Items[0].Price)

	// A second offline add for the same product increments quantity.
	res = s.Add(ctx, "p9", 2, ItemMeta{})
	require.Len(t, res.Items, 1)
	assert.Equal(t, 3, res.Items[0].Quantity)
}

func TestAddThenRemoveRestoresState(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCart(t, &fakeCartAPI{})
	s.Add(ctx, "p1", 1, ItemMeta{Name: "Shirt", Price: 500, Size: "M", Color: "black"})
	before := s.Items()
	count := s.ItemCount()

	s.Add(ctx, "p2", 1, ItemMeta{Name: "Bottle", Price: 899, Size: "", Color: ""})
	s.Remove(ctx, "p2", Variant{})

	assert.Equal(t, before, s.Items())
	assert.Equal(t, count, s.ItemCount())
}

func TestDerivedValues(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCart(t, &fakeCartAPI{})
	s.Add(ctx, "p1", 2, ItemMeta{Price: 500})
	s.Add(ctx, "p2", 3, ItemMeta{Price: 99.99})

	assert.Equal(t, 5, s.ItemCount())
	assert.Equal(t, 1299.97, s.TotalAmount())

	s.UpdateQuantity(ctx, "p2", 1, Variant{})
	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, 1099.99, s.TotalAmount())
}

func TestClearEmptiesOfflineToo(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCart(t, &fakeCartAPI{})
	s.Add(ctx, "p1", 2, ItemMeta{Price: 500})

	res := s.Clear(ctx)
	assert.True(t, res.Degraded)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
}

func TestLegacyKeyMigration(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	legacy := persistedCart{Items: []LineItem{{ProductID: "p1", Name: "Old", Price: 100, Quantity: 1}}}
	require.NoError(t, mem.SetJSON(ctx, legacyCartKey, legacy))

	s := NewCartStore(&fakeCartAPI{}, mem, guest, nil)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "p1", s.Items()[0].ProductID)
	// Migrated under the scoped key, legacy key deleted.
	assert.True(t, mem.Has(cartKeyPrefix+"guest"))
	assert.False(t, mem.Has(legacyCartKey))
}

func TestMirrorPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	s := NewCartStore(&fakeCartAPI{}, mem, guest, nil)
	s.Add(ctx, "p1", 2, ItemMeta{Name: "Shirt", Price: 500})

	reloaded := NewCartStore(&fakeCartAPI{}, mem, guest, nil)
	assert.Equal(t, s.Items(), reloaded.Items())
}

func TestReplaceFromServerOnSuccessfulAdd(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCart(t, &fakeCartAPI{
		addFunc: func(_ context.Context, req api.AddCartItemRequest) (*api.Cart, error) {
			return &api.Cart{Items: []api.CartItem{
				{ProductID: req.ProductID, Name: "Server Shirt", Price: 500, Quantity: req.Quantity},
			}}, nil
		},
	})

	res := s.Add(ctx, "p1", 2, ItemMeta{Name: "Local Shirt", Price: 499})
	require.False(t, res.Degraded)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Server Shirt", res.Items[0].Name)
	assert.Equal(t, 500.0, res.Items[0].Price)
}
