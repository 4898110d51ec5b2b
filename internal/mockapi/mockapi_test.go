package mockapi_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/checkout"
	"github.com/andreasstove999/storefront-go/internal/mockapi"
	"github.com/andreasstove999/storefront-go/internal/orderview"
	"github.com/andreasstove999/storefront-go/internal/session"
	"github.com/andreasstove999/storefront-go/internal/storage"
	"github.com/andreasstove999/storefront-go/internal/store"
)

// end-to-end wiring: real HTTP client against the chi router, real
// stores and checkout on top.
func newEnv(t *testing.T) (*api.Client, *session.Manager, *storage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewServer(nil).Router())
	t.Cleanup(srv.Close)

	mem := storage.NewMemoryStore()
	sess := session.NewManager(mem, nil)
	client := api.NewClient(srv.URL, srv.Client(), sess, nil)
	client.OnUnauthorized(sess.HandleUnauthorized)
	return client, sess, mem
}

func login(t *testing.T, client *api.Client, sess *session.Manager, email string) {
	t.Helper()
	resp, err := api.NewAuthClient(client).Login(context.Background(), api.LoginRequest{
		Email: email, Password: "pw",
	})
	require.NoError(t, err)
	require.NoError(t, sess.SignIn(context.Background(), resp))
}

func TestCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, sess, mem := newEnv(t)
	login(t, client, sess, "asha@example.com")

	cart := store.NewCartStore(api.NewCartClient(client), mem, sess.UserID, nil)

	res := cart.Add(ctx, "p-tshirt", 2, store.ItemMeta{Size: "M", Color: "black"})
	require.False(t, res.Degraded)
	require.Len(t, res.Items, 1)
	// Server enriches the line from its catalog.
	assert.Equal(t, "Crew Neck T-Shirt", res.Items[0].Name)
	assert.Equal(t, 499.0, res.Items[0].Price)
	assert.Equal(t, 2, cart.ItemCount())
	assert.Equal(t, 998.0, cart.TotalAmount())

	// Variant lines sharing the product id stay distinct.
	res = cart.Add(ctx, "p-tshirt", 1, store.ItemMeta{Size: "L", Color: "black"})
	require.Len(t, res.Items, 2)

	res = cart.Remove(ctx, "p-tshirt", store.Variant{Size: "L", Color: "black"})
	require.False(t, res.Degraded)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "M", res.Items[0].Size)

	res = cart.Fetch(ctx)
	require.False(t, res.Degraded)
	require.Len(t, res.Items, 1)
}

func TestUnauthenticatedCartDegradesToLocal(t *testing.T) {
	ctx := context.Background()
	client, sess, mem := newEnv(t)

	cart := store.NewCartStore(api.NewCartClient(client), mem, sess.UserID, nil)

	// Guest adds are rejected server-side (401) and must degrade, not fail.
	res := cart.Add(ctx, "p-tshirt", 1, store.ItemMeta{Name: "Tee", Price: 499})
	assert.True(t, res.Degraded)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, cart.ItemCount())
}

func TestCheckoutCODAgainstMockBackend(t *testing.T) {
	ctx := context.Background()
	client, sess, mem := newEnv(t)
	login(t, client, sess, "asha@example.com")

	cart := store.NewCartStore(api.NewCartClient(client), mem, sess.UserID, nil)
	cart.Add(ctx, "p-tshirt", 2, store.ItemMeta{Size: "M"})

	orders := api.NewOrderClient(client)
	svc := checkout.NewService(orders, api.NewPaymentClient(client), cart, checkout.Options{TaxRate: 0.18}, nil)

	outcome, err := svc.PlaceOrder(ctx, api.Address{Line1: "12 Lane", City: "Pune", PostalCode: "411001"}, checkout.MethodCOD)
	require.NoError(t, err)
	require.NotNil(t, outcome.Order)
	assert.Equal(t, "new", outcome.Order.Status)
	assert.Empty(t, cart.Items())

	list, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	v := orderview.NormalizeOrder(&list[0])
	assert.Equal(t, orderview.StatusNew, v.Status)
}

func TestCheckoutOnlineVerifyAgainstMockBackend(t *testing.T) {
	ctx := context.Background()
	client, sess, mem := newEnv(t)
	login(t, client, sess, "asha@example.com")

	cart := store.NewCartStore(api.NewCartClient(client), mem, sess.UserID, nil)
	cart.Add(ctx, "p-bottle", 1, store.ItemMeta{})

	svc := checkout.NewService(api.NewOrderClient(client), api.NewPaymentClient(client), cart,
		checkout.Options{TaxRate: 0.18}, nil)

	outcome, err := svc.PlaceOrder(ctx, api.Address{Line1: "12 Lane", City: "Pune", PostalCode: "411001"}, checkout.MethodOnline)
	require.NoError(t, err)
	require.NotNil(t, outcome.Order)
	assert.NotEmpty(t, outcome.PaymentID)
}

func TestOrderCancelAndTracking(t *testing.T) {
	ctx := context.Background()
	client, sess, mem := newEnv(t)
	login(t, client, sess, "asha@example.com")

	cart := store.NewCartStore(api.NewCartClient(client), mem, sess.UserID, nil)
	cart.Add(ctx, "p-tshirt", 1, store.ItemMeta{})

	orders := api.NewOrderClient(client)
	svc := checkout.NewService(orders, api.NewPaymentClient(client), cart, checkout.Options{TaxRate: 0.18}, nil)
	outcome, err := svc.PlaceOrder(ctx, api.Address{Line1: "12 Lane", City: "Pune", PostalCode: "411001"}, checkout.MethodCOD)
	require.NoError(t, err)

	tr, err := orders.Tracking(ctx, outcome.Order.ID)
	require.NoError(t, err)
	view := orderview.NormalizeTracking(tr)
	require.Len(t, view.Timeline, 1)
	assert.Equal(t, "created", view.Timeline[0].Status)

	cancelled, err := orders.Cancel(ctx, outcome.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, orderview.StatusCancelled, orderview.ParseStatus(cancelled.Status))
}

func TestAdminModerationFlow(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)
	login(t, client, sess, "asha@example.com")

	reviews := api.NewReviewClient(client)
	created, err := reviews.Create(ctx, api.CreateReviewRequest{ProductID: "p-tshirt", Rating: 4, Comment: "fits well"})
	require.NoError(t, err)

	admin := api.NewAdminClient(client)
	pending, err := admin.PendingReviews(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, admin.ApproveReview(ctx, created.ID))

	approved, err := reviews.ListForProduct(ctx, "p-tshirt")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.True(t, approved[0].Approved)

	stats, err := admin.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.PendingReviews)
}

func TestRegisterSignsInNewAccount(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)

	auth := api.NewAuthClient(client)
	resp, err := auth.Register(ctx, api.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "pw",
	})
	require.NoError(t, err)
	require.NoError(t, sess.SignIn(ctx, resp))
	assert.Equal(t, "Ravi", resp.User.Name)
	assert.Equal(t, "customer", resp.User.Role)

	// The returned token authenticates immediately.
	u, err := auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", u.Email)

	// Registering the same email again is refused.
	_, err = auth.Register(ctx, api.RegisterRequest{Email: "ravi@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)
	login(t, client, sess, "asha@example.com")

	auth := api.NewAuthClient(client)
	updated, err := auth.UpdateProfile(ctx, api.User{Name: "Asha K"})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)

	u, err := auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.Name)
}

func TestNotificationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, sess, mem := newEnv(t)
	login(t, client, sess, "asha@example.com")

	notes := api.NewNotificationClient(client)
	empty, err := notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// Placing an order produces a notification for the buyer.
	cart := store.NewCartStore(api.NewCartClient(client), mem, sess.UserID, nil)
	cart.Add(ctx, "p-tshirt", 1, store.ItemMeta{})
	svc := checkout.NewService(api.NewOrderClient(client), api.NewPaymentClient(client), cart,
		checkout.Options{TaxRate: 0.18}, nil)
	outcome, err := svc.PlaceOrder(ctx, api.Address{Line1: "12 Lane", City: "Pune", PostalCode: "411001"}, checkout.MethodCOD)
	require.NoError(t, err)

	list, err := notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Title, outcome.Order.OrderNumber)
	assert.False(t, list[0].Read)

	require.NoError(t, notes.MarkRead(ctx, list[0].ID))
	list, err = notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	// Marking an unknown id is a 404, not a silent success.
	require.Error(t, notes.MarkRead(ctx, "nope"))
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)
	login(t, client, sess, "admin@example.com")

	admin := api.NewAdminClient(client)
	updated, err := admin.UpdateSettings(ctx, api.StoreSettings{
		StoreName: "Festival Store", TaxRate: 0.12, CODEnabled: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.12, updated.TaxRate)

	got, err := admin.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Festival Store", got.StoreName)
	assert.False(t, got.CODEnabled)
}

func TestReviewDelete(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)
	login(t, client, sess, "asha@example.com")

	created, err := api.NewReviewClient(client).Create(ctx, api.CreateReviewRequest{
		ProductID: "p-tshirt", Rating: 1, Comment: "spam",
	})
	require.NoError(t, err)

	admin := api.NewAdminClient(client)
	require.NoError(t, admin.DeleteReview(ctx, created.ID))

	pending, err := admin.PendingReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Deleting twice reports not found.
	require.Error(t, admin.DeleteReview(ctx, created.ID))
}

func TestExpiredTokenTriggersGlobalTeardown(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)
	login(t, client, sess, "asha@example.com")

	// Simulate server-side expiry: the token the client holds is no
	// longer valid once we swap it for garbage.
	require.NoError(t, sess.SignIn(ctx, &api.LoginResponse{Token: "expired", User: api.User{ID: "u1"}}))

	_, err := api.NewOrderClient(client).List(ctx)
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	// The 401 hook cleared the session.
	assert.Equal(t, "", sess.Token())
	assert.Equal(t, "guest", sess.UserID())
}

func TestInlineErrorMessageSurfaced(t *testing.T) {
	ctx := context.Background()
	client, sess, _ := newEnv(t)
	login(t, client, sess, "asha@example.com")

	_, err := api.NewReviewClient(client).Create(ctx, api.CreateReviewRequest{ProductID: "p-tshirt", Rating: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating must be between 1 and 5")
}
