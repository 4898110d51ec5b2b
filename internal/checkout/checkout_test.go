package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
	"github.com/andreasstove999/storefront-go/internal/store"
)

type fakeOrders struct {
	createFunc func(ctx context.Context, req api.CreateOrderRequest) (*api.OrderPayload, error)
	created    []api.CreateOrderRequest
}

func (f *fakeOrders) Create(ctx context.Context, req api.CreateOrderRequest) (*api.OrderPayload, error) {
	f.created = append(f.created, req)
	if f.createFunc != nil {
		return f.createFunc(ctx, req)
	}
	return &api.OrderPayload{ID: "o1", OrderNumber: "ORD-1", Status: "new", TotalAmount: req.TotalAmount}, nil
}

type fakePayments struct {
	initiateFunc func(ctx context.Context, req api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error)
	verifyFunc   func(ctx context.Context, paymentID string) (*api.PaymentStatus, error)
}

func (f *fakePayments) Initiate(ctx context.Context, req api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error) {
	if f.initiateFunc != nil {
		return f.initiateFunc(ctx, req)
	}
	return &api.InitiatePaymentResponse{PaymentID: "pay-1"}, nil
}

func (f *fakePayments) Verify(ctx context.Context, paymentID string) (*api.PaymentStatus, error) {
	if f.verifyFunc != nil {
		return f.verifyFunc(ctx, paymentID)
	}
	return &api.PaymentStatus{PaymentID: paymentID, Status: "success"}, nil
}

type fakeCart struct {
	items   []store.LineItem
	cleared bool
}

func (f *fakeCart) Items() []store.LineItem { return f.items }
func (f *fakeCart) Clear(context.Context) store.Result {
	f.cleared = true
	f.items = nil
	return store.Result{}
}

func codLine(price float64, qty int) store.LineItem {
	return store.LineItem{
		ProductID: "p1", Name: "Shirt", Price: price, Quantity: qty,
		Shipping: pricing.ShippingMeta{
			WeightKg:     1,
			Dimensions:   pricing.Dimensions{Length: 10, Width: 10, Height: 10},
			CODAvailable: true,
			CODCharge:    30,
		},
	}
}

func addr() api.Address {
	return api.Address{Line1: "12 Lane", City: "Pune", PostalCode: "411001"}
}

func newService(orders *fakeOrders, payments *fakePayments, cart *fakeCart) *Service {
	return NewService(orders, payments, cart, Options{TaxRate: 0.18, Provider: "generic"}, nil)
}

func TestCODOrderPostsDirectly(t *testing.T) {
	orders := &fakeOrders{}
	payments := &fakePayments{
		initiateFunc: func(context.Context, api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error) {
			t.Fatal("COD must bypass the payment provider")
			return nil, nil
		},
	}
	cart := &fakeCart{items: []store.LineItem{codLine(500, 2)}}

	outcome, err := newService(orders, payments, cart).PlaceOrder(context.Background(), addr(), MethodCOD)
	require.NoError(t, err)
	require.NotNil(t, outcome.Order)
	assert.True(t, cart.cleared)

	require.Len(t, orders.created, 1)
	draft := orders.created[0]
	assert.Equal(t, 1000.0, draft.Subtotal)
	assert.Equal(t, 9.98, draft.ShippingCost)
	assert.Equal(t, 180.0, draft.Tax)
	assert.Equal(t, 60.0, draft.CODCharge)
	assert.Equal(t, 1250.0, draft.TotalAmount)
}

func TestCODRejectedWhenAnyLineIneligible(t *testing.T) {
	cart := &fakeCart{items: []store.LineItem{
		codLine(500, 1),
		{ProductID: "p2", Price: 100, Quantity: 1}, // not COD-eligible
	}}

	_, err := newService(&fakeOrders{}, &fakePayments{}, cart).PlaceOrder(context.Background(), addr(), MethodCOD)
	assert.ErrorIs(t, err, ErrCODUnavailable)
	assert.False(t, cart.cleared)
}

func TestEmptyCartRejected(t *testing.T) {
	_, err := newService(&fakeOrders{}, &fakePayments{}, &fakeCart{}).PlaceOrder(context.Background(), addr(), MethodOnline)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOnlineRedirectFlow(t *testing.T) {
	payments := &fakePayments{
		initiateFunc: func(context.Context, api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error) {
			return &api.InitiatePaymentResponse{RedirectURL: "https://pay.example/x", PaymentID: "pay-9"}, nil
		},
	}
	cart := &fakeCart{items: []store.LineItem{codLine(500, 1)}}
	orders := &fakeOrders{}

	outcome, err := newService(orders, payments, cart).PlaceOrder(context.Background(), addr(), MethodOnline)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/x", outcome.RedirectURL)
	// No order yet and the cart survives until payment completes.
	assert.Nil(t, outcome.Order)
	assert.Empty(t, orders.created)
	assert.False(t, cart.cleared)
}

func TestOnlineVerifyFlow(t *testing.T) {
	cart := &fakeCart{items: []store.LineItem{codLine(500, 1)}}
	orders := &fakeOrders{}

	outcome, err := newService(orders, &fakePayments{}, cart).PlaceOrder(context.Background(), addr(), MethodOnline)
	require.NoError(t, err)
	require.NotNil(t, outcome.Order)
	assert.True(t, cart.cleared)

	require.Len(t, orders.created, 1)
	assert.Equal(t, "pay-1", orders.created[0].PaymentID)
	// Online checkout carries no COD surcharge.
	assert.Equal(t, 0.0, orders.created[0].CODCharge)
}

func TestOnlinePaymentFailureSurfacesReason(t *testing.T) {
	payments := &fakePayments{
		verifyFunc: func(_ context.Context, id string) (*api.PaymentStatus, error) {
			return &api.PaymentStatus{PaymentID: id, Status: "failed", Reason: "card declined"}, nil
		},
	}
	cart := &fakeCart{items: []store.LineItem{codLine(500, 1)}}
	orders := &fakeOrders{}

	_, err := newService(orders, payments, cart).PlaceOrder(context.Background(), addr(), MethodOnline)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card declined")
	assert.Empty(t, orders.created)
	assert.False(t, cart.cleared)
}

func TestPaymentProviderErrorPropagates(t *testing.T) {
	payments := &fakePayments{
		initiateFunc: func(context.Context, api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error) {
			return nil, errors.New("provider unreachable")
		},
	}
	cart := &fakeCart{items: []store.LineItem{codLine(500, 1)}}

	_, err := newService(&fakeOrders{}, payments, cart).PlaceOrder(context.Background(), addr(), MethodOnline)
	require.Error(t, err)
	assert.False(t, cart.cleared)
}
