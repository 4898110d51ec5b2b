// Package checkout builds order drafts from the cart and runs the
// payment round trip: COD posts straight to order creation, online
// payment goes through the generic provider initiate/verify flow.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
	"github.com/andreasstove999/storefront-go/internal/store"
)

const (
	MethodCOD    = "cod"
	MethodOnline = "online"
)

// ErrCODUnavailable rejects a COD checkout when any cart line's product
// is not COD-eligible. Fail-closed: one ineligible item disables COD for
// the whole cart.
var ErrCODUnavailable = errors.New("checkout: cash on delivery not available for this cart")

var ErrEmptyCart = errors.New("checkout: cart is empty")

type orderAPI interface {
	Create(ctx context.Context, req api.CreateOrderRequest) (*api.OrderPayload, error)
}

type paymentAPI interface {
	Initiate(ctx context.Context, req api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error)
	Verify(ctx context.Context, paymentID string) (*api.PaymentStatus, error)
}

type cartStore interface {
	Items() []store.LineItem
	Clear(ctx context.Context) store.Result
}

type Service struct {
	orders   orderAPI
	payments paymentAPI
	cart     cartStore
	log      *zap.Logger

	taxRate   float64
	currency  string
	provider  string
	returnURL string
}

type Options struct {
	TaxRate   float64
	Currency  string
	Provider  string
	ReturnURL string
}

func NewService(orders orderAPI, payments paymentAPI, cart cartStore, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &Service{
		orders:    orders,
		payments:  payments,
		cart:      cart,
		log:       log,
		taxRate:   opts.TaxRate,
		currency:  opts.Currency,
		provider:  opts.Provider,
		returnURL: opts.ReturnURL,
	}
}

// Quote prices the current cart for the chosen payment method.
func (s *Service) Quote(method string) (pricing.Quote, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return pricing.Quote{}, ErrEmptyCart
	}
	lines := store.PricingLines(items)
	if method == MethodCOD && !pricing.CODAvailable(lines) {
		return pricing.Quote{}, ErrCODUnavailable
	}
	return pricing.NewQuote(lines, s.taxRate, method == MethodCOD), nil
}

// CODAvailable reports whether COD may be offered for the current cart.
func (s *Service) CODAvailable() bool {
	return pricing.CODAvailable(store.PricingLines(s.cart.Items()))
}

// Outcome is the result of PlaceOrder. Exactly one of Order and
// RedirectURL is set: a redirect means the caller must send the user to
// the provider-hosted page and complete with VerifyAndPlace afterwards.
type Outcome struct {
	Order       *api.OrderPayload
	RedirectURL string
	PaymentID   string
	Quote       pricing.Quote
}

// PlaceOrder runs the checkout for the current cart. On a completed
// order the cart is cleared.
func (s *Service) PlaceOrder(ctx context.Context, address api.Address, method string) (*Outcome, error) {
	quote, err := s.Quote(method)
	if err != nil {
		return nil, err
	}
	draft := s.draft(address, method, quote)

	if method == MethodCOD {
		order, err := s.orders.Create(ctx, draft)
		if err != nil {
			return nil, fmt.Errorf("create cod order: %w", err)
		}
		s.cart.Clear(ctx)
		return &Outcome{Order: order, Quote: quote}, nil
	}

	resp, err := s.payments.Initiate(ctx, api.InitiatePaymentRequest{
		Amount:    quote.Total,
		Currency:  s.currency,
		Provider:  s.provider,
		OrderData: draft,
		ReturnURL: s.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	if resp.RedirectURL != "" {
		return &Outcome{RedirectURL: resp.RedirectURL, PaymentID: resp.PaymentID, Quote: quote}, nil
	}
	return s.VerifyAndPlace(ctx, resp.PaymentID, draft, quote)
}

// VerifyAndPlace checks the payment status and creates the order once
// the provider reports success.
func (s *Service) VerifyAndPlace(ctx context.Context, paymentID string, draft api.CreateOrderRequest, quote pricing.Quote) (*Outcome, error) {
	status, err := s.payments.Verify(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	if status.Status != "success" {
		if status.Reason != "" {
			return nil, fmt.Errorf("checkout: payment failed: %s", status.Reason)
		}
		return nil, fmt.Errorf("checkout: payment %s", status.Status)
	}

	draft.PaymentID = paymentID
	order, err := s.orders.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.cart.Clear(ctx)
	s.log.Info("order placed", zap.String("orderId", order.ID))
	return &Outcome{Order: order, PaymentID: paymentID, Quote: quote}, nil
}

func (s *Service) draft(address api.Address, method string, quote pricing.Quote) api.CreateOrderRequest {
	items := s.cart.Items()
	orderItems := make([]api.OrderItem, len(items))
	for i, it := range items {
		orderItems[i] = api.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		}
	}
	return api.CreateOrderRequest{
		Items:         orderItems,
		Address:       address,
		PaymentMethod: method,
		Subtotal:      quote.Subtotal,
		ShippingCost:  quote.Shipping,
		Tax:           quote.Tax,
		CODCharge:     quote.CODSurcharge,
		TotalAmount:   quote.Total,
	}
}
