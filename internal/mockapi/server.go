// Package mockapi is a local fake of the storefront backend used for
// development and tests: in-memory catalog, per-user carts and orders,
// a stub payment provider, and a websocket push endpoint.
package mockapi

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-go/internal/api"
)

type Server struct {
	log *zap.Logger

	mu         sync.Mutex
	products   []api.Product
	users      map[string]api.User // token -> user
	registered map[string]bool     // email -> taken
	carts      map[string]*api.Cart
	wishes     map[string]*api.Wishlist
	orders     map[string][]api.OrderPayload
	payments   map[string]*api.PaymentStatus
	notes      map[string][]api.Notification
	reviews    []api.Review
	settings   api.StoreSettings

	hub *hub
}

func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		log:        log,
		products:   seedProducts(),
		users:      make(map[string]api.User),
		registered: make(map[string]bool),
		carts:      make(map[string]*api.Cart),
		wishes:     make(map[string]*api.Wishlist),
		orders:     make(map[string][]api.OrderPayload),
		payments:   make(map[string]*api.PaymentStatus),
		notes:      make(map[string][]api.Notification),
		settings:   api.StoreSettings{StoreName: "Mock Storefront", TaxRate: 0.18, CODEnabled: true},
		hub:        newHub(log),
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/products/{id}/reviews", s.listReviews)

		r.Get("/ws", s.serveWS)

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/auth/ping", s.ping)
			r.Get("/auth/profile", s.profile)
			r.Put("/auth/profile", s.updateProfile)

			r.Get("/cart", s.getCart)
			r.Post("/cart/items", s.addCartItem)
			r.Put("/cart/items", s.updateCartItem)
			r.Delete("/cart/items", s.removeCartItem)
			r.Delete("/cart", s.clearCart)

			r.Get("/wishlist", s.getWishlist)
			r.Post("/wishlist/items", s.addWishlistItem)
			r.Delete("/wishlist/items/{productId}", s.removeWishlistItem)
			r.Delete("/wishlist", s.clearWishlist)

			r.Get("/orders", s.listOrders)
			r.Post("/orders", s.createOrder)
			r.Get("/orders/{id}", s.getOrder)
			r.Post("/orders/{id}/cancel", s.cancelOrder)
			r.Get("/orders/{id}/tracking", s.orderTracking)

			r.Get("/notifications", s.listNotifications)
			r.Post("/notifications/{id}/read", s.markNotificationRead)

			r.Post("/payments/initiate", s.initiatePayment)
			r.Get("/payments/{id}/status", s.paymentStatus)

			r.Post("/reviews", s.createReview)

			r.Get("/admin/stats", s.adminStats)
			r.Get("/admin/reviews", s.adminReviews)
			r.Post("/admin/reviews/{id}/approve", s.approveReview)
			r.Delete("/admin/reviews/{id}", s.deleteReview)
			r.Get("/admin/settings", s.getSettings)
			r.Put("/admin/settings", s.updateSettings)
		})
	})

	return r
}
