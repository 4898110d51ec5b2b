package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.users[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) currentUser(r *http.Request) api.User {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[tok]
}

// login accepts any email/password pair; "admin@" prefixes get the
// admin role.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid credentials payload")
		return
	}
	role := "customer"
	if strings.HasPrefix(req.Email, "admin@") {
		role = "admin"
	}
	user := api.User{
		ID:    uuid.NewString(),
		Name:  strings.Split(req.Email, "@")[0],
		Email: req.Email,
		Role:  role,
	}
	token := uuid.NewString()

	s.mu.Lock()
	s.users[token] = user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.LoginResponse{Token: token, User: user})
}

// register creates an account and signs it straight in. Emails are
// unique; a second registration for one is refused.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid registration payload")
		return
	}

	s.mu.Lock()
	if s.registered[req.Email] {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	s.registered[req.Email] = true

	name := req.Name
	if name == "" {
		name = strings.Split(req.Email, "@")[0]
	}
	user := api.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: req.Email,
		Role:  "customer",
	}
	token := uuid.NewString()
	s.users[token] = user
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, api.LoginResponse{Token: token, User: user})
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentUser(r))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	u := s.users[tok]
	if req.Name != "" {
		u.Name = req.Name
	}
	s.users[tok] = u
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Product, 0, len(s.products))
	for _, p := range s.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), search) {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, api.ProductListResponse{Products: out, Total: len(out)})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "product not found")
}

func (s *Server) userCart(userID string) *api.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = &api.Cart{Items: []api.CartItem{}}
		s.carts[userID] = c
	}
	return c
}

func recalcCart(c *api.Cart) {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.TotalAmount = pricing.RoundCents(total)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.userCart(user.ID))
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req api.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid cart item payload")
		return
	}
	user := s.currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	var product *api.Product
	for i := range s.products {
		if s.products[i].ID == req.ProductID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	c := s.userCart(user.ID)
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == req.ProductID && it.Size == req.Size && it.Color == req.Color {
			it.Quantity += req.Quantity
			recalcCart(c)
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	c.Items = append(c.Items, api.CartItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		SKU:       product.SKU,
		Image:     product.Image,
		Price:     product.Price,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
		Shipping:  product.Shipping,
	})
	recalcCart(c)
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user := s.currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.userCart(user.ID)
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == req.ProductID && it.Size == req.Size && it.Color == req.Color {
			it.Quantity = req.Quantity
			recalcCart(c)
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "cart item not found")
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	var req api.RemoveCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user := s.currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.userCart(user.ID)
	keep := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID == req.ProductID && it.Size == req.Size && it.Color == req.Color {
			continue
		}
		keep = append(keep, it)
	}
	c.Items = keep
	recalcCart(c)
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[user.ID] = &api.Cart{Items: []api.CartItem{}}
	writeJSON(w, http.StatusOK, s.carts[user.ID])
}

func (s *Server) userWishlist(userID string) *api.Wishlist {
	wl, ok := s.wishes[userID]
	if !ok {
		wl = &api.Wishlist{Items: []api.WishlistItem{}}
		s.wishes[userID] = wl
	}
	return wl
}

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.userWishlist(user.ID))
}

func (s *Server) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req api.WishlistItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid wishlist payload")
		return
	}
	user := s.currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	wl := s.userWishlist(user.ID)
	for _, it := range wl.Items {
		if it.ProductID == req.ProductID {
			writeJSON(w, http.StatusOK, wl)
			return
		}
	}
	wl.Items = append(wl.Items, req)
	writeJSON(w, http.StatusOK, wl)
}

func (s *Server) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	user := s.currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	wl := s.userWishlist(user.ID)
	keep := wl.Items[:0]
	for _, it := range wl.Items {
		if it.ProductID != productID {
			keep = append(keep, it)
		}
	}
	wl.Items = keep
	writeJSON(w, http.StatusOK, wl)
}

func (s *Server) clearWishlist(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishes[user.ID] = &api.Wishlist{Items: []api.WishlistItem{}}
	writeJSON(w, http.StatusOK, s.wishes[user.ID])
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, api.OrderListResponse{Orders: s.orders[user.ID]})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid order payload")
		return
	}
	user := s.currentUser(r)

	order := api.OrderPayload{
		ID:            uuid.NewString(),
		OrderNumber:   "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		Status:        "new",
		CreatedAt:     time.Now().UTC(),
		Items:         req.Items,
		Subtotal:      req.Subtotal,
		ShippingCost:  req.ShippingCost,
		Tax:           req.Tax,
		CODCharge:     req.CODCharge,
		TotalAmount:   req.TotalAmount,
		Address:       &req.Address,
		PaymentMethod: req.PaymentMethod,
	}

	note := api.Notification{
		ID:        uuid.NewString(),
		Type:      "order",
		Title:     "Order " + order.OrderNumber + " placed",
		CreatedAt: order.CreatedAt,
	}

	s.mu.Lock()
	s.orders[user.ID] = append([]api.OrderPayload{order}, s.orders[user.ID]...)
	s.carts[user.ID] = &api.Cart{Items: []api.CartItem{}}
	s.notes[user.ID] = append([]api.Notification{note}, s.notes[user.ID]...)
	s.mu.Unlock()

	s.hub.broadcast(EventEnvelope{
		Type: "order_status",
		Data: map[string]string{"orderId": order.ID, "status": order.Status},
	})
	s.hub.broadcast(EventEnvelope{
		Type: "notification",
		Data: map[string]string{"id": note.ID, "title": note.Title},
	})
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) findOrder(userID, id string) *api.OrderPayload {
	for i := range s.orders[userID] {
		if s.orders[userID][i].ID == id {
			return &s.orders[userID][i]
		}
	}
	return nil
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.findOrder(user.ID, chi.URLParam(r, "id")); o != nil {
		writeJSON(w, http.StatusOK, o)
		return
	}
	writeError(w, http.StatusNotFound, "order not found")
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	o := s.findOrder(user.ID, chi.URLParam(r, "id"))
	if o == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if o.Status == "shipped" || o.Status == "delivered" {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "order can no longer be cancelled")
		return
	}
	o.Status = "cancelled"
	out := *o
	s.mu.Unlock()

	s.hub.broadcast(EventEnvelope{
		Type: "order_status",
		Data: map[string]string{"orderId": out.ID, "status": out.Status},
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) orderTracking(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	o := s.findOrder(user.ID, chi.URLParam(r, "id"))
	s.mu.Unlock()
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, api.TrackingPayload{
		Carrier:        "MockExpress",
		TrackingNumber: "MK" + o.ID[:8],
		Timeline: []map[string]any{
			{"timestamp": o.CreatedAt.Format(time.RFC3339), "status": "created", "location": "Warehouse"},
		},
	})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notes[user.ID]
	if out == nil {
		out = []api.Notification{}
	}
	writeJSON(w, http.StatusOK, api.NotificationListResponse{Notifications: out})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes[user.ID] {
		if s.notes[user.ID][i].ID == id {
			s.notes[user.ID][i].Read = true
			writeJSON(w, http.StatusOK, s.notes[user.ID][i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "notification not found")
}

// initiatePayment stubs the provider: amounts ending in .99 are declined
// so failure paths are reachable in tests; everything else succeeds.
func (s *Server) initiatePayment(w http.ResponseWriter, r *http.Request) {
	var req api.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payment payload")
		return
	}

	status := "success"
	reason := ""
	cents := int(pricing.RoundCents(req.Amount)*100) % 100
	if cents == 99 {
		status = "failed"
		reason = "card declined"
	}

	p := &api.PaymentStatus{PaymentID: uuid.NewString(), Status: status, Reason: reason}
	s.mu.Lock()
	s.payments[p.PaymentID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.InitiatePaymentResponse{PaymentID: p.PaymentID})
}

func (s *Server) paymentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	p, ok := s.payments[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "payment not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Review{}
	for _, rv := range s.reviews {
		if rv.ProductID == productID && rv.Approved {
			out = append(out, rv)
		}
	}
	writeJSON(w, http.StatusOK, api.ReviewListResponse{Reviews: out})
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req api.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	user := s.currentUser(r)
	rv := api.Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.reviews = append(s.reviews, rv)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rv)
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := api.AdminStats{TotalCustomers: len(s.users)}
	for _, list := range s.orders {
		for _, o := range list {
			stats.TotalOrders++
			stats.TotalRevenue += o.TotalAmount
			if len(stats.RecentOrders) < 10 {
				stats.RecentOrders = append(stats.RecentOrders, o)
			}
		}
	}
	for _, rv := range s.reviews {
		if !rv.Approved {
			stats.PendingReviews++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) adminReviews(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("pending") == "true"
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Review{}
	for _, rv := range s.reviews {
		if !pendingOnly || !rv.Approved {
			out = append(out, rv)
		}
	}
	writeJSON(w, http.StatusOK, api.ReviewListResponse{Reviews: out})
}

func (s *Server) approveReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews[i].Approved = true
			writeJSON(w, http.StatusOK, s.reviews[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "review not found")
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := s.reviews[:0]
	found := false
	for _, rv := range s.reviews {
		if rv.ID == id {
			found = true
			continue
		}
		keep = append(keep, rv)
	}
	s.reviews = keep
	if !found {
		writeError(w, http.StatusNotFound, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req api.StoreSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.mu.Lock()
	s.settings = req
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, req)
}
