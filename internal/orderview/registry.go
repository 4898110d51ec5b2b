package orderview

import (
	"sort"
	"sync"

	"github.com/andreasstove999/storefront-go/internal/api"
)

// Registry holds the order records currently in memory and applies push
// events to them. An event whose id matches no held record is dropped.
type Registry struct {
	mu     sync.Mutex
	orders map[string]api.OrderPayload
}

func NewRegistry() *Registry {
	return &Registry{orders: make(map[string]api.OrderPayload)}
}

// SetAll replaces the held records with a fresh fetch.
func (r *Registry) SetAll(orders []api.OrderPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = make(map[string]api.OrderPayload, len(orders))
	for _, o := range orders {
		r.orders[o.ID] = o
	}
}

// ApplyStatus patches a held order's status. Returns false when the id
// matches nothing, in which case the event is ignored.
func (r *Registry) ApplyStatus(orderID, rawStatus string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false
	}
	o.Status = rawStatus
	r.orders[orderID] = o
	return true
}

// Views returns normalized view-models, newest first.
func (r *Registry) Views() []OrderView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OrderView, 0, len(r.orders))
	for _, o := range r.orders {
		o := o
		out = append(out, NormalizeOrder(&o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// View returns the normalized record for one order id.
func (r *Registry) View(orderID string) (OrderView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return OrderView{}, false
	}
	return NormalizeOrder(&o), true
}
