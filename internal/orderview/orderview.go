// Package orderview normalizes heterogeneous server order and shipment
// payloads into fixed, display-ready view-models. Everything here is
// derived and read-only: views are rebuilt on every fetch, never cached.
package orderview

import (
	"fmt"
	"strings"
	"time"

	"github.com/andreasstove999/storefront-go/internal/api"
)

type OrderView struct {
	ID            string
	Number        string
	Status        Status
	CreatedAt     time.Time
	Items         []ItemView
	Totals        Totals
	Address       *api.Address
	PaymentMethod string
	Tracking      *TrackingView
	Steps         []Step
}

type ItemView struct {
	ProductID string
	Name      string
	Image     string
	Variant   string
	Price     float64
	Quantity  int
}

type Totals struct {
	Subtotal  float64
	Shipping  float64
	Tax       float64
	CODCharge float64
	Grand     float64
}

type TrackingView struct {
	Carrier        string
	TrackingNumber string
	TrackingURL    string
	Timeline       []TimelineEvent
}

// TimelineEvent is one normalized shipment tracking entry.
type TimelineEvent struct {
	Timestamp string
	Status    string
	Location  string
	Activity  string
	Source    string
}

// NormalizeOrder maps a raw order payload into the view-model. The order
// number falls back to the id when the server omits it.
func NormalizeOrder(p *api.OrderPayload) OrderView {
	v := OrderView{
		ID:            p.ID,
		Number:        p.OrderNumber,
		Status:        ParseStatus(p.Status),
		CreatedAt:     p.CreatedAt,
		Address:       p.Address,
		PaymentMethod: p.PaymentMethod,
		Totals: Totals{
			Subtotal:  p.Subtotal,
			Shipping:  p.ShippingCost,
			Tax:       p.Tax,
			CODCharge: p.CODCharge,
			Grand:     p.TotalAmount,
		},
	}
	if v.Number == "" {
		v.Number = p.ID
	}
	for _, it := range p.Items {
		v.Items = append(v.Items, ItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Variant:   variantLabel(it.Size, it.Color),
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	v.Steps = Timeline(v.Status)
	if p.Tracking != nil {
		t := NormalizeTracking(p.Tracking)
		v.Tracking = &t
	}
	return v
}

func variantLabel(size, color string) string {
	switch {
	case size != "" && color != "":
		return size + " / " + color
	case size != "":
		return size
	default:
		return color
	}
}

// NormalizeTracking cleans the shipment timeline: entries are stringified,
// deduplicated, and dropped when they carry no informative field.
func NormalizeTracking(p *api.TrackingPayload) TrackingView {
	v := TrackingView{
		Carrier:        p.Carrier,
		TrackingNumber: p.TrackingNumber,
		TrackingURL:    p.TrackingURL,
	}
	seen := make(map[string]bool)
	for _, raw := range p.Timeline {
		ev := TimelineEvent{
			Timestamp: stringField(raw, "timestamp", "date", "time"),
			Status:    stringField(raw, "status"),
			Location:  stringField(raw, "location"),
			Activity:  stringField(raw, "activity", "message", "description"),
			Source:    stringField(raw, "source"),
		}
		if ev.Status == "" && ev.Location == "" && ev.Activity == "" && ev.Timestamp == "" {
			continue
		}
		key := ev.Timestamp + "|" + ev.Status + "|" + ev.Location + "|" + ev.Activity
		if seen[key] {
			continue
		}
		seen[key] = true
		v.Timeline = append(v.Timeline, ev)
	}
	return v
}

// stringField pulls the first present alias out of a loosely-typed entry
// and stringifies it. Carrier feeds disagree on both key names and value
// types, so numbers and booleans are tolerated.
func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strings.TrimSuffix(fmt.Sprintf("%.2f", t), ".00")
		case bool:
			return fmt.Sprintf("%t", t)
		}
	}
	return ""
}
