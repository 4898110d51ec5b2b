package pricing

import "math"

const (
	// DefaultTaxRate is applied when the configured rate is missing or invalid.
	DefaultTaxRate = 0.18

	baseShippingCharge = 4.99
	perKgRate          = 1.2
	volumetricDivisor  = 5000.0
)

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ShippingMeta is the per-product shipping snapshot embedded in a line item.
// The client never mutates it; it only derives costs and COD eligibility.
type ShippingMeta struct {
	WeightKg       float64    `json:"weightKg"`
	Dimensions     Dimensions `json:"dimensions"`
	FreeShipping   bool       `json:"freeShipping"`
	CODAvailable   bool       `json:"codAvailable"`
	CODCharge      float64    `json:"codCharge"`
	ShippingCharge float64    `json:"shippingCharge,omitempty"`
}

// IsZero reports whether the snapshot carries no shipping data at all,
// i.e. the server payload omitted it.
func (m ShippingMeta) IsZero() bool {
	return m.WeightKg == 0 &&
		m.Dimensions == Dimensions{} &&
		!m.FreeShipping && !m.CODAvailable &&
		m.CODCharge == 0 && m.ShippingCharge == 0
}

// Line is the minimal view of a cart line the calculator needs.
type Line struct {
	UnitPrice float64
	Quantity  int
	Shipping  ShippingMeta
}

// RoundCents rounds to two decimal places, half-up at the cent level.
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Subtotal sums price x quantity over all lines, rounded to cents.
// It is invariant under line reordering.
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return RoundCents(sum)
}

// ShippingCost computes the shipping charge for the whole cart.
//
// Per line: free-shipping products contribute 0; a positive per-product
// ShippingCharge overrides the weight formula; otherwise the chargeable
// weight is max(actual, volumetric) with volumetric = l*w*h/5000, and the
// per-item cost is max(4.99, chargeable*1.2). Each is multiplied by quantity.
func ShippingCost(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += perItemShipping(l.Shipping) * float64(l.Quantity)
	}
	return RoundCents(sum)
}

func perItemShipping(m ShippingMeta) float64 {
	if m.FreeShipping {
		return 0
	}
	if m.ShippingCharge > 0 {
		return m.ShippingCharge
	}
	volumetric := m.Dimensions.Length * m.Dimensions.Width * m.Dimensions.Height / volumetricDivisor
	chargeable := math.Max(m.WeightKg, volumetric)
	return math.Max(baseShippingCharge, chargeable*perKgRate)
}

// Tax applies the configured rate to the subtotal, rounded to cents.
// Non-positive rates fall back to DefaultTaxRate.
func Tax(subtotal, rate float64) float64 {
	if rate <= 0 {
		rate = DefaultTaxRate
	}
	return RoundCents(subtotal * rate)
}

// CODAvailable reports whether cash-on-delivery may be offered for the cart.
// Fail-closed: a single ineligible line (or an empty cart) disables COD.
func CODAvailable(lines []Line) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if !l.Shipping.CODAvailable {
			return false
		}
	}
	return true
}

// CODSurcharge sums per-item COD charges across the cart. It returns 0
// whenever COD is not available for every line.
func CODSurcharge(lines []Line) float64 {
	if !CODAvailable(lines) {
		return 0
	}
	var sum float64
	for _, l := range lines {
		sum += l.Shipping.CODCharge * float64(l.Quantity)
	}
	return RoundCents(sum)
}

// Quote is the full price breakdown for a cart. Component amounts stay
// precise to the cent; only Total is rounded to the nearest rupee, so the
// displayed lines never accumulate rounding drift.
type Quote struct {
	Subtotal     float64 `json:"subtotal"`
	Shipping     float64 `json:"shipping"`
	Tax          float64 `json:"tax"`
	CODSurcharge float64 `json:"codSurcharge,omitempty"`
	Total        float64 `json:"total"`
}

// NewQuote computes the breakdown for the given lines. The COD surcharge is
// included only when cod is set and every line is COD-eligible.
func NewQuote(lines []Line, taxRate float64, cod bool) Quote {
	q := Quote{
		Subtotal: Subtotal(lines),
		Shipping: ShippingCost(lines),
	}
	q.Tax = Tax(q.Subtotal, taxRate)
	if cod {
		q.CODSurcharge = CODSurcharge(lines)
	}
	q.Total = math.Round(q.Subtotal + q.Shipping + q.Tax + q.CODSurcharge)
	return q
}
