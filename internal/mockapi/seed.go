package mockapi

import (
	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/pricing"
)

func seedProducts() []api.Product {
	return []api.Product{
		{
			ID: "p-tshirt", Name: "Crew Neck T-Shirt", Brand: "Loomcraft", SKU: "LC-TS-01",
			Price: 499, Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"black", "white"},
			Stock: 120,
			Shipping: pricing.ShippingMeta{
				WeightKg:     0.3,
				Dimensions:   pricing.Dimensions{Length: 25, Width: 20, Height: 3},
				CODAvailable: true,
				CODCharge:    25,
			},
		},
		{
			ID: "p-sneakers", Name: "Street Runner Sneakers", Brand: "Kinetic", SKU: "KN-SR-09",
			Price: 2499, Sizes: []string{"7", "8", "9", "10"}, Colors: []string{"grey"},
			Stock: 45,
			Shipping: pricing.ShippingMeta{
				WeightKg:     1.1,
				Dimensions:   pricing.Dimensions{Length: 33, Width: 22, Height: 12},
				CODAvailable: true,
				CODCharge:    40,
			},
		},
		{
			ID: "p-bottle", Name: "Insulated Steel Bottle", Brand: "Hydra", SKU: "HY-BT-05",
			Price: 899, Stock: 200,
			Shipping: pricing.ShippingMeta{
				WeightKg:     0.5,
				Dimensions:   pricing.Dimensions{Length: 28, Width: 8, Height: 8},
				FreeShipping: true,
				CODAvailable: true,
			},
		},
		{
			// Bulky and COD-ineligible: exercises volumetric weight and
			// the fail-closed COD rule.
			ID: "p-beanbag", Name: "Lounge Bean Bag", Brand: "Nestle Home", SKU: "NH-BB-02",
			Price: 3999, Colors: []string{"navy", "rust"}, Stock: 12,
			Shipping: pricing.ShippingMeta{
				WeightKg:   2.0,
				Dimensions: pricing.Dimensions{Length: 80, Width: 80, Height: 60},
			},
		},
	}
}
