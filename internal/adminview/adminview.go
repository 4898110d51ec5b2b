// Package adminview projects admin API payloads into display rows for
// the console's dashboard and review moderation screens.
package adminview

import (
	"fmt"
	"time"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/orderview"
)

type Dashboard struct {
	TotalOrders    int
	TotalRevenue   float64
	TotalCustomers int
	PendingReviews int
	RecentOrders   []RecentOrderRow
}

type RecentOrderRow struct {
	Number    string
	Status    orderview.Status
	Total     float64
	CreatedAt time.Time
}

func NewDashboard(s *api.AdminStats) Dashboard {
	d := Dashboard{
		TotalOrders:    s.TotalOrders,
		TotalRevenue:   s.TotalRevenue,
		TotalCustomers: s.TotalCustomers,
		PendingReviews: s.PendingReviews,
	}
	for _, o := range s.RecentOrders {
		v := orderview.NormalizeOrder(&o)
		d.RecentOrders = append(d.RecentOrders, RecentOrderRow{
			Number:    v.Number,
			Status:    v.Status,
			Total:     v.Totals.Grand,
			CreatedAt: v.CreatedAt,
		})
	}
	return d
}

type ReviewRow struct {
	ID        string
	ProductID string
	UserName  string
	Rating    string
	Comment   string
	CreatedAt time.Time
}

// ReviewRows normalizes the moderation queue; ratings render as "4/5".
func ReviewRows(reviews []api.Review) []ReviewRow {
	rows := make([]ReviewRow, 0, len(reviews))
	for _, r := range reviews {
		name := r.UserName
		if name == "" {
			name = "Anonymous"
		}
		rows = append(rows, ReviewRow{
			ID:        r.ID,
			ProductID: r.ProductID,
			UserName:  name,
			Rating:    fmt.Sprintf("%d/5", r.Rating),
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return rows
}
