package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/andreasstove999/storefront-go/internal/adminview"
	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/checkout"
	"github.com/andreasstove999/storefront-go/internal/orderview"
	"github.com/andreasstove999/storefront-go/internal/push"
	"github.com/andreasstove999/storefront-go/internal/store"
)

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "profile":
		return a.cmdProfile(ctx, rest)
	case "products":
		return a.cmdProducts(ctx, rest)
	case "cart":
		return a.cmdCart(ctx, rest)
	case "wishlist":
		return a.cmdWishlist(ctx, rest)
	case "checkout":
		return a.cmdCheckout(ctx, rest)
	case "orders":
		return a.cmdOrders(ctx, rest)
	case "notifications":
		return a.cmdNotifications(ctx, rest)
	case "watch":
		return a.cmdWatch(ctx)
	case "admin":
		return a.cmdAdmin(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <email> <password>")
	}
	resp, err := a.auth.Login(ctx, api.LoginRequest{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	if err := a.session.SignIn(ctx, resp); err != nil {
		return err
	}
	// The mirror key is user-scoped; rehydrate under the new identity.
	a.cart.Hydrate(ctx)
	a.wishlist.Hydrate(ctx)
	fmt.Printf("signed in as %s (%s)\n", resp.User.Name, resp.User.Email)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: register <name> <email> <password>")
	}
	resp, err := a.auth.Register(ctx, api.RegisterRequest{Name: args[0], Email: args[1], Password: args[2]})
	if err != nil {
		return err
	}
	if err := a.session.SignIn(ctx, resp); err != nil {
		return err
	}
	a.cart.Hydrate(ctx)
	a.wishlist.Hydrate(ctx)
	fmt.Printf("account created, signed in as %s (%s)\n", resp.User.Name, resp.User.Email)
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		u, err := a.auth.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> [%s]\n", u.Name, u.Email, u.Role)
		return nil
	case "name":
		if len(args) < 2 {
			return errors.New("usage: profile name <newName>")
		}
		u, err := a.auth.UpdateProfile(ctx, api.User{Name: args[1]})
		if err != nil {
			return err
		}
		fmt.Printf("profile updated: %s\n", u.Name)
		return nil
	default:
		return fmt.Errorf("unknown profile subcommand %q", args[0])
	}
}

func (a *app) cmdNotifications(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		notes, err := a.notifications.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range notes {
			mark := " "
			if !n.Read {
				mark = "*"
			}
			fmt.Printf("%s %-12s %s\n", mark, n.ID, n.Title)
		}
		return nil
	case "read":
		if len(args) < 2 {
			return errors.New("usage: notifications read <id>")
		}
		return a.notifications.MarkRead(ctx, args[1])
	default:
		return fmt.Errorf("unknown notifications subcommand %q", args[0])
	}
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	search := ""
	if len(args) > 0 {
		search = args[0]
	}
	resp, err := a.catalog.ListProducts(ctx, 1, 50, search)
	if err != nil {
		return err
	}
	for _, p := range resp.Products {
		fmt.Printf("%-12s %-28s %10.2f\n", p.ID, p.Name, p.Price)
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		res := a.cart.Fetch(ctx)
		a.printCart(res)
		return nil
	case "add":
		if len(args) < 3 {
			return errors.New("usage: cart add <productId> <qty> [size] [color]")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil || qty < 1 {
			return errors.New("quantity must be a positive integer")
		}
		meta := store.ItemMeta{}
		if len(args) > 3 {
			meta.Size = args[3]
		}
		if len(args) > 4 {
			meta.Color = args[4]
		}
		// Snapshot the product so the offline path has data to fall
		// back on; a failed lookup still lets the add proceed.
		if p, err := a.catalog.GetProduct(ctx, args[1]); err == nil {
			meta.Name = p.Name
			meta.Brand = p.Brand
			meta.SKU = p.SKU
			meta.Image = p.Image
			meta.Price = p.Price
			meta.Shipping = p.Shipping
		}
		res := a.cart.Add(ctx, args[1], qty, meta)
		a.printCart(res)
		return nil
	case "remove":
		if len(args) < 2 {
			return errors.New("usage: cart remove <productId> [size] [color]")
		}
		variant := store.Variant{}
		if len(args) > 2 {
			variant.Size = args[2]
		}
		if len(args) > 3 {
			variant.Color = args[3]
		}
		res := a.cart.Remove(ctx, args[1], variant)
		a.printCart(res)
		return nil
	case "clear":
		a.cart.Clear(ctx)
		fmt.Println("cart cleared")
		return nil
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) printCart(res store.Result) {
	for _, it := range res.Items {
		variant := ""
		if it.Size != "" || it.Color != "" {
			variant = " (" + it.Size + "/" + it.Color + ")"
		}
		fmt.Printf("%-12s %-24s%s x%d %10.2f\n", it.ProductID, it.Name, variant, it.Quantity, it.Price)
	}
	fmt.Printf("items: %d  total: %.2f\n", a.cart.ItemCount(), a.cart.TotalAmount())
	if res.Degraded {
		fmt.Println("(offline: showing locally saved cart)")
	}
}

func (a *app) cmdWishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		res := a.wishlist.Fetch(ctx)
		for _, it := range res.Items {
			fmt.Printf("%-12s %s\n", it.ProductID, it.Name)
		}
		return nil
	case "toggle":
		if len(args) < 2 {
			return errors.New("usage: wishlist toggle <productId>")
		}
		item := api.WishlistItem{ProductID: args[1]}
		if p, err := a.catalog.GetProduct(ctx, args[1]); err == nil {
			item.Name = p.Name
			item.Image = p.Image
			item.Price = p.Price
		}
		a.wishlist.Toggle(ctx, item)
		if a.wishlist.Contains(args[1]) {
			fmt.Println("added to wishlist")
		} else {
			fmt.Println("removed from wishlist")
		}
		return nil
	default:
		return fmt.Errorf("unknown wishlist subcommand %q", args[0])
	}
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return errors.New("usage: checkout <cod|online> <line1> <city> <postalCode>")
	}
	method := args[0]
	if method != checkout.MethodCOD && method != checkout.MethodOnline {
		return fmt.Errorf("unknown payment method %q", method)
	}
	a.cart.Fetch(ctx)

	address := api.Address{Line1: args[1], City: args[2], PostalCode: args[3]}
	outcome, err := a.checkout.PlaceOrder(ctx, address, method)
	if err != nil {
		return err
	}

	q := outcome.Quote
	fmt.Printf("subtotal %.2f  shipping %.2f  tax %.2f", q.Subtotal, q.Shipping, q.Tax)
	if q.CODSurcharge > 0 {
		fmt.Printf("  cod %.2f", q.CODSurcharge)
	}
	fmt.Printf("  total %.0f\n", q.Total)

	if outcome.RedirectURL != "" {
		fmt.Printf("complete payment at: %s\n", outcome.RedirectURL)
		return nil
	}
	fmt.Printf("order placed: %s\n", outcome.Order.OrderNumber)
	return nil
}

func (a *app) cmdOrders(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		orders, err := a.orders.List(ctx)
		if err != nil {
			return err
		}
		a.registry.SetAll(orders)
		for _, v := range a.registry.Views() {
			fmt.Printf("%-14s %-12s %10.2f  %s\n", v.Number, v.Status, v.Totals.Grand, v.CreatedAt.Format("2006-01-02"))
		}
		return nil
	case "show", "cancel", "track":
		if len(args) < 2 {
			return fmt.Errorf("usage: orders %s <id>", args[0])
		}
		return a.orderAction(ctx, args[0], args[1])
	default:
		return fmt.Errorf("unknown orders subcommand %q", args[0])
	}
}

func (a *app) orderAction(ctx context.Context, action, id string) error {
	switch action {
	case "cancel":
		o, err := a.orders.Cancel(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("order %s is now %s\n", o.OrderNumber, orderview.ParseStatus(o.Status))
		return nil
	case "track":
		t, err := a.orders.Tracking(ctx, id)
		if err != nil {
			// Order detail has no offline cache; the section is simply absent.
			fmt.Println("no tracking information available")
			return nil
		}
		v := orderview.NormalizeTracking(t)
		fmt.Printf("%s %s\n", v.Carrier, v.TrackingNumber)
		for _, ev := range v.Timeline {
			fmt.Printf("  %-22s %-14s %s\n", ev.Timestamp, ev.Status, ev.Location)
		}
		return nil
	default: // show
		o, err := a.orders.Get(ctx, id)
		if err != nil {
			return err
		}
		v := orderview.NormalizeOrder(o)
		fmt.Printf("%s  %s  total %.2f\n", v.Number, v.Status, v.Totals.Grand)
		for _, step := range v.Steps {
			mark := " "
			if step.Completed {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, step.Status)
		}
		return nil
	}
}

func (a *app) cmdWatch(ctx context.Context) error {
	if a.session.Token() == "" {
		return errors.New("watch requires a signed-in session")
	}
	orders, err := a.orders.List(ctx)
	if err == nil {
		a.registry.SetAll(orders)
	}

	a.session.StartKeepAlive(ctx, a.auth, a.cfg.API.KeepAliveInterval)
	defer a.session.StopKeepAlive()

	client := push.NewClient(a.cfg.API.PushURL, a.session, push.Handlers{
		OnOrderStatus: func(e push.OrderStatusEvent) {
			if a.registry.ApplyStatus(e.OrderID, e.Status) {
				fmt.Printf("order %s -> %s\n", e.OrderID, orderview.ParseStatus(e.Status))
			}
		},
		OnShipmentStatus: func(e push.ShipmentStatusEvent) {
			if _, held := a.registry.View(e.OrderID); held {
				fmt.Printf("shipment %s: %s %s\n", e.OrderID, e.Status, e.Location)
			}
		},
		OnPaymentStatus: func(e push.PaymentStatusEvent) {
			if e.OrderID == "" {
				return
			}
			if _, held := a.registry.View(e.OrderID); held {
				fmt.Printf("payment for %s: %s\n", e.OrderID, e.Status)
			}
		},
		OnNotification: func(e push.NotificationEvent) {
			fmt.Printf("* %s\n", e.Title)
		},
	}, a.log)

	fmt.Println("watching for updates, ctrl-c to stop")
	client.Run(ctx)
	return nil
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: admin stats | reviews | settings")
	}
	switch args[0] {
	case "stats":
		stats, err := a.admin.DashboardStats(ctx)
		if err != nil {
			return err
		}
		d := adminview.NewDashboard(stats)
		fmt.Printf("orders %d  revenue %.2f  customers %d  pending reviews %d\n",
			d.TotalOrders, d.TotalRevenue, d.TotalCustomers, d.PendingReviews)
		for _, row := range d.RecentOrders {
			fmt.Printf("  %-14s %-12s %10.2f\n", row.Number, row.Status, row.Total)
		}
		return nil
	case "reviews":
		if len(args) >= 3 {
			switch args[1] {
			case "approve":
				if err := a.admin.ApproveReview(ctx, args[2]); err != nil {
					return err
				}
				fmt.Println("review approved")
				return nil
			case "delete":
				if err := a.admin.DeleteReview(ctx, args[2]); err != nil {
					return err
				}
				fmt.Println("review deleted")
				return nil
			default:
				return fmt.Errorf("unknown reviews action %q", args[1])
			}
		}
		reviews, err := a.admin.PendingReviews(ctx)
		if err != nil {
			return err
		}
		for _, row := range adminview.ReviewRows(reviews) {
			fmt.Printf("%-12s %-10s %-4s %s\n", row.ID, row.ProductID, row.Rating, row.Comment)
		}
		return nil
	case "settings":
		if len(args) >= 2 && args[1] == "set" {
			if len(args) < 5 {
				return errors.New("usage: admin settings set <name> <taxRate> <cod>")
			}
			taxRate, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return errors.New("taxRate must be a number")
			}
			cod, err := strconv.ParseBool(args[4])
			if err != nil {
				return errors.New("cod must be true or false")
			}
			updated, err := a.admin.UpdateSettings(ctx, api.StoreSettings{
				StoreName:  args[2],
				TaxRate:    taxRate,
				CODEnabled: cod,
			})
			if err != nil {
				return err
			}
			fmt.Printf("store: %s  tax: %.2f  cod: %t\n", updated.StoreName, updated.TaxRate, updated.CODEnabled)
			return nil
		}
		settings, err := a.admin.GetSettings(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("store: %s  tax: %.2f  cod: %t\n", settings.StoreName, settings.TaxRate, settings.CODEnabled)
		return nil
	default:
		return fmt.Errorf("unknown admin subcommand %q", args[0])
	}
}
