package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-go/internal/api"
	"github.com/andreasstove999/storefront-go/internal/checkout"
	"github.com/andreasstove999/storefront-go/internal/config"
	"github.com/andreasstove999/storefront-go/internal/logging"
	"github.com/andreasstove999/storefront-go/internal/orderview"
	"github.com/andreasstove999/storefront-go/internal/session"
	"github.com/andreasstove999/storefront-go/internal/storage"
	"github.com/andreasstove999/storefront-go/internal/store"
)

const usage = `storefront <command> [args]

Commands:
  login <email> <password>
  register <name> <email> <password>
  profile show | name <newName>
  products [search]
  cart show | add <productId> <qty> [size] [color] | remove <productId> [size] [color] | clear
  wishlist show | toggle <productId>
  checkout <cod|online> <line1> <city> <postalCode>
  orders list | show <id> | cancel <id> | track <id>
  notifications list | read <id>
  watch
  admin stats | reviews [approve <id> | delete <id>] | settings [set <name> <taxRate> <cod>]
`

// app bundles the wired client components for the command handlers.
type app struct {
	cfg           *config.Config
	log           *zap.Logger
	session       *session.Manager
	auth          *api.AuthClient
	catalog       *api.CatalogClient
	cart          *store.CartStore
	wishlist      *store.WishlistStore
	orders        *api.OrderClient
	notifications *api.NotificationClient
	admin         *api.AdminClient
	checkout      *checkout.Service
	registry      *orderview.Registry
}

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	a, err := buildApp(cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	var st storage.Store
	switch cfg.Storage.Backend {
	case "redis":
		st = storage.NewRedisStore(storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		fileStore, err := storage.NewFileStore(cfg.Storage.StateDir)
		if err != nil {
			return nil, err
		}
		st = fileStore
	}

	sess := session.NewManager(st, log)
	sess.OnLogout(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	base := api.NewClient(cfg.API.BaseURL, httpClient, sess, log)
	base.OnUnauthorized(sess.HandleUnauthorized)

	cartStore := store.NewCartStore(api.NewCartClient(base), st, sess.UserID, log)
	wishlistStore := store.NewWishlistStore(api.NewWishlistClient(base), st, sess.UserID, log)
	orders := api.NewOrderClient(base)

	return &app{
		cfg:           cfg,
		log:           log,
		session:       sess,
		auth:          api.NewAuthClient(base),
		catalog:       api.NewCatalogClient(base),
		cart:          cartStore,
		wishlist:      wishlistStore,
		orders:        orders,
		notifications: api.NewNotificationClient(base),
		admin:         api.NewAdminClient(base),
		checkout: checkout.NewService(orders, api.NewPaymentClient(base), cartStore, checkout.Options{
			TaxRate:   cfg.Checkout.TaxRate,
			Currency:  cfg.Checkout.Currency,
			Provider:  cfg.Checkout.Provider,
			ReturnURL: cfg.Checkout.ReturnURL,
		}, log),
		registry: orderview.NewRegistry(),
	}, nil
}
