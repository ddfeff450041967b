package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/suppcart/storefront/api/controllers"
	"github.com/suppcart/storefront/api/routes"
	"github.com/suppcart/storefront/internal/auth"
	"github.com/suppcart/storefront/internal/cart"
	"github.com/suppcart/storefront/internal/catalog"
	"github.com/suppcart/storefront/internal/checkout"
	"github.com/suppcart/storefront/internal/localstore"
	"github.com/suppcart/storefront/internal/orders"
	"github.com/suppcart/storefront/pkg/config"
	"github.com/suppcart/storefront/pkg/db"
	"github.com/suppcart/storefront/pkg/logger"
	"github.com/suppcart/storefront/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("storefront: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := db.New(ctx, cfg.Store, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := localstore.New(client)
	if err != nil {
		return err
	}

	cartStore, err := cart.NewStore(store)
	if err != nil {
		return err
	}
	orderStore, err := orders.NewStore(store)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(store, cfg.Auth, cfg.JWT, cfg.Password)
	if err != nil {
		return err
	}

	// Corrupt blobs are logged and skipped so one bad key cannot keep the
	// whole storefront down.
	rehydrateErr := multierr.Combine(
		cartStore.Rehydrate(ctx),
		orderStore.Rehydrate(ctx),
		authService.Rehydrate(ctx),
	)
	for _, err := range multierr.Errors(rehydrateErr) {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "rehydration skipped a key")
	}

	checkoutService, err := checkout.NewService(store, cartStore, orderStore)
	if err != nil {
		return err
	}

	catalogClient := catalog.NewClient(cfg.Catalog, logg)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	catalogController, err := controllers.NewCatalogController(catalogClient, logg)
	if err != nil {
		return err
	}
	cartController, err := controllers.NewCartController(cartStore, logg)
	if err != nil {
		return err
	}
	checkoutController, err := controllers.NewCheckoutController(checkoutService, logg)
	if err != nil {
		return err
	}
	ordersController, err := controllers.NewOrdersController(orderStore, logg)
	if err != nil {
		return err
	}
	authController, err := controllers.NewAuthController(authService, logg)
	if err != nil {
		return err
	}

	handler := routes.New(routes.Deps{
		Logger:   logg,
		CORS:     cfg.CORS,
		Metrics:  httpMetrics,
		Registry: registry,
		Health:   controllers.NewHealthController(client, logg),
		Catalog:  catalogController,
		Cart:     cartController,
		Checkout: checkoutController,
		Orders:   ordersController,
		Auth:     authController,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	logg.Info(ctx, "server stopped")
	return nil
}
