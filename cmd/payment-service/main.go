package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acmeshop/storefront/internal/payment-service/adapters/order"
	"github.com/acmeshop/storefront/internal/payment-service/adapters/stripe"
	"github.com/acmeshop/storefront/internal/payment-service/app"
	"github.com/acmeshop/storefront/internal/payment-service/eventlog"
	eventlogsqlite "github.com/acmeshop/storefront/internal/payment-service/eventlog/sqlite"
	"github.com/acmeshop/storefront/internal/payment-service/httpx"
	"github.com/acmeshop/storefront/internal/pkg/config"
	"github.com/acmeshop/storefront/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "payment-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	cfg := config.LoadPayment()
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		slog.Error("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required")
		os.Exit(1)
	}

	var log eventlog.Repository
	if cfg.EventLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.EventLogPath), 0o755); err != nil {
			slog.Error("failed to create data directory", "error", err)
			os.Exit(1)
		}
		repo, err := eventlogsqlite.Open(cfg.EventLogPath)
		if err != nil {
			slog.Error("failed to open event log", "path", cfg.EventLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		log = repo
	}

	provider := stripe.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	orderClient := order.NewClient(cfg.OrderBaseURL, cfg.OutboundTimeout)
	service := app.NewService(orderClient, provider, app.CheckoutConfig{
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
		Currency:   cfg.Currency,
	}, log)
	router := httpx.NewRouter(httpx.NewHandler(service))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(router, "payment-service"),
	}

	go func() {
		slog.Info("payment service running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
