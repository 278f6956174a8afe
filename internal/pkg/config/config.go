// Package config collects per-service runtime configuration from the
// environment, with defaults suitable for local development.
package config

import (
	"os"
	"strconv"
	"time"
)

// Catalog holds the catalog service configuration.
type Catalog struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	SQLitePath      string
	// RedisAddr selects the cache backend. Empty means an in-process
	// cache, which keeps single-node deployments free of Redis.
	RedisAddr string
	CacheTTL  time.Duration
}

// Order holds the order service configuration.
type Order struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	SQLitePath      string
	CatalogBaseURL  string
	OutboundTimeout time.Duration
}

// Payment holds the payment service configuration.
type Payment struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	OrderBaseURL    string
	OutboundTimeout time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string
	Currency            string

	// EventLogPath is the SQLite file for the provider event audit log.
	// Empty disables the log.
	EventLogPath string
}

// LoadCatalog reads the catalog service configuration from the environment.
func LoadCatalog() Catalog {
	return Catalog{
		HTTPAddr:        getenv("HTTP_ADDR", ":8081"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		SQLitePath:      getenv("SQLITE_PATH", "./data/catalog.db"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		CacheTTL:        durenvs("CACHE_TTL", 15*60),
	}
}

// LoadOrder reads the order service configuration from the environment.
func LoadOrder() Order {
	return Order{
		HTTPAddr:        getenv("HTTP_ADDR", ":8082"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		SQLitePath:      getenv("SQLITE_PATH", "./data/orders.db"),
		CatalogBaseURL:  getenv("CATALOG_BASE_URL", "http://localhost:8081"),
		OutboundTimeout: durenvs("OUTBOUND_TIMEOUT", 5),
	}
}

// LoadPayment reads the payment service configuration from the environment.
func LoadPayment() Payment {
	return Payment{
		HTTPAddr:            getenv("HTTP_ADDR", ":8083"),
		ShutdownTimeout:     durenvs("SHUTDOWN_TIMEOUT", 15),
		OrderBaseURL:        getenv("ORDER_BASE_URL", "http://localhost:8082"),
		OutboundTimeout:     durenvs("OUTBOUND_TIMEOUT", 5),
		StripeSecretKey:     getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET", ""),
		CheckoutSuccessURL:  getenv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/success"),
		CheckoutCancelURL:   getenv("CHECKOUT_CANCEL_URL", "http://localhost:5173/cancel"),
		Currency:            getenv("CHECKOUT_CURRENCY", "php"),
		EventLogPath:        getenv("EVENT_LOG_PATH", "./data/payment-events.db"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}
