// cmd/storefront/app.go
package main

import (
	"net/http"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/chaos"
	"storefront/internal/clients"
	"storefront/internal/config"
	"storefront/internal/journal"
	"storefront/internal/storefront"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// app is the wired component graph shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	journal *journal.Journal
	catalog catalog.Service
	cart    cart.Service
	store   *storefront.Storefront
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	var transport http.RoundTripper = http.DefaultTransport
	exp := chaos.Experiment{
		Name:        "catalog-source",
		Latency:     cfg.Chaos.Latency,
		FailureRate: cfg.Chaos.FailureRate,
	}
	if exp.Enabled() {
		logger.Warn("fault injection enabled for catalog source",
			zap.Duration("latency", exp.Latency),
			zap.Float64("failure_rate", exp.FailureRate),
		)
		transport = chaos.NewTransport(transport, exp)
	}

	httpClient := &http.Client{Timeout: cfg.Catalog.Timeout, Transport: transport}
	source := clients.NewCatalogClient(cfg.Catalog.URL, httpClient)

	// zero disables the reload limit
	var limiter *rate.Limiter
	if n := cfg.Catalog.ReloadPerMinute; n > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}

	j := journal.New()
	cat := catalog.NewService(source, limiter, logger.Named("catalog"))
	crt := cart.NewService(cat, j, logger.Named("cart"))
	store := storefront.New(cat, crt, storefront.Options{
		Offers:         cfg.Storefront.Offers,
		CategoryLabels: cfg.Storefront.CategoryLabels,
		Logger:         logger.Named("storefront"),
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		journal: j,
		catalog: cat,
		cart:    crt,
		store:   store,
	}
}
