package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"storefront/internal/catalog"

	"gopkg.in/yaml.v3"
)

const defaultContact = `# Contato

- **E-mail:** contato@loja.example
- **Telefone:** (11) 4000-0000
- **Horário:** segunda a sexta, 9h às 18h
`

// Config holds all storefront configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Chaos      ChaosConfig      `yaml:"chaos"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

// CatalogConfig configures the Catalog Source and the reload limiter.
type CatalogConfig struct {
	URL             string        `yaml:"url"`
	Timeout         time.Duration `yaml:"timeout"`
	ReloadPerMinute int           `yaml:"reload_per_minute"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // terminal UI sink, defaults to storefront.log in the temp dir; empty discards
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"` // host:port of an OTLP/HTTP collector
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// ChaosConfig turns on fault injection for the Catalog Source.
type ChaosConfig struct {
	Latency     time.Duration `yaml:"latency"`
	FailureRate float64       `yaml:"failure_rate"`
}

// StorefrontConfig holds the static storefront content.
type StorefrontConfig struct {
	CategoryLabels map[string]string `yaml:"category_labels"`
	Offers         []catalog.Offer   `yaml:"offers"`
	Contact        string            `yaml:"contact"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			URL:             "https://fakestoreapi.com/products",
			Timeout:         15 * time.Second,
			ReloadPerMinute: 5,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(os.TempDir(), "storefront.log"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4318",
			Insecure:    true,
			ServiceName: "storefront",
		},
		Storefront: StorefrontConfig{
			CategoryLabels: catalog.DefaultCategoryLabels(),
			Offers:         catalog.DefaultOffers(),
			Contact:        defaultContact,
		},
	}
}

// Load reads configuration from path over the defaults. An empty path
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STOREFRONT_CATALOG_URL"); v != "" {
		c.Catalog.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTP.Addr = ":" + v
	}
	if v := os.Getenv("STOREFRONT_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
		c.Telemetry.Enabled = true
	}
}

// Validate checks the configuration for values the storefront cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Catalog.URL == "" {
		errs = append(errs, errors.New("catalog.url is required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout must be positive, got %s", c.Catalog.Timeout))
	}
	if c.Catalog.ReloadPerMinute < 0 {
		errs = append(errs, fmt.Errorf("catalog.reload_per_minute must not be negative, got %d", c.Catalog.ReloadPerMinute))
	}
	if c.Chaos.FailureRate < 0 || c.Chaos.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("chaos.failure_rate must be within [0, 1], got %v", c.Chaos.FailureRate))
	}
	if c.Chaos.Latency < 0 {
		errs = append(errs, fmt.Errorf("chaos.latency must not be negative, got %s", c.Chaos.Latency))
	}
	seen := make(map[int]bool, len(c.Storefront.Offers))
	for _, o := range c.Storefront.Offers {
		if seen[o.ID] {
			errs = append(errs, fmt.Errorf("storefront.offers: duplicate id %d", o.ID))
		}
		seen[o.ID] = true
	}
	return errors.Join(errs...)
}
