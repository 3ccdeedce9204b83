package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kevin07696/fee-service/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	RateCard  RateCardConfig
	Pricing   PricingConfig
	Logger    LoggerConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	MetricsPort    int
	Environment    string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// RateCardConfig says where the fee schedule comes from
type RateCardConfig struct {
	Path           string // empty: built-in card
	ReloadSchedule string // cron spec, empty: never reload
	LoadAttempts   int    // startup attempts before giving up on Path
}

// PricingConfig holds request defaults
type PricingConfig struct {
	DefaultStoreTier   domain.StoreTier
	DefaultMarketplace domain.Marketplace
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("METRICS_PORT", 9090)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("RATE_CARD_PATH", "")
	v.SetDefault("RATE_CARD_RELOAD_SCHEDULE", "")
	v.SetDefault("RATE_CARD_LOAD_ATTEMPTS", 3)

	v.SetDefault("DEFAULT_STORE_TIER", string(domain.StoreTierBasic))
	v.SetDefault("DEFAULT_MARKETPLACE", string(domain.MarketplaceUS))

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)

	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.AutomaticEnv()
	return v
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	v := newViper()

	tier, ok := domain.ParseStoreTier(v.GetString("DEFAULT_STORE_TIER"))
	if !ok {
		return nil, fmt.Errorf("DEFAULT_STORE_TIER %q is not a store tier", v.GetString("DEFAULT_STORE_TIER"))
	}
	marketplace := domain.Marketplace(strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_MARKETPLACE"))))
	if !marketplace.IsValid() {
		return nil, fmt.Errorf("DEFAULT_MARKETPLACE %q is not a supported marketplace", marketplace)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			MetricsPort:    v.GetInt("METRICS_PORT"),
			Environment:    v.GetString("ENVIRONMENT"),
			RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateCard: RateCardConfig{
			Path:           v.GetString("RATE_CARD_PATH"),
			ReloadSchedule: v.GetString("RATE_CARD_RELOAD_SCHEDULE"),
			LoadAttempts:   v.GetInt("RATE_CARD_LOAD_ATTEMPTS"),
		},
		Pricing: PricingConfig{
			DefaultStoreTier:   tier,
			DefaultMarketplace: marketplace,
		},
		Logger: LoggerConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("SERVER_PORT must be a positive integer")
	}
	if cfg.Server.MetricsPort <= 0 {
		return nil, fmt.Errorf("METRICS_PORT must be a positive integer")
	}
	if cfg.Server.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be a positive integer")
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.RateCard.LoadAttempts < 1 {
		return nil, fmt.Errorf("RATE_CARD_LOAD_ATTEMPTS must be at least 1")
	}
	if cfg.RateCard.ReloadSchedule != "" && cfg.RateCard.Path == "" {
		return nil, fmt.Errorf("RATE_CARD_RELOAD_SCHEDULE requires RATE_CARD_PATH")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
