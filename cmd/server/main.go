package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/fee-service/internal/config"
	"github.com/kevin07696/fee-service/internal/domain"
	feeHandler "github.com/kevin07696/fee-service/internal/handlers/fees"
	"github.com/kevin07696/fee-service/internal/ratecard"
	feeService "github.com/kevin07696/fee-service/internal/services/fees"
	"github.com/kevin07696/fee-service/pkg/middleware"
	"github.com/kevin07696/fee-service/pkg/observability"
	"github.com/kevin07696/fee-service/pkg/resilience"
	"github.com/kevin07696/fee-service/pkg/shutdown"
)

const version = "0.1.0"

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fee service",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("default_store_tier", string(cfg.Pricing.DefaultStoreTier)),
		zap.String("default_marketplace", string(cfg.Pricing.DefaultMarketplace)),
	)

	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load rate card", zap.String("path", cfg.RateCard.Path), zap.Error(err))
	}

	shutdownMgr := shutdown.NewManager(logger, 30*time.Second)

	// Registered first so it stops last, after the servers reading the card
	if cfg.RateCard.ReloadSchedule != "" {
		reloader, err := registry.StartReloader(cfg.RateCard.ReloadSchedule)
		if err != nil {
			logger.Fatal("Failed to start rate card reloader", zap.Error(err))
		}
		shutdownMgr.Register("rate_card_reloader", func(ctx context.Context) error {
			select {
			case <-reloader.Stop().Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	service := feeService.NewService(registry, feeService.ServiceConfig{
		DefaultStoreTier:   cfg.Pricing.DefaultStoreTier,
		DefaultMarketplace: cfg.Pricing.DefaultMarketplace,
	}, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	shutdownMgr.RegisterNoErr("rate_limiter", rateLimiter.Shutdown)

	router := feeHandler.NewRouter(feeHandler.NewHandler(service, logger), feeHandler.RouterConfig{
		Production:     cfg.IsProduction(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimiter:    rateLimiter,
	}, logger)

	healthChecker := observability.NewHealthChecker().
		AddCheck("rate_card", func(ctx context.Context) error {
			if registry.Current() == nil {
				return errors.New("no rate card loaded")
			}
			return nil
		})
	metricsServer := observability.StartMetricsServer(fmt.Sprint(cfg.Server.MetricsPort), healthChecker, logger)
	shutdownMgr.RegisterHTTPServer("metrics_server", metricsServer)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	shutdownMgr.RegisterHTTPServer("http_server", httpServer)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", httpServer.Addr),
			zap.Int("metrics_port", cfg.Server.MetricsPort),
			zap.String("rate_card_version", registry.Current().Version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if err := shutdownMgr.WaitForShutdown(); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Fee service stopped")
}

// loadRegistry retries while the rate card file is missing, e.g. a volume
// that is mounted after the container starts. A malformed card fails at once.
func loadRegistry(cfg *config.Config, logger *zap.Logger) (*ratecard.Registry, error) {
	var registry *ratecard.Registry
	err := resilience.Retry(context.Background(), resilience.RetryPolicy{
		MaxAttempts: cfg.RateCard.LoadAttempts,
		Backoff:     resilience.StartupBackoff(),
		Retryable: func(err error) bool {
			return domain.IsDomainError(err, domain.ErrorCodeRateCardUnavailable)
		},
		OnRetry: func(attempt int, delay time.Duration, err error) {
			logger.Warn("Rate card not available yet, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		},
	}, func(ctx context.Context) error {
		r, err := ratecard.NewRegistry(cfg.RateCard.Path, logger)
		if err != nil {
			return err
		}
		registry = r
		return nil
	})
	return registry, err
}

// initLogger builds a JSON production logger or a console development logger
func initLogger(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Logger.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() && !cfg.Logger.Development {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
