package fees

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kevin07696/fee-service/pkg/middleware"
	"github.com/kevin07696/fee-service/pkg/observability"
)

// RouterConfig configures the HTTP middleware stack
type RouterConfig struct {
	Production     bool
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimiter    *middleware.RateLimiter // nil: unlimited
}

// NewRouter mounts the fee API under /api/v1
func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.Production))
	r.Use(observability.HTTPMetrics)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}
	r.Use(middleware.Gzip())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/fees", func(r chi.Router) {
			r.Post("/final-value", h.FinalValueFee)
			r.Post("/calculate", h.CalculateFees)
			r.Post("/listing", h.ListingFees)
			r.Post("/monthly-summary", h.MonthlySummary)
		})
		r.Post("/profitability", h.Profitability)
		r.Post("/pricing/suggest", h.SuggestPrice)

		r.Get("/store-tiers", h.ListStoreTiers)
		r.Get("/store-tiers/{tier}", h.GetStoreTier)
		r.Get("/promotions", h.ListPromotions)
	})

	return r
}
