package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cehpoint-official/bolpur-mart/internal/service"
	"github.com/cehpoint-official/bolpur-mart/pkg/health"
	"github.com/cehpoint-official/bolpur-mart/pkg/middleware"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Catalog     *service.CatalogService
	Products    *service.ProductService
	TimeRules   *service.TimeRuleService
	Health      *health.Handler
	Logger      *slog.Logger
	CORS        middleware.CORSConfig
	CacheMaxAge int
}

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("catalog-service"))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Storefront read endpoints
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Logger)

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		if cfg.CacheMaxAge > 0 {
			r.Use(middleware.CacheControl(cfg.CacheMaxAge))
		}

		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{idOrSlug}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)
	})

	// Admin endpoints (authentication is handled by the upstream gateway)
	productHandler := NewProductAdminHandler(cfg.Products, cfg.Logger)
	timeRuleHandler := NewTimeRuleHandler(cfg.TimeRules, cfg.Logger)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/products", productHandler.CreateProduct)
		r.Put("/products/{id}", productHandler.UpdateProduct)
		r.Delete("/products/{id}", productHandler.DeleteProduct)

		r.Get("/time-rules", timeRuleHandler.ListRules)
		r.Put("/time-rules/{slotId}", timeRuleHandler.UpsertRule)
		r.Delete("/time-rules/{slotId}", timeRuleHandler.DeleteRule)
	})

	return r
}
