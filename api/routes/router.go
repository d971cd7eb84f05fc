package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pudimaria/storefront-backend/api/controllers"
	"github.com/pudimaria/storefront-backend/api/middleware"
	authsvc "github.com/pudimaria/storefront-backend/internal/auth"
	"github.com/pudimaria/storefront-backend/internal/catalog"
	"github.com/pudimaria/storefront-backend/internal/storefront"
	"github.com/pudimaria/storefront-backend/pkg/auth/session"
	"github.com/pudimaria/storefront-backend/pkg/config"
	"github.com/pudimaria/storefront-backend/pkg/db"
	"github.com/pudimaria/storefront-backend/pkg/logger"
	"github.com/pudimaria/storefront-backend/pkg/metrics"
	"github.com/pudimaria/storefront-backend/pkg/redis"
)

// NewRouter wires middleware, controllers and services into the HTTP surface.
// The storefront routes run under the anonymous cart session; the admin
// routes run under bearer auth backed by revocable Redis sessions.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	sessionVerifier session.AccessSessionChecker,
	authService authsvc.Service,
	catalogService catalog.Service,
	storefrontService storefront.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Storefront.CartSessionTTL, logg))

		r.Route("/catalog/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(catalogService, logg))
			r.Get("/{productId}", controllers.CatalogDetail(catalogService, logg))
			r.Get("/{productId}/availability", controllers.CatalogAvailability(storefrontService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(storefrontService, logg))
			r.Delete("/", controllers.CartClear(storefrontService, logg))
			r.Post("/items", controllers.CartAddItem(storefrontService, logg))
			r.Patch("/items", controllers.CartUpdateItem(storefrontService, logg))
			r.Delete("/items/{productId}/{size}", controllers.CartRemoveItem(storefrontService, logg))
			r.Post("/toggle", controllers.CartToggle(storefrontService, logg))
		})

		r.Post("/checkout", controllers.Checkout(storefrontService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AdminAuthLogin(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))
				r.Post("/logout", controllers.AdminAuthLogout(authService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(catalogService, logg))
				r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
				r.Put("/{productId}/inventory", controllers.AdminSetInventory(catalogService, logg))
			})

			r.Get("/stats", controllers.AdminStats(catalogService, logg))
		})
	})

	return r
}
