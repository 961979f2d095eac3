package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luisaguirre/cartquotes-backend/api/controllers"
	quotecontrollers "github.com/luisaguirre/cartquotes-backend/api/controllers/quotes"
	"github.com/luisaguirre/cartquotes-backend/api/middleware"
	quotesvc "github.com/luisaguirre/cartquotes-backend/internal/quotes"
	"github.com/luisaguirre/cartquotes-backend/internal/reconcile"
	"github.com/luisaguirre/cartquotes-backend/internal/setup"
	"github.com/luisaguirre/cartquotes-backend/pkg/config"
	"github.com/luisaguirre/cartquotes-backend/pkg/db"
	"github.com/luisaguirre/cartquotes-backend/pkg/logger"
	"github.com/luisaguirre/cartquotes-backend/pkg/redis"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	DB       db.Pinger
	Redis    redis.Pinger
	Quotes   quotesvc.Service
	Apply    reconcile.Service
	Setup    setup.Service
	Registry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1", func(r chi.Router) {
			r.Get("/setup-config", controllers.SetupConfig(deps.Setup, logg))

			r.Route("/quotes", func(r chi.Router) {
				r.Post("/", quotecontrollers.QuoteCreate(deps.Quotes, logg))
				r.Get("/", quotecontrollers.QuoteList(deps.Quotes, logg))
				r.Get("/{quoteId}", quotecontrollers.QuoteDetail(deps.Quotes, logg))
				r.Put("/{quoteId}", quotecontrollers.QuoteUpdate(deps.Quotes, logg))
				r.Post("/{quoteId}/use", quotecontrollers.QuoteUse(deps.Quotes, deps.Apply, logg))
				r.Post("/{quoteId}/viewed", quotecontrollers.QuoteMarkViewed(deps.Quotes, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Delete("/v1/quotes/{quoteId}", quotecontrollers.QuoteDelete(deps.Quotes, logg))
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["db"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	return checks
}
