package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/config"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware.
// Part writes are only mounted when a JWT secret is configured.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	parts handler.PartHandler,
	docs handler.DocsHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))

	health.RegisterRoutes(r)
	docs.RegisterRoutes(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	parts.RegisterRoutes(r)

	if cfg.JWTSecret != "" {
		r.Group(func(ar chi.Router) {
			ar.Use(AuthMiddleware(cfg.JWTSecret))
			ar.Use(RequireRole(domain.RoleAdmin))
			parts.RegisterAdminRoutes(ar)
		})
	} else {
		logger.Warn("JWT_SECRET not set, part write routes disabled")
	}

	return r
}
