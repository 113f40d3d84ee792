package router

import (
	"net/http"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/agentdesk/leads-api/internal/config"
	"github.com/agentdesk/leads-api/internal/http/handler"
	"github.com/agentdesk/leads-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/agentdesk/leads-api/docs" // registers the swagger spec
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	healthHandler  *handler.HealthHandler
	authHandler    *handler.AuthHandler
	agentHandler   *handler.AgentHandler
	leadHandler    *handler.LeadHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	agentHandler *handler.AgentHandler,
	leadHandler *handler.LeadHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		healthHandler:  healthHandler,
		authHandler:    authHandler,
		agentHandler:   agentHandler,
		leadHandler:    leadHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	if rt.cfg.Tracing.Enabled {
		r.Use(otelchi.Middleware(rt.cfg.Tracing.ServiceName, otelchi.WithChiRoutes(r)))
	}
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	r.Get("/health", rt.healthHandler.Live)
	r.Get("/health/db", rt.healthHandler.Database)
	r.Get("/health/ready", rt.healthHandler.Ready)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", rt.authHandler.Me)

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", rt.agentHandler.List)
				r.Post("/", rt.agentHandler.Create)
				r.Get("/{id}", rt.agentHandler.GetByID)
				r.Put("/{id}", rt.agentHandler.Update)
				r.Delete("/{id}", rt.agentHandler.Delete)
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.Post("/", rt.leadHandler.Create)
				r.Post("/upload", rt.leadHandler.Upload)
				r.Get("/agent/{agentId}", rt.leadHandler.ListByAgent)
				r.Get("/{id}", rt.leadHandler.GetByID)
				r.Put("/{id}", rt.leadHandler.Update)
				r.Delete("/{id}", rt.leadHandler.Delete)
			})
		})
	})

	return r
}
