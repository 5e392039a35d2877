// Package api provides the HTTP API for Smoke Specialist.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/smokespecialist/smokespecialist/internal/api/handler"
	"github.com/smokespecialist/smokespecialist/internal/api/middleware"
	"github.com/smokespecialist/smokespecialist/internal/audit"
	"github.com/smokespecialist/smokespecialist/internal/auth"
	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	Sessions        *auth.SessionService
	Dashboard       handler.DashboardBuilder
	Audit           audit.Repository
	ReadinessChecks map[string]handler.ReadinessChecker

	// Providers feeds per-provider circuit state into the readiness
	// endpoint.
	Providers *resilience.Registry

	// DashboardRateLimit overrides the per-session dashboard limit.
	DashboardRateLimit *middleware.RateLimitConfig
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "smokespecialist-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks, cfg.Providers)
	dashboardHandler := handler.NewDashboardHandler(cfg.Dashboard, cfg.Logger)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.Sessions)

	// Dashboard builds fan out to several upstream APIs, so they get a
	// stricter per-session limit than ordinary endpoints.
	dashboardLimit := middleware.DashboardRateLimit
	if cfg.DashboardRateLimit != nil {
		dashboardLimit = *cfg.DashboardRateLimit
	}
	dashboardRateLimit := middleware.RateLimitBySession(dashboardLimit)
	standardRateLimit := middleware.RateLimitBySession(middleware.StandardRateLimit)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Dashboard endpoint (authenticated, patient scope from session)
		r.With(authMiddleware, dashboardRateLimit).Get("/dashboard", dashboardHandler.GetDashboard)

		// Access log (authenticated)
		if cfg.Audit != nil {
			auditHandler := handler.NewAuditHandler(cfg.Audit)
			r.With(authMiddleware, standardRateLimit).Get("/access-log", auditHandler.ListAccessLog)
		}
	})

	return r
}
