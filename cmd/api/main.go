// Package main provides the entrypoint for the Smoke Specialist API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/smokespecialist/smokespecialist/internal/advisory/gemini"
	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/airquality/googleair"
	"github.com/smokespecialist/smokespecialist/internal/api"
	"github.com/smokespecialist/smokespecialist/internal/api/handler"
	"github.com/smokespecialist/smokespecialist/internal/api/middleware"
	"github.com/smokespecialist/smokespecialist/internal/audit"
	"github.com/smokespecialist/smokespecialist/internal/auth"
	"github.com/smokespecialist/smokespecialist/internal/config"
	"github.com/smokespecialist/smokespecialist/internal/dashboard"
	"github.com/smokespecialist/smokespecialist/internal/database"
	"github.com/smokespecialist/smokespecialist/internal/fhir"
	"github.com/smokespecialist/smokespecialist/internal/geocode/googlemaps"
	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
	"github.com/smokespecialist/smokespecialist/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smokespecialist-api"

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Msg("starting Smoke Specialist API")

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := cfg.OTLPEndpoint != ""

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Connect the access-audit store. The dashboard works without it in
	// development; production validation requires a database.
	var pool *pgxpool.Pool
	var auditRepo audit.Repository
	if cfg.DatabaseURL != "" {
		pool, err = database.Connect(ctx, database.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		auditRepo = audit.NewPostgresRepository(pool)
		log.Info().Msg("access-audit store connected")
	} else {
		auditRepo = audit.NewInMemoryRepository()
		log.Warn().Msg("DATABASE_URL not set, access audit events are not persisted")
	}

	// Initialize session service
	signingKey := cfg.JWTSigningKey
	if signingKey == "" {
		signingKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	sessions := auth.NewSessionService(auth.SessionConfig{
		SigningKey: signingKey,
		Issuer:     "https://api.smokespecialist.example",
		Audience:   serviceName,
	})

	// Initialize upstream clients, all tracked in one provider registry
	providers := resilience.NewRegistry()
	records := fhir.NewClient(fhir.ClientConfig{
		BaseURL:     cfg.FHIRBaseURL,
		AccessToken: cfg.FHIRAccessToken,
		Registry:    providers,
	})
	geocoder := googlemaps.NewClient(googlemaps.ClientConfig{
		APIKey:   cfg.GoogleAPIKey,
		Registry: providers,
	})
	airClient := googleair.NewClient(googleair.ClientConfig{
		APIKey:   cfg.GoogleAPIKey,
		Registry: providers,
	})
	generator := gemini.NewClient(gemini.ClientConfig{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		Registry: providers,
	})

	aggregator := airquality.NewAggregator(airquality.AggregatorConfig{
		Provider: airClient,
		Logger:   log,
	})

	mapsKey := cfg.GoogleMapsAPIKey
	if mapsKey == "" {
		mapsKey = cfg.GoogleAPIKey
	}

	dashboardService := dashboard.NewService(dashboard.ServiceConfig{
		Records:    records,
		Geocoder:   geocoder,
		Aggregator: aggregator,
		Generator:  generator,
		Audit:      auditRepo,
		Metrics:    providerMetrics,
		MapsAPIKey: mapsKey,
		Logger:     log,
	})
	log.Info().Msg("dashboard service initialized")

	readinessChecks := map[string]handler.ReadinessChecker{}
	if pool != nil {
		readinessChecks["database"] = func(r *http.Request) error {
			return pool.Ping(r.Context())
		}
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		Sessions:        sessions,
		Dashboard:       dashboardService,
		Audit:           auditRepo,
		ReadinessChecks: readinessChecks,
		Providers:       providers,
		DashboardRateLimit: &middleware.RateLimitConfig{
			RequestLimit: cfg.RateLimitRequests,
			WindowLength: time.Duration(cfg.RateLimitWindow) * time.Second,
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
