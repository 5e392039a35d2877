// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// FHIRBaseURL is the base URL of the health-record server.
	FHIRBaseURL string `mapstructure:"FHIR_BASE_URL"`

	// FHIRAccessToken authenticates against the health-record server.
	// Empty for open test servers.
	FHIRAccessToken string `mapstructure:"FHIR_ACCESS_TOKEN"`

	// GoogleAPIKey is used for the air quality and geocoding APIs.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// GoogleMapsAPIKey is embedded in map frame URLs.
	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`

	// GeminiAPIKey is used for the generative language API.
	GeminiAPIKey string `mapstructure:"GOOGLE_GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GOOGLE_GEMINI_MODEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	// JWTSigningKey verifies session tokens.
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`

	RateLimitRequests int `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   int `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`

	// OTLPEndpoint is the OpenTelemetry collector address. Tracing and
	// metrics export are disabled when empty.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("GOOGLE_GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{
		"PORT", "ENV",
		"FHIR_BASE_URL", "FHIR_ACCESS_TOKEN",
		"GOOGLE_API_KEY", "GOOGLE_MAPS_API_KEY",
		"GOOGLE_GEMINI_API_KEY", "GOOGLE_GEMINI_MODEL",
		"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"JWT_SIGNING_KEY",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS",
		"OTLP_ENDPOINT", "LOG_LEVEL",
	} {
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine; the environment alone can carry
	// everything.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.FHIRBaseURL == "" {
		return fmt.Errorf("FHIR_BASE_URL is required")
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required")
	}
	if c.IsProduction() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required in production")
	}
	return nil
}

// IsDev reports whether the service runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
