package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	ServerPort      string
	BaseURL         string
	FrontendURL     string
	RedisURL        string
	JWTSecret       string
	JWTExpiry       time.Duration
	OIDCProvider    string
	GeminiAPIKey    string
	OpenAIKey       string
	AIProvider      string
	AIModel         string
	AIBaseURL       string
	GenTimeout      time.Duration
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTExpiry:       getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		OIDCProvider:    getEnv("OIDC_PROVIDER", "google"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		AIProvider:      getEnv("AI_PROVIDER", "gemini"),
		AIModel:         getEnv("AI_MODEL", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		GenTimeout:      getEnvDuration("GENERATION_TIMEOUT", 10*time.Second),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required for token issuance")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare integers are treated as seconds
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
