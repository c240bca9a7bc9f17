package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/mwhitfield/eightball/internal/config"
	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/handlers"
	"github.com/mwhitfield/eightball/internal/logger"
	"github.com/mwhitfield/eightball/internal/middleware"
	"github.com/mwhitfield/eightball/internal/services/ai"
	"github.com/mwhitfield/eightball/internal/services/decisions"
	"github.com/mwhitfield/eightball/internal/services/oidc"
	"github.com/mwhitfield/eightball/internal/telemetry"
)

const serviceName = "eightball-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync(zapLogger)

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Database
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}
	zapLogger.Info("migrations_applied")

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Redis for rate limiting
	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Repositories
	userRepo := database.NewUserRepository(db)
	decisionRepo := database.NewDecisionRepository(db)
	oidcConfigRepo := database.NewOIDCConfigRepository(db)
	corsConfigRepo := database.NewCorsConfigRepository(db)
	ratelimitConfigRepo := database.NewRatelimitConfigRepository(db)

	// Services
	oidcProvider := oidc.NewProvider(oidcConfigRepo)
	jwksManager := oidc.NewJWKSManager()
	verifier := oidc.NewVerifier(jwksManager, cfg.JWTSecret, cfg.BaseURL)
	tokenIssuer := oidc.NewTokenIssuer(cfg.JWTSecret, cfg.BaseURL, cfg.JWTExpiry)

	generator, err := createGenerator(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_text_generator", zap.Error(err))
	}

	decisionService := decisions.NewService(decisionRepo, generator, cfg.GenTimeout, zapLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, oidcProvider, tokenIssuer, cfg.OIDCProvider, cfg.FrontendURL, zapLogger)
	decisionHandler := handlers.NewDecisionHandler(decisionService)
	healthChecker := handlers.NewHealthChecker(db, redisLimiter)
	openAPIHandler := handlers.NewOpenAPIHandler()

	// Router and middleware
	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))

	corsReloader := middleware.NewCORSReloader(corsConfigRepo, cfg.FrontendURL, zapLogger, 1*time.Minute)
	r.Use(corsReloader.Middleware())

	rateLimitReloader := middleware.NewRateLimitReloader(redisLimiter.Client(), ratelimitConfigRepo, "", zapLogger, 1*time.Minute)
	if rateLimitReloader == nil {
		zapLogger.Fatal("failed_to_create_rate_limit_reloader")
	}
	rateLimitMW := rateLimitReloader.Middleware()

	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	openAPIHandler.RegisterRoutes(apiRouter)

	// Auth routes (public, rate limited)
	authRouter := apiRouter.PathPrefix("").Subrouter()
	authRouter.Use(rateLimitMW)
	authHandler.RegisterRoutes(authRouter)

	// Protected routes
	authMW := middleware.Auth(userRepo, oidcProvider, verifier, cfg.OIDCProvider, zapLogger)
	protectedRouter := apiRouter.PathPrefix("").Subrouter()
	protectedRouter.Use(authMW)
	protectedRouter.Use(rateLimitMW)
	authHandler.RegisterProtectedRoutes(protectedRouter)
	decisionHandler.RegisterRoutes(protectedRouter)

	// Preflight requests: CORS middleware sets headers, this terminates them
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Config hot-reload loops
	reloadCtx, reloadCancel := context.WithCancel(context.Background())
	defer reloadCancel()
	go corsReloader.Start(reloadCtx)
	go rateLimitReloader.Start(reloadCtx)

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	reloadCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// createGenerator selects the text-generation backend from configuration
func createGenerator(cfg *config.Config, zapLogger *zap.Logger) (ai.Generator, error) {
	switch cfg.AIProvider {
	case "", "gemini":
		return ai.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.AIModel, zapLogger)
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not configured")
		}
		return ai.NewOpenAIGenerator(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger), nil
	}

	// Fall back to the registry for other provider names (without logger)
	registry := ai.NewRegistry()
	ai.RegisterGemini(registry)
	ai.RegisterOpenAI(registry)

	providerConfig := map[string]string{
		"api_key":  cfg.GeminiAPIKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	}
	return registry.Get(cfg.AIProvider, providerConfig)
}

func versionInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
