// Entry point of the marketdash API server. Initializes configuration, the
// database pool, the quote cache, services and handlers, sets up the HTTP
// router and middleware, and starts the server with graceful shutdown.
//
// Collaborators are optional by design: a missing DATABASE_URL, REDIS_URL or
// JWT_SECRET degrades the matching endpoints to 503 instead of preventing
// startup.
//
// @title Marketdash API
// @version 1.0
// @description Authentication, user profiles and cached market quotes.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/auth"
	"github.com/user/marketdash-go/background"
	"github.com/user/marketdash-go/cache"
	"github.com/user/marketdash-go/config"
	"github.com/user/marketdash-go/db"
	_ "github.com/user/marketdash-go/docs" // Generated Swagger docs
	"github.com/user/marketdash-go/health"
	"github.com/user/marketdash-go/ingest"
	"github.com/user/marketdash-go/quotes"
	"github.com/user/marketdash-go/users"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// In development variables come from a .env file; in production they are
	// set directly.
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found or error loading it", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal(logger, "failed to load config", err)
	}

	ctx := context.Background()

	// Credential store. Constructed once here and injected; an unreachable
	// database is reported by /health, not a startup failure.
	var pool *pgxpool.Pool
	var userRepo auth.UserRepository
	if cfg.HasDB() {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(logger, "failed to create database pool", err)
		}
		defer pool.Close()

		if err := db.Ping(ctx, pool); err != nil {
			logger.Warn("database unreachable at startup, continuing degraded", "error", err)
		} else if err := db.RunMigrations(cfg.DatabaseURL, "./migrations"); err != nil {
			logger.Error("failed to run migrations", "error", err)
		}

		userRepo = auth.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set; auth and profile endpoints unavailable")
	}

	// Quote cache.
	var quoteClient *cache.Client
	var quoteCache quotes.QuoteCache
	if cfg.HasCache() {
		quoteClient, err = cache.New(ctx, cfg.RedisURL)
		if quoteClient == nil {
			fatal(logger, "invalid REDIS_URL", err)
		}
		if err != nil {
			logger.Warn("quote cache unreachable at startup, continuing degraded", "error", err)
		}
		defer quoteClient.Close()
		quoteCache = quoteClient
	} else {
		logger.Warn("REDIS_URL not set; quote endpoints unavailable")
	}

	// Optional in-process quote refresh, keeping the cache warm without an
	// external scheduler run.
	refreshStopChan := make(chan struct{})
	refreshStarted := false
	if ic := cfg.Ingest; ic.RefreshInterval > 0 {
		switch {
		case ic.AlphaVantageAPIKey == "":
			logger.Warn("QUOTE_REFRESH_INTERVAL set but ALPHA_VANTAGE_API_KEY missing; refresh disabled")
		case len(ic.Symbols) == 0:
			logger.Warn("QUOTE_REFRESH_INTERVAL set but INGEST_SYMBOLS empty; refresh disabled")
		case quoteClient == nil:
			logger.Warn("QUOTE_REFRESH_INTERVAL set but quote cache not configured; refresh disabled")
		default:
			provider, err := ingest.NewAlphaVantageClient(ic.AlphaVantageAPIKey, "")
			if err != nil {
				fatal(logger, "failed to create market data client", err)
			}
			sinks := []ingest.QuoteSink{
				&ingest.RedisSink{Cache: quoteClient, TTL: ic.QuoteCacheTTL},
				&ingest.LogSink{Logger: logger},
			}
			background.StartQuoteRefreshService(provider, ic.Symbols, sinks, ic.RefreshInterval, logger, refreshStopChan)
			refreshStarted = true
		}
	}

	// Services and handlers, wired by hand.
	authService := auth.NewAuthService(userRepo, cfg.Auth, logger)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewUserService(userRepo)
	userHandlers := users.NewUserHandlers(userService)

	quoteHandlers := quotes.NewHandlers(quoteCache)

	var dbPinger health.Pinger
	if pool != nil {
		dbPinger = pool
	}
	healthHandlers := health.NewHandlers(dbPinger)

	r := chi.NewRouter()

	// Global middleware; chi requires these before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Convert panics into the standard 500 envelope.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic in handler", "panic", fmt.Sprintf("%+v", rvr))
					writeError(ww, apperror.NewInternalError("Internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandlers.HandleHealth())

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandlers.HandleRegister())
			r.Post("/login", authHandlers.HandleLogin())
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(cfg.Auth))
			r.Get("/me", userHandlers.HandleMe())
		})

		r.Get("/quotes/{symbol}", quoteHandlers.HandleGetQuote())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apperror.NewNotFoundError("Not found", nil))
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(logger, "failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if refreshStarted {
		close(refreshStopChan)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(logger, "server shutdown failed", err)
	}
	logger.Info("server stopped gracefully")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

// writeError is a local helper for the panic middleware and the 404
// fallback, kept separate from the auth helpers to avoid pulling request
// context where none exists.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
