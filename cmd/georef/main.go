package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/georef/internal/config"
	dbRedis "github.com/kailas-cloud/georef/internal/db/redis"
	logpkg "github.com/kailas-cloud/georef/internal/logger"
	"github.com/kailas-cloud/georef/internal/metrics"
	searchrepo "github.com/kailas-cloud/georef/internal/repository/search"
	shaperepo "github.com/kailas-cloud/georef/internal/repository/shape"
	chiTransport "github.com/kailas-cloud/georef/internal/transport/chi"
	healthuc "github.com/kailas-cloud/georef/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/georef/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/georef/internal/usecase/search"
	shapeuc "github.com/kailas-cloud/georef/internal/usecase/shape"
	"github.com/kailas-cloud/georef/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting georef API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSeedMetrics()

	// Create repositories (domain-native, no adapters)
	shapeRepo := shaperepo.New(store)
	searchRepo := searchrepo.New(store)

	if err := shapeRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create search indexes", zap.Error(err))
	}

	// Load the reference snapshot before serving traffic
	if cfg.Seed.Path != "" {
		if err := seedShapes(ctx, cfg.Seed, shapeRepo, store, logger); err != nil {
			logger.Fatal("Failed to load reference snapshot", zap.Error(err))
		}
	}

	// Create use case services
	searchSvc := searchuc.New(searchRepo)
	shapeSvc := shapeuc.New(shapeRepo)
	healthSvc := healthuc.New(store)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, shapeSvc, healthSvc, logger, cfg.Search.MaxNumResults)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// seedShapes streams the NDJSON snapshot into the store.
func seedShapes(
	ctx context.Context,
	seedCfg config.SeedConfig,
	shapes ingestuc.ShapeWriter,
	marker ingestuc.MarkerStore,
	logger *zap.Logger,
) error {
	f, err := os.Open(seedCfg.Path)
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", seedCfg.Path, err)
	}
	defer f.Close()

	svc := ingestuc.New(shapes, marker, logger)
	count, err := svc.Run(ctx, f, seedCfg.Force)
	if err != nil {
		return fmt.Errorf("seed from %s: %w", seedCfg.Path, err)
	}
	if count > 0 {
		logger.Info("Seeded shapes", zap.Int("count", count), zap.String("path", seedCfg.Path))
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
