// Package main is the entrypoint for the ShareTrack API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharetrack/sharetrack/internal/cache"
	"github.com/sharetrack/sharetrack/internal/config"
	"github.com/sharetrack/sharetrack/internal/handler"
	"github.com/sharetrack/sharetrack/internal/metrics"
	"github.com/sharetrack/sharetrack/internal/middleware"
	"github.com/sharetrack/sharetrack/internal/server"
	"github.com/sharetrack/sharetrack/internal/service"
	"github.com/sharetrack/sharetrack/internal/store"
	"github.com/sharetrack/sharetrack/internal/store/postgres"
	"github.com/sharetrack/sharetrack/internal/store/sqlite"
)

func main() {
	ctx := context.Background()

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error(
			"failed to open store",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer st.Close()
	logger.Info("store ready", "driver", cfg.StoreDriver)

	// Redis is optional; without it rankings are read straight from the
	// store and track rate limiting is off.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	} else {
		logger.Info("Redis not configured, running without cache")
	}

	metricsRecorder := metrics.NewPrometheus()
	trackerService := service.NewTrackerService(st, cacheClient, metricsRecorder, cfg.RankingCacheTTL)
	videoService := service.NewVideoService(st, metricsRecorder)
	referralService := service.NewReferralService(st, cacheClient, metricsRecorder, cfg.RankingCacheTTL)

	healthHandler := handler.NewHealthHandler(st, healthChecker(cacheClient))
	trackHandler := handler.NewTrackHandler(trackerService, logger)
	videoHandler := handler.NewVideoHandler(videoService, logger)
	statsHandler := handler.NewStatsHandler(trackerService, logger)
	referralHandler := handler.NewReferralHandler(referralService, logger)

	r := setupRouter(healthHandler, trackHandler, videoHandler, statsHandler, referralHandler, cacheClient, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore picks the storage backend by configured driver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		return sqlite.Open(cfg.SQLitePath)
	}
	return postgres.New(ctx, cfg.DatabaseURL)
}

// healthChecker converts a possibly-nil cache into a HealthChecker
// without producing a non-nil interface holding a nil pointer.
func healthChecker(c *cache.Cache) handler.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	healthHandler *handler.HealthHandler,
	trackHandler *handler.TrackHandler,
	videoHandler *handler.VideoHandler,
	statsHandler *handler.StatsHandler,
	referralHandler *handler.ReferralHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Root info endpoint
	r.Get("/", handler.Hello)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitTrackEnabled,
		RPS:     cfg.RateLimitTrackRPS,
		Burst:   cfg.RateLimitTrackBurst,
	}

	// Click beacon with IP-based rate limiting (no auth required)
	r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/track", trackHandler.Track)

	adminOnly := middleware.AdminOnly(cfg.AdminTokenHash, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", videoHandler.Register)
		r.Post("/edit_video", videoHandler.Edit)
		r.Post("/delete_video", videoHandler.Delete)
		r.Get("/videos/{id}", videoHandler.Get)

		r.Get("/user_stats", statsHandler.UserStats)
		r.Get("/ranking", statsHandler.Ranking)
		r.With(adminOnly).Post("/reset_clicks", statsHandler.ResetClicks)

		r.Route("/referral", func(r chi.Router) {
			r.Post("/code", referralHandler.Code)
			r.Post("/register", referralHandler.Register)
			r.Get("/ranking", referralHandler.Ranking)
			r.With(adminOnly).Post("/reset", referralHandler.Reset)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
