// Inkwell API server. Serves the users and posts HTTP API backed by
// PostgreSQL with an optional Redis cache.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/handler"
	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/server"
	"github.com/inkwell/inkwell/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := initLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting inkwell",
		"env", cfg.AppEnv,
		"port", cfg.AppPort,
		"cache_enabled", cfg.CacheEnabled(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres %s: %w", redactURL(cfg.DatabaseURL), err)
	}
	logger.Info("connected to postgres", "url", redactURL(cfg.DatabaseURL))

	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return fmt.Errorf("migrate schema: %w", err)
	}
	logger.Info("schema up to date")

	var userCache *cache.Cache
	if cfg.CacheEnabled() {
		userCache, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			repo.Close()
			return fmt.Errorf("connect redis %s: %w", redactURL(cfg.RedisURL), err)
		}
		logger.Info("connected to redis", "url", redactURL(cfg.RedisURL))
	}

	// Counters are only read back in tests; production wiring discards them.
	recorder := metrics.NewNoop()

	userSvc := service.NewUserService(repo, userCache, recorder)
	postSvc := service.NewPostService(repo, recorder)

	h := handler.New()
	var cacheCheck handler.HealthChecker
	if userCache != nil {
		cacheCheck = userCache
	}
	healthHandler := handler.NewHealthHandler(repo, cacheCheck)
	userHandler := handler.NewUserHandler(userSvc, logger)
	postHandler := handler.NewPostHandler(postSvc, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(h, healthHandler, userHandler, postHandler, logger, corsCfg)

	srv := server.New(router, cfg.AppPort, cfg.ReadTimeout, cfg.WriteTimeout, cfg.ShutdownTimeout, logger)
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if userCache != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return userCache.Close()
		})
	}

	return srv.Run()
}

func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactURL strips credentials from a connection URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable url)"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.Redacted()
}
