package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"schedule-assistant/core/cache"
	"schedule-assistant/core/config"
	"schedule-assistant/core/constants"
	"schedule-assistant/core/logger"
	"schedule-assistant/core/middleware"
	"schedule-assistant/modules/availability"
	availStore "schedule-assistant/modules/availability/store"
	"schedule-assistant/modules/recommendation"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the HTTP server and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level)
	logger.Info("Server:Starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	mw := middleware.NewMiddleware()
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(mw.RequestID())
	e.Use(mw.RequestLogger())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	st, err := buildSnapshotStore(cfg)
	if err != nil {
		return fmt.Errorf("init snapshot store: %w", err)
	}

	availability.Init(e, st)
	recommendation.Init(e, st)
	logger.Info("Server:ModulesRegistered")

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server:ShuttingDown")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}

func buildSnapshotStore(cfg *config.Config) (availStore.BusyStore, error) {
	switch cfg.Snapshot.Store {
	case constants.SnapshotStoreRedis:
		c := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("Server:SnapshotStore", "backend", "redis", "addr", cfg.Redis.Addr)
		return availStore.NewRedisStore(c), nil
	default:
		logger.Info("Server:SnapshotStore", "backend", "memory")
		return availStore.NewMemoryStore(), nil
	}
}
