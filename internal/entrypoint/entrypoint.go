package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/config"
	http_controllers "github.com/mrlokans/kindle2notion/internal/http"
	"github.com/mrlokans/kindle2notion/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}

// Run wires the sync scheduler and the HTTP API and serves until a signal arrives.
func Run(cfg *config.Config, log *zap.Logger, version string) error {
	log.Info("starting kindle2notion", zap.String("version", version))

	app, err := NewApp(cfg, log, io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("error closing database", zap.Error(err))
		}
	}()

	sched := scheduler.NewSyncScheduler(app.Sync, log)
	if cfg.Schedule.Enabled {
		if err := sched.Start(cfg.Schedule.Cron); err != nil {
			return err
		}
	} else {
		log.Info("sync scheduler disabled, runs start only through the API")
	}

	routerCfg := http_controllers.RouterConfig{
		Sync:    sched,
		Logger:  log,
		Version: version,
	}
	// Leave the interfaces nil rather than holding typed nil pointers.
	if history := app.History(); history != nil {
		routerCfg.Database = app.db
		routerCfg.History = history
	}

	if gin.Mode() != gin.TestMode && cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(context.Context) {
		sched.Stop()
	}

	return Serve(router, cfg, log, onShutdown)
}
