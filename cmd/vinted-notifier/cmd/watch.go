package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vinted-tools/vinted-notifier/internal/engine"
	"github.com/vinted-tools/vinted-notifier/internal/history"
	"github.com/vinted-tools/vinted-notifier/internal/web/middleware"
)

var watchOpts runFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll profiles on an interval and serve health and metrics endpoints",
	Long: `Watch runs the polling cycle on a fixed interval instead of exiting
after one pass. An HTTP listener exposes /healthz, /readyz, and Prometheus
/metrics while the scheduler runs.`,
	RunE: runWatch,
}

func init() {
	watchOpts.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0,
		"polling interval (overrides watch.interval)")
	rootCmd.AddCommand(watchCmd)
}

var watchInterval time.Duration

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(&watchOpts)
	if err != nil {
		return err
	}
	if watchInterval > 0 {
		cfg.Watch.Interval = watchInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, store, err := buildEngine(ctx, cfg, log, watchOpts.dryRun)
	if err != nil {
		return err
	}
	defer store.Close()

	sched, err := engine.NewScheduler(eng, cfg.Watch.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Ready once the history store answers a load.
	e.GET("/readyz", func(c echo.Context) error {
		return readyz(c, store)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	log.Info("starting watch mode",
		"interval", cfg.Watch.Interval,
		"listen", cfg.Watch.Listen,
		"profiles", len(cfg.Profiles),
	)

	go func() {
		if err := e.Start(cfg.Watch.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listener error", "err", err)
		}
	}()

	sched.Start()

	<-ctx.Done()
	log.Info("shutting down")

	// Let an in-flight cycle finish before closing the store.
	stopCtx := sched.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Warn("cycle did not finish before shutdown deadline")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down listener: %w", err)
	}

	log.Info("stopped")
	return nil
}

func readyz(c echo.Context, store history.Store) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := store.Load(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
