package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"battery-savings/internal/api"
	"battery-savings/internal/api/handlers"
	"battery-savings/internal/app"
	"battery-savings/internal/config"
	"battery-savings/internal/logger"
	"battery-savings/internal/metrics"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Battery savings HTTP API",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON); BS_* env vars override it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("api")

	day, closeDay, err := app.DaySource(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDay(); err != nil {
			log.Errorf("close day source: %v", err)
		}
	}()

	rec, err := metrics.NewPromRecorder()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	deps := &handlers.Deps{
		Config:    cfg,
		Day:       day,
		Batteries: handlers.NewBatteryCatalog(cfg.Server.BatteryDir, log),
		Results:   handlers.NewResultStore(200),
		Recorder:  rec,
		Log:       log,
	}
	router := api.NewRouter(deps, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		StaticDir:   cfg.Server.StaticDir,
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("starting API server on %s (data source: %s)", srv.Addr, cfg.Data.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
