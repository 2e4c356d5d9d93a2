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

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/warp/period-engine/api"
	"github.com/warp/period-engine/internal/log"
	"github.com/warp/period-engine/store"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  PERIODS_HOST               Server host to bind to (default: 0.0.0.0)
  PERIODS_PORT               Server port to listen on (default: 8080)
  PERIODS_OUTPUT_TIMEZONE    Zone for "now" and default output (default: UTC)
  PERIODS_DEFAULT_LENGTH     Length when a request omits it (default: 6)
  PERIODS_MAX_LENGTH         Largest accepted length (default: 120)
  PERIODS_LOG_LEVEL          debug, info, warn, error (default: info)
  PERIODS_LOG_FORMAT         console, json (default: console)
  PERIODS_PRESETS_FILE       YAML file with extra presets
  PERIODS_CORS_ORIGINS       Comma-separated allowed origins
  PERIODS_ROLLOVER_INTERVAL  Preset rollover check period (default: 1m)
  PERIODS_SHUTDOWN_TIMEOUT   Graceful shutdown bound (default: 30s)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(ctx context.Context, envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars
	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}

	logger := log.New(os.Stderr, cfg.LogLevel, cfg.LogFormat).
		With().Str("version", version).Logger()

	f, err := newFactory(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	presets := store.NewMemory()
	if err := store.Bootstrap(ctx, presets, f, afero.NewOsFs(), cfg.PresetsFile); err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	scheduler := api.NewRolloverScheduler(f, presets, logger)
	scheduler.CheckInterval = cfg.RolloverInterval

	handler := api.NewHandler(f, presets, logger)
	handler.Scheduler = scheduler
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().
		Str("addr", server.Addr).
		Str("timezone", f.Builder.Location().String()).
		Int("default_length", f.DefaultLength).
		Int("max_length", f.MaxLength).
		Msg("starting server")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
