package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetwatch/internal/api"
	"fleetwatch/internal/bus"
	"fleetwatch/internal/config"
	"fleetwatch/internal/events"
	"fleetwatch/internal/ingest"
	"fleetwatch/internal/liveness"
	"fleetwatch/internal/metrics"
	"fleetwatch/internal/registry"
	"fleetwatch/internal/store"
)

func main() {
	configPath := flag.String("config", "./fleetwatch.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded",
		"listen", cfg.Listen,
		"offline_threshold", cfg.Monitor.OfflineThreshold,
		"sweep_interval", cfg.Monitor.SweepInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Message bus.
	client, err := bus.Connect(cfg.Bus, "fleetwatchd", logger)
	if err != nil {
		logger.Error("failed to connect to bus", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := client.ProvisionStreams(ctx); err != nil {
		logger.Warn("stream provisioning failed (continuing without replay capture)", "error", err)
	}

	// Core state.
	reg := registry.New(logger)
	emitter := events.NewEmitter(logger)
	metrics.RegisterEventHandler(emitter, reg)
	notifier := bus.NewNotifier(client, logger)
	notifier.Register(emitter)

	dispatcher := ingest.New(reg, emitter, logger)

	// Optional report history.
	var history store.ReportStore
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := store.EnsureSchema(ctx, pg.Pool()); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		dispatcher.SetSink(pg)
		history = pg
		logger.Info("report history enabled")
	}

	// Ingestion: one wildcard subscription covers full reports and
	// per-machine status corrections.
	sub, err := client.Subscribe(bus.SubjectAllReports, dispatcher.Handle)
	if err != nil {
		logger.Error("failed to subscribe", "subject", bus.SubjectAllReports, "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()
	logger.Info("subscribed", "subject", bus.SubjectAllReports)

	// Liveness sweep.
	sweeper := liveness.New(reg, liveness.Config{
		Interval:  cfg.Monitor.SweepInterval,
		Threshold: cfg.Monitor.OfflineThreshold,
	}, emitter, logger)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(ctx)
	}()

	// Query API.
	mux := http.NewServeMux()
	api.NewHandler(reg, history, logger).Register(mux)
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info("api server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig)

	cancel()
	<-sweepDone // an in-flight sweep finishes before we tear down
	notifier.Detach()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api server shutdown", "error", err)
	}

	// client.Close drains the subscription so in-flight deliveries finish.
	logger.Info("shutdown complete")
}
