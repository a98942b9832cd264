package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetwatch/internal/bus"
	"fleetwatch/internal/collector"
	"fleetwatch/internal/config"
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

	col := collector.New(cfg.Agent.MachineID, logger)
	logger.Info("agent starting",
		"machine_id", col.MachineID(),
		"publish_interval", cfg.Agent.PublishInterval,
	)

	client, err := bus.Connect(cfg.Bus, "fleetwatch-agent/"+col.MachineID(), logger)
	if err != nil {
		logger.Error("failed to connect to bus", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig)
		cancel()
	}()

	// Report immediately, then on the configured cadence.
	publish(ctx, col, client, logger)

	ticker := time.NewTicker(cfg.Agent.PublishInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("agent stopped")
			return
		case <-ticker.C:
			publish(ctx, col, client, logger)
		}
	}
}

func publish(ctx context.Context, col *collector.Collector, client *bus.Client, logger *slog.Logger) {
	rep := col.Collect(ctx)
	rep.Timestamp = float64(time.Now().UnixMilli()) / 1000

	data, err := json.Marshal(rep)
	if err != nil {
		logger.Error("failed to marshal report", "error", err)
		return
	}
	if err := client.Publish(bus.SubjectReport, data); err != nil {
		logger.Error("failed to publish report", "error", err)
		return
	}
	logger.Info("report published",
		"machine_id", rep.MachineID,
		"cpu_percent", rep.CPU.UsagePercent,
		"memory_percent", rep.Memory.UsagePercent,
	)
}
