package liveness

import (
	"context"
	"log/slog"
	"time"

	"fleetwatch/internal/events"
	"fleetwatch/internal/machine"
	"fleetwatch/internal/registry"
)

// Sweeper periodically marks machines offline once they have been silent
// for longer than the configured threshold. It never resurrects a machine
// and never advances LastSeen; only ingestion does either.
type Sweeper struct {
	registry *registry.Registry
	emitter  *events.Emitter

	interval  time.Duration
	threshold time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// Config holds the sweeper settings.
type Config struct {
	Interval  time.Duration
	Threshold time.Duration
}

// New creates a sweeper over the given registry.
func New(reg *registry.Registry, cfg Config, emitter *events.Emitter, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		registry:  reg,
		emitter:   emitter,
		interval:  cfg.Interval,
		threshold: cfg.Threshold,
		logger:    logger.With("component", "liveness"),
		now:       time.Now,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. An
// in-flight sweep completes before Run returns.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("liveness sweeper started", "interval", s.interval, "threshold", s.threshold)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("liveness sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(s.now())
		}
	}
}

// sweep walks a point-in-time copy of the registry and flips stale ONLINE
// machines to OFFLINE. The listing copy means the registry lock is never
// held across the whole scan. A machine exactly at the threshold is still
// in bounds: the test is strictly greater-than, so a report landing on the
// boundary is not spuriously flagged.
func (s *Sweeper) sweep(now time.Time) {
	for _, rec := range s.registry.List() {
		if rec.Status != machine.StatusOnline {
			continue
		}
		silent := now.Sub(rec.LastSeen)
		if silent <= s.threshold {
			continue
		}

		prev, ok := s.registry.SetStatus(rec.ID, machine.StatusOffline)
		if !ok || prev == machine.StatusOffline {
			// Lost a race with ingestion or another transition; nothing to report.
			continue
		}
		s.logger.Warn("machine marked offline",
			"machine_id", rec.ID,
			"hostname", rec.Snapshot.Hostname,
			"silent_for", silent.Truncate(time.Second),
		)
		s.emitter.Emit(events.Event{
			Type:      events.MachineOffline,
			MachineID: rec.ID,
			Fields:    map[string]string{"hostname": rec.Snapshot.Hostname},
		})
	}
}
