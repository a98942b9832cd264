package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fleetwatch/internal/events"
	"fleetwatch/internal/machine"
	"fleetwatch/internal/registry"
)

// ReportSink receives successfully decoded full reports for persistence.
type ReportSink interface {
	RecordReport(ctx context.Context, rep machine.Report, receivedAt time.Time) error
}

// Dispatcher classifies inbound transport messages by subject and applies
// the matching registry mutation. It is safe for concurrent delivery
// callbacks: all shared state lives behind the registry's lock.
type Dispatcher struct {
	registry *registry.Registry
	emitter  *events.Emitter
	sink     ReportSink
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a dispatcher writing into the given registry.
func New(reg *registry.Registry, emitter *events.Emitter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		emitter:  emitter,
		logger:   logger.With("component", "ingest"),
		now:      time.Now,
	}
}

// SetSink attaches a report history sink. A sink failure is logged and does
// not affect the registry mutation that already happened.
func (d *Dispatcher) SetSink(sink ReportSink) {
	d.sink = sink
}

// Handle processes one transport message. Subjects of the form
// <namespace>.<machine-id>.status carry a bare status correction; every
// other subject under the wildcard carries a full report whose machine id
// lives inside the payload. Decode failures are logged, counted through the
// emitter and dropped without touching the registry.
func (d *Dispatcher) Handle(subject string, payload []byte) {
	parts := strings.Split(subject, ".")
	if len(parts) >= 3 && parts[2] == "status" {
		d.handleStatus(parts[1], payload)
		return
	}
	d.handleReport(subject, payload)
}

func (d *Dispatcher) handleStatus(id string, payload []byte) {
	update, err := machine.DecodeStatus(payload)
	if err != nil {
		d.dropped("status", id, err)
		return
	}

	status := machine.StatusFromString(update.Status)
	prev, ok := d.registry.SetStatus(id, status)
	if !ok {
		// Status correction for a machine that has never reported.
		d.logger.Debug("status update for unknown machine ignored", "machine_id", id)
		return
	}
	d.logger.Info("machine status updated", "machine_id", id, "status", status)
	d.emitTransition(id, prev, status)
}

func (d *Dispatcher) handleReport(subject string, payload []byte) {
	report, err := machine.DecodeReport(payload)
	if err != nil {
		d.dropped("report", subject, err)
		return
	}

	status := report.Status()
	seenAt := d.now()
	prev, created := d.registry.UpsertReport(report.MachineID, report.Snapshot, status, seenAt)

	if d.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.RecordReport(ctx, report, seenAt); err != nil {
			d.logger.Error("failed to persist report", "machine_id", report.MachineID, "error", err)
		}
		cancel()
	}

	d.emitter.Emit(events.Event{
		Type:      events.MachineReported,
		MachineID: report.MachineID,
		Fields:    map[string]string{"hostname": report.Snapshot.Hostname},
	})
	if created {
		d.emitter.Emit(events.Event{Type: events.MachineRegistered, MachineID: report.MachineID})
		return
	}
	d.emitTransition(report.MachineID, prev, status)
}

func (d *Dispatcher) emitTransition(id string, prev, next machine.Status) {
	if prev == next {
		return
	}
	switch next {
	case machine.StatusOnline:
		d.emitter.Emit(events.Event{Type: events.MachineOnline, MachineID: id})
	case machine.StatusOffline:
		d.emitter.Emit(events.Event{Type: events.MachineOffline, MachineID: id})
	}
}

func (d *Dispatcher) dropped(kind, key string, err error) {
	d.logger.Error("message dropped", "kind", kind, "key", key, "error", err)
	d.emitter.Emit(events.Event{
		Type:   events.DecodeFailed,
		Fields: map[string]string{"kind": kind, "error": err.Error()},
	})
}
