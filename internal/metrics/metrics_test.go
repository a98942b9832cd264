package metrics

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"fleetwatch/internal/events"
	"fleetwatch/internal/machine"
	"fleetwatch/internal/registry"
)

func TestNewMetricsNoPanic(t *testing.T) {
	// Handler() should return without panic (metrics already registered in init)
	h := Handler()
	if h == nil {
		t.Error("expected non-nil handler")
	}
}

func TestRegisterEventHandlerUpdatesCounters(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	emitter := events.NewEmitter(logger)
	reg := registry.New(logger)
	RegisterEventHandler(emitter, reg)

	reg.UpsertReport("m1", machine.DefaultSnapshot(), machine.StatusOnline, time.Now())

	// These should not panic and should update metrics
	emitter.Emit(events.Event{Type: events.MachineRegistered, MachineID: "m1"})
	emitter.Emit(events.Event{Type: events.MachineReported, MachineID: "m1"})
	emitter.Emit(events.Event{Type: events.MachineOffline, MachineID: "m1"})
	emitter.Emit(events.Event{Type: events.MachineOnline, MachineID: "m1"})
	emitter.Emit(events.Event{Type: events.DecodeFailed, Fields: map[string]string{"kind": "report"}})
}
