package bus

import (
	"log/slog"
	"os"
	"testing"

	"fleetwatch/internal/events"
)

type fakePublisher struct {
	subjects []string
	types    []string
}

func (f *fakePublisher) PublishEvent(subject, eventType string, _ any) error {
	f.subjects = append(f.subjects, subject)
	f.types = append(f.types, eventType)
	return nil
}

func TestNotifierPublishesTransitions(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	emitter := events.NewEmitter(logger)
	pub := &fakePublisher{}
	NewNotifier(pub, logger).Register(emitter)

	emitter.Emit(events.Event{Type: events.MachineOffline, MachineID: "m1"})
	emitter.Emit(events.Event{Type: events.MachineOnline, MachineID: "m1"})
	emitter.Emit(events.Event{Type: events.MachineReported, MachineID: "m1"}) // not a transition

	if len(pub.subjects) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.subjects))
	}
	if pub.subjects[0] != "fleet.machine.m1.offline" {
		t.Errorf("subject = %q", pub.subjects[0])
	}
	if pub.subjects[1] != "fleet.machine.m1.online" {
		t.Errorf("subject = %q", pub.subjects[1])
	}
}

func TestNotifierDetachStopsPublishing(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	emitter := events.NewEmitter(logger)
	pub := &fakePublisher{}
	n := NewNotifier(pub, logger)
	n.Register(emitter)

	emitter.Emit(events.Event{Type: events.MachineOffline, MachineID: "m1"})
	n.Detach()
	emitter.Emit(events.Event{Type: events.MachineOnline, MachineID: "m1"})

	if len(pub.subjects) != 1 {
		t.Fatalf("published %d messages after detach, want 1", len(pub.subjects))
	}
}
