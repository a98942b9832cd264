package bus

import (
	"encoding/json"
	"testing"
)

func TestMachineSubject(t *testing.T) {
	got := MachineSubject(SubjectMachineStatus, "aa:bb")
	if got != "machine_status.aa:bb.status" {
		t.Errorf("subject = %q", got)
	}
	got = MachineSubject(SubjectMachineOffline, "m1")
	if got != "fleet.machine.m1.offline" {
		t.Errorf("subject = %q", got)
	}
}

func TestEventRoundTrip(t *testing.T) {
	ev, err := NewEvent("machine.offline", "fleetwatchd", TransitionData{
		MachineID: "m1",
		Hostname:  "web-01",
		Status:    "offline",
	})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if ev.ID == "" {
		t.Error("event ID should be generated")
	}
	if ev.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	data, err := ev.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != ev.ID || back.Type != "machine.offline" || back.Source != "fleetwatchd" {
		t.Errorf("round trip mismatch: %+v", back)
	}

	var payload TransitionData
	if err := json.Unmarshal(back.Data, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.MachineID != "m1" || payload.Status != "offline" {
		t.Errorf("payload = %+v", payload)
	}
}
