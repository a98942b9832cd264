package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"fleetwatch/internal/machine"
	"fleetwatch/internal/registry"
	"fleetwatch/internal/store"
)

// mockStore implements store.ReportStore for testing.
type mockStore struct {
	entries []store.HistoryEntry
}

func (m *mockStore) RecordReport(_ context.Context, _ machine.Report, _ time.Time) error {
	return nil
}

func (m *mockStore) History(_ context.Context, _ string, _, _ int) ([]store.HistoryEntry, error) {
	return m.entries, nil
}

func (m *mockStore) Close() {}

func testMux(history store.ReportStore) (*http.ServeMux, *registry.Registry) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	reg := registry.New(logger)
	mux := http.NewServeMux()
	NewHandler(reg, history, logger).Register(mux)
	return mux, reg
}

func seed(reg *registry.Registry, id, hostname string, status machine.Status) {
	s := machine.DefaultSnapshot()
	s.Hostname = hostname
	reg.UpsertReport(id, s, status, time.Now())
}

func TestListMachines(t *testing.T) {
	mux, reg := testMux(nil)
	seed(reg, "m2", "bravo", machine.StatusOnline)
	seed(reg, "m1", "alpha", machine.StatusOffline)

	req := httptest.NewRequest("GET", "/api/machines", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var machines []machine.Record
	if err := json.Unmarshal(w.Body.Bytes(), &machines); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(machines) != 2 {
		t.Fatalf("len = %d", len(machines))
	}
	if machines[0].Snapshot.Hostname != "alpha" {
		t.Errorf("first hostname = %q, want hostname order", machines[0].Snapshot.Hostname)
	}
}

func TestGetMachine(t *testing.T) {
	mux, reg := testMux(nil)
	seed(reg, "m1", "alpha", machine.StatusOnline)

	req := httptest.NewRequest("GET", "/api/machines/m1", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var rec machine.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.ID != "m1" || rec.Status != machine.StatusOnline {
		t.Errorf("record = %+v", rec)
	}
}

func TestGetMachineNotFound(t *testing.T) {
	mux, _ := testMux(nil)

	req := httptest.NewRequest("GET", "/api/machines/ghost", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSummary(t *testing.T) {
	mux, reg := testMux(nil)
	seed(reg, "m1", "a", machine.StatusOnline)
	seed(reg, "m2", "b", machine.StatusOffline)

	req := httptest.NewRequest("GET", "/api/summary", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var summary Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if summary.Total != 2 {
		t.Errorf("total = %d", summary.Total)
	}
	if summary.ByStatus["online"] != 1 || summary.ByStatus["offline"] != 1 {
		t.Errorf("by_status = %v", summary.ByStatus)
	}
}

func TestHistory(t *testing.T) {
	ms := &mockStore{entries: []store.HistoryEntry{
		{MachineID: "m1", Hostname: "alpha", CPUUsage: 42.5, ReceivedAt: time.Now()},
	}}
	mux, reg := testMux(ms)
	seed(reg, "m1", "alpha", machine.StatusOnline)

	req := httptest.NewRequest("GET", "/api/machines/m1/history?limit=10", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var entries []store.HistoryEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].CPUUsage != 42.5 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHistoryDisabled(t *testing.T) {
	mux, _ := testMux(nil)

	req := httptest.NewRequest("GET", "/api/machines/m1/history", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501 when persistence is off", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := testMux(nil)

	req := httptest.NewRequest("POST", "/api/machines", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}
