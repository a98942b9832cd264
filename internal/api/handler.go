package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fleetwatch/internal/registry"
	"fleetwatch/internal/store"
)

// Handler serves the machine query API. It exposes read-only views of the
// registry; nothing here can mutate machine state.
type Handler struct {
	registry *registry.Registry
	history  store.ReportStore // nil when persistence is disabled
	logger   *slog.Logger
}

// NewHandler creates a new query API handler.
func NewHandler(reg *registry.Registry, history store.ReportStore, logger *slog.Logger) *Handler {
	return &Handler{
		registry: reg,
		history:  history,
		logger:   logger.With("component", "api"),
	}
}

// Register mounts the query API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/machines", h.handleMachines)
	mux.HandleFunc("/api/machines/", h.handleMachine)
	mux.HandleFunc("/api/summary", h.handleSummary)
	mux.HandleFunc("/healthz", h.handleHealthz)
}

// handleMachines returns all machines, hostname-sorted. GET /api/machines
func (h *Handler) handleMachines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.registry.List())
}

// handleMachine returns one machine or its report history.
// GET /api/machines/{id}
// GET /api/machines/{id}/history?limit=100&offset=0
func (h *Handler) handleMachine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/machines/")
	if id, ok := strings.CutSuffix(rest, "/history"); ok {
		h.serveHistory(w, r, id)
		return
	}

	if rest == "" {
		http.Error(w, `{"error":"machine id required"}`, http.StatusBadRequest)
		return
	}
	rec, ok := h.registry.Get(rest)
	if !ok {
		http.Error(w, `{"error":"machine not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

func (h *Handler) serveHistory(w http.ResponseWriter, r *http.Request, id string) {
	if h.history == nil {
		http.Error(w, `{"error":"history persistence not enabled"}`, http.StatusNotImplemented)
		return
	}
	if id == "" {
		http.Error(w, `{"error":"machine id required"}`, http.StatusBadRequest)
		return
	}

	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	entries, err := h.history.History(r.Context(), id, limit, offset)
	if err != nil {
		h.logger.Error("history query failed", "machine_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	writeJSON(w, entries)
}

// Summary is the response for the summary endpoint.
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// handleSummary returns fleet-wide counts. GET /api/summary
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, Summary{
		Total:    h.registry.Len(),
		ByStatus: h.registry.StatusCounts(),
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
