// Package api implements the repohealth read API: the latest-scan view per
// project, backed by the metadata store and the shared scoring policy.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/repohealth/repohealth/internal/store"
)

// ScanReader is the slice of the store the read API needs.
type ScanReader interface {
	Ping(ctx context.Context) error
	LatestScoredScan(ctx context.Context, projectName string) (*store.Scan, error)
	ListMetrics(ctx context.Context, scanID string) ([]store.MetricRow, error)
}

// Handler is the top-level read API handler.
type Handler struct {
	store      ScanReader
	configPath string
}

// NewHandler creates a read API handler. configPath points at the YAML
// scoring config, re-read on every request so edits take effect immediately.
func NewHandler(st ScanReader, configPath string) *Handler {
	return &Handler{store: st, configPath: configPath}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /scan/{projectName}", h.handleGetScan)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /{$}", h.handleRoot)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the repohealth scorecard API.",
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
