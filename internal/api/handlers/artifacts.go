// Package handlers implements the HTTP handlers for the read-only API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dcwatch/dcwatch/internal/ingest"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// ArtifactHandler serves the JSON artifacts produced by the analysis
// pipeline straight from the data directory. Artifacts are whole-file
// recomputes, so no caching layer sits in between.
type ArtifactHandler struct {
	dataDir string
	logger  *logger.Logger
}

// NewArtifactHandler creates an artifact handler rooted at dataDir.
func NewArtifactHandler(dataDir string, log *logger.Logger) *ArtifactHandler {
	return &ArtifactHandler{dataDir: dataDir, logger: log}
}

// GetTrades returns the enriched trades, optionally limited.
// GET /api/trades?limit=N
func (h *ArtifactHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = n
	}

	if limit == 0 {
		h.serveFile(w, ingest.TradesFile)
		return
	}

	data, err := os.ReadFile(filepath.Join(h.dataDir, ingest.TradesFile))
	if err != nil {
		h.respondReadError(w, ingest.TradesFile, err)
		return
	}

	var trades []json.RawMessage
	if err := json.Unmarshal(data, &trades); err != nil {
		h.logger.WithError(err).Errorf("Corrupt artifact %s", ingest.TradesFile)
		respondError(w, http.StatusInternalServerError, "Corrupt trades artifact")
		return
	}
	if limit < len(trades) {
		trades = trades[:limit]
	}
	respondJSON(w, http.StatusOK, trades)
}

// GetLatest returns the most recent trades artifact.
// GET /api/latest
func (h *ArtifactHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, ingest.LatestFile)
}

// GetSummary returns the politician leaderboard.
// GET /api/summary
func (h *ArtifactHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, ingest.SummaryFile)
}

// GetSignals returns the detected trading clusters.
// GET /api/signals
func (h *ArtifactHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, ingest.SignalsFile)
}

// GetTopPicks returns the current watch-list.
// GET /api/top-picks
func (h *ArtifactHandler) GetTopPicks(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, ingest.TopPicksFile)
}

// GetBacktest returns the copycat backtest report.
// GET /api/backtest
func (h *ArtifactHandler) GetBacktest(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, ingest.BacktestFile)
}

// serveFile streams an artifact as-is. The files are already indented JSON.
func (h *ArtifactHandler) serveFile(w http.ResponseWriter, name string) {
	data, err := os.ReadFile(filepath.Join(h.dataDir, name))
	if err != nil {
		h.respondReadError(w, name, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *ArtifactHandler) respondReadError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		respondError(w, http.StatusNotFound, "Artifact not built yet: "+name)
		return
	}
	h.logger.WithError(err).Errorf("Failed to read artifact %s", name)
	respondError(w, http.StatusInternalServerError, "Failed to read artifact")
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
