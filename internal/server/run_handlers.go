package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/moatwatch/internal/services/analysis"
)

// maxRunsLimit caps GET /api/runs
const maxRunsLimit = 200

// handleListRuns handles GET /api/runs?limit=N
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_LIMIT")
			return
		}
		limit = n
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list runs")
		s.writeError(w, http.StatusInternalServerError, "Failed to list runs", "STORAGE_ERROR")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": runs,
		"metadata": map[string]interface{}{
			"count": len(runs),
		},
	})
}

// handleTriggerRun handles POST /api/runs
// The run executes synchronously and survives client disconnects.
func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	if s.analysis == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Analysis is not configured", "NOT_CONFIGURED")
		return
	}

	summary, err := s.analysis.Execute(context.WithoutCancel(r.Context()), analysis.TriggerAPI)
	if errors.Is(err, analysis.ErrRunInProgress) {
		s.writeError(w, http.StatusConflict, err.Error(), "RUN_IN_PROGRESS")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), "RUN_FAILED")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": summary,
		"metadata": map[string]interface{}{
			"evaluated": len(summary.Result.Evaluated),
			"picks":     len(summary.Result.Picks),
			"skipped":   len(summary.Result.Skipped),
		},
	})
}

// handleLatestRun handles GET /api/runs/latest
func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.LatestRun(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load latest run")
		s.writeError(w, http.StatusInternalServerError, "Failed to load latest run", "STORAGE_ERROR")
		return
	}
	if run == nil {
		s.writeError(w, http.StatusNotFound, "No runs recorded yet", "NO_RUNS")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": run})
}

// handleLatestPicks handles GET /api/runs/latest/picks
func (s *Server) handleLatestPicks(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.LatestRun(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load latest run")
		s.writeError(w, http.StatusInternalServerError, "Failed to load latest run", "STORAGE_ERROR")
		return
	}
	if run == nil {
		s.writeError(w, http.StatusNotFound, "No runs recorded yet", "NO_RUNS")
		return
	}
	s.writePicks(w, r, run.ID)
}

// handleRunPicks handles GET /api/runs/{runID}/picks
func (s *Server) handleRunPicks(w http.ResponseWriter, r *http.Request) {
	s.writePicks(w, r, chi.URLParam(r, "runID"))
}

func (s *Server) writePicks(w http.ResponseWriter, r *http.Request, runID string) {
	picks, err := s.runs.ListPicks(r.Context(), runID)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("Failed to list picks")
		s.writeError(w, http.StatusInternalServerError, "Failed to list picks", "STORAGE_ERROR")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": picks,
		"metadata": map[string]interface{}{
			"run_id": runID,
			"count":  len(picks),
		},
	})
}

// handleRunSkipped handles GET /api/runs/{runID}/skipped
func (s *Server) handleRunSkipped(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	skipped, err := s.runs.ListSkipped(r.Context(), runID)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("Failed to list skipped records")
		s.writeError(w, http.StatusInternalServerError, "Failed to list skipped records", "STORAGE_ERROR")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": skipped,
		"metadata": map[string]interface{}{
			"run_id": runID,
			"count":  len(skipped),
		},
	})
}

// handleGetStock handles GET /api/stocks/{symbol}?run=<id>
// Without run, the latest run is used.
func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "Symbol is required", "MISSING_SYMBOL")
		return
	}

	runID := r.URL.Query().Get("run")
	if runID == "" {
		run, err := s.runs.LatestRun(r.Context())
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to load latest run")
			s.writeError(w, http.StatusInternalServerError, "Failed to load latest run", "STORAGE_ERROR")
			return
		}
		if run == nil {
			s.writeError(w, http.StatusNotFound, "No runs recorded yet", "NO_RUNS")
			return
		}
		runID = run.ID
	}

	stock, err := s.runs.GetEvaluation(r.Context(), runID, symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load evaluation")
		s.writeError(w, http.StatusInternalServerError, "Failed to load evaluation", "STORAGE_ERROR")
		return
	}
	if stock == nil {
		s.writeError(w, http.StatusNotFound, "Stock was not evaluated in this run", "NOT_FOUND")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": stock,
		"metadata": map[string]interface{}{
			"run_id": runID,
		},
	})
}
