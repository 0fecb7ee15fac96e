package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aristath/moatwatch/internal/modules/report"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK

	if s.auditDB != nil {
		if err := s.auditDB.QuickCheck(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("Audit database ping failed")
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, httpStatus, map[string]interface{}{
		"status":  status,
		"version": "1.0.0",
		"service": "moatwatch",
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReport serves the most recently rendered report page
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(filepath.Join(s.outputDir, report.FileName))
	if errors.Is(err, os.ErrNotExist) {
		s.writeError(w, http.StatusNotFound, "No report has been generated yet", "NO_REPORT")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read report")
		s.writeError(w, http.StatusInternalServerError, "Report not available", "REPORT_UNAVAILABLE")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write report response")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message, code string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
			"code":    code,
		},
	})
}
