// Package handlers provides HTTP handlers for scoring API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
	"github.com/aristath/moatwatch/internal/modules/snapshot"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds ad hoc scoring requests; a full NSE snapshot is well below it
const maxBodyBytes = 32 << 20

// Scorer scores records without touching the run history
type Scorer interface {
	Score(rec *domain.StockRecord) domain.ScoredStock
	Evaluate(snap *domain.Snapshot) scoring.Result
	Tables() *scoringdomain.Tables
	Threshold() float64
}

// SnapshotReader parses a snapshot document
type SnapshotReader interface {
	Read(r io.Reader) (*domain.Snapshot, error)
}

// Handlers provides HTTP handlers for scoring module
type Handlers struct {
	scorer Scorer
	reader SnapshotReader
	log    zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance
func NewHandlers(scorer Scorer, reader SnapshotReader, log zerolog.Logger) *Handlers {
	return &Handlers{
		scorer: scorer,
		reader: reader,
		log:    log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// ScoreRequest represents a request to score one stock. Record uses the same
// field names and aliases as a snapshot entry.
type ScoreRequest struct {
	Symbol string                 `json:"symbol"`
	Record map[string]interface{} `json:"record"`
}

// HandleScoreStock handles POST /api/scoring/score
// Scores one record on its own, without sector peers
func (h *Handlers) HandleScoreStock(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode score request")
		h.writeError(w, "Invalid request body", "INVALID_BODY", http.StatusBadRequest)
		return
	}

	// Validate required fields
	if req.Symbol == "" {
		h.writeError(w, "Symbol is required", "MISSING_SYMBOL", http.StatusBadRequest)
		return
	}
	if len(req.Record) == 0 {
		h.writeError(w, "Record is required", "MISSING_RECORD", http.StatusBadRequest)
		return
	}

	scored := h.scorer.Score(snapshot.ParseRecord(req.Symbol, req.Record))

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": scored,
		"metadata": map[string]interface{}{
			"threshold": h.scorer.Threshold(),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleEvaluateSnapshot handles POST /api/scoring/evaluate
// Scores a whole snapshot document with sector peers. Nothing is persisted.
func (h *Handlers) HandleEvaluateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reader.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read snapshot body")
		h.writeError(w, err.Error(), "INVALID_SNAPSHOT", http.StatusBadRequest)
		return
	}

	result := h.scorer.Evaluate(snap)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"evaluated": len(result.Evaluated),
			"picks":     len(result.Picks),
			"skipped":   len(result.Skipped),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetTables handles GET /api/scoring/tables
func (h *Handlers) HandleGetTables(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": h.scorer.Tables(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetThreshold handles GET /api/scoring/threshold
func (h *Handlers) HandleGetThreshold(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"threshold": h.scorer.Threshold(),
		},
	})
}

// writeJSON writes a JSON response with status code
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message, code string, status int) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
			"code":    code,
		},
	})
}
