// Package audit records every scoring run: a JSON dump next to the report and
// an append-only SQLite trail served by the API.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	"github.com/rs/zerolog"
)

// FileName is the audit dump written next to the report
const FileName = "audit.json"

// Entry is one stock in the audit dump
type Entry struct {
	domain.ScoredStock
	// PickRank is the 1-based position among picks, 0 for non-picks
	PickRank int `json:"pick_rank"`
}

// FileWriter writes the audit dump
type FileWriter struct {
	dir string
	log zerolog.Logger
}

// NewFileWriter creates a writer targeting dir
func NewFileWriter(dir string, log zerolog.Logger) *FileWriter {
	return &FileWriter{
		dir: dir,
		log: log.With().Str("component", "audit_file").Logger(),
	}
}

// Entries keys every evaluated stock by symbol, picks and non-picks alike
func Entries(result scoring.Result) map[string]Entry {
	ranks := pickRanks(result)
	entries := make(map[string]Entry, len(result.Evaluated))
	for _, s := range result.Evaluated {
		entries[s.Symbol] = Entry{ScoredStock: s, PickRank: ranks[s.Symbol]}
	}
	return entries
}

// Write dumps the run and returns the file path
func (w *FileWriter) Write(result scoring.Result) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	data, err := json.MarshalIndent(Entries(result), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode audit dump: %w", err)
	}

	path := filepath.Join(w.dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit dump: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to replace audit dump: %w", err)
	}

	w.log.Debug().Str("path", path).Int("stocks", len(result.Evaluated)).Msg("Audit dump written")
	return path, nil
}

func pickRanks(result scoring.Result) map[string]int {
	ranks := make(map[string]int, len(result.Picks))
	for i, p := range result.Picks {
		ranks[p.Symbol] = i + 1
	}
	return ranks
}
