// Package snapshot reads the per-run market data snapshot written by the collector.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/rs/zerolog"
)

var (
	// ErrSnapshotNotFound is returned when the snapshot file does not exist
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrEmptySnapshot is returned when the snapshot holds no entries at all
	ErrEmptySnapshot = errors.New("snapshot is empty")
)

// Loader reads snapshot files
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a snapshot loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "snapshot_loader").Logger(),
	}
}

// Load reads and parses the snapshot at path
func (l *Loader) Load(path string) (*domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Read parses a snapshot document: a JSON object keyed by symbol. Entries
// carrying an "error" key become error records.
func (l *Loader) Read(r io.Reader) (*domain.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptySnapshot
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptySnapshot
	}

	records := make(map[string]*domain.StockRecord, len(entries))
	errs := make(map[string]domain.ErrorRecord)

	for symbol, rawEntry := range entries {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}

		raw, err := decodeEntry(rawEntry)
		if err != nil {
			l.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping malformed snapshot entry")
			errs[symbol] = domain.ErrorRecord{Symbol: symbol, Error: err.Error()}
			continue
		}

		if msg, failed := errorMessage(raw); failed {
			errs[symbol] = domain.ErrorRecord{
				Symbol: symbol,
				Name:   firstString(raw, nameKeys...),
				Error:  msg,
			}
			continue
		}

		records[symbol] = ParseRecord(symbol, raw)
	}

	snap := domain.NewSnapshot(records, errs)

	l.log.Info().
		Int("records", len(records)).
		Int("errors", len(errs)).
		Msg("Snapshot loaded")

	return snap, nil
}

func decodeEntry(data json.RawMessage) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("entry is not an object: %w", err)
	}
	if raw == nil {
		return nil, errors.New("entry is null")
	}
	return raw, nil
}

// errorMessage reports whether the entry is an acquisition failure
func errorMessage(raw map[string]interface{}) (string, bool) {
	v, ok := raw["error"]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		if x == "" {
			return "unknown error", true
		}
		return x, true
	case bool:
		if !x {
			return "", false
		}
		return "unknown error", true
	}
	return fmt.Sprint(v), true
}
