package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/moatwatch/internal/database"
	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Run is one row of the runs table
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	SnapshotPath string    `json:"snapshot_path"`
	Threshold    float64   `json:"threshold"`
	Evaluated    int       `json:"evaluated"`
	Picks        int       `json:"picks"`
	Skipped      int       `json:"skipped"`
}

// runsColumns is the column list for the runs table, in scanRun order
const runsColumns = `id, started_at, completed_at, snapshot_path, threshold, evaluated, picks, skipped`

// Repository persists scoring runs in the audit database
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an audit repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "audit").Logger(),
	}
}

// SaveRun stores a completed run with one evaluation row per stock.
// An empty run ID is replaced with a new UUID.
func (r *Repository) SaveRun(ctx context.Context, run *Run, result scoring.Result) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.CompletedAt
	}
	run.Threshold = result.Threshold
	run.Evaluated = len(result.Evaluated)
	run.Picks = len(result.Picks)
	run.Skipped = len(result.Skipped)

	ranks := pickRanks(result)

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO runs ("+runsColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			run.ID, formatTime(run.StartedAt), formatTime(run.CompletedAt), run.SnapshotPath,
			run.Threshold, run.Evaluated, run.Picks, run.Skipped,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO evaluations
			(run_id, symbol, name, sector, score, is_pick, pick_rank, breakdown)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare evaluation insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range result.Evaluated {
			breakdown, err := msgpack.Marshal(&s)
			if err != nil {
				return fmt.Errorf("failed to encode breakdown for %s: %w", s.Symbol, err)
			}

			var rank sql.NullInt64
			if pos, ok := ranks[s.Symbol]; ok {
				rank = sql.NullInt64{Int64: int64(pos), Valid: true}
			}

			if _, err := stmt.ExecContext(ctx, run.ID, s.Symbol, s.Name, s.Sector, s.Total,
				boolToInt(s.IsPick), rank, breakdown); err != nil {
				return fmt.Errorf("failed to insert evaluation for %s: %w", s.Symbol, err)
			}
		}

		for _, sk := range result.Skipped {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO skipped_records (run_id, symbol, error) VALUES (?, ?, ?)",
				run.ID, sk.Symbol, sk.Error,
			); err != nil {
				return fmt.Errorf("failed to insert skipped record %s: %w", sk.Symbol, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	r.log.Info().
		Str("run_id", run.ID).
		Int("evaluated", run.Evaluated).
		Int("picks", run.Picks).
		Msg("Run saved")

	return nil
}

// LatestRun returns the most recently completed run, or nil when there is none
func (r *Repository) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := r.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRuns returns up to limit runs, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runsColumns+" FROM runs ORDER BY completed_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// GetEvaluation returns one stock's breakdown from a run, or nil when absent
func (r *Repository) GetEvaluation(ctx context.Context, runID, symbol string) (*domain.ScoredStock, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT breakdown FROM evaluations WHERE run_id = ? AND symbol = ?", runID, symbol,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation %s/%s: %w", runID, symbol, err)
	}

	s, err := decodeBreakdown(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s/%s: %w", runID, symbol, err)
	}
	return s, nil
}

// ListPicks returns a run's picks in rank order
func (r *Repository) ListPicks(ctx context.Context, runID string) ([]domain.ScoredStock, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT breakdown FROM evaluations WHERE run_id = ? AND is_pick = 1 ORDER BY pick_rank ASC", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	picks := []domain.ScoredStock{}
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		s, err := decodeBreakdown(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pick: %w", err)
		}
		picks = append(picks, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating picks: %w", err)
	}
	return picks, nil
}

// ListSkipped returns the symbols a run could not score
func (r *Repository) ListSkipped(ctx context.Context, runID string) ([]domain.ErrorRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT symbol, error FROM skipped_records WHERE run_id = ? ORDER BY symbol", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skipped records: %w", err)
	}
	defer rows.Close()

	skipped := []domain.ErrorRecord{}
	for rows.Next() {
		var er domain.ErrorRecord
		if err := rows.Scan(&er.Symbol, &er.Error); err != nil {
			return nil, fmt.Errorf("failed to scan skipped record: %w", err)
		}
		skipped = append(skipped, er)
	}
	return skipped, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var startedAt, completedAt string
	if err := rows.Scan(&run.ID, &startedAt, &completedAt, &run.SnapshotPath,
		&run.Threshold, &run.Evaluated, &run.Picks, &run.Skipped); err != nil {
		return run, err
	}

	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return run, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if run.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return run, fmt.Errorf("invalid completed_at %q: %w", completedAt, err)
	}
	return run, nil
}

func decodeBreakdown(blob []byte) (*domain.ScoredStock, error) {
	var s domain.ScoredStock
	if err := msgpack.Unmarshal(blob, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// formatTime stores UTC with a fixed-width layout so text ordering matches time ordering
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
