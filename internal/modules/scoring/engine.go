package scoring

import (
	"sort"

	"github.com/aristath/moatwatch/internal/domain"
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring/scorers"
	"github.com/aristath/moatwatch/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// Result is the outcome of one scoring run
type Result struct {
	// Evaluated holds every scored stock in symbol order, picks included
	Evaluated []domain.ScoredStock `json:"evaluated"`
	// Picks holds the stocks meeting the threshold, best first
	Picks []domain.ScoredStock `json:"picks"`
	// Skipped holds the acquisition failures that were never scored
	Skipped   []domain.ErrorRecord `json:"skipped"`
	Threshold float64              `json:"threshold"`
}

// Find returns the scored stock for a symbol
func (r *Result) Find(symbol string) (domain.ScoredStock, bool) {
	for _, s := range r.Evaluated {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return domain.ScoredStock{}, false
}

// Engine runs the full scoring pipeline over a snapshot:
// normalize, estimate intrinsic value, evaluate, aggregate, select.
type Engine struct {
	estimator *valuation.Estimator
	tables    *scoringdomain.Tables
	threshold float64
	workers   int
	log       zerolog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithThreshold sets the minimum total score for a pick
func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

// WithWorkers sets how many records are evaluated in parallel
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithTables replaces the built-in sector keyword tables
func WithTables(tables *scoringdomain.Tables) Option {
	return func(e *Engine) {
		if tables != nil {
			e.tables = tables
		}
	}
}

// WithEstimator replaces the default intrinsic value estimator
func WithEstimator(estimator *valuation.Estimator) Option {
	return func(e *Engine) {
		if estimator != nil {
			e.estimator = estimator
		}
	}
}

// NewEngine creates a scoring engine
func NewEngine(log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		estimator: valuation.NewEstimator(),
		tables:    scoringdomain.DefaultTables(),
		threshold: DefaultPickThreshold,
		workers:   1,
		log:       log.With().Str("component", "scoring_engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the configured pick threshold
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Tables returns the keyword tables the evaluators classify with
func (e *Engine) Tables() *scoringdomain.Tables {
	return e.tables
}

// Evaluate scores every valid record of the snapshot. Error records are
// excluded from scoring, from the peer index and from the output.
func (e *Engine) Evaluate(snap *domain.Snapshot) Result {
	if snap == nil {
		snap = domain.NewSnapshot(nil, nil)
	}

	order := e.scoringOrder(snap)

	// Normalization and valuation finish for every record before any evaluator runs
	prepared := make([]*domain.StockRecord, len(order))
	for i, symbol := range order {
		prepared[i] = e.estimator.Apply(Normalize(snap.Records[symbol]))
	}

	index := scorers.NewSectorIndex(prepared)
	checklist := scorers.NewDefaultScorers(e.tables, index)

	evaluated := make([]domain.ScoredStock, len(prepared))
	newWorkerPool(e.workers).run(len(prepared), func(i int) {
		evaluated[i] = e.score(prepared[i], checklist)
	})

	picks := SelectPicks(evaluated, e.threshold)
	pickSet := make(map[string]bool, len(picks))
	for _, p := range picks {
		pickSet[p.Symbol] = true
	}
	for i := range evaluated {
		evaluated[i].IsPick = pickSet[evaluated[i].Symbol]
	}

	skipped := skippedRecords(snap)

	e.log.Info().
		Int("evaluated", len(evaluated)).
		Int("skipped", len(skipped)).
		Int("picks", len(picks)).
		Int("sectors", index.Size()).
		Float64("threshold", e.threshold).
		Msg("Scoring run complete")

	return Result{
		Evaluated: evaluated,
		Picks:     picks,
		Skipped:   skipped,
		Threshold: e.threshold,
	}
}

// Score evaluates a single record on its own, without sector peers
func (e *Engine) Score(rec *domain.StockRecord) domain.ScoredStock {
	prepared := e.estimator.Apply(Normalize(rec))
	checklist := scorers.NewDefaultScorers(e.tables, scorers.NewSectorIndex([]*domain.StockRecord{prepared}))
	scored := e.score(prepared, checklist)
	scored.IsPick = scored.Total >= e.threshold
	return scored
}

func (e *Engine) score(rec *domain.StockRecord, checklist []scorers.Scorer) domain.ScoredStock {
	results := make([]domain.EvaluationResult, 0, len(checklist))
	for _, s := range checklist {
		results = append(results, s.Evaluate(rec))
	}
	scored := Aggregate(rec, results)

	e.log.Debug().
		Str("symbol", rec.Symbol).
		Float64("score", scored.Total).
		Int("warnings", len(scored.Warnings)).
		Msg("Evaluated stock")

	return scored
}

// scoringOrder is the snapshot order restricted to valid records
func (e *Engine) scoringOrder(snap *domain.Snapshot) []string {
	order := snap.Order
	if len(order) == 0 && len(snap.Records) > 0 {
		order = make([]string, 0, len(snap.Records))
		for symbol := range snap.Records {
			order = append(order, symbol)
		}
		sort.Strings(order)
	}

	valid := make([]string, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, symbol := range order {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		if _, failed := snap.Errors[symbol]; failed {
			continue
		}
		if snap.Records[symbol] == nil {
			continue
		}
		valid = append(valid, symbol)
	}
	return valid
}

func skippedRecords(snap *domain.Snapshot) []domain.ErrorRecord {
	skipped := make([]domain.ErrorRecord, 0, len(snap.Errors))
	for _, er := range snap.Errors {
		skipped = append(skipped, er)
	}
	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Symbol < skipped[j].Symbol
	})
	return skipped
}
