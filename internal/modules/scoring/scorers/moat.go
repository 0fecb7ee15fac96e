package scorers

import (
	"fmt"
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
)

// Moat points
const (
	MoatFranchisePoints = 2.0
	MaxMoatScore        = 4.0
)

// EconomicMoatScorer infers durable competitive advantage from sector, known
// franchises and the business description
type EconomicMoatScorer struct {
	sectors *scoringdomain.KeywordTable
	traits  *scoringdomain.KeywordTable
	tables  *scoringdomain.Tables
}

// NewEconomicMoatScorer creates a new economic moat scorer
func NewEconomicMoatScorer(tables *scoringdomain.Tables) *EconomicMoatScorer {
	sectors := tables.Table(scoringdomain.TableMoatSectors)
	traits := tables.Table(scoringdomain.TableMoatTraits)
	return &EconomicMoatScorer{sectors: &sectors, traits: &traits, tables: tables}
}

// Name implements Scorer
func (s *EconomicMoatScorer) Name() string { return NameEconomicMoat }

// Category implements Scorer
func (s *EconomicMoatScorer) Category() domain.Category { return domain.CategoryQualitative }

// Evaluate implements Scorer. The total is capped at MaxMoatScore.
func (s *EconomicMoatScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())
	var found []string

	if rec.HasSector() {
		if b, ok := s.sectors.Classify(rec.Sector); ok && b.Score > 0 {
			r.add(b.Score, "Moat-friendly sector: %s", rec.Sector)
			found = append(found, "sector")
		}
	} else {
		r.missing("Sector")
	}

	if s.tables.IsFranchise(domain.DisplaySymbol(rec.Symbol)) {
		r.add(MoatFranchisePoints, "Recognized franchise with a durable advantage: %s", displayName(rec))
		found = append(found, "franchise")
	}

	if strings.TrimSpace(rec.Description) != "" {
		for _, b := range s.traits.MatchAll(rec.Description) {
			r.add(b.Score, "Business description indicates %s", b.Name)
			found = append(found, b.Name)
		}
	} else {
		r.missing("Business description")
	}

	if r.score > MaxMoatScore {
		r.score = MaxMoatScore
	}

	if len(found) == 0 {
		r.detail = "No moat indicators"
		r.warn("No economic moat indicators found")
	} else {
		r.detail = fmt.Sprintf("Moat indicators: %s", strings.Join(found, ", "))
	}

	return r.build()
}

func displayName(rec *domain.StockRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return domain.DisplaySymbol(rec.Symbol)
}
