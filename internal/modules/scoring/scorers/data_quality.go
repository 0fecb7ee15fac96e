package scorers

import (
	"math"

	"github.com/aristath/moatwatch/internal/domain"
)

// Plausibility bounds. Values beyond them most likely come from a unit or
// scale error in the source data.
const (
	MaxFCFYield          = 20.0
	MaxFCFYieldFinancial = 10.0
	MaxDebtToEquity      = 10.0
	MaxAbsROE            = 100.0
	MaxPERatio           = 300.0
	MaxProfitMargin      = 100.0
	MaxMarginOfSafety    = 90.0
)

// DataQualityScorer penalizes implausible values instead of trusting them
type DataQualityScorer struct{}

// NewDataQualityScorer creates a new data quality scorer
func NewDataQualityScorer() *DataQualityScorer {
	return &DataQualityScorer{}
}

// Name implements Scorer
func (s *DataQualityScorer) Name() string { return NameDataQuality }

// Category implements Scorer
func (s *DataQualityScorer) Category() domain.Category { return domain.CategoryFundamental }

// Evaluate applies a penalty and a warning for every value outside its plausibility bound
func (s *DataQualityScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())
	checked := 0

	fcf, hasFCF := present(rec.FreeCashFlow)
	mcap, hasMcap := present(rec.MarketCap)
	if hasFCF && hasMcap && mcap > 0 {
		checked++
		yield := fcf / mcap * 100
		limit := MaxFCFYield
		if rec.IsFinancialSector() {
			limit = MaxFCFYieldFinancial
		}
		if yield > limit {
			r.add(-2, "Suspicious FCF yield: %.1f%% (>%.0f%%), likely a data error", yield, limit)
		}
	}

	if de, ok := present(rec.DebtToEquity); ok {
		checked++
		if de > MaxDebtToEquity {
			r.add(-2, "Suspicious debt-to-equity: %.2f (>%.0f), likely a data error", de, MaxDebtToEquity)
		}
	}

	if roe, ok := present(rec.ROE); ok {
		checked++
		if math.Abs(roe) > MaxAbsROE {
			r.add(-1, "Suspicious ROE: %.1f%%, likely a data error", roe)
		}
	}

	if pe, ok := present(rec.PERatio); ok {
		checked++
		if pe > MaxPERatio {
			r.add(-1, "Suspicious P/E ratio: %.1f, likely a data error", pe)
		}
	}

	if margin, ok := present(rec.ProfitMargin); ok {
		checked++
		if margin > MaxProfitMargin {
			r.add(-1, "Suspicious profit margin: %.1f%%, likely a data error", margin)
		}
	}

	if rec.IntrinsicValue != nil {
		checked++
		if rec.MarginOfSafety > MaxMarginOfSafety {
			r.add(-1, "Suspicious margin of safety: %.1f%%, intrinsic value likely unreliable", rec.MarginOfSafety)
		}
	}

	if checked == 0 {
		r.warn("No metrics available for data quality checks")
	}

	return r.build()
}
