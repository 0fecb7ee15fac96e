package scorers

import (
	"github.com/aristath/moatwatch/internal/domain"
)

// OperatingEfficiencyScorer rewards high returns on equity, cash generation and margins
type OperatingEfficiencyScorer struct{}

// NewOperatingEfficiencyScorer creates a new operating efficiency scorer
func NewOperatingEfficiencyScorer() *OperatingEfficiencyScorer {
	return &OperatingEfficiencyScorer{}
}

// Name implements Scorer
func (s *OperatingEfficiencyScorer) Name() string { return NameOperatingEfficiency }

// Category implements Scorer
func (s *OperatingEfficiencyScorer) Category() domain.Category { return domain.CategoryFundamental }

// Evaluate scores ROE, free cash flow yield and profit margin
//
//	ROE %:          >20 +3, >15 +2, >10 +1
//	FCF yield %:    >8 +3,  >5 +2,  >3 +1
//	Profit margin %: >20 +2, >10 +1, <0 -1
func (s *OperatingEfficiencyScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	if roe, ok := present(rec.ROE); ok {
		switch {
		case roe > 20:
			r.add(3, "Excellent ROE: %.1f%%", roe)
		case roe > 15:
			r.add(2, "Strong ROE: %.1f%%", roe)
		case roe > 10:
			r.add(1, "Decent ROE: %.1f%%", roe)
		default:
			r.warn("Low ROE: %.1f%%", roe)
		}
	} else {
		r.missing("ROE")
	}

	scoreCashFlow(r, rec)

	if margin, ok := present(rec.ProfitMargin); ok {
		switch {
		case margin > 20:
			r.add(2, "High profit margin: %.1f%%", margin)
		case margin > 10:
			r.add(1, "Healthy profit margin: %.1f%%", margin)
		case margin < 0:
			r.add(-1, "Negative profit margin: %.1f%%", margin)
		}
	} else {
		r.missing("Profit margin")
	}

	return r.build()
}

func scoreCashFlow(r *resultBuilder, rec *domain.StockRecord) {
	fcf, ok := present(rec.FreeCashFlow)
	if !ok {
		r.missing("Free cash flow")
		return
	}
	if fcf <= 0 {
		r.warn("Negative free cash flow: %s", crores(fcf))
		return
	}

	mcap, ok := present(rec.MarketCap)
	if !ok || mcap <= 0 {
		r.add(1, "Positive free cash flow: %s", crores(fcf))
		return
	}

	yield := fcf / mcap * 100
	r.metric("fcf_yield", round2(yield))
	switch {
	case yield > 8:
		r.add(3, "Excellent FCF yield: %.1f%%", yield)
	case yield > 5:
		r.add(2, "Strong FCF yield: %.1f%%", yield)
	case yield > 3:
		r.add(1, "Positive FCF yield: %.1f%%", yield)
	default:
		r.warn("Low FCF yield: %.1f%%", yield)
	}
}
