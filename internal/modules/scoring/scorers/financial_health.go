package scorers

import (
	"github.com/aristath/moatwatch/internal/domain"
)

// Market capitalisation tiers in rupees
const (
	LargeCapThreshold = 10e9
	MidCapThreshold   = 1e9
	MicroCapThreshold = 0.2e9
)

// FinancialHealthScorer rewards low leverage, size and a sustainable payout
type FinancialHealthScorer struct{}

// NewFinancialHealthScorer creates a new financial health scorer
func NewFinancialHealthScorer() *FinancialHealthScorer {
	return &FinancialHealthScorer{}
}

// Name implements Scorer
func (s *FinancialHealthScorer) Name() string { return NameFinancialHealth }

// Category implements Scorer
func (s *FinancialHealthScorer) Category() domain.Category { return domain.CategoryFundamental }

// Evaluate scores debt-to-equity, market capitalisation and payout ratio
func (s *FinancialHealthScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	if de, ok := present(rec.DebtToEquity); ok {
		switch {
		case de < 0.3:
			r.add(3, "Very low debt-to-equity: %.2f", de)
		case de < 0.5:
			r.add(2, "Low debt-to-equity: %.2f", de)
		case de < 0.7:
			r.add(1, "Moderate debt-to-equity: %.2f", de)
		case de > 1.5:
			r.add(-1, "High debt-to-equity: %.2f", de)
		default:
			r.warn("Elevated debt-to-equity: %.2f", de)
		}
	} else {
		r.missing("Debt-to-equity")
	}

	if mcap, ok := present(rec.MarketCap); ok {
		switch {
		case mcap >= LargeCapThreshold:
			r.add(1, "Large, established company: %s market cap", crores(mcap))
		case mcap >= MidCapThreshold:
			r.add(0.5, "Mid-sized company: %s market cap", crores(mcap))
		case mcap < MicroCapThreshold:
			r.warn("Very small company: %s market cap", crores(mcap))
		}
	} else {
		r.missing("Market cap")
	}

	if payout, ok := present(rec.PayoutRatio); ok {
		yield, _ := present(rec.DividendYield)
		switch {
		case payout > 90:
			r.warn("Payout ratio may be unsustainable: %.1f%%", payout)
		case payout > 0 && payout <= 60 && yield > 0:
			r.add(1, "Sustainable dividend: %.1f%% payout, %.2f%% yield", payout, yield)
		}
	} else {
		r.missing("Payout ratio")
	}

	return r.build()
}
