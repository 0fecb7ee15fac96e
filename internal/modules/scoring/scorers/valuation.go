package scorers

import (
	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/valuation"
)

// ValuationScorer rewards buying below intrinsic value at a modest multiple.
// It reads the intrinsic value and margin of safety written by the estimator.
type ValuationScorer struct{}

// NewValuationScorer creates a new valuation scorer
func NewValuationScorer() *ValuationScorer {
	return &ValuationScorer{}
}

// Name implements Scorer
func (s *ValuationScorer) Name() string { return NameValuation }

// Category implements Scorer
func (s *ValuationScorer) Category() domain.Category { return domain.CategoryFundamental }

// Evaluate scores P/E, margin of safety and P/B
func (s *ValuationScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	if pe, ok := present(rec.PERatio); ok {
		switch {
		case pe <= 0:
			r.warn("Negative earnings (P/E %.1f)", pe)
		case pe < 15:
			r.add(3, "Attractive P/E ratio: %.1f (<15)", pe)
		case pe < 20:
			r.add(2, "Reasonable P/E ratio: %.1f (<20)", pe)
		case pe < 25:
			r.add(1, "Fair P/E ratio: %.1f (<25)", pe)
		case pe > 30:
			r.add(-1, "Expensive P/E ratio: %.1f (>30)", pe)
		default:
			r.warn("Elevated P/E ratio: %.1f", pe)
		}
	} else {
		r.missing("P/E ratio")
	}

	if iv, ok := present(rec.IntrinsicValue); ok && iv > 0 {
		mos := rec.MarginOfSafety
		price, hasPrice := present(rec.CurrentPrice)
		switch {
		case mos > 40:
			r.add(4, "Large margin of safety: %.1f%%", mos)
		case mos > 30:
			r.add(3, "Good margin of safety: %.1f%%", mos)
		case mos > 20:
			r.add(2, "Moderate margin of safety: %.1f%%", mos)
		case mos > 10:
			r.add(1, "Small margin of safety: %.1f%%", mos)
		case hasPrice && price > iv:
			r.add(-1, "Trading %.1f%% above intrinsic value", valuation.PremiumToIntrinsic(iv, price))
		case !hasPrice:
			r.missing("Current price")
		default:
			r.warn("Thin margin of safety: %.1f%%", mos)
		}
	} else {
		r.missing("Intrinsic value")
	}

	if pb, ok := present(rec.PBRatio); ok {
		switch {
		case pb > 0 && pb < 1.5:
			r.add(1, "Low price-to-book: %.2f", pb)
		case pb > 6:
			r.warn("High price-to-book: %.2f", pb)
		}
	} else {
		r.missing("P/B ratio")
	}

	return r.build()
}
