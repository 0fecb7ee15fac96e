package scorers

import (
	"github.com/aristath/moatwatch/internal/domain"
)

// GrowthMetricsScorer rewards consistent top and bottom line growth
type GrowthMetricsScorer struct{}

// NewGrowthMetricsScorer creates a new growth metrics scorer
func NewGrowthMetricsScorer() *GrowthMetricsScorer {
	return &GrowthMetricsScorer{}
}

// Name implements Scorer
func (s *GrowthMetricsScorer) Name() string { return NameGrowthMetrics }

// Category implements Scorer
func (s *GrowthMetricsScorer) Category() domain.Category { return domain.CategoryGrowthTechnical }

// Evaluate implements Scorer
//
//	Revenue YoY %:          >25 +3, >15 +2, >8 +1, <0 -1
//	Earnings growth %:      >15 +3, >10 +2, >5 +1
//	Net profit YoY %:       >20 +2, >10 +1, <0 -1
//	Operating profit YoY %: >20 +1, <0 warning
func (s *GrowthMetricsScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	if v, ok := present(rec.RevenueYoY); ok {
		switch {
		case v > 25:
			r.add(3, "Exceptional revenue growth: %.1f%% YoY", v)
		case v > 15:
			r.add(2, "Strong revenue growth: %.1f%% YoY", v)
		case v > 8:
			r.add(1, "Steady revenue growth: %.1f%% YoY", v)
		case v < 0:
			r.add(-1, "Revenue shrinking: %.1f%% YoY", v)
		}
	} else {
		r.missing("Revenue YoY growth")
	}

	if v, ok := present(rec.EarningsGrowth); ok {
		switch {
		case v > 15:
			r.add(3, "Exceptional earnings growth: %.1f%%", v)
		case v > 10:
			r.add(2, "Strong earnings growth: %.1f%%", v)
		case v > 5:
			r.add(1, "Steady earnings growth: %.1f%%", v)
		}
	} else {
		r.missing("Earnings growth")
	}

	if v, ok := present(rec.NetProfitYoY); ok {
		switch {
		case v > 20:
			r.add(2, "Strong net profit growth: %.1f%% YoY", v)
		case v > 10:
			r.add(1, "Healthy net profit growth: %.1f%% YoY", v)
		case v < 0:
			r.add(-1, "Net profit falling: %.1f%% YoY", v)
		}
	} else {
		r.missing("Net profit YoY growth")
	}

	if v, ok := present(rec.OperatingProfitYoY); ok {
		switch {
		case v > 20:
			r.add(1, "Strong operating profit growth: %.1f%% YoY", v)
		case v < 0:
			r.warn("Operating profit falling: %.1f%% YoY", v)
		}
	} else {
		r.missing("Operating profit YoY growth")
	}

	return r.build()
}
