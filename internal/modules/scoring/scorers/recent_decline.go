package scorers

import (
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
)

// DeclineThreshold is the growth rate (percent) below which a decline is penalized
const DeclineThreshold = -5.0

// RecentDeclineScorer penalizes shrinking earnings and revenue
type RecentDeclineScorer struct{}

// NewRecentDeclineScorer creates a new recent decline scorer
func NewRecentDeclineScorer() *RecentDeclineScorer {
	return &RecentDeclineScorer{}
}

// Name implements Scorer
func (s *RecentDeclineScorer) Name() string { return NameRecentDecline }

// Category implements Scorer
func (s *RecentDeclineScorer) Category() domain.Category { return domain.CategoryFundamental }

// Evaluate penalizes earnings growth (-2), revenue YoY (-1.5) and quarterly
// net profit (-1) below the decline threshold
func (s *RecentDeclineScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	checks := []struct {
		label   string
		value   *float64
		penalty float64
	}{
		{"Earnings growth", rec.EarningsGrowth, -2},
		{"Revenue YoY", rec.RevenueYoY, -1.5},
		{"Net profit QoQ", rec.NetProfitQoQ, -1},
	}

	var absent []string
	for _, c := range checks {
		v, ok := present(c.value)
		if !ok {
			absent = append(absent, c.label)
			continue
		}
		if v < DeclineThreshold {
			r.add(c.penalty, "%s declining: %.1f%%", c.label, v)
		}
	}

	if len(absent) > 0 {
		r.warn("Recent performance data not available: %s", strings.Join(absent, ", "))
	}

	return r.build()
}
