package scoring

import (
	"sort"

	"github.com/aristath/moatwatch/internal/domain"
)

// DefaultPickThreshold is the minimum total score for a pick
const DefaultPickThreshold = 10.0

// SelectPicks keeps the stocks scoring at least threshold, sorted by total
// descending. Ties keep their input order.
func SelectPicks(scored []domain.ScoredStock, threshold float64) []domain.ScoredStock {
	picks := make([]domain.ScoredStock, 0, len(scored))
	for _, s := range scored {
		if s.Total >= threshold {
			s.IsPick = true
			picks = append(picks, s)
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Total > picks[j].Total
	})

	return picks
}
