package scoring

import (
	"testing"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/stretchr/testify/assert"
)

func scored(symbol string, total float64) domain.ScoredStock {
	return domain.ScoredStock{Symbol: symbol, Total: total}
}

func symbols(stocks []domain.ScoredStock) []string {
	out := make([]string, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, s.Symbol)
	}
	return out
}

func TestSelectPicks(t *testing.T) {
	tests := []struct {
		name      string
		input     []domain.ScoredStock
		threshold float64
		expected  []string
	}{
		{
			name:      "sorted descending",
			input:     []domain.ScoredStock{scored("A", 11), scored("B", 15), scored("C", 12.5)},
			threshold: 10,
			expected:  []string{"B", "C", "A"},
		},
		{
			name:      "threshold is inclusive",
			input:     []domain.ScoredStock{scored("A", 10), scored("B", 9.99)},
			threshold: 10,
			expected:  []string{"A"},
		},
		{
			name:      "ties keep input order",
			input:     []domain.ScoredStock{scored("C", 12), scored("A", 12), scored("B", 14)},
			threshold: 10,
			expected:  []string{"B", "C", "A"},
		},
		{
			name:      "nothing qualifies",
			input:     []domain.ScoredStock{scored("A", 3)},
			threshold: 10,
			expected:  []string{},
		},
		{
			name:      "empty input",
			input:     nil,
			threshold: 10,
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picks := SelectPicks(tt.input, tt.threshold)
			assert.Equal(t, tt.expected, symbols(picks))
			for _, p := range picks {
				assert.True(t, p.IsPick)
			}
		})
	}
}

func TestSelectPicks_MonotonicInThreshold(t *testing.T) {
	input := []domain.ScoredStock{scored("A", 4), scored("B", 8), scored("C", 12), scored("D", 16)}

	prev := len(input) + 1
	for _, threshold := range []float64{0, 5, 10, 15, 20} {
		n := len(SelectPicks(input, threshold))
		assert.LessOrEqual(t, n, prev, "raising the threshold must never add picks")
		prev = n
	}
}

func TestSelectPicks_DoesNotMutateInput(t *testing.T) {
	input := []domain.ScoredStock{scored("A", 20)}
	SelectPicks(input, 10)
	assert.False(t, input[0].IsPick)
}
