package scorers

import (
	"math"
	"testing"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowthMetricsScorer_RevenueYoY(t *testing.T) {
	tests := []struct {
		rev       float64
		wantScore float64
	}{
		{30, 3}, {25, 2}, {20, 2}, {10, 1}, {8, 0}, {0, 0}, {-2, -1},
	}

	s := NewGrowthMetricsScorer()
	for _, tt := range tests {
		res := s.Evaluate(&domain.StockRecord{RevenueYoY: f(tt.rev)})
		assert.Equal(t, tt.wantScore, res.Score, "revenue %v", tt.rev)
	}
}

func TestGrowthMetricsScorer_Combined(t *testing.T) {
	s := NewGrowthMetricsScorer()

	res := s.Evaluate(&domain.StockRecord{
		RevenueYoY:         f(18),
		EarningsGrowth:     f(12),
		NetProfitYoY:       f(25),
		OperatingProfitYoY: f(22),
	})
	assert.Equal(t, 7.0, res.Score)
	assert.Len(t, res.Reasons, 4)
	assert.Empty(t, res.Warnings)

	weak := s.Evaluate(&domain.StockRecord{
		RevenueYoY:         f(4),
		EarningsGrowth:     f(3),
		NetProfitYoY:       f(-8),
		OperatingProfitYoY: f(-2),
	})
	assert.Equal(t, -1.0, weak.Score)
	assert.Len(t, weak.Warnings, 2)
}

func geometric(n int, start, ratio float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start * math.Pow(ratio, float64(i))
	}
	return out
}

func TestTechnicalIndicatorsScorer_FromFields(t *testing.T) {
	res := NewTechnicalIndicatorsScorer().Evaluate(&domain.StockRecord{
		RSI:        f(25),
		MA50:       f(110),
		MA200:      f(100),
		MACDLine:   f(1.0),
		MACDSignal: f(0.5),
	})

	assert.Equal(t, 4.0, res.Score)
	assert.Equal(t, 0.5, res.Metrics["macd_histogram"])
	assert.Empty(t, res.Warnings)
}

func TestTechnicalIndicatorsScorer_RSITiers(t *testing.T) {
	tests := []struct {
		rsi       float64
		wantScore float64
	}{
		{25, 2}, {35, 1}, {50, 0}, {75, -1},
	}

	s := NewTechnicalIndicatorsScorer()
	for _, tt := range tests {
		res := s.Evaluate(&domain.StockRecord{RSI: f(tt.rsi)})
		assert.Equal(t, tt.wantScore, res.Score, "rsi %v", tt.rsi)
	}
}

func TestTechnicalIndicatorsScorer_HistogramPreferredOverLineAndSignal(t *testing.T) {
	res := NewTechnicalIndicatorsScorer().Evaluate(&domain.StockRecord{
		MACDHistogram: f(-0.2),
		MACDLine:      f(5),
		MACDSignal:    f(1),
	})
	assert.Equal(t, -0.2, res.Metrics["macd_histogram"])
	assert.Contains(t, res.Warnings, "Negative MACD momentum: -0.20")
}

func TestTechnicalIndicatorsScorer_DerivedFromCloses(t *testing.T) {
	s := NewTechnicalIndicatorsScorer()

	t.Run("accelerating uptrend", func(t *testing.T) {
		res := s.Evaluate(&domain.StockRecord{Closes: geometric(260, 100, 1.01)})

		require.Contains(t, res.Metrics, "rsi")
		require.Contains(t, res.Metrics, "ma_50")
		require.Contains(t, res.Metrics, "ma_200")
		require.Contains(t, res.Metrics, "macd_histogram")

		assert.Greater(t, res.Metrics["rsi"], 70.0)
		assert.Greater(t, res.Metrics["ma_50"], res.Metrics["ma_200"])
		assert.Greater(t, res.Metrics["macd_histogram"], 0.0)
		assert.Equal(t, 1.0, res.Score, "overbought -1, trend +1, momentum +1")
	})

	t.Run("downtrend", func(t *testing.T) {
		res := s.Evaluate(&domain.StockRecord{Closes: geometric(260, 100, 0.99)})
		assert.Less(t, res.Metrics["rsi"], 30.0)
		assert.Less(t, res.Metrics["ma_50"], res.Metrics["ma_200"])
		assertAnyContains(t, res.Warnings, "below 200-day")
		assertAnyContains(t, res.Reasons, "Oversold RSI")
	})

	t.Run("history too short for the long average", func(t *testing.T) {
		res := s.Evaluate(&domain.StockRecord{Closes: geometric(60, 100, 1.01)})
		assert.Contains(t, res.Metrics, "rsi")
		assert.NotContains(t, res.Metrics, "ma_200")
		assert.Contains(t, res.Warnings, "Moving averages not available")
	})
}
