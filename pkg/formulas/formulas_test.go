package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestCalculateRSI(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, CalculateRSI(linear(10, 100, 1), DefaultRSIPeriod))
	})

	t.Run("steady uptrend is overbought", func(t *testing.T) {
		rsi := CalculateRSI(linear(60, 100, 1), DefaultRSIPeriod)
		require.NotNil(t, rsi)
		assert.Greater(t, *rsi, 70.0)
	})

	t.Run("steady downtrend is oversold", func(t *testing.T) {
		rsi := CalculateRSI(linear(60, 200, -1), DefaultRSIPeriod)
		require.NotNil(t, rsi)
		assert.Less(t, *rsi, 30.0)
	})
}

func TestCalculateSMA(t *testing.T) {
	assert.Nil(t, CalculateSMA([]float64{1, 2}, 3))

	sma := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NotNil(t, sma)
	assert.InDelta(t, 4.0, *sma, 1e-9)
}

func TestCalculateMACD(t *testing.T) {
	assert.Nil(t, CalculateMACD(linear(20, 100, 1), MACDFast, MACDSlow, MACDSignal))
	assert.Nil(t, CalculateMACD(linear(100, 100, 1), 26, 12, 9), "fast must be shorter than slow")

	up := CalculateMACD(linear(120, 100, 1), MACDFast, MACDSlow, MACDSignal)
	require.NotNil(t, up)
	assert.Greater(t, up.Line, 0.0)
	assert.InDelta(t, up.Line-up.Signal, up.Histogram, 1e-9)

	down := CalculateMACD(linear(120, 300, -1), MACDFast, MACDSlow, MACDSignal)
	require.NotNil(t, down)
	assert.Less(t, down.Line, 0.0)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd count", []float64{9, 1, 5}, 5},
		{"even count averages middle pair", []float64{40, 10, 30, 20}, 25},
		{"outlier does not drag", []float64{100, 110, 105, 10000}, 107.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Median(tt.data))
		})
	}

	data := []float64{3, 1, 2}
	Median(data)
	assert.Equal(t, []float64{3, 1, 2}, data, "input must not be reordered")
	assert.False(t, math.IsNaN(Median([]float64{1, 2})))
}
