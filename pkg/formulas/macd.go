package formulas

import (
	"github.com/markcheno/go-talib"
)

// Standard MACD periods
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACD is the latest point of a MACD series
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// CalculateMACD calculates the Moving Average Convergence Divergence
//
//	Line      = EMA(fast) - EMA(slow)
//	Signal    = EMA(Line, signal)
//	Histogram = Line - Signal
//
// Returns nil if the history is too short for the signal line to settle
func CalculateMACD(closes []float64, fast, slow, signal int) *MACD {
	if fast <= 0 || slow <= fast || signal <= 0 {
		return nil
	}
	if len(closes) < slow+signal {
		return nil
	}

	line, sig, hist := talib.Macd(closes, fast, slow, signal)
	l, s, h := lastValue(line), lastValue(sig), lastValue(hist)
	if l == nil || s == nil || h == nil {
		return nil
	}

	return &MACD{Line: *l, Signal: *s, Histogram: *h}
}
