package scorers

import (
	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/pkg/formulas"
)

// Moving average windows
const (
	ShortMAPeriod = 50
	LongMAPeriod  = 200
)

// TechnicalIndicatorsScorer looks for an entry point: oversold RSI, an intact
// long-term uptrend and positive momentum. Indicators missing from the record
// are derived from the closing price history when it is long enough.
type TechnicalIndicatorsScorer struct{}

// NewTechnicalIndicatorsScorer creates a new technical indicators scorer
func NewTechnicalIndicatorsScorer() *TechnicalIndicatorsScorer {
	return &TechnicalIndicatorsScorer{}
}

// Name implements Scorer
func (s *TechnicalIndicatorsScorer) Name() string { return NameTechnical }

// Category implements Scorer
func (s *TechnicalIndicatorsScorer) Category() domain.Category { return domain.CategoryGrowthTechnical }

// Evaluate implements Scorer
//
//	RSI:            <30 +2, <40 +1, >70 -1
//	MA50 vs MA200:  above +1, otherwise warning
//	MACD histogram: >0 +1, otherwise warning
func (s *TechnicalIndicatorsScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	if rsi, ok := s.rsi(rec); ok {
		r.metric("rsi", round2(rsi))
		switch {
		case rsi < 30:
			r.add(2, "Oversold RSI: %.1f", rsi)
		case rsi < 40:
			r.add(1, "Approaching oversold RSI: %.1f", rsi)
		case rsi > 70:
			r.add(-1, "Overbought RSI: %.1f", rsi)
		}
	} else {
		r.missing("RSI")
	}

	ma50, ok50 := s.movingAverage(rec.MA50, rec.Closes, ShortMAPeriod)
	ma200, ok200 := s.movingAverage(rec.MA200, rec.Closes, LongMAPeriod)
	if ok50 && ok200 {
		r.metric("ma_50", round2(ma50))
		r.metric("ma_200", round2(ma200))
		if ma50 > ma200 {
			r.add(1, "50-day average above 200-day average (%.2f > %.2f)", ma50, ma200)
		} else {
			r.warn("50-day average below 200-day average (%.2f <= %.2f)", ma50, ma200)
		}
	} else {
		r.missing("Moving averages")
	}

	if hist, ok := s.macdHistogram(rec); ok {
		r.metric("macd_histogram", round2(hist))
		if hist > 0 {
			r.add(1, "Positive MACD momentum: %.2f", hist)
		} else {
			r.warn("Negative MACD momentum: %.2f", hist)
		}
	} else {
		r.missing("MACD")
	}

	return r.build()
}

func (s *TechnicalIndicatorsScorer) rsi(rec *domain.StockRecord) (float64, bool) {
	if v, ok := present(rec.RSI); ok {
		return v, true
	}
	return present(formulas.CalculateRSI(rec.Closes, formulas.DefaultRSIPeriod))
}

func (s *TechnicalIndicatorsScorer) movingAverage(field *float64, closes []float64, period int) (float64, bool) {
	if v, ok := present(field); ok {
		return v, true
	}
	return present(formulas.CalculateSMA(closes, period))
}

func (s *TechnicalIndicatorsScorer) macdHistogram(rec *domain.StockRecord) (float64, bool) {
	if v, ok := present(rec.MACDHistogram); ok {
		return v, true
	}
	line, okLine := present(rec.MACDLine)
	signal, okSignal := present(rec.MACDSignal)
	if okLine && okSignal {
		return line - signal, true
	}
	if m := formulas.CalculateMACD(rec.Closes, formulas.MACDFast, formulas.MACDSlow, formulas.MACDSignal); m != nil {
		return m.Histogram, true
	}
	return 0, false
}
