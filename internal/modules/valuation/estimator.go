// Package valuation estimates intrinsic value per share and the margin of safety.
package valuation

import (
	"fmt"
	"math"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/pkg/formulas"
)

// Method names
const (
	MethodDCF      = "dcf"
	MethodEnsemble = "ensemble"

	MethodGraham           = "graham"
	MethodDividendDiscount = "dividend_discount"
	MethodPEMultiple       = "pe_multiple"
	MethodBookValue        = "book_value"
)

// Estimate is the outcome of valuing one record
type Estimate struct {
	IntrinsicValue *float64
	MarginOfSafety float64
	// Method is MethodDCF, MethodEnsemble, or empty when nothing could be estimated
	Method string
	// Methods holds the individual fallback estimates; nil when the DCF succeeded
	Methods map[string]domain.ValuationMethod
}

// Estimator computes intrinsic value with a DCF and falls back to an ensemble
type Estimator struct {
	params DCFParameters
}

// NewEstimator creates an estimator with the default DCF parameters
func NewEstimator() *Estimator {
	return &Estimator{params: DefaultDCFParameters()}
}

// NewEstimatorWithParams creates an estimator with custom DCF parameters
func NewEstimatorWithParams(params DCFParameters) *Estimator {
	return &Estimator{params: params}
}

// Estimate values a record. It never fails: methods that cannot be computed are skipped.
func (e *Estimator) Estimate(rec *domain.StockRecord) Estimate {
	if iv, ok := e.dcf(rec); ok {
		return Estimate{
			IntrinsicValue: domain.Float(iv),
			MarginOfSafety: MarginOfSafety(iv, domain.Value(rec.CurrentPrice)),
			Method:         MethodDCF,
		}
	}

	methods := e.ensemble(rec)
	if len(methods) == 0 {
		return Estimate{}
	}

	values := make([]float64, 0, len(methods))
	for _, m := range methods {
		values = append(values, m.Value)
	}
	iv := formulas.Median(values)

	return Estimate{
		IntrinsicValue: domain.Float(iv),
		MarginOfSafety: MarginOfSafety(iv, domain.Value(rec.CurrentPrice)),
		Method:         MethodEnsemble,
		Methods:        methods,
	}
}

// Apply returns a copy of rec with the estimate written onto it
func (e *Estimator) Apply(rec *domain.StockRecord) *domain.StockRecord {
	out := rec.Clone()
	est := e.Estimate(rec)
	out.IntrinsicValue = est.IntrinsicValue
	out.MarginOfSafety = est.MarginOfSafety
	out.ValuationMethods = est.Methods
	return out
}

// GrowthRate returns the projection growth for a record: earnings growth
// (percent) as a fraction, or the default, clamped to the configured bounds
func (e *Estimator) GrowthRate(rec *domain.StockRecord) float64 {
	g := e.params.DefaultGrowthRate
	if rec.EarningsGrowth != nil && isFinite(*rec.EarningsGrowth) {
		g = *rec.EarningsGrowth / 100
	}
	return math.Max(e.params.MinGrowthRate, math.Min(e.params.MaxGrowthRate, g))
}

// dcf projects EPS forward and discounts it plus a perpetuity terminal value.
// It requires positive EPS and a positive P/E to corroborate the earnings.
func (e *Estimator) dcf(rec *domain.StockRecord) (float64, bool) {
	if rec.EPS == nil || *rec.EPS <= 0 {
		return 0, false
	}
	if rec.PERatio == nil || *rec.PERatio <= 0 {
		return 0, false
	}

	value := DiscountedEarnings(*rec.EPS, e.GrowthRate(rec), e.params)
	if !isFinite(value) || value <= 0 {
		return 0, false
	}
	return value, true
}

// DiscountedEarnings is the present value of years of compounding earnings plus
// a terminal value at the final year. It returns 0 when the discount rate does
// not exceed the terminal growth rate.
func DiscountedEarnings(eps, growth float64, p DCFParameters) float64 {
	if p.ProjectionYears <= 0 || p.DiscountRate <= p.TerminalGrowthRate {
		return 0
	}

	var pv, earnings float64
	for t := 1; t <= p.ProjectionYears; t++ {
		earnings = eps * math.Pow(1+growth, float64(t))
		pv += earnings / math.Pow(1+p.DiscountRate, float64(t))
	}

	terminal := earnings * (1 + p.TerminalGrowthRate) / (p.DiscountRate - p.TerminalGrowthRate)
	pv += terminal / math.Pow(1+p.DiscountRate, float64(p.ProjectionYears))

	return pv
}

// ensemble computes every fallback method that applies to the record
func (e *Estimator) ensemble(rec *domain.StockRecord) map[string]domain.ValuationMethod {
	methods := make(map[string]domain.ValuationMethod)
	add := func(name string, value float64, description string) {
		if isFinite(value) && value > 0 {
			methods[name] = domain.ValuationMethod{Value: value, Description: description}
		}
	}

	sector := rec.Sector
	eps := rec.EPS

	if eps != nil {
		g := GrahamGrowth.Lookup(sector)
		add(MethodGraham, *eps*(8.5+2*g),
			fmt.Sprintf("Graham's formula: EPS x (8.5 + 2 x %.0f%% growth)", g))
	}

	if v, ok := dividendDiscount(rec); ok {
		g := DividendGrowth.Lookup(sector)
		add(MethodDividendDiscount, v,
			fmt.Sprintf("Dividend discount model: %.0f%% growth, %.0f%% discount rate", g*100, DividendDiscountRate*100))
	}

	if eps != nil {
		m := PEMultiple.Lookup(sector)
		add(MethodPEMultiple, *eps*m, fmt.Sprintf("P/E multiple method: EPS x %.0f", m))
	}

	if rec.BookValue != nil {
		m := BookMultiple.Lookup(sector)
		add(MethodBookValue, *rec.BookValue*m, fmt.Sprintf("Book value method: book value x %.1f", m))
	}

	return methods
}

// dividendDiscount applies the Gordon growth model to the dividend implied by
// yield and price
func dividendDiscount(rec *domain.StockRecord) (float64, bool) {
	if rec.DividendYield == nil || *rec.DividendYield <= 0 {
		return 0, false
	}
	if rec.CurrentPrice == nil || *rec.CurrentPrice <= 0 {
		return 0, false
	}

	g := DividendGrowth.Lookup(rec.Sector)
	if DividendDiscountRate <= g {
		return 0, false
	}

	dividend := *rec.DividendYield / 100 * *rec.CurrentPrice
	return dividend * (1 + g) / (DividendDiscountRate - g), true
}

// MarginOfSafety is the percentage discount of price below intrinsic value.
// It is 0 unless intrinsic value exceeds a positive price.
func MarginOfSafety(intrinsic, price float64) float64 {
	if price <= 0 || intrinsic <= price || !isFinite(intrinsic) {
		return 0
	}
	return (intrinsic - price) / intrinsic * 100
}

// PremiumToIntrinsic is how far price sits above intrinsic value, in percent
// of intrinsic value. It is 0 when price is at or below intrinsic value.
func PremiumToIntrinsic(intrinsic, price float64) float64 {
	if intrinsic <= 0 || price <= intrinsic || !isFinite(price) {
		return 0
	}
	return (price - intrinsic) / intrinsic * 100
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
