// Package scorers provides the heuristic evaluators of the value-investing checklist.
package scorers

import (
	"fmt"
	"math"

	"github.com/aristath/moatwatch/internal/domain"
)

// Evaluator names, in the order the engine runs them
const (
	NameOperatingEfficiency = "operating_efficiency"
	NameFinancialHealth     = "financial_health"
	NameValuation           = "valuation"
	NameDataQuality         = "data_quality"
	NameRecentDecline       = "recent_decline"
	NameSectorRelative      = "sector_relative"
	NameIndustryDynamics    = "industry_dynamics"
	NameRegulatory          = "regulatory_environment"
	NameMacroeconomic       = "macroeconomic_factors"
	NameCulturalFit         = "cultural_fit"
	NameGovernance          = "corporate_governance"
	NameEconomicMoat        = "economic_moat"
	NameOwnership           = "ownership"
	NameGrowthMetrics       = "growth_metrics"
	NameTechnical           = "technical_indicators"
)

// Scorer is one heuristic applied to a single normalized record.
// Implementations are deterministic and never fail: missing data becomes a warning.
type Scorer interface {
	Name() string
	Category() domain.Category
	Evaluate(rec *domain.StockRecord) domain.EvaluationResult
}

// resultBuilder accumulates one evaluator's contributions
type resultBuilder struct {
	name     string
	category domain.Category
	score    float64
	reasons  []string
	warnings []string
	detail   string
	metrics  map[string]float64
}

func newResult(name string, category domain.Category) *resultBuilder {
	return &resultBuilder{
		name:     name,
		category: category,
		reasons:  []string{},
		warnings: []string{},
	}
}

// add records a scored contribution. Positive points are reasons,
// zero or negative points are warnings.
func (b *resultBuilder) add(points float64, format string, args ...interface{}) {
	b.score += points
	msg := fmt.Sprintf(format, args...)
	if points > 0 {
		b.reasons = append(b.reasons, msg)
	} else {
		b.warnings = append(b.warnings, msg)
	}
}

// warn records a concern without changing the score
func (b *resultBuilder) warn(format string, args ...interface{}) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// missing records a metric the evaluator needed but the record does not carry
func (b *resultBuilder) missing(metric string) {
	b.warn("%s not available", metric)
}

func (b *resultBuilder) metric(key string, value float64) {
	if b.metrics == nil {
		b.metrics = make(map[string]float64)
	}
	b.metrics[key] = value
}

func (b *resultBuilder) build() domain.EvaluationResult {
	return domain.EvaluationResult{
		Evaluator: b.name,
		Category:  b.category,
		Score:     round2(b.score),
		Reasons:   b.reasons,
		Warnings:  b.warnings,
		Detail:    b.detail,
		Metrics:   b.metrics,
	}
}

// present returns the value when p is set and finite
func present(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

// round2 rounds to 2 decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// crores formats rupees in crore, the unit Indian filings are read in
func crores(v float64) string {
	return fmt.Sprintf("₹%.0f Cr", v/1e7)
}
