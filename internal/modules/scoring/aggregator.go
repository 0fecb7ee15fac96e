package scoring

import (
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring/scorers"
)

const sectorAvgPrefix = "sector_avg_"

// keyMetrics are checked for presence on every record, independently of the evaluators
var keyMetrics = []struct {
	name  string
	value func(r *domain.StockRecord) *float64
}{
	{"roe", func(r *domain.StockRecord) *float64 { return r.ROE }},
	{"debt_to_equity", func(r *domain.StockRecord) *float64 { return r.DebtToEquity }},
	{"pe_ratio", func(r *domain.StockRecord) *float64 { return r.PERatio }},
	{"market_cap", func(r *domain.StockRecord) *float64 { return r.MarketCap }},
	{"current_price", func(r *domain.StockRecord) *float64 { return r.CurrentPrice }},
}

// MissingKeyMetrics lists the key metrics the record does not carry
func MissingKeyMetrics(rec *domain.StockRecord) []string {
	missing := []string{}
	for _, m := range keyMetrics {
		if m.value(rec) == nil {
			missing = append(missing, m.name)
		}
	}
	return missing
}

// Aggregate folds the evaluator results for one record into a ScoredStock.
// The total is the exact sum of the evaluator scores; reasons and warnings
// keep the order of results.
func Aggregate(rec *domain.StockRecord, results []domain.EvaluationResult) domain.ScoredStock {
	s := domain.ScoredStock{
		Symbol:             rec.Symbol,
		Name:               rec.Name,
		Sector:             rec.Sector,
		Price:              domain.Value(rec.CurrentPrice),
		IntrinsicValue:     domain.Value(rec.IntrinsicValue),
		MarginOfSafety:     rec.MarginOfSafety,
		PERatio:            domain.Value(rec.PERatio),
		ROE:                domain.Value(rec.ROE),
		DebtToEquity:       domain.Value(rec.DebtToEquity),
		MarketCap:          domain.Value(rec.MarketCap),
		Subtotals:          make(map[domain.Category]float64),
		Reasons:            []string{},
		Warnings:           []string{},
		MissingData:        MissingKeyMetrics(rec),
		DataQualityIssues:  []string{},
		QualitativeFactors: make(map[string]domain.FactorDetail),
		Evaluations:        make([]domain.EvaluationResult, 0, len(results)),
	}

	if len(rec.ValuationMethods) > 0 {
		s.ValuationMethods = make(map[string]domain.ValuationMethod, len(rec.ValuationMethods))
		for k, v := range rec.ValuationMethods {
			s.ValuationMethods[k] = v
		}
	}

	for _, res := range results {
		s.Total += res.Score
		s.Subtotals[res.Category] += res.Score
		s.Reasons = append(s.Reasons, res.Reasons...)
		s.Warnings = append(s.Warnings, res.Warnings...)
		s.Evaluations = append(s.Evaluations, res)

		switch {
		case res.Evaluator == scorers.NameDataQuality:
			s.DataQualityIssues = append(s.DataQualityIssues, res.Warnings...)
		case res.Category == domain.CategoryQualitative:
			s.QualitativeFactors[res.Evaluator] = domain.FactorDetail{
				Score:  res.Score,
				Reason: factorReason(res),
			}
		}

		for k, v := range res.Metrics {
			if strings.HasPrefix(k, sectorAvgPrefix) {
				if s.SectorAverages == nil {
					s.SectorAverages = make(map[string]float64)
				}
				s.SectorAverages[strings.TrimPrefix(k, sectorAvgPrefix)] = v
			}
		}
	}

	return s
}

// factorReason is the one-line explanation shown next to a qualitative score
func factorReason(res domain.EvaluationResult) string {
	switch {
	case res.Detail != "":
		return res.Detail
	case len(res.Reasons) > 0:
		return res.Reasons[0]
	case len(res.Warnings) > 0:
		return res.Warnings[0]
	default:
		return ""
	}
}
