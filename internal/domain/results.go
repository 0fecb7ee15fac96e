package domain

// Category groups evaluators into the subtotals shown on the report
type Category string

const (
	CategoryFundamental     Category = "fundamental"
	CategoryQualitative     Category = "qualitative"
	CategoryGrowthTechnical Category = "growth_technical"
)

// EvaluationResult is the immutable output of one evaluator for one stock
type EvaluationResult struct {
	Evaluator string   `json:"evaluator" msgpack:"evaluator"`
	Category  Category `json:"category" msgpack:"category"`
	Score     float64  `json:"score" msgpack:"score"`
	Reasons   []string `json:"reasons" msgpack:"reasons"`
	Warnings  []string `json:"warnings" msgpack:"warnings"`
	// Detail is a one-line summary used by the qualitative factor map
	Detail string `json:"detail,omitempty" msgpack:"detail,omitempty"`
	// Metrics carries display values the evaluator derived (e.g. sector averages)
	Metrics map[string]float64 `json:"metrics,omitempty" msgpack:"metrics,omitempty"`
}

// FactorDetail is one entry in the qualitative factor map
type FactorDetail struct {
	Score  float64 `json:"score" msgpack:"score"`
	Reason string  `json:"reason" msgpack:"reason"`
}

// ScoredStock is the aggregate of one StockRecord and every evaluator result
type ScoredStock struct {
	Symbol string `json:"symbol" msgpack:"symbol"`
	Name   string `json:"name" msgpack:"name"`
	Sector string `json:"sector" msgpack:"sector"`

	// Display fields
	Price          float64 `json:"price" msgpack:"price"`
	IntrinsicValue float64 `json:"intrinsic_value" msgpack:"intrinsic_value"`
	MarginOfSafety float64 `json:"margin_of_safety" msgpack:"margin_of_safety"`
	PERatio        float64 `json:"pe_ratio" msgpack:"pe_ratio"`
	ROE            float64 `json:"roe" msgpack:"roe"`
	DebtToEquity   float64 `json:"debt_to_equity" msgpack:"debt_to_equity"`
	MarketCap      float64 `json:"market_cap" msgpack:"market_cap"`

	Subtotals map[Category]float64 `json:"subtotals" msgpack:"subtotals"`
	Total     float64              `json:"score" msgpack:"score"`
	IsPick    bool                 `json:"is_pick" msgpack:"is_pick"`

	Reasons            []string                   `json:"reasons" msgpack:"reasons"`
	Warnings           []string                   `json:"warnings" msgpack:"warnings"`
	MissingData        []string                   `json:"missing_data" msgpack:"missing_data"`
	DataQualityIssues  []string                   `json:"data_quality_issues" msgpack:"data_quality_issues"`
	QualitativeFactors map[string]FactorDetail    `json:"qualitative_factors" msgpack:"qualitative_factors"`
	SectorAverages     map[string]float64         `json:"sector_averages,omitempty" msgpack:"sector_averages,omitempty"`
	ValuationMethods   map[string]ValuationMethod `json:"valuation_methods,omitempty" msgpack:"valuation_methods,omitempty"`
	Evaluations        []EvaluationResult         `json:"evaluations" msgpack:"evaluations"`
}

// Subtotal returns the subtotal for a category (0 when none)
func (s ScoredStock) Subtotal(c Category) float64 {
	return s.Subtotals[c]
}
