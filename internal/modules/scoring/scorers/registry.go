package scorers

import (
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
)

// NewDefaultScorers returns the full checklist in its fixed evaluation order.
// The order determines how reasons and warnings are concatenated.
func NewDefaultScorers(tables *scoringdomain.Tables, index *SectorIndex) []Scorer {
	if tables == nil {
		tables = scoringdomain.DefaultTables()
	}
	return []Scorer{
		NewOperatingEfficiencyScorer(),
		NewFinancialHealthScorer(),
		NewValuationScorer(),
		NewDataQualityScorer(),
		NewRecentDeclineScorer(),
		NewSectorRelativeScorer(index),
		NewIndustryDynamicsScorer(tables),
		NewRegulatoryScorer(tables),
		NewMacroeconomicScorer(tables),
		NewCulturalFitScorer(tables),
		NewGovernanceScorer(tables),
		NewEconomicMoatScorer(tables),
		NewOwnershipScorer(),
		NewGrowthMetricsScorer(),
		NewTechnicalIndicatorsScorer(),
	}
}
