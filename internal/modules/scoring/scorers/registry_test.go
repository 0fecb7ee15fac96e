package scorers

import (
	"testing"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultScorers_Order(t *testing.T) {
	scorers := NewDefaultScorers(nil, NewSectorIndex(nil))

	names := make([]string, 0, len(scorers))
	for _, s := range scorers {
		names = append(names, s.Name())
	}

	assert.Equal(t, []string{
		NameOperatingEfficiency, NameFinancialHealth, NameValuation, NameDataQuality,
		NameRecentDecline, NameSectorRelative, NameIndustryDynamics, NameRegulatory,
		NameMacroeconomic, NameCulturalFit, NameGovernance, NameEconomicMoat,
		NameOwnership, NameGrowthMetrics, NameTechnical,
	}, names)
}

func TestScorers_AllMetricsAbsent(t *testing.T) {
	empty := &domain.StockRecord{Symbol: "EMPTY.NS"}

	for _, s := range NewDefaultScorers(nil, NewSectorIndex([]*domain.StockRecord{empty})) {
		t.Run(s.Name(), func(t *testing.T) {
			res := s.Evaluate(empty)
			assert.Equal(t, 0.0, res.Score)
			assert.NotEmpty(t, res.Warnings)
			assert.Empty(t, res.Reasons)
			assert.Equal(t, s.Name(), res.Evaluator)
			assert.Equal(t, s.Category(), res.Category)
		})
	}
}

func TestScorers_Deterministic(t *testing.T) {
	rec := &domain.StockRecord{
		Symbol:       "ITC.NS",
		Sector:       "Consumer Staples",
		Description:  "Dominant brand portfolio",
		ROE:          f(28),
		DebtToEquity: f(0.01),
		PERatio:      f(26),
		RSI:          f(45),
	}

	for _, s := range NewDefaultScorers(nil, NewSectorIndex([]*domain.StockRecord{rec})) {
		assert.Equal(t, s.Evaluate(rec), s.Evaluate(rec), s.Name())
	}
}
