package scorers

import (
	"strings"
	"testing"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var f = domain.Float

func assertAnyContains(t *testing.T, list []string, sub string) {
	t.Helper()
	for _, s := range list {
		if strings.Contains(s, sub) {
			return
		}
	}
	t.Errorf("no entry of %q contains %q", list, sub)
}

func TestOperatingEfficiencyScorer_ROE(t *testing.T) {
	tests := []struct {
		name      string
		roe       float64
		wantScore float64
		wantText  string
	}{
		{name: "excellent", roe: 22, wantScore: 3, wantText: "22"},
		{name: "strong", roe: 18, wantScore: 2, wantText: "18"},
		{name: "decent", roe: 12, wantScore: 1, wantText: "12"},
		{name: "boundary 20 is strong", roe: 20, wantScore: 2, wantText: "20"},
		{name: "low", roe: 8, wantScore: 0, wantText: "Low ROE"},
	}

	s := NewOperatingEfficiencyScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Evaluate(&domain.StockRecord{ROE: f(tt.roe)})
			assert.Equal(t, tt.wantScore, res.Score)
			all := append(append([]string{}, res.Reasons...), res.Warnings...)
			assert.Contains(t, all[0], tt.wantText)
		})
	}
}

func TestOperatingEfficiencyScorer_FreeCashFlow(t *testing.T) {
	tests := []struct {
		name      string
		fcf       *float64
		mcap      *float64
		wantScore float64
	}{
		{name: "excellent yield", fcf: f(9e8), mcap: f(1e10), wantScore: 3},
		{name: "yield of exactly 8 is strong", fcf: f(4e8), mcap: f(5e9), wantScore: 2},
		{name: "positive yield", fcf: f(4e8), mcap: f(1e10), wantScore: 1},
		{name: "low yield", fcf: f(1e8), mcap: f(1e10), wantScore: 0},
		{name: "positive fcf without market cap", fcf: f(1e8), mcap: nil, wantScore: 1},
		{name: "negative fcf", fcf: f(-1e8), mcap: f(1e10), wantScore: 0},
	}

	s := NewOperatingEfficiencyScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Evaluate(&domain.StockRecord{FreeCashFlow: tt.fcf, MarketCap: tt.mcap})
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestOperatingEfficiencyScorer_ProfitMargin(t *testing.T) {
	s := NewOperatingEfficiencyScorer()
	assert.Equal(t, 2.0, s.Evaluate(&domain.StockRecord{ProfitMargin: f(25)}).Score)
	assert.Equal(t, 1.0, s.Evaluate(&domain.StockRecord{ProfitMargin: f(15)}).Score)
	assert.Equal(t, 0.0, s.Evaluate(&domain.StockRecord{ProfitMargin: f(5)}).Score)

	res := s.Evaluate(&domain.StockRecord{ProfitMargin: f(-3)})
	assert.Equal(t, -1.0, res.Score)
	assert.Contains(t, res.Warnings, "Negative profit margin: -3.0%")
}

func TestFinancialHealthScorer_DebtToEquity(t *testing.T) {
	tests := []struct {
		de        float64
		wantScore float64
	}{
		{0.2, 3}, {0.3, 2}, {0.45, 2}, {0.6, 1}, {1.0, 0}, {1.5, 0}, {2.0, -1},
	}

	s := NewFinancialHealthScorer()
	for _, tt := range tests {
		res := s.Evaluate(&domain.StockRecord{DebtToEquity: f(tt.de)})
		assert.Equal(t, tt.wantScore, res.Score, "d/e %v", tt.de)
	}
}

func TestFinancialHealthScorer_MarketCapAndPayout(t *testing.T) {
	s := NewFinancialHealthScorer()

	assert.Equal(t, 1.0, s.Evaluate(&domain.StockRecord{MarketCap: f(2e10)}).Score)
	assert.Equal(t, 0.5, s.Evaluate(&domain.StockRecord{MarketCap: f(5e9)}).Score)

	small := s.Evaluate(&domain.StockRecord{MarketCap: f(1e8)})
	assert.Equal(t, 0.0, small.Score)
	assertAnyContains(t, small.Warnings, "Very small company")

	assert.Equal(t, 1.0, s.Evaluate(&domain.StockRecord{PayoutRatio: f(40), DividendYield: f(2)}).Score)
	assert.Equal(t, 0.0, s.Evaluate(&domain.StockRecord{PayoutRatio: f(40)}).Score, "payout without yield")

	high := s.Evaluate(&domain.StockRecord{PayoutRatio: f(95), DividendYield: f(4)})
	assert.Equal(t, 0.0, high.Score)
	assertAnyContains(t, high.Warnings, "unsustainable")
}

func TestValuationScorer_PERatio(t *testing.T) {
	tests := []struct {
		pe        float64
		wantScore float64
	}{
		{12, 3}, {15, 2}, {19, 2}, {22, 1}, {27, 0}, {30, 0}, {35, -1}, {-4, 0}, {0, 0},
	}

	s := NewValuationScorer()
	for _, tt := range tests {
		res := s.Evaluate(&domain.StockRecord{PERatio: f(tt.pe)})
		assert.Equal(t, tt.wantScore, res.Score, "pe %v", tt.pe)
	}

	res := s.Evaluate(&domain.StockRecord{PERatio: f(12)})
	require.NotEmpty(t, res.Reasons)
	assert.Contains(t, res.Reasons[0], "<15")
}

func TestValuationScorer_MarginOfSafety(t *testing.T) {
	tests := []struct {
		name      string
		iv        float64
		price     float64
		mos       float64
		wantScore float64
	}{
		{name: "large", iv: 200, price: 100, mos: 50, wantScore: 4},
		{name: "good", iv: 100, price: 65, mos: 35, wantScore: 3},
		{name: "moderate", iv: 100, price: 75, mos: 25, wantScore: 2},
		{name: "small", iv: 100, price: 85, mos: 15, wantScore: 1},
		{name: "thin", iv: 100, price: 95, mos: 5, wantScore: 0},
		{name: "price above intrinsic", iv: 100, price: 130, mos: 0, wantScore: -1},
	}

	s := NewValuationScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Evaluate(&domain.StockRecord{
				IntrinsicValue: f(tt.iv),
				CurrentPrice:   f(tt.price),
				MarginOfSafety: tt.mos,
			})
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestValuationScorer_PriceToBook(t *testing.T) {
	s := NewValuationScorer()
	assert.Equal(t, 1.0, s.Evaluate(&domain.StockRecord{PBRatio: f(1.2)}).Score)
	assert.Equal(t, 0.0, s.Evaluate(&domain.StockRecord{PBRatio: f(3)}).Score)

	res := s.Evaluate(&domain.StockRecord{PBRatio: f(8)})
	assert.Equal(t, 0.0, res.Score)
	assert.Contains(t, res.Warnings, "High price-to-book: 8.00")
}

func TestDataQualityScorer(t *testing.T) {
	tests := []struct {
		name      string
		rec       *domain.StockRecord
		wantScore float64
		wantIssue string
	}{
		{
			name:      "plausible values",
			rec:       &domain.StockRecord{ROE: f(20), DebtToEquity: f(0.4), PERatio: f(20), FreeCashFlow: f(5e8), MarketCap: f(1e10)},
			wantScore: 0,
		},
		{
			name:      "fcf yield above 20",
			rec:       &domain.StockRecord{FreeCashFlow: f(3e9), MarketCap: f(1e10)},
			wantScore: -2,
			wantIssue: "Suspicious FCF yield",
		},
		{
			name:      "financial sector stricter fcf bound",
			rec:       &domain.StockRecord{Sector: "Financial Services", FreeCashFlow: f(1.5e9), MarketCap: f(1e10)},
			wantScore: -2,
			wantIssue: "(>10%)",
		},
		{
			name:      "same yield fine outside financials",
			rec:       &domain.StockRecord{Sector: "Technology", FreeCashFlow: f(1.5e9), MarketCap: f(1e10)},
			wantScore: 0,
		},
		{
			name:      "debt to equity above 10",
			rec:       &domain.StockRecord{DebtToEquity: f(12)},
			wantScore: -2,
			wantIssue: "Suspicious debt-to-equity",
		},
		{
			name:      "absurd roe",
			rec:       &domain.StockRecord{ROE: f(-150)},
			wantScore: -1,
			wantIssue: "Suspicious ROE",
		},
		{
			name:      "absurd pe",
			rec:       &domain.StockRecord{PERatio: f(450)},
			wantScore: -1,
			wantIssue: "Suspicious P/E",
		},
		{
			name:      "margin above 100",
			rec:       &domain.StockRecord{ProfitMargin: f(140)},
			wantScore: -1,
			wantIssue: "Suspicious profit margin",
		},
		{
			name:      "margin of safety above 90",
			rec:       &domain.StockRecord{IntrinsicValue: f(1000), MarginOfSafety: 95},
			wantScore: -1,
			wantIssue: "Suspicious margin of safety",
		},
		{
			name:      "penalties accumulate",
			rec:       &domain.StockRecord{DebtToEquity: f(15), ROE: f(300), PERatio: f(500)},
			wantScore: -4,
		},
	}

	s := NewDataQualityScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Evaluate(tt.rec)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Empty(t, res.Reasons)
			if tt.wantIssue != "" {
				require.NotEmpty(t, res.Warnings)
				assert.Contains(t, res.Warnings[0], tt.wantIssue)
			}
			if tt.wantScore == 0 {
				assert.Empty(t, res.Warnings)
			}
		})
	}
}

func TestRecentDeclineScorer(t *testing.T) {
	s := NewRecentDeclineScorer()

	res := s.Evaluate(&domain.StockRecord{
		EarningsGrowth: f(-12),
		RevenueYoY:     f(-8),
		NetProfitQoQ:   f(-20),
	})
	assert.Equal(t, -4.5, res.Score)
	assert.Len(t, res.Warnings, 3)
	assert.Empty(t, res.Reasons)

	assert.Equal(t, -2.0, s.Evaluate(&domain.StockRecord{EarningsGrowth: f(-6), RevenueYoY: f(3), NetProfitQoQ: f(1)}).Score)
	assert.Equal(t, -1.5, s.Evaluate(&domain.StockRecord{EarningsGrowth: f(2), RevenueYoY: f(-5.5), NetProfitQoQ: f(1)}).Score)

	flat := s.Evaluate(&domain.StockRecord{EarningsGrowth: f(-5), RevenueYoY: f(-5), NetProfitQoQ: f(-5)})
	assert.Equal(t, 0.0, flat.Score, "exactly -5 is not a decline")
	assert.Empty(t, flat.Warnings)

	partial := s.Evaluate(&domain.StockRecord{RevenueYoY: f(10)})
	assert.Equal(t, []string{"Recent performance data not available: Earnings growth, Net profit QoQ"}, partial.Warnings)
}
