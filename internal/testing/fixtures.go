package testing

import (
	"github.com/aristath/moatwatch/internal/domain"
)

// NewQualityCompounder returns the reference quality stock used across tests:
// high ROE, almost no debt, cheap on earnings, favorable sector.
func NewQualityCompounder(symbol string) *domain.StockRecord {
	return &domain.StockRecord{
		Symbol:       symbol,
		Name:         "Quality Compounder Ltd",
		Sector:       "Consumer Staples",
		ROE:          domain.Float(22),
		DebtToEquity: domain.Float(0.2),
		PERatio:      domain.Float(12),
		EPS:          domain.Float(10),
		CurrentPrice: domain.Float(100),
		MarketCap:    domain.Float(5e9),
		FreeCashFlow: domain.Float(4e8),
	}
}

// NewStockFixtures returns a small mixed universe: three Technology peers,
// two Consumer Staples peers and a stock with no sector.
func NewStockFixtures() map[string]*domain.StockRecord {
	return map[string]*domain.StockRecord{
		"TCS.NS": {
			Symbol:       "TCS.NS",
			Name:         "Tata Consultancy Services",
			Sector:       "Technology",
			Industry:     "Information Technology Services",
			Description:  "Global IT services firm with long-term client relationships and high switching costs",
			CurrentPrice: domain.Float(3500),
			MarketCap:    domain.Float(1.28e13),
			PERatio:      domain.Float(28),
			PBRatio:      domain.Float(12),
			ROE:          domain.Float(45),
			DebtToEquity: domain.Float(0.05),
			ProfitMargin: domain.Float(19),
			FreeCashFlow: domain.Float(4.2e11),
			EPS:          domain.Float(125),
			RevenueYoY:   domain.Float(9),
		},
		"INFY.NS": {
			Symbol:       "INFY.NS",
			Name:         "Infosys",
			Sector:       "Technology",
			CurrentPrice: domain.Float(1500),
			MarketCap:    domain.Float(6.2e12),
			PERatio:      domain.Float(24),
			ROE:          domain.Float(31),
			DebtToEquity: domain.Float(0.1),
			EPS:          domain.Float(62),
			RevenueYoY:   domain.Float(6),
		},
		"WIPRO.NS": {
			Symbol:       "WIPRO.NS",
			Name:         "Wipro",
			Sector:       "Technology",
			CurrentPrice: domain.Float(450),
			MarketCap:    domain.Float(2.4e12),
			PERatio:      domain.Float(20),
			ROE:          domain.Float(15),
			DebtToEquity: domain.Float(0.2),
			EPS:          domain.Float(22),
			RevenueYoY:   domain.Float(-1),
		},
		"ITC.NS": {
			Symbol:        "ITC.NS",
			Name:          "ITC",
			Sector:        "Consumer Staples",
			CurrentPrice:  domain.Float(430),
			MarketCap:     domain.Float(5.4e12),
			PERatio:       domain.Float(26),
			ROE:           domain.Float(28),
			DebtToEquity:  domain.Float(0.01),
			EPS:           domain.Float(16),
			DividendYield: domain.Float(3.2),
			PayoutRatio:   domain.Float(85),
		},
		"HUL.NS": {
			Symbol:       "HUL.NS",
			Name:         "Hindustan Unilever",
			Sector:       "Consumer Staples",
			CurrentPrice: domain.Float(2400),
			MarketCap:    domain.Float(5.6e12),
			PERatio:      domain.Float(55),
			ROE:          domain.Float(20),
			DebtToEquity: domain.Float(0.03),
			EPS:          domain.Float(44),
		},
		"MYSTERY.BO": {
			Symbol:       "MYSTERY.BO",
			Name:         "Mystery Holdings",
			Sector:       domain.UnknownSector,
			CurrentPrice: domain.Float(12),
		},
	}
}

// NewErrorFixture returns an acquisition failure record
func NewErrorFixture(symbol string) domain.ErrorRecord {
	return domain.ErrorRecord{Symbol: symbol, Error: "no data"}
}
