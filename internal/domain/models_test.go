package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeOf(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected Exchange
	}{
		{name: "NSE suffix", symbol: "TCS.NS", expected: ExchangeNSE},
		{name: "lowercase NSE suffix", symbol: "tcs.ns", expected: ExchangeNSE},
		{name: "BSE suffix", symbol: "500325.BO", expected: ExchangeBSE},
		{name: "no suffix", symbol: "RELIANCE", expected: ExchangeBSE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExchangeOf(tt.symbol))
		})
	}
}

func TestDisplaySymbol(t *testing.T) {
	assert.Equal(t, "TCS", DisplaySymbol("TCS.NS"))
	assert.Equal(t, "500325", DisplaySymbol("500325.BO"))
	assert.Equal(t, "INFY", DisplaySymbol("INFY"))
}

func TestStockRecord_Clone(t *testing.T) {
	rec := &StockRecord{
		Symbol:       "ITC.NS",
		DebtToEquity: Float(0.1),
		Closes:       []float64{1, 2, 3},
		ValuationMethods: map[string]ValuationMethod{
			"graham": {Value: 100, Description: "Graham"},
		},
	}

	clone := rec.Clone()
	require.NotNil(t, clone)

	clone.Closes[0] = 99
	clone.ValuationMethods["graham"] = ValuationMethod{Value: 1}
	*clone.DebtToEquity = 5

	assert.Equal(t, 1.0, rec.Closes[0], "closes must not be shared")
	assert.Equal(t, 100.0, rec.ValuationMethods["graham"].Value, "valuation methods must not be shared")
	// Pointer metrics are shared on purpose: evaluators never write through them
	assert.Equal(t, 5.0, *rec.DebtToEquity)

	var nilRec *StockRecord
	assert.Nil(t, nilRec.Clone())
}

func TestStockRecord_HasSector(t *testing.T) {
	assert.True(t, (&StockRecord{Sector: "Technology"}).HasSector())
	assert.False(t, (&StockRecord{Sector: ""}).HasSector())
	assert.False(t, (&StockRecord{Sector: "  "}).HasSector())
	assert.False(t, (&StockRecord{Sector: "unknown"}).HasSector())
	assert.False(t, (&StockRecord{Sector: UnknownSector}).HasSector())
}

func TestStockRecord_IsFinancialSector(t *testing.T) {
	assert.True(t, (&StockRecord{Sector: "Financial Services"}).IsFinancialSector())
	assert.True(t, (&StockRecord{Sector: "Banking"}).IsFinancialSector())
	assert.True(t, (&StockRecord{Sector: "Other", Industry: "Insurance - Life"}).IsFinancialSector())
	assert.False(t, (&StockRecord{Sector: "Consumer Defensive"}).IsFinancialSector())
}

func TestNewSnapshot_OrdersSymbols(t *testing.T) {
	snap := NewSnapshot(map[string]*StockRecord{
		"ZEEL.NS": {Symbol: "ZEEL.NS"},
		"ACC.NS":  {Symbol: "ACC.NS"},
		"ITC.NS":  {Symbol: "ITC.NS"},
	}, nil)

	assert.Equal(t, []string{"ACC.NS", "ITC.NS", "ZEEL.NS"}, snap.Order)
	assert.NotNil(t, snap.Errors)
}

func TestValue(t *testing.T) {
	assert.Equal(t, 0.0, Value(nil))
	assert.Equal(t, 4.2, Value(Float(4.2)))
}
