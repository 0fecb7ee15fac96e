// Package domain provides core domain models and types.
package domain

import (
	"sort"
	"strings"
)

// Exchange represents the listing venue encoded in a ticker suffix
type Exchange string

const (
	// ExchangeNSE represents the National Stock Exchange (".NS" suffix)
	ExchangeNSE Exchange = "NSE"
	// ExchangeBSE represents the Bombay Stock Exchange (".BO" suffix)
	ExchangeBSE Exchange = "BSE"
)

// UnknownSector is the placeholder the data collector writes when no sector is known
const UnknownSector = "Unknown"

// ExchangeOf returns the exchange for an exchange-qualified symbol.
// Anything without the NSE suffix is treated as BSE.
func ExchangeOf(symbol string) Exchange {
	if strings.HasSuffix(strings.ToUpper(symbol), ".NS") {
		return ExchangeNSE
	}
	return ExchangeBSE
}

// DisplaySymbol strips the exchange suffix from a ticker
func DisplaySymbol(symbol string) string {
	upper := strings.ToUpper(symbol)
	for _, suffix := range []string{".NS", ".BO"} {
		if strings.HasSuffix(upper, suffix) {
			return symbol[:len(symbol)-len(suffix)]
		}
	}
	return symbol
}

// ValuationMethod is one alternative intrinsic value estimate
type ValuationMethod struct {
	Value       float64 `json:"value" msgpack:"value"`
	Description string  `json:"description" msgpack:"description"`
}

// StockRecord holds the fundamentals and technicals of one ticker for a single run.
// All metrics are pointers: nil means the provider did not supply the value,
// which is a different state from a reported zero.
type StockRecord struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`

	// Fundamentals
	CurrentPrice   *float64 `json:"current_price,omitempty"`
	MarketCap      *float64 `json:"market_cap,omitempty"`
	PERatio        *float64 `json:"pe_ratio,omitempty"`
	PBRatio        *float64 `json:"pb_ratio,omitempty"`
	ROE            *float64 `json:"roe,omitempty"`            // percent
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"` // ratio after normalization
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`  // percent
	FreeCashFlow   *float64 `json:"free_cash_flow,omitempty"`
	EPS            *float64 `json:"eps,omitempty"`
	BookValue      *float64 `json:"book_value,omitempty"`
	DividendYield  *float64 `json:"dividend_yield,omitempty"` // percent
	PayoutRatio    *float64 `json:"payout_ratio,omitempty"`   // percent
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`

	// Period-over-period growth, percent
	RevenueYoY         *float64 `json:"revenue_yoy,omitempty"`
	RevenueQoQ         *float64 `json:"revenue_qoq,omitempty"`
	OperatingProfitYoY *float64 `json:"operating_profit_yoy,omitempty"`
	OperatingProfitQoQ *float64 `json:"operating_profit_qoq,omitempty"`
	NetProfitYoY       *float64 `json:"net_profit_yoy,omitempty"`
	NetProfitQoQ       *float64 `json:"net_profit_qoq,omitempty"`

	// Shareholding, percent
	InsiderHoldingPct       *float64 `json:"insider_holding_pct,omitempty"`
	InstitutionalHoldingPct *float64 `json:"institutional_holding_pct,omitempty"`
	FIIHoldingPct           *float64 `json:"fii_holding_pct,omitempty"`
	DIIHoldingPct           *float64 `json:"dii_holding_pct,omitempty"`
	PromoterHoldingPct      *float64 `json:"promoter_holding_pct,omitempty"`
	PromoterHoldingChange   *float64 `json:"promoter_holding_change,omitempty"`

	// Technicals
	RSI           *float64  `json:"rsi,omitempty"`
	MA50          *float64  `json:"ma_50,omitempty"`
	MA200         *float64  `json:"ma_200,omitempty"`
	MACDLine      *float64  `json:"macd_line,omitempty"`
	MACDSignal    *float64  `json:"macd_signal,omitempty"`
	MACDHistogram *float64  `json:"macd_histogram,omitempty"`
	Closes        []float64 `json:"closes,omitempty"`

	// Derived by the scoring core
	IntrinsicValue   *float64                   `json:"intrinsic_value,omitempty"`
	MarginOfSafety   float64                    `json:"margin_of_safety"`
	ValuationMethods map[string]ValuationMethod `json:"valuation_methods,omitempty"`
	Normalized       bool                       `json:"-"`
}

// Clone returns a copy that shares no mutable state with the receiver
func (r *StockRecord) Clone() *StockRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.Closes != nil {
		c.Closes = append([]float64(nil), r.Closes...)
	}
	if r.ValuationMethods != nil {
		c.ValuationMethods = make(map[string]ValuationMethod, len(r.ValuationMethods))
		for k, v := range r.ValuationMethods {
			c.ValuationMethods[k] = v
		}
	}
	return &c
}

// HasSector reports whether the record carries a usable sector
func (r *StockRecord) HasSector() bool {
	s := strings.TrimSpace(r.Sector)
	return s != "" && !strings.EqualFold(s, UnknownSector)
}

// SectorKey is the normalized sector used to group peers
func (r *StockRecord) SectorKey() string {
	return strings.ToLower(strings.TrimSpace(r.Sector))
}

// IsFinancialSector reports whether the record belongs to banks, NBFCs or insurers.
// Their FCF-to-market-cap ratio is structurally different from operating companies.
func (r *StockRecord) IsFinancialSector() bool {
	s := strings.ToLower(r.Sector + " " + r.Industry)
	for _, kw := range []string{"financial", "bank", "insurance", "nbfc", "capital markets"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ErrorRecord is what the collector writes when a symbol could not be fetched
type ErrorRecord struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error"`
}

// Snapshot is one run's worth of input: valid records plus acquisition failures
type Snapshot struct {
	Records map[string]*StockRecord
	Errors  map[string]ErrorRecord
	// Order is the symbol iteration order, used to break score ties
	Order []string
}

// NewSnapshot builds a snapshot and derives a deterministic symbol order
func NewSnapshot(records map[string]*StockRecord, errs map[string]ErrorRecord) *Snapshot {
	if records == nil {
		records = map[string]*StockRecord{}
	}
	if errs == nil {
		errs = map[string]ErrorRecord{}
	}
	order := make([]string, 0, len(records))
	for symbol := range records {
		order = append(order, symbol)
	}
	sort.Strings(order)
	return &Snapshot{Records: records, Errors: errs, Order: order}
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Value dereferences p, returning 0 for nil
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
