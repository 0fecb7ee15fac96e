package snapshot

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
)

// alias is one provider key for a metric. Scale converts the provider's unit
// into the record's: Yahoo-style keys carry ratios as fractions (0.22) where
// the record holds percentages (22).
type alias struct {
	key   string
	scale float64
}

// percentOfFraction is the scale for provider keys holding fractions
const percentOfFraction = 100

// numericField maps one record metric to the keys providers have used for it.
// Keys are tried in order and the first present, finite number wins.
type numericField struct {
	keys  []alias
	field func(r *domain.StockRecord) **float64
}

// plainKeys builds unscaled aliases
func plainKeys(names ...string) []alias {
	out := make([]alias, 0, len(names))
	for _, n := range names {
		out = append(out, alias{key: n, scale: 1})
	}
	return out
}

// withFraction appends a provider key whose value is a fraction
func withFraction(aliases []alias, names ...string) []alias {
	for _, n := range names {
		aliases = append(aliases, alias{key: n, scale: percentOfFraction})
	}
	return aliases
}

var numericFields = []numericField{
	{plainKeys("current_price", "currentPrice", "regularMarketPrice", "price", "previousClose"),
		func(r *domain.StockRecord) **float64 { return &r.CurrentPrice }},
	{plainKeys("market_cap", "marketCap"),
		func(r *domain.StockRecord) **float64 { return &r.MarketCap }},
	{plainKeys("pe_ratio", "trailingPE", "forwardPE"),
		func(r *domain.StockRecord) **float64 { return &r.PERatio }},
	{plainKeys("pb_ratio", "priceToBook"),
		func(r *domain.StockRecord) **float64 { return &r.PBRatio }},
	{withFraction(plainKeys("roe"), "returnOnEquity"),
		func(r *domain.StockRecord) **float64 { return &r.ROE }},
	{plainKeys("debt_to_equity", "debtToEquity"),
		func(r *domain.StockRecord) **float64 { return &r.DebtToEquity }},
	{withFraction(plainKeys("profit_margin"), "profitMargins"),
		func(r *domain.StockRecord) **float64 { return &r.ProfitMargin }},
	{plainKeys("free_cash_flow", "fcf", "freeCashflow"),
		func(r *domain.StockRecord) **float64 { return &r.FreeCashFlow }},
	{plainKeys("eps", "trailingEps", "trailingEPS", "forwardEps", "forwardEPS"),
		func(r *domain.StockRecord) **float64 { return &r.EPS }},
	{plainKeys("book_value", "bookValue"),
		func(r *domain.StockRecord) **float64 { return &r.BookValue }},
	{plainKeys("dividend_yield", "dividendYield", "fiveYearAvgDividendYield"),
		func(r *domain.StockRecord) **float64 { return &r.DividendYield }},
	{withFraction(plainKeys("payout_ratio"), "payoutRatio"),
		func(r *domain.StockRecord) **float64 { return &r.PayoutRatio }},
	{withFraction(plainKeys("earnings_growth"), "earningsGrowth"),
		func(r *domain.StockRecord) **float64 { return &r.EarningsGrowth }},
	{withFraction(plainKeys("revenue_yoy", "revenue_growth_yoy"), "revenueGrowth"),
		func(r *domain.StockRecord) **float64 { return &r.RevenueYoY }},
	{plainKeys("revenue_qoq", "revenue_growth_qoq"),
		func(r *domain.StockRecord) **float64 { return &r.RevenueQoQ }},
	{plainKeys("operating_profit_yoy", "operating_profit_growth_yoy"),
		func(r *domain.StockRecord) **float64 { return &r.OperatingProfitYoY }},
	{plainKeys("operating_profit_qoq", "operating_profit_growth_qoq"),
		func(r *domain.StockRecord) **float64 { return &r.OperatingProfitQoQ }},
	{plainKeys("net_profit_yoy", "net_profit_growth_yoy"),
		func(r *domain.StockRecord) **float64 { return &r.NetProfitYoY }},
	{plainKeys("net_profit_qoq", "net_profit_growth_qoq"),
		func(r *domain.StockRecord) **float64 { return &r.NetProfitQoQ }},
	{withFraction(plainKeys("insider_holding_pct", "insider_holding"), "heldPercentInsiders"),
		func(r *domain.StockRecord) **float64 { return &r.InsiderHoldingPct }},
	{withFraction(plainKeys("institutional_holding_pct", "institutional_holding"), "heldPercentInstitutions"),
		func(r *domain.StockRecord) **float64 { return &r.InstitutionalHoldingPct }},
	{plainKeys("fii_holding_pct", "fii_holding"),
		func(r *domain.StockRecord) **float64 { return &r.FIIHoldingPct }},
	{plainKeys("dii_holding_pct", "dii_holding"),
		func(r *domain.StockRecord) **float64 { return &r.DIIHoldingPct }},
	{plainKeys("promoter_holding_pct", "promoter_holding"),
		func(r *domain.StockRecord) **float64 { return &r.PromoterHoldingPct }},
	{plainKeys("promoter_holding_change"),
		func(r *domain.StockRecord) **float64 { return &r.PromoterHoldingChange }},
	{plainKeys("rsi", "rsi_14"),
		func(r *domain.StockRecord) **float64 { return &r.RSI }},
	{plainKeys("ma_50", "sma_50", "fiftyDayAverage"),
		func(r *domain.StockRecord) **float64 { return &r.MA50 }},
	{plainKeys("ma_200", "sma_200", "twoHundredDayAverage"),
		func(r *domain.StockRecord) **float64 { return &r.MA200 }},
	{plainKeys("macd_line", "macd"),
		func(r *domain.StockRecord) **float64 { return &r.MACDLine }},
	{plainKeys("macd_signal"),
		func(r *domain.StockRecord) **float64 { return &r.MACDSignal }},
	{plainKeys("macd_histogram", "macd_hist"),
		func(r *domain.StockRecord) **float64 { return &r.MACDHistogram }},
}

var (
	nameKeys        = []string{"name", "longName", "shortName"}
	sectorKeys      = []string{"sector", "industry"}
	industryKeys    = []string{"industry"}
	descriptionKeys = []string{"description", "longBusinessSummary", "business_summary"}
	updatedKeys     = []string{"last_updated", "lastUpdated"}
	closesKeys      = []string{"closes", "close_history", "price_history"}
)

// ParseRecord builds a StockRecord from one raw snapshot entry
func ParseRecord(symbol string, raw map[string]interface{}) *domain.StockRecord {
	rec := &domain.StockRecord{
		Symbol:      symbol,
		Name:        firstString(raw, nameKeys...),
		Sector:      firstString(raw, sectorKeys...),
		Industry:    firstString(raw, industryKeys...),
		Description: firstString(raw, descriptionKeys...),
		LastUpdated: firstString(raw, updatedKeys...),
	}
	if rec.Name == "" {
		rec.Name = symbol
	}
	if rec.Sector == "" {
		rec.Sector = domain.UnknownSector
	}

	for _, nf := range numericFields {
		if v, ok := firstScaled(raw, nf.keys); ok {
			*nf.field(rec) = domain.Float(v)
		}
	}

	rec.Closes = firstSeries(raw, closesKeys...)

	return rec
}

// firstString returns the first non-blank string among keys
func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstScaled returns the first present, finite value among aliases in the
// record's unit
func firstScaled(raw map[string]interface{}, aliases []alias) (float64, bool) {
	for _, a := range aliases {
		if v, ok := toFloat(raw[a.key]); ok {
			return v * a.scale, true
		}
	}
	return 0, false
}

func firstSeries(raw map[string]interface{}, keys ...string) []float64 {
	for _, k := range keys {
		items, ok := raw[k].([]interface{})
		if !ok || len(items) == 0 {
			continue
		}
		series := make([]float64, 0, len(items))
		for _, item := range items {
			// A gap would shift every indicator window, so the whole series is dropped
			v, ok := toFloat(item)
			if !ok {
				series = nil
				break
			}
			series = append(series, v)
		}
		if len(series) > 0 {
			return series
		}
	}
	return nil
}

// toFloat accepts JSON numbers and numeric strings ("1,234.5" included)
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
