package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "TCS.NS": {
    "name": "Tata Consultancy Services",
    "sector": "Technology",
    "industry": "IT Services",
    "current_price": 3500,
    "market_cap": 12800000000000,
    "trailingPE": 28.5,
    "forwardPE": 25,
    "roe": "45.2",
    "debt_to_equity": 5,
    "fcf": 420000000000,
    "closes": [1, 2, 3]
  },
  "NOSECTOR.BO": {
    "shortName": "No Sector Co",
    "industry": "Cement",
    "currentPrice": "1,250.50",
    "pe_ratio": "n/a"
  },
  "BARE.NS": {},
  "DEAD.NS": {"error": "no data"},
  "ALIVE.NS": {"error": null, "current_price": 10}
}`

func TestLoader_Read(t *testing.T) {
	snap, err := NewLoader(zerolog.Nop()).Read(strings.NewReader(sampleSnapshot))
	require.NoError(t, err)

	assert.Equal(t, []string{"ALIVE.NS", "BARE.NS", "NOSECTOR.BO", "TCS.NS"}, snap.Order)
	require.Contains(t, snap.Errors, "DEAD.NS")
	assert.Equal(t, "no data", snap.Errors["DEAD.NS"].Error)
	assert.NotContains(t, snap.Records, "DEAD.NS")

	tcs := snap.Records["TCS.NS"]
	require.NotNil(t, tcs)
	assert.Equal(t, "Tata Consultancy Services", tcs.Name)
	assert.Equal(t, "Technology", tcs.Sector)
	assert.Equal(t, 28.5, *tcs.PERatio, "first alias wins")
	assert.Equal(t, 45.2, *tcs.ROE, "numeric strings are accepted")
	assert.Equal(t, 5.0, *tcs.DebtToEquity, "loader does not normalize")
	assert.Equal(t, 4.2e11, *tcs.FreeCashFlow)
	assert.Equal(t, []float64{1, 2, 3}, tcs.Closes)
	assert.Nil(t, tcs.EPS)

	ns := snap.Records["NOSECTOR.BO"]
	require.NotNil(t, ns)
	assert.Equal(t, "No Sector Co", ns.Name)
	assert.Equal(t, "Cement", ns.Sector, "sector falls back to industry")
	assert.Equal(t, 1250.5, *ns.CurrentPrice)
	assert.Nil(t, ns.PERatio, "non-numeric strings are absent")

	bare := snap.Records["BARE.NS"]
	require.NotNil(t, bare)
	assert.Equal(t, "BARE.NS", bare.Name, "name falls back to symbol")
	assert.Equal(t, domain.UnknownSector, bare.Sector)

	assert.Contains(t, snap.Records, "ALIVE.NS", "null error is not a failure")
}

func TestLoader_Read_Empty(t *testing.T) {
	l := NewLoader(zerolog.Nop())

	_, err := l.Read(strings.NewReader("  "))
	assert.ErrorIs(t, err, ErrEmptySnapshot)

	_, err = l.Read(strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrEmptySnapshot)
}

func TestLoader_Read_Invalid(t *testing.T) {
	_, err := NewLoader(zerolog.Nop()).Read(strings.NewReader("[1,2]"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptySnapshot)
}

func TestLoader_Read_NonObjectEntry(t *testing.T) {
	snap, err := NewLoader(zerolog.Nop()).Read(strings.NewReader(`{"ODD.NS": 42, "OK.NS": {"roe": 10}}`))
	require.NoError(t, err)

	assert.Contains(t, snap.Errors, "ODD.NS")
	assert.Contains(t, snap.Records, "OK.NS")
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latest.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0644))

	snap, err := NewLoader(zerolog.Nop()).Load(path)
	require.NoError(t, err)
	assert.Len(t, snap.Records, 4)

	_, err = NewLoader(zerolog.Nop()).Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{name: "float", input: 1.5, want: 1.5, ok: true},
		{name: "numeric string", input: " 42 ", want: 42, ok: true},
		{name: "thousands separator", input: "1,000", want: 1000, ok: true},
		{name: "NaN string", input: "NaN", ok: false},
		{name: "infinite string", input: "Inf", ok: false},
		{name: "empty string", input: "", ok: false},
		{name: "bool", input: true, ok: false},
		{name: "nil", input: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFirstSeries_DropsSeriesWithGaps(t *testing.T) {
	raw := map[string]interface{}{
		"closes":        []interface{}{1.0, "x", 3.0},
		"price_history": []interface{}{4.0, 5.0},
	}
	assert.Equal(t, []float64{4, 5}, firstSeries(raw, closesKeys...))
}

func TestParseRecord_FractionKeysBecomePercentages(t *testing.T) {
	tests := []struct {
		key   string
		field func(r *domain.StockRecord) *float64
	}{
		{"returnOnEquity", func(r *domain.StockRecord) *float64 { return r.ROE }},
		{"profitMargins", func(r *domain.StockRecord) *float64 { return r.ProfitMargin }},
		{"payoutRatio", func(r *domain.StockRecord) *float64 { return r.PayoutRatio }},
		{"earningsGrowth", func(r *domain.StockRecord) *float64 { return r.EarningsGrowth }},
		{"revenueGrowth", func(r *domain.StockRecord) *float64 { return r.RevenueYoY }},
		{"heldPercentInsiders", func(r *domain.StockRecord) *float64 { return r.InsiderHoldingPct }},
		{"heldPercentInstitutions", func(r *domain.StockRecord) *float64 { return r.InstitutionalHoldingPct }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rec := ParseRecord("X.NS", map[string]interface{}{tt.key: 0.22})
			got := tt.field(rec)
			require.NotNil(t, got)
			assert.InDelta(t, 22.0, *got, 1e-9)
		})
	}
}

func TestParseRecord_PercentKeysAreNotScaled(t *testing.T) {
	rec := ParseRecord("X.NS", map[string]interface{}{
		"roe":                 22.0,
		"returnOnEquity":      0.5,
		"profit_margin":       "18.5",
		"insider_holding_pct": 55.0,
	})

	require.NotNil(t, rec.ROE)
	assert.Equal(t, 22.0, *rec.ROE, "percent key wins over the fraction key")
	require.NotNil(t, rec.ProfitMargin)
	assert.Equal(t, 18.5, *rec.ProfitMargin)
	require.NotNil(t, rec.InsiderHoldingPct)
	assert.Equal(t, 55.0, *rec.InsiderHoldingPct)
}
