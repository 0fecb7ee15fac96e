package valuation

import "strings"

// DCFParameters configures the primary earnings projection
type DCFParameters struct {
	DiscountRate       float64 // annual discount rate
	TerminalGrowthRate float64 // perpetuity growth after the projection window
	DefaultGrowthRate  float64 // used when the record carries no earnings growth
	MinGrowthRate      float64
	MaxGrowthRate      float64
	ProjectionYears    int
}

// DefaultDCFParameters returns the standard projection: 10 years at 12%,
// 3% terminal growth, growth clamped to [5%, 20%]
func DefaultDCFParameters() DCFParameters {
	return DCFParameters{
		DiscountRate:       0.12,
		TerminalGrowthRate: 0.03,
		DefaultGrowthRate:  0.10,
		MinGrowthRate:      0.05,
		MaxGrowthRate:      0.20,
		ProjectionYears:    10,
	}
}

// DividendDiscountRate is the fixed Gordon growth discount rate
const DividendDiscountRate = 0.10

// SectorParam is one row of a sector-keyed lookup: the first row with a
// keyword contained in the sector wins
type SectorParam struct {
	Keywords []string
	Value    float64
}

// SectorTable is an ordered sector lookup with a default
type SectorTable struct {
	Rows    []SectorParam
	Default float64
}

// Lookup returns the value for a sector (case-insensitive substring match)
func (t SectorTable) Lookup(sector string) float64 {
	lower := strings.ToLower(sector)
	for _, row := range t.Rows {
		for _, kw := range row.Keywords {
			if strings.Contains(lower, kw) {
				return row.Value
			}
		}
	}
	return t.Default
}

// Sector-keyed parameters of the fallback ensemble
var (
	// GrahamGrowth is the growth percentage plugged into Graham's formula
	GrahamGrowth = SectorTable{
		Rows: []SectorParam{
			{Keywords: []string{"technology", "software"}, Value: 8},
			{Keywords: []string{"consumer"}, Value: 6},
			{Keywords: []string{"health"}, Value: 7},
			{Keywords: []string{"financial", "bank"}, Value: 5},
		},
		Default: 5,
	}

	// DividendGrowth is the perpetual dividend growth rate
	DividendGrowth = SectorTable{
		Rows: []SectorParam{
			{Keywords: []string{"technology", "software"}, Value: 0.05},
			{Keywords: []string{"consumer"}, Value: 0.04},
		},
		Default: 0.03,
	}

	// PEMultiple is the fair earnings multiple
	PEMultiple = SectorTable{
		Rows: []SectorParam{
			{Keywords: []string{"technology"}, Value: 20},
			{Keywords: []string{"consumer"}, Value: 18},
			{Keywords: []string{"utilities"}, Value: 14},
			{Keywords: []string{"financial"}, Value: 12},
		},
		Default: 15,
	}

	// BookMultiple is the fair price-to-book multiple
	BookMultiple = SectorTable{
		Rows: []SectorParam{
			{Keywords: []string{"financial", "bank"}, Value: 1.2},
			{Keywords: []string{"technology"}, Value: 3.0},
			{Keywords: []string{"consumer"}, Value: 2.5},
		},
		Default: 1.5,
	}
)
