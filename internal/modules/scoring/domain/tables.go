// Package domain holds the data tables the qualitative scorers classify against.
package domain

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Table names
const (
	TableIndustry    = "industry_dynamics"
	TableRegulatory  = "regulatory_environment"
	TableMacro       = "macroeconomic_factors"
	TableGovernance  = "corporate_governance"
	TableCulture     = "cultural_fit"
	TableMoatSectors = "moat_sectors"
	TableMoatTraits  = "moat_traits"
)

// Bucket is one classification outcome with the keywords that select it
type Bucket struct {
	Name     string   `toml:"name" json:"name"`
	Score    float64  `toml:"score" json:"score"`
	Keywords []string `toml:"keywords" json:"keywords"`
	// Warn turns a match into a warning instead of a reason
	Warn bool `toml:"warn" json:"warn,omitempty"`
}

// KeywordTable is an ordered list of buckets. The first bucket with a keyword
// contained in the text wins.
type KeywordTable struct {
	Name    string   `toml:"name" json:"name"`
	Buckets []Bucket `toml:"buckets" json:"buckets"`
}

// Classify returns the first bucket with a keyword that is a case-insensitive
// substring of text
func (t KeywordTable) Classify(text string) (Bucket, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return Bucket{}, false
	}
	for _, b := range t.Buckets {
		for _, kw := range b.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return b, true
			}
		}
	}
	return Bucket{}, false
}

// MatchAll returns every bucket with at least one keyword contained in text,
// in table order
func (t KeywordTable) MatchAll(text string) []Bucket {
	lower := strings.ToLower(text)
	var matched []Bucket
	for _, b := range t.Buckets {
		for _, kw := range b.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, b)
				break
			}
		}
	}
	return matched
}

// Tables is the full set of keyword tables plus the franchise list used by the moat scorer
type Tables struct {
	Keyword map[string]KeywordTable `json:"tables"`
	// Franchises are display symbols (no exchange suffix) of companies with known durable advantages
	Franchises []string `json:"franchises"`
}

// Table returns the named table, or an empty table when it does not exist
func (t *Tables) Table(name string) KeywordTable {
	if t == nil {
		return KeywordTable{Name: name}
	}
	if kt, ok := t.Keyword[name]; ok {
		return kt
	}
	return KeywordTable{Name: name}
}

// IsFranchise reports whether the display symbol is on the franchise list
func (t *Tables) IsFranchise(displaySymbol string) bool {
	if t == nil {
		return false
	}
	for _, f := range t.Franchises {
		if strings.EqualFold(f, displaySymbol) {
			return true
		}
	}
	return false
}

// tablesFile is the TOML layout accepted by LoadTables
type tablesFile struct {
	Franchises []string       `toml:"franchises"`
	Tables     []KeywordTable `toml:"tables"`
}

// LoadTables returns the default tables overlaid with the tables defined in a TOML file.
// A table in the file replaces the default table of the same name; a non-empty
// franchises list replaces the default franchise list. An empty path returns the defaults.
func LoadTables(path string) (*Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sector tables %s: %w", path, err)
	}

	var file tablesFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sector tables %s: %w", path, err)
	}

	for _, kt := range file.Tables {
		if _, ok := tables.Keyword[kt.Name]; !ok {
			return nil, fmt.Errorf("unknown sector table %q in %s", kt.Name, path)
		}
		tables.Keyword[kt.Name] = kt
	}
	if len(file.Franchises) > 0 {
		tables.Franchises = file.Franchises
	}

	return tables, nil
}

// DefaultTables returns the built-in classification tables
func DefaultTables() *Tables {
	return &Tables{
		Keyword: map[string]KeywordTable{
			TableIndustry: {
				Name: TableIndustry,
				Buckets: []Bucket{
					{Name: "favorable", Score: 2, Keywords: []string{
						"consumer staples", "consumer defensive", "fmcg", "food", "beverage",
						"pharmaceutical", "healthcare", "health care", "technology", "software",
						"information technology", "financial services", "banking", "bank", "insurance",
					}},
					{Name: "neutral", Score: 1, Keywords: []string{
						"industrials", "capital goods", "automobile", "auto", "chemicals",
						"communication", "telecom", "retail", "utilities", "power",
						"consumer cyclical", "consumer discretionary", "consumer goods", "cement",
					}},
					{Name: "unfavorable", Score: -1, Keywords: []string{
						"airline", "mining", "metals", "steel", "oil & gas", "energy", "real estate",
						"textile", "cryptocurrency", "cannabis", "biotechnology", "shipping",
					}},
				},
			},
			TableRegulatory: {
				Name: TableRegulatory,
				Buckets: []Bucket{
					{Name: "favorable", Score: 1, Keywords: []string{
						"technology", "software", "information technology",
						"consumer staples", "consumer defensive", "fmcg", "retail",
					}},
					{Name: "unfavorable", Score: -1, Keywords: []string{
						"tobacco", "alcohol", "gaming", "mining", "oil & gas", "telecom",
						"real estate", "cryptocurrency", "cannabis",
					}},
					{Name: "neutral", Score: 0, Keywords: []string{
						"financial", "bank", "insurance", "pharmaceutical", "healthcare",
						"utilities", "power", "industrials", "automobile", "chemicals",
						"communication", "energy", "metals",
					}},
				},
			},
			TableMacro: {
				Name: TableMacro,
				Buckets: []Bucket{
					{Name: "favorable", Score: 1, Keywords: []string{
						"consumer staples", "consumer defensive", "fmcg", "food",
						"healthcare", "pharmaceutical", "technology", "software", "infrastructure",
					}},
					{Name: "unfavorable", Score: -1, Keywords: []string{
						"metals", "steel", "mining", "oil & gas", "energy", "chemicals",
						"real estate", "airline", "textile", "commodit",
					}},
					{Name: "neutral", Score: 0, Keywords: []string{
						"financial", "bank", "insurance", "industrials", "automobile",
						"consumer cyclical", "consumer discretionary", "utilities",
						"communication", "retail", "capital goods",
					}},
				},
			},
			TableGovernance: {
				Name: TableGovernance,
				Buckets: []Bucket{
					{Name: "favorable", Score: 1, Keywords: []string{
						"technology", "software", "information technology",
						"consumer staples", "consumer defensive", "fmcg",
					}},
					{Name: "unfavorable", Score: -1, Keywords: []string{
						"real estate", "construction", "media", "entertainment",
						"mining", "metals", "cryptocurrency",
					}},
					{Name: "neutral", Score: 0, Keywords: []string{
						"financial", "bank", "insurance", "healthcare", "pharmaceutical",
						"industrials", "automobile", "utilities", "power", "chemicals",
						"communication", "energy", "retail",
					}},
				},
			},
			TableCulture: {
				Name: TableCulture,
				Buckets: []Bucket{
					{Name: "avoided", Score: 0, Warn: true, Keywords: []string{
						"biotechnology", "cryptocurrency", "cannabis", "mining",
						"oil & gas e&p", "airline",
					}},
					{Name: "preferred", Score: 1, Keywords: []string{
						"financial services", "consumer defensive", "technology", "financial",
						"pharmaceutical", "consumer goods", "healthcare", "consumer staples",
						"insurance", "banking", "food & beverage", "retail",
						"communication services", "utilities",
					}},
				},
			},
			TableMoatSectors: {
				Name: TableMoatSectors,
				Buckets: []Bucket{
					{Name: "moat sector", Score: 1, Keywords: []string{
						"consumer staples", "consumer defensive", "fmcg", "technology",
						"software", "financial services", "banking", "insurance",
						"healthcare", "pharmaceutical",
					}},
				},
			},
			TableMoatTraits: {
				Name: TableMoatTraits,
				Buckets: []Bucket{
					{Name: "brand", Score: 0.5, Keywords: []string{"brand"}},
					{Name: "network effect", Score: 0.5, Keywords: []string{"network effect", "platform", "marketplace"}},
					{Name: "switching cost", Score: 0.5, Keywords: []string{"switching cost", "long-term contract", "recurring", "subscription"}},
					{Name: "scale", Score: 0.5, Keywords: []string{"scale", "market leader", "largest", "dominant"}},
				},
			},
		},
		Franchises: []string{
			"HINDUNILVR", "ASIANPAINT", "NESTLEIND", "HDFCBANK", "TCS", "INFY",
			"PIDILITIND", "ITC", "BAJFINANCE", "TITAN", "MARUTI", "DMART",
			"COLPAL", "BRITANNIA", "KOTAKBANK", "ICICIBANK",
		},
	}
}
