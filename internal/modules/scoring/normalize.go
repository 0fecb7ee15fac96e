// Package scoring evaluates stock records against the value-investing checklist
// and ranks the resulting picks.
package scoring

import (
	"github.com/aristath/moatwatch/internal/domain"
)

// DebtToEquityPercentCutoff is the magnitude above which debt-to-equity is
// assumed to be reported as a percentage rather than a ratio
const DebtToEquityPercentCutoff = 3.0

// Normalize returns a copy of rec with source unit inconsistencies corrected.
// Only debt-to-equity is rescaled. A record that has already been normalized
// is returned unchanged, so Normalize(Normalize(r)) == Normalize(r).
func Normalize(rec *domain.StockRecord) *domain.StockRecord {
	out := rec.Clone()
	if out == nil || out.Normalized {
		return out
	}

	if out.DebtToEquity != nil && *out.DebtToEquity > DebtToEquityPercentCutoff {
		out.DebtToEquity = domain.Float(*out.DebtToEquity / 100)
	}

	out.Normalized = true
	return out
}
