package scorers

import (
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
)

// OwnershipScorer reads promoter commitment and institutional sponsorship
type OwnershipScorer struct{}

// NewOwnershipScorer creates a new ownership scorer
func NewOwnershipScorer() *OwnershipScorer {
	return &OwnershipScorer{}
}

// Name implements Scorer
func (s *OwnershipScorer) Name() string { return NameOwnership }

// Category implements Scorer
func (s *OwnershipScorer) Category() domain.Category { return domain.CategoryQualitative }

// Evaluate implements Scorer
//
//	Promoter (insider) holding %: >50 +1, <25 warning
//	Promoter holding change:      >0 +1,  <-2 -1
//	Institutional (FII + DII) %:  >30 +1, <5 warning
func (s *OwnershipScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	promoter, ok := present(rec.PromoterHoldingPct)
	label := "Promoter"
	if !ok {
		promoter, ok = present(rec.InsiderHoldingPct)
		label = "Insider"
	}
	if ok {
		switch {
		case promoter > 50:
			r.add(1, "High %s holding: %.1f%%", strings.ToLower(label), promoter)
		case promoter < 25:
			r.warn("Low %s holding: %.1f%%", strings.ToLower(label), promoter)
		}
	} else {
		r.missing("Promoter holding")
	}

	if change, ok := present(rec.PromoterHoldingChange); ok {
		switch {
		case change > 0:
			r.add(1, "Promoters increasing stake: %+.2f%%", change)
		case change < -2:
			r.add(-1, "Promoters reducing stake: %+.2f%%", change)
		}
	} else {
		r.missing("Promoter holding change")
	}

	if inst, ok := institutionalHolding(rec); ok {
		switch {
		case inst > 30:
			r.add(1, "Strong institutional holding: %.1f%%", inst)
		case inst < 5:
			r.warn("Low institutional interest: %.1f%%", inst)
		}
	} else {
		r.missing("Institutional holding")
	}

	return r.build()
}

// institutionalHolding returns the reported institutional stake, or FII + DII
// when only the split is available
func institutionalHolding(rec *domain.StockRecord) (float64, bool) {
	if v, ok := present(rec.InstitutionalHoldingPct); ok {
		return v, true
	}
	fii, hasFII := present(rec.FIIHoldingPct)
	dii, hasDII := present(rec.DIIHoldingPct)
	if !hasFII && !hasDII {
		return 0, false
	}
	return fii + dii, true
}

