package scorers

import (
	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/pkg/formulas"
)

// MinSectorPeers is the number of other same-sector records a metric needs
const MinSectorPeers = 2

// Outperformance bands around the peer mean
const (
	OutperformHigh = 1.2 // higher-is-better metrics
	OutperformLow  = 0.8 // lower-is-better metrics
)

// sectorMetric is one metric compared against sector peers
type sectorMetric struct {
	key          string
	label        string
	higherBetter bool
	value        func(rec *domain.StockRecord) (float64, bool)
}

var sectorMetrics = []sectorMetric{
	{key: "roe", label: "ROE", higherBetter: true, value: func(r *domain.StockRecord) (float64, bool) {
		return present(r.ROE)
	}},
	{key: "debt_to_equity", label: "Debt-to-equity", higherBetter: false, value: func(r *domain.StockRecord) (float64, bool) {
		return present(r.DebtToEquity)
	}},
	{key: "pe_ratio", label: "P/E", higherBetter: false, value: func(r *domain.StockRecord) (float64, bool) {
		v, ok := present(r.PERatio)
		return v, ok && v > 0
	}},
	{key: "revenue_yoy", label: "Revenue YoY", higherBetter: true, value: func(r *domain.StockRecord) (float64, bool) {
		return present(r.RevenueYoY)
	}},
}

// SectorIndex groups valid, normalized records by sector. It is read-only once built
// and safe to share between goroutines.
type SectorIndex struct {
	bySector map[string][]*domain.StockRecord
}

// NewSectorIndex builds the peer index. Records without a usable sector are left out.
func NewSectorIndex(records []*domain.StockRecord) *SectorIndex {
	idx := &SectorIndex{bySector: make(map[string][]*domain.StockRecord)}
	for _, rec := range records {
		if rec == nil || !rec.HasSector() {
			continue
		}
		key := rec.SectorKey()
		idx.bySector[key] = append(idx.bySector[key], rec)
	}
	return idx
}

// Peers returns the other records sharing rec's sector
func (idx *SectorIndex) Peers(rec *domain.StockRecord) []*domain.StockRecord {
	if idx == nil || !rec.HasSector() {
		return nil
	}
	members := idx.bySector[rec.SectorKey()]
	peers := make([]*domain.StockRecord, 0, len(members))
	for _, m := range members {
		if m.Symbol != rec.Symbol {
			peers = append(peers, m)
		}
	}
	return peers
}

// Size returns the number of indexed sectors
func (idx *SectorIndex) Size() int {
	if idx == nil {
		return 0
	}
	return len(idx.bySector)
}

// SectorRelativeScorer compares a record with the mean of its sector peers
type SectorRelativeScorer struct {
	index *SectorIndex
}

// NewSectorRelativeScorer creates a sector relative scorer over a peer index
func NewSectorRelativeScorer(index *SectorIndex) *SectorRelativeScorer {
	return &SectorRelativeScorer{index: index}
}

// Name implements Scorer
func (s *SectorRelativeScorer) Name() string { return NameSectorRelative }

// Category implements Scorer
func (s *SectorRelativeScorer) Category() domain.Category { return domain.CategoryFundamental }

// Evaluate awards +1 per metric beating the peer mean by more than 20%, and a
// bonus point when at least two metrics were compared and all of them beat it.
// Peer means are reported as sector_avg_<metric>.
func (s *SectorRelativeScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.Name(), s.Category())

	if !rec.HasSector() {
		r.missing("Sector")
		return r.build()
	}

	peers := s.index.Peers(rec)
	compared, outperformed := 0, 0

	for _, m := range sectorMetrics {
		subject, ok := m.value(rec)
		if !ok {
			continue
		}

		values := make([]float64, 0, len(peers))
		for _, p := range peers {
			if v, ok := m.value(p); ok {
				values = append(values, v)
			}
		}
		if len(values) < MinSectorPeers {
			continue
		}

		mean := formulas.Mean(values)
		r.metric("sector_avg_"+m.key, round2(mean))
		// A non-positive mean makes the ratio meaningless
		if mean <= 0 {
			continue
		}

		compared++
		ratio := subject / mean
		if (m.higherBetter && ratio > OutperformHigh) || (!m.higherBetter && ratio < OutperformLow) {
			outperformed++
			r.add(1, "%s %.2f vs sector average %.2f (%.2fx)", m.label, subject, mean, ratio)
		}
	}

	switch {
	case compared == 0:
		r.warn("Not enough sector peers for comparison in %s (need %d)", rec.Sector, MinSectorPeers)
	case compared >= 2 && outperformed == compared:
		r.add(1, "Outperforms %s peers on all %d compared metrics", rec.Sector, compared)
	}

	return r.build()
}
