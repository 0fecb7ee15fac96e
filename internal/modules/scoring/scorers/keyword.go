package scorers

import (
	"fmt"
	"strings"

	"github.com/aristath/moatwatch/internal/domain"
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
)

// KeywordScorer classifies the record's sector against a keyword table and
// applies the matched bucket's flat score
type KeywordScorer struct {
	name    string
	subject string
	table   scoringdomain.KeywordTable
}

// NewKeywordScorer creates a qualitative scorer. subject names the factor in
// reason strings, e.g. "industry dynamics".
func NewKeywordScorer(name, subject string, table scoringdomain.KeywordTable) *KeywordScorer {
	return &KeywordScorer{name: name, subject: subject, table: table}
}

// NewIndustryDynamicsScorer scores long-term industry prospects
func NewIndustryDynamicsScorer(tables *scoringdomain.Tables) *KeywordScorer {
	return NewKeywordScorer(NameIndustryDynamics, "industry dynamics", tables.Table(scoringdomain.TableIndustry))
}

// NewRegulatoryScorer scores regulatory burden
func NewRegulatoryScorer(tables *scoringdomain.Tables) *KeywordScorer {
	return NewKeywordScorer(NameRegulatory, "regulatory environment", tables.Table(scoringdomain.TableRegulatory))
}

// NewMacroeconomicScorer scores sensitivity to the economic cycle
func NewMacroeconomicScorer(tables *scoringdomain.Tables) *KeywordScorer {
	return NewKeywordScorer(NameMacroeconomic, "macroeconomic exposure", tables.Table(scoringdomain.TableMacro))
}

// NewGovernanceScorer scores the sector's corporate governance record
func NewGovernanceScorer(tables *scoringdomain.Tables) *KeywordScorer {
	return NewKeywordScorer(NameGovernance, "corporate governance", tables.Table(scoringdomain.TableGovernance))
}

// NewCulturalFitScorer scores whether the business is inside the circle of competence
func NewCulturalFitScorer(tables *scoringdomain.Tables) *KeywordScorer {
	return NewKeywordScorer(NameCulturalFit, "circle of competence", tables.Table(scoringdomain.TableCulture))
}

// Name implements Scorer
func (s *KeywordScorer) Name() string { return s.name }

// Category implements Scorer
func (s *KeywordScorer) Category() domain.Category { return domain.CategoryQualitative }

// Evaluate implements Scorer
func (s *KeywordScorer) Evaluate(rec *domain.StockRecord) domain.EvaluationResult {
	r := newResult(s.name, s.Category())

	if !rec.HasSector() {
		r.missing("Sector")
		r.detail = "Sector not available"
		return r.build()
	}

	bucket, ok := s.table.Classify(rec.Sector)
	if !ok {
		r.detail = fmt.Sprintf("Unclassified %s for %s", s.subject, rec.Sector)
		r.warn("%s", r.detail)
		return r.build()
	}

	r.detail = fmt.Sprintf("%s %s: %s", capitalize(bucket.Name), s.subject, rec.Sector)
	if bucket.Warn {
		r.score += bucket.Score
		r.warn("%s", r.detail)
		return r.build()
	}
	r.add(bucket.Score, "%s", r.detail)

	return r.build()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
