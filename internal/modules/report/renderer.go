// Package report renders a scoring run as a static HTML page.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	"github.com/aristath/moatwatch/pkg/embedded"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// FileName is the report page written by WriteFile
const FileName = "index.html"

// Badge thresholds on the total score
const (
	ExcellentScore = 15.0
	VeryGoodScore  = 12.0
	GoodScore      = 10.0
)

// Badge returns the label and CSS class for a total score
func Badge(score float64) (label, class string) {
	switch {
	case score >= ExcellentScore:
		return "Excellent", "bg-success"
	case score >= VeryGoodScore:
		return "Very Good", "bg-primary"
	case score >= GoodScore:
		return "Good", "bg-info text-dark"
	default:
		return "Fair", "bg-warning text-dark"
	}
}

type factorView struct {
	Label  string
	Score  float64
	Reason string
}

type methodView struct {
	Description string
	Value       float64
}

type cardView struct {
	DisplaySymbol     string
	Exchange          domain.Exchange
	Name              string
	Sector            string
	Score             float64
	Badge             string
	BadgeClass        string
	Price             float64
	IntrinsicValue    float64
	HasIntrinsicValue bool
	MarginOfSafety    float64
	PERatio           float64
	ROE               float64
	DebtToEquity      float64
	MarketCapBn       float64
	Reasons           []string
	Warnings          []string
	Factors           []factorView
	Methods           []methodView
}

type pageView struct {
	GeneratedAt         string
	Threshold           float64
	PickCount           int
	EvaluatedCount      int
	SkippedCount        int
	CombinedMarketCapBn float64
	Cards               []cardView
	Chart               template.HTML
	Methodology         template.HTML
}

// Renderer renders the report page
type Renderer struct {
	tmpl        *template.Template
	methodology template.HTML
	log         zerolog.Logger
}

// NewRenderer parses the embedded template and methodology
func NewRenderer(log zerolog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(embedded.Files, embedded.ReportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	source, err := embedded.Files.ReadFile(embedded.Methodology)
	if err != nil {
		return nil, fmt.Errorf("failed to read methodology: %w", err)
	}
	methodology, err := markdownToHTML(source)
	if err != nil {
		return nil, fmt.Errorf("failed to convert methodology: %w", err)
	}

	return &Renderer{
		tmpl:        tmpl,
		methodology: methodology,
		log:         log.With().Str("component", "report").Logger(),
	}, nil
}

// Render writes the report for result to w
func (r *Renderer) Render(w io.Writer, result scoring.Result, generatedAt time.Time) error {
	page := pageView{
		GeneratedAt:    generatedAt.Format("2006-01-02 15:04 MST"),
		Threshold:      result.Threshold,
		PickCount:      len(result.Picks),
		EvaluatedCount: len(result.Evaluated),
		SkippedCount:   len(result.Skipped),
		Cards:          make([]cardView, 0, len(result.Picks)),
		Methodology:    r.methodology,
	}

	for _, p := range result.Picks {
		page.CombinedMarketCapBn += p.MarketCap / 1e9
		page.Cards = append(page.Cards, newCard(p))
	}

	if len(result.Picks) > 0 {
		chart, err := ScoreChart(result.Picks)
		if err != nil {
			// The page is still useful without the chart
			r.log.Warn().Err(err).Msg("Failed to render score chart")
		} else {
			page.Chart = chart
		}
	}

	if err := r.tmpl.ExecuteTemplate(w, filepath.Base(embedded.ReportTemplate), page); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteFile renders the report into dir/index.html and returns the path
func (r *Renderer) WriteFile(dir string, result scoring.Result, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, result, generatedAt); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to replace report: %w", err)
	}

	r.log.Info().Str("path", path).Int("picks", len(result.Picks)).Msg("Report written")
	return path, nil
}

func newCard(s domain.ScoredStock) cardView {
	label, class := Badge(s.Total)
	card := cardView{
		DisplaySymbol:     domain.DisplaySymbol(s.Symbol),
		Exchange:          domain.ExchangeOf(s.Symbol),
		Name:              s.Name,
		Sector:            s.Sector,
		Score:             s.Total,
		Badge:             label,
		BadgeClass:        class,
		Price:             s.Price,
		IntrinsicValue:    s.IntrinsicValue,
		HasIntrinsicValue: s.IntrinsicValue > 0,
		MarginOfSafety:    s.MarginOfSafety,
		PERatio:           s.PERatio,
		ROE:               s.ROE,
		DebtToEquity:      s.DebtToEquity,
		MarketCapBn:       s.MarketCap / 1e9,
		Reasons:           s.Reasons,
		Warnings:          s.Warnings,
	}

	// Evaluations keep the fixed evaluator order, the factor map does not
	for _, e := range s.Evaluations {
		f, ok := s.QualitativeFactors[e.Evaluator]
		if !ok {
			continue
		}
		card.Factors = append(card.Factors, factorView{Label: humanize(e.Evaluator), Score: f.Score, Reason: f.Reason})
	}

	keys := make([]string, 0, len(s.ValuationMethods))
	for k := range s.ValuationMethods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := s.ValuationMethods[k]
		desc := m.Description
		if desc == "" {
			desc = humanize(k)
		}
		card.Methods = append(card.Methods, methodView{Description: desc, Value: m.Value})
	}

	return card
}

// humanize turns an evaluator key into a label: "economic_moat" -> "Economic moat"
func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func markdownToHTML(source []byte) (template.HTML, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", err
	}
	// Embedded, trusted content
	return template.HTML(buf.String()), nil
}
