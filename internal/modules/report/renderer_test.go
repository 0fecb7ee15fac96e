package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	testingpkg "github.com/aristath/moatwatch/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)

func evaluate(t *testing.T, records map[string]*domain.StockRecord) scoring.Result {
	t.Helper()
	return scoring.NewEngine(zerolog.Nop()).Evaluate(domain.NewSnapshot(records, nil))
}

func TestBadge(t *testing.T) {
	tests := []struct {
		score float64
		label string
	}{
		{score: 22.5, label: "Excellent"},
		{score: 15, label: "Excellent"},
		{score: 14.9, label: "Very Good"},
		{score: 12, label: "Very Good"},
		{score: 10, label: "Good"},
		{score: 9.5, label: "Fair"},
	}

	for _, tt := range tests {
		label, class := Badge(tt.score)
		assert.Equal(t, tt.label, label, "score %.1f", tt.score)
		assert.NotEmpty(t, class)
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer(zerolog.Nop())
	require.NoError(t, err)

	result := evaluate(t, map[string]*domain.StockRecord{
		"AAA.NS": testingpkg.NewQualityCompounder("AAA.NS"),
		"BBB.BO": testingpkg.NewQualityCompounder("BBB.BO"),
	})
	require.Len(t, result.Picks, 2)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, result, generatedAt))
	html := buf.String()

	assert.Contains(t, html, "2026-03-02 18:30 UTC")
	assert.Contains(t, html, "Disclaimer")
	assert.Contains(t, html, "Found 2 companies")
	assert.Contains(t, html, `id="AAA"`)
	assert.Contains(t, html, `id="BBB"`)
	assert.Contains(t, html, ">NSE<")
	assert.Contains(t, html, ">BSE<")
	assert.Contains(t, html, "Excellent")
	assert.Contains(t, html, "Industry dynamics")
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "<h2>How stocks are scored</h2>")
	assert.Contains(t, html, "<table>", "GFM tables are enabled")
	// Two quality compounders at 5e9 each
	assert.Contains(t, html, "&#8377;10.00 billion")
	assert.NotContains(t, html, "AAA.NS")
}

func TestRenderer_Render_NoPicks(t *testing.T) {
	r, err := NewRenderer(zerolog.Nop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, scoring.Result{Threshold: 10}, generatedAt))

	assert.Contains(t, buf.String(), "No stock met the threshold")
	assert.Contains(t, buf.String(), "Found 0 companies")
	assert.NotContains(t, buf.String(), "<svg")
}

func TestRenderer_Render_EscapesText(t *testing.T) {
	r, err := NewRenderer(zerolog.Nop())
	require.NoError(t, err)

	rec := testingpkg.NewQualityCompounder("XSS.NS")
	rec.Name = "<script>alert(1)</script>"
	result := evaluate(t, map[string]*domain.StockRecord{"XSS.NS": rec})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, result, generatedAt))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRenderer_WriteFile(t *testing.T) {
	r, err := NewRenderer(zerolog.Nop())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "site")
	path, err := r.WriteFile(dir, evaluate(t, testingpkg.NewStockFixtures()), generatedAt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

func TestScoreChart(t *testing.T) {
	svg, err := ScoreChart([]domain.ScoredStock{{Symbol: "AAA.NS", Total: 22.5}})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = ScoreChart(nil)
	assert.Error(t, err)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Economic moat", humanize("economic_moat"))
	assert.Equal(t, "", humanize(""))
}
