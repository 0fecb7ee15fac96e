package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartMinWidth = 600
	chartBarSlot  = 70
	chartHeight   = 360
)

// ScoreChart renders the pick scores as an inline SVG bar chart
func ScoreChart(picks []domain.ScoredStock) (template.HTML, error) {
	if len(picks) == 0 {
		return "", fmt.Errorf("need at least 1 pick, got 0")
	}

	bars := make([]chart.Value, 0, len(picks))
	maxScore := 1.0
	for _, p := range picks {
		_, class := Badge(p.Total)
		bars = append(bars, chart.Value{
			Label: domain.DisplaySymbol(p.Symbol),
			Value: p.Total,
			Style: chart.Style{
				FillColor:   barColor(class),
				StrokeColor: barColor(class),
			},
		})
		maxScore = math.Max(maxScore, p.Total)
	}

	width := chartMinWidth
	if w := len(picks) * chartBarSlot; w > width {
		width = w
	}

	graph := chart.BarChart{
		Title:  "Pick scores",
		Width:  width,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(maxScore * 1.1)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("chart render failed: %w", err)
	}

	// Only numbers and ticker symbols reach the SVG
	return template.HTML(buf.String()), nil
}

func barColor(class string) drawing.Color {
	switch class {
	case "bg-success":
		return drawing.ColorFromHex("198754")
	case "bg-primary":
		return drawing.ColorFromHex("0d6efd")
	case "bg-info text-dark":
		return drawing.ColorFromHex("0dcaf0")
	default:
		return drawing.ColorFromHex("ffc107")
	}
}
