package main

import (
	"bytes"
	"testing"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	"github.com/aristath/moatwatch/internal/services/analysis"
	"github.com/stretchr/testify/assert"
)

func TestPrintPicks(t *testing.T) {
	var buf bytes.Buffer
	printPicks(&buf, &analysis.Summary{
		RunID:      "run-1",
		ReportPath: "out/index.html",
		AuditPath:  "out/audit.json",
		Result: scoring.Result{
			Evaluated: make([]domain.ScoredStock, 3),
			Skipped:   []domain.ErrorRecord{{Symbol: "GONE.NS"}},
			Picks: []domain.ScoredStock{
				{Symbol: "TCS.NS", Total: 14.5, Price: 3900, IntrinsicValue: 4800, MarginOfSafety: 18.75, Sector: "Technology"},
			},
			Threshold: 10,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "3 evaluated, 1 skipped, 1 picks (threshold 10.0)")
	assert.Contains(t, out, "TCS.NS")
	assert.Contains(t, out, "14.50")
	assert.Contains(t, out, "Report: out/index.html")
}

func TestPrintPicks_NoPicks(t *testing.T) {
	var buf bytes.Buffer
	printPicks(&buf, &analysis.Summary{RunID: "run-2", Result: scoring.Result{Threshold: 10}})

	assert.NotContains(t, buf.String(), "RANK")
	assert.Contains(t, buf.String(), "0 picks")
}
