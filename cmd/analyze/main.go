// Package main runs a single analysis from the command line and prints the picks.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aristath/moatwatch/internal/config"
	"github.com/aristath/moatwatch/internal/di"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	"github.com/aristath/moatwatch/internal/services/analysis"
	"github.com/aristath/moatwatch/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "snapshot JSON to score")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for index.html and audit.json")
	fs.Float64Var(&cfg.PickThreshold, "threshold", cfg.PickThreshold, "minimum total score for a pick")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "records evaluated in parallel")
	noPublish := fs.Bool("no-publish", false, "skip the S3 upload even when a bucket is configured")
	asJSON := fs.Bool("json", false, "print the full result as JSON instead of a table")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *noPublish {
		cfg.Publish = config.PublishConfig{}
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to wire dependencies")
		return 1
	}
	defer container.Close()

	summary, err := container.AnalysisJob.Execute(context.Background(), analysis.TriggerCLI)
	if err != nil {
		log.Error().Err(err).Msg("Analysis failed")
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary.Result); err != nil {
			log.Error().Err(err).Msg("Failed to encode result")
			return 1
		}
		return 0
	}

	printPicks(stdout, summary)
	return 0
}

func printPicks(w io.Writer, summary *analysis.Summary) {
	result := summary.Result
	fmt.Fprintf(w, "Run %s: %d evaluated, %d skipped, %d picks (threshold %.1f)\n\n",
		summary.RunID, len(result.Evaluated), len(result.Skipped), len(result.Picks), result.Threshold)

	if len(result.Picks) > 0 {
		writePickTable(w, result)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Report: %s\nAudit:  %s\n", summary.ReportPath, summary.AuditPath)
}

func writePickTable(w io.Writer, result scoring.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSYMBOL\tSCORE\tPRICE\tINTRINSIC\tMOS %\tSECTOR")
	for i, p := range result.Picks {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.1f\t%s\n",
			i+1, p.Symbol, p.Total, p.Price, p.IntrinsicValue, p.MarginOfSafety, p.Sector)
	}
	tw.Flush()
}
