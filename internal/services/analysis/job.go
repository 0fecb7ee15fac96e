// Package analysis runs one complete scoring batch: load, score, audit, render, publish.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/events"
	"github.com/aristath/moatwatch/internal/modules/audit"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned when a run is triggered while another is still going
var ErrRunInProgress = errors.New("analysis run already in progress")

// Run triggers
const (
	TriggerSchedule = "schedule"
	TriggerAPI      = "api"
	TriggerStartup  = "startup"
	TriggerCLI      = "cli"
)

// topPicksInEvent is how many pick symbols a completion event carries
const topPicksInEvent = 5

// SnapshotLoader reads the run input
type SnapshotLoader interface {
	Load(path string) (*domain.Snapshot, error)
}

// Scorer scores a snapshot
type Scorer interface {
	Evaluate(snap *domain.Snapshot) scoring.Result
}

// AuditWriter dumps a run to disk
type AuditWriter interface {
	Write(result scoring.Result) (string, error)
}

// RunStore persists runs for the API
type RunStore interface {
	SaveRun(ctx context.Context, run *audit.Run, result scoring.Result) error
}

// ReportWriter renders the report page
type ReportWriter interface {
	WriteFile(dir string, result scoring.Result, generatedAt time.Time) (string, error)
}

// Publisher uploads the run outputs
type Publisher interface {
	Publish(ctx context.Context, files []string) error
}

// EventPublisher receives run lifecycle events
type EventPublisher interface {
	Publish(module string, data events.EventData)
}

// Deps holds the job collaborators. Store, Publisher and Events are optional.
type Deps struct {
	Loader    SnapshotLoader
	Scorer    Scorer
	Audit     AuditWriter
	Store     RunStore
	Report    ReportWriter
	Publisher Publisher
	Events    EventPublisher
}

// Summary describes a finished run
type Summary struct {
	RunID       string         `json:"run_id"`
	Trigger     string         `json:"trigger"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	ReportPath  string         `json:"report_path"`
	AuditPath   string         `json:"audit_path"`
	Published   bool           `json:"published"`
	Result      scoring.Result `json:"-"`
}

// Job is the scheduled analysis run
type Job struct {
	deps         Deps
	snapshotPath string
	outputDir    string
	now          func() time.Time

	runMu sync.Mutex // held for the duration of a run
	mu    sync.RWMutex
	last  *Summary

	log zerolog.Logger
}

// NewJob creates the analysis job
func NewJob(deps Deps, snapshotPath, outputDir string, log zerolog.Logger) *Job {
	return &Job{
		deps:         deps,
		snapshotPath: snapshotPath,
		outputDir:    outputDir,
		now:          time.Now,
		log:          log.With().Str("job", "analysis").Logger(),
	}
}

// Name returns the job name
func (j *Job) Name() string {
	return "analysis"
}

// Run executes a scheduled run
func (j *Job) Run() error {
	_, err := j.Execute(context.Background(), TriggerSchedule)
	return err
}

// Last returns the most recent successful run, or nil
func (j *Job) Last() *Summary {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}

// Execute performs one run. Only one run executes at a time; a concurrent
// call returns ErrRunInProgress.
func (j *Job) Execute(ctx context.Context, trigger string) (*Summary, error) {
	if !j.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer j.runMu.Unlock()

	summary := &Summary{
		RunID:     uuid.New().String(),
		Trigger:   trigger,
		StartedAt: j.now(),
	}
	log := j.log.With().Str("run_id", summary.RunID).Str("trigger", trigger).Logger()

	j.emit(&events.RunStartedData{RunID: summary.RunID, SnapshotPath: j.snapshotPath, Trigger: trigger})
	log.Info().Str("snapshot", j.snapshotPath).Msg("Analysis run started")

	snap, err := j.deps.Loader.Load(j.snapshotPath)
	if err != nil {
		return nil, j.fail(summary.RunID, "load", err)
	}

	result := j.deps.Scorer.Evaluate(snap)
	summary.Result = result

	summary.AuditPath, err = j.deps.Audit.Write(result)
	if err != nil {
		return nil, j.fail(summary.RunID, "audit", err)
	}

	summary.CompletedAt = j.now()

	if j.deps.Store != nil {
		run := &audit.Run{
			ID:           summary.RunID,
			StartedAt:    summary.StartedAt,
			CompletedAt:  summary.CompletedAt,
			SnapshotPath: j.snapshotPath,
		}
		if err := j.deps.Store.SaveRun(ctx, run, result); err != nil {
			return nil, j.fail(summary.RunID, "audit", err)
		}
	}

	summary.ReportPath, err = j.deps.Report.WriteFile(j.outputDir, result, summary.CompletedAt)
	if err != nil {
		return nil, j.fail(summary.RunID, "report", err)
	}

	if j.deps.Publisher != nil {
		if err := j.deps.Publisher.Publish(ctx, []string{summary.ReportPath, summary.AuditPath}); err != nil {
			// The local report is complete, publishing is retried on the next run
			log.Warn().Err(err).Msg("Failed to publish report")
		} else {
			summary.Published = true
		}
	}

	j.mu.Lock()
	j.last = summary
	j.mu.Unlock()

	j.emit(&events.RunCompletedData{
		RunID:     summary.RunID,
		Evaluated: len(result.Evaluated),
		Picks:     len(result.Picks),
		Skipped:   len(result.Skipped),
		Threshold: result.Threshold,
		TopPicks:  topPicks(result.Picks),
		Duration:  summary.CompletedAt.Sub(summary.StartedAt).Seconds(),
		Published: summary.Published,
	})

	log.Info().
		Int("evaluated", len(result.Evaluated)).
		Int("picks", len(result.Picks)).
		Int("skipped", len(result.Skipped)).
		Str("report", summary.ReportPath).
		Bool("published", summary.Published).
		Msg("Analysis run completed")

	return summary, nil
}

func (j *Job) fail(runID, stage string, err error) error {
	j.emit(&events.RunFailedData{RunID: runID, Stage: stage, Error: err.Error()})
	j.log.Error().Err(err).Str("run_id", runID).Str("stage", stage).Msg("Analysis run failed")
	return fmt.Errorf("analysis %s failed: %w", stage, err)
}

func (j *Job) emit(data events.EventData) {
	if j.deps.Events != nil {
		j.deps.Events.Publish(j.Name(), data)
	}
}

func topPicks(picks []domain.ScoredStock) []string {
	n := len(picks)
	if n > topPicksInEvent {
		n = topPicksInEvent
	}
	out := make([]string, 0, n)
	for _, p := range picks[:n] {
		out = append(out, p.Symbol)
	}
	return out
}
