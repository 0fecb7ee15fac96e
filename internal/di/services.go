package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/moatwatch/internal/config"
	"github.com/aristath/moatwatch/internal/events"
	"github.com/aristath/moatwatch/internal/modules/audit"
	"github.com/aristath/moatwatch/internal/modules/report"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	scoringhandlers "github.com/aristath/moatwatch/internal/modules/scoring/api/handlers"
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
	"github.com/aristath/moatwatch/internal/modules/snapshot"
	"github.com/aristath/moatwatch/internal/publish"
	"github.com/aristath/moatwatch/internal/scheduler"
	"github.com/aristath/moatwatch/internal/services/analysis"
	"github.com/rs/zerolog"
)

// InitializeServices creates every service on top of an initialized database
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}
	container.Location = loc

	// Keyword tables: built-in defaults, optionally overlaid from TOML
	if cfg.SectorTablesPath != "" {
		tables, err := scoringdomain.LoadTables(cfg.SectorTablesPath)
		if err != nil {
			return fmt.Errorf("failed to load sector tables: %w", err)
		}
		container.Tables = tables
		log.Info().Str("path", cfg.SectorTablesPath).Msg("Sector tables loaded")
	} else {
		container.Tables = scoringdomain.DefaultTables()
	}

	container.Engine = scoring.NewEngine(log,
		scoring.WithThreshold(cfg.PickThreshold),
		scoring.WithWorkers(cfg.Workers),
		scoring.WithTables(container.Tables),
	)

	container.Loader = snapshot.NewLoader(log)
	container.ScoringHandlers = scoringhandlers.NewHandlers(container.Engine, container.Loader, log)
	container.AuditWriter = audit.NewFileWriter(cfg.OutputDir, log)
	container.AuditRepo = audit.NewRepository(container.AuditDB.Conn(), log)

	renderer, err := report.NewRenderer(log)
	if err != nil {
		return fmt.Errorf("failed to initialize report renderer: %w", err)
	}
	container.Renderer = renderer

	publisher, err := publish.New(context.Background(), cfg.Publish, log)
	if err != nil {
		return fmt.Errorf("failed to initialize publisher: %w", err)
	}
	container.Publisher = publisher

	container.EventBus = events.NewBus(log)

	container.AnalysisJob = analysis.NewJob(analysis.Deps{
		Loader:    container.Loader,
		Scorer:    container.Engine,
		Audit:     container.AuditWriter,
		Store:     container.AuditRepo,
		Report:    container.Renderer,
		Publisher: container.Publisher,
		Events:    container.EventBus,
	}, cfg.SnapshotPath, cfg.OutputDir, log)

	container.Scheduler = scheduler.New(log, loc)

	log.Info().
		Float64("threshold", cfg.PickThreshold).
		Int("workers", cfg.Workers).
		Bool("publish", cfg.Publish.Enabled()).
		Msg("Services initialized")

	return nil
}
