/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server and the commands.
 */
package di

import (
	"time"

	"github.com/aristath/moatwatch/internal/database"
	"github.com/aristath/moatwatch/internal/events"
	"github.com/aristath/moatwatch/internal/modules/audit"
	"github.com/aristath/moatwatch/internal/modules/report"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	scoringhandlers "github.com/aristath/moatwatch/internal/modules/scoring/api/handlers"
	scoringdomain "github.com/aristath/moatwatch/internal/modules/scoring/domain"
	"github.com/aristath/moatwatch/internal/modules/snapshot"
	"github.com/aristath/moatwatch/internal/publish"
	"github.com/aristath/moatwatch/internal/reliability"
	"github.com/aristath/moatwatch/internal/scheduler"
	"github.com/aristath/moatwatch/internal/services/analysis"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Database: audit.db, the append-only run history (ledger profile)
 * - Scoring: keyword tables, the scoring engine and its HTTP handlers
 * - Outputs: audit file writer, run repository, report renderer, publisher
 * - Orchestration: event bus, analysis job and the cron scheduler
 */
type Container struct {
	// Database
	AuditDB *database.DB // Append-only run history

	// Scoring
	Tables          *scoringdomain.Tables
	Engine          *scoring.Engine
	ScoringHandlers *scoringhandlers.Handlers

	// Input and outputs
	Loader      *snapshot.Loader
	AuditWriter *audit.FileWriter
	AuditRepo   *audit.Repository
	Renderer    *report.Renderer
	Publisher   publish.Publisher

	// Orchestration
	EventBus    *events.Bus
	AnalysisJob *analysis.Job
	Scheduler   *scheduler.Scheduler
	Location    *time.Location
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c == nil || c.AuditDB == nil {
		return nil
	}
	return c.AuditDB.Close()
}

// JobInstances holds the scheduled jobs for manual triggering
type JobInstances struct {
	Analysis            *analysis.Job
	CheckAuditDatabase  *scheduler.CheckAuditDatabaseJob
	CheckWALCheckpoints *scheduler.CheckWALCheckpointsJob
	Backup              *reliability.BackupJob
}
