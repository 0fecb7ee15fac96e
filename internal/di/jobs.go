package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/moatwatch/internal/config"
	"github.com/aristath/moatwatch/internal/reliability"
	"github.com/aristath/moatwatch/internal/scheduler"
	"github.com/rs/zerolog"
)

// Maintenance schedules (seconds field first)
const (
	walCheckpointSchedule = "0 0 * * * *"  // hourly
	integritySchedule     = "0 0 3 * * SUN" // weekly, outside market hours
	backupSchedule        = "0 0 4 * * SUN"
)

// RegisterJobs registers all jobs with the scheduler.
// Returns JobInstances for manual triggering.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.Scheduler == nil {
		return nil, fmt.Errorf("container is not initialized")
	}

	instances := &JobInstances{
		Analysis:            container.AnalysisJob,
		CheckAuditDatabase:  scheduler.NewCheckAuditDatabaseJob(container.AuditDB),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(container.AuditDB),
		Backup: reliability.NewBackupJob(container.AuditDB, container.Publisher,
			filepath.Join(cfg.DataDir, "backups"), log),
	}
	instances.CheckAuditDatabase.SetLogger(log)
	instances.CheckWALCheckpoints.SetLogger(log)

	if err := container.Scheduler.AddJob(cfg.Schedule, instances.Analysis); err != nil {
		return nil, fmt.Errorf("failed to register analysis job: %w", err)
	}
	if err := container.Scheduler.AddJob(walCheckpointSchedule, instances.CheckWALCheckpoints); err != nil {
		return nil, fmt.Errorf("failed to register WAL checkpoint job: %w", err)
	}
	if err := container.Scheduler.AddJob(integritySchedule, instances.CheckAuditDatabase); err != nil {
		return nil, fmt.Errorf("failed to register integrity job: %w", err)
	}
	if err := container.Scheduler.AddJob(backupSchedule, instances.Backup); err != nil {
		return nil, fmt.Errorf("failed to register backup job: %w", err)
	}

	log.Info().Int("jobs", container.Scheduler.Entries()).Msg("Jobs registered")
	return instances, nil
}
