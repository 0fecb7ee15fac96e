package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/moatwatch/internal/database"
	"github.com/rs/zerolog"
)

// CheckAuditDatabaseJob verifies integrity of the audit SQLite database
type CheckAuditDatabaseJob struct {
	log     zerolog.Logger
	auditDB *database.DB
	timeout time.Duration
}

// NewCheckAuditDatabaseJob creates a new CheckAuditDatabaseJob
func NewCheckAuditDatabaseJob(auditDB *database.DB) *CheckAuditDatabaseJob {
	return &CheckAuditDatabaseJob{
		log:     zerolog.Nop(),
		auditDB: auditDB,
		timeout: time.Minute,
	}
}

// SetLogger sets the logger for the job
func (j *CheckAuditDatabaseJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *CheckAuditDatabaseJob) Name() string {
	return "check_audit_database"
}

// Run executes the integrity check
func (j *CheckAuditDatabaseJob) Run() error {
	if j.auditDB == nil {
		j.log.Warn().Msg("Audit database not initialized, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.auditDB.HealthCheck(ctx); err != nil {
		// Corruption cannot be auto-recovered
		j.log.Error().Err(err).Msg("Audit database integrity check failed")
		return fmt.Errorf("database %s is corrupted: %w", j.auditDB.Name(), err)
	}

	j.log.Info().Msg("Audit database integrity check passed")
	return nil
}
