package di

import (
	"fmt"

	"github.com/aristath/moatwatch/internal/config"
	"github.com/aristath/moatwatch/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the audit database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// audit.db - Immutable history of scoring runs
	auditDB, err := database.New(database.Config{
		Path:    cfg.AuditDBPath,
		Profile: database.ProfileLedger, // Maximum safety for immutable audit trail
		Driver:  cfg.DBDriver,
		Name:    "audit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit database: %w", err)
	}

	if err := auditDB.Migrate(); err != nil {
		auditDB.Close()
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}
	container.AuditDB = auditDB

	log.Info().
		Str("path", auditDB.Path()).
		Str("driver", auditDB.Driver()).
		Msg("Audit database initialized")

	return container, nil
}
