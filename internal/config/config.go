// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultPickThreshold is the minimum total score for a stock to be a pick
const DefaultPickThreshold = 10.0

// Config holds application configuration
type Config struct {
	DataDir          string  `validate:"required"` // Base directory for snapshot and audit database (always absolute)
	SnapshotPath     string  `validate:"required"`
	OutputDir        string  `validate:"required"`
	AuditDBPath      string  `validate:"required"`
	DBDriver         string  `validate:"oneof=sqlite sqlite3"`
	PickThreshold    float64 `validate:"gte=0"`
	Workers          int     `validate:"gte=1"`
	Schedule         string  `validate:"required"`
	Timezone         string  `validate:"required"`
	SectorTablesPath string
	LogLevel         string `validate:"oneof=debug info warn error"`
	Port             int    `validate:"min=1,max=65535"`
	DevMode          bool
	RunOnStart       bool
	Publish          PublishConfig
}

// PublishConfig holds the S3-compatible bucket the report is uploaded to.
// Publishing is disabled when Bucket is empty.
type PublishConfig struct {
	Bucket    string
	Prefix    string
	Region    string `validate:"required_with=Bucket"`
	Endpoint  string `validate:"omitempty,url"`
	AccessKey string `validate:"required_with=SecretKey"`
	SecretKey string `validate:"required_with=AccessKey"`
}

// Enabled reports whether a destination bucket is configured
func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("MOAT_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		SnapshotPath:     getEnv("MOAT_SNAPSHOT", filepath.Join(absDataDir, "latest.json")),
		OutputDir:        getEnv("MOAT_OUTPUT_DIR", "./output"),
		AuditDBPath:      getEnv("MOAT_AUDIT_DB", filepath.Join(absDataDir, "audit.db")),
		DBDriver:         getEnv("MOAT_DB_DRIVER", "sqlite"),
		PickThreshold:    getEnvAsFloat("MOAT_PICK_THRESHOLD", DefaultPickThreshold),
		Workers:          getEnvAsInt("MOAT_WORKERS", 1),
		Schedule:         getEnv("MOAT_SCHEDULE", "0 30 18 * * MON-FRI"), // after NSE close
		Timezone:         getEnv("MOAT_TZ", "Asia/Kolkata"),
		SectorTablesPath: getEnv("MOAT_SECTOR_TABLES", ""),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Port:             getEnvAsInt("MOAT_PORT", 8080),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		RunOnStart:       getEnvAsBool("MOAT_RUN_ON_START", false),
		Publish: PublishConfig{
			Bucket:    getEnv("MOAT_S3_BUCKET", ""),
			Prefix:    getEnv("MOAT_S3_PREFIX", ""),
			Region:    getEnv("MOAT_S3_REGION", ""),
			Endpoint:  getEnv("MOAT_S3_ENDPOINT", ""),
			AccessKey: getEnv("MOAT_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("MOAT_S3_SECRET_KEY", ""),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
