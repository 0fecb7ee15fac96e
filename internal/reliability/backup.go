// Package reliability keeps a restorable copy of the audit database.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aristath/moatwatch/internal/database"
	"github.com/rs/zerolog"
)

const (
	archivePrefix = "moatwatch-audit-"
	archiveSuffix = ".tar.gz"
	metadataFile  = "backup-metadata.json"
	// DefaultRetention is how many local archives are kept
	DefaultRetention = 4
)

// Uploader sends finished archives off the host
type Uploader interface {
	Publish(ctx context.Context, files []string) error
}

// BackupMetadata describes the archive contents
type BackupMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
}

// BackupJob snapshots the audit database into a tar.gz archive, uploads it
// and rotates old local archives
type BackupJob struct {
	db        *database.DB
	uploader  Uploader
	backupDir string
	retention int
	now       func() time.Time
	log       zerolog.Logger
}

// NewBackupJob creates a backup job writing archives to backupDir
func NewBackupJob(db *database.DB, uploader Uploader, backupDir string, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		db:        db,
		uploader:  uploader,
		backupDir: backupDir,
		retention: DefaultRetention,
		now:       time.Now,
		log:       log.With().Str("job", "audit_backup").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *BackupJob) Name() string {
	return "audit_backup"
}

// Run executes the backup
func (j *BackupJob) Run() error {
	_, err := j.Backup(context.Background())
	return err
}

// Backup writes one archive and returns its path. Upload failures are logged;
// the local archive is kept either way.
func (j *BackupJob) Backup(ctx context.Context) (string, error) {
	startTime := j.now()

	if err := os.MkdirAll(j.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	stagingDir, err := os.MkdirTemp(j.backupDir, "staging-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	dbFile := j.db.Name() + ".db"
	dbPath := filepath.Join(stagingDir, dbFile)

	// VACUUM INTO produces a consistent, compacted copy without blocking writers
	if _, err := j.db.Conn().ExecContext(ctx, "VACUUM INTO ?", dbPath); err != nil {
		return "", fmt.Errorf("failed to snapshot %s: %w", j.db.Name(), err)
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat snapshot: %w", err)
	}
	checksum, err := calculateChecksum(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	metadata := BackupMetadata{
		Timestamp: startTime.UTC(),
		Database:  j.db.Name(),
		Filename:  dbFile,
		SizeBytes: info.Size(),
		Checksum:  checksum,
	}
	if err := writeMetadata(filepath.Join(stagingDir, metadataFile), metadata); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	archiveName := archivePrefix + startTime.UTC().Format("2006-01-02-150405") + archiveSuffix
	archivePath := filepath.Join(j.backupDir, archiveName)
	if err := createArchive(archivePath, stagingDir, []string{dbFile, metadataFile}); err != nil {
		os.Remove(archivePath)
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if j.uploader != nil {
		if err := j.uploader.Publish(ctx, []string{archivePath}); err != nil {
			j.log.Warn().Err(err).Str("archive", archiveName).Msg("Failed to upload backup")
		}
	}

	if err := j.rotate(); err != nil {
		j.log.Warn().Err(err).Msg("Failed to rotate old backups")
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Int64("db_bytes", info.Size()).
		Msg("Audit backup completed")

	return archivePath, nil
}

// rotate deletes all but the newest retention archives
func (j *BackupJob) rotate() error {
	entries, err := os.ReadDir(j.backupDir)
	if err != nil {
		return err
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), archivePrefix) && strings.HasSuffix(e.Name(), archiveSuffix) {
			archives = append(archives, e.Name())
		}
	}
	if len(archives) <= j.retention {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(archives)
	for _, name := range archives[:len(archives)-j.retention] {
		if err := os.Remove(filepath.Join(j.backupDir, name)); err != nil {
			return err
		}
		j.log.Debug().Str("archive", name).Msg("Removed old backup")
	}
	return nil
}

func calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive creates a tar.gz archive of the named files in sourceDir
func createArchive(archivePath, sourceDir string, names []string) (err error) {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if cerr := archiveFile.Close(); err == nil {
			err = cerr
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range names {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}

func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}
