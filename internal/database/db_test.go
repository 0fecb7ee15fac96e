package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "audit.db"),
		Profile: ProfileLedger,
		Name:    "audit",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBuildConnectionString_Profiles(t *testing.T) {
	ledger := buildConnectionString("/tmp/a.db", ProfileLedger)
	assert.True(t, strings.HasPrefix(ledger, "/tmp/a.db?_pragma=journal_mode(WAL)"))
	assert.Contains(t, ledger, "synchronous(FULL)")
	assert.Contains(t, ledger, "auto_vacuum(NONE)")
	assert.Contains(t, ledger, "foreign_keys(1)")

	cache := buildConnectionString("/tmp/c.db", ProfileCache)
	assert.Contains(t, cache, "synchronous(OFF)")

	standard := buildConnectionString("/tmp/s.db", ProfileStandard)
	assert.Contains(t, standard, "synchronous(NORMAL)")
}

func TestBuildMattnConnectionString(t *testing.T) {
	connStr := buildMattnConnectionString("/tmp/a.db", ProfileLedger)
	assert.Equal(t, "file:/tmp/a.db?_journal_mode=WAL&_foreign_keys=1&_busy_timeout=5000&_synchronous=FULL&_auto_vacuum=NONE", connStr)

	mem := buildMattnConnectionString("file:test?mode=memory", ProfileStandard)
	assert.True(t, strings.HasPrefix(mem, "file:test?mode=memory&_journal_mode=WAL"))
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db"), Driver: "postgres", Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrate_AuditSchema(t *testing.T) {
	db := newAuditDB(t)
	require.NoError(t, db.Migrate())
	// Second run must be a no-op
	require.NoError(t, db.Migrate())

	for _, table := range []string{"runs", "evaluations", "skipped_records"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "other.db"), Name: "other"})
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Migrate())
	assert.Equal(t, ProfileStandard, db.Profile())
	assert.Equal(t, DriverModernc, db.Driver())
}

func TestWithTransaction(t *testing.T) {
	db := newAuditDB(t)
	require.NoError(t, db.Migrate())

	insert := func(tx *sql.Tx, id string) error {
		_, err := tx.Exec(`INSERT INTO runs (id, started_at, completed_at, threshold) VALUES (?, 'a', 'b', 10)`, id)
		return err
	}

	t.Run("commit on success", func(t *testing.T) {
		require.NoError(t, WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			return insert(tx, "run-1")
		}))
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM runs WHERE id = 'run-1'").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx, "run-2"))
			return boom
		})
		require.ErrorIs(t, err, boom)
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM runs WHERE id = 'run-2'").Scan(&n))
		assert.Equal(t, 0, n)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx, "run-3"))
			panic("kaboom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in transaction")
	})

	t.Run("nil connection", func(t *testing.T) {
		assert.Error(t, WithTransaction(nil, func(*sql.Tx) error { return nil }))
	})
}

func TestHealthAndMaintenance(t *testing.T) {
	db := newAuditDB(t)
	require.NoError(t, db.Migrate())
	ctx := context.Background()

	assert.NoError(t, db.QuickCheck(ctx))
	assert.NoError(t, db.HealthCheck(ctx))
	assert.NoError(t, db.WALCheckpoint(""))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}
