package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/modules/scoring"
	testingpkg "github.com/aristath/moatwatch/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredFixtures(t *testing.T) scoring.Result {
	t.Helper()
	records := testingpkg.NewStockFixtures()
	records["AAA.NS"] = testingpkg.NewQualityCompounder("AAA.NS")
	snap := domain.NewSnapshot(records, map[string]domain.ErrorRecord{
		"DEAD.NS": testingpkg.NewErrorFixture("DEAD.NS"),
	})
	return scoring.NewEngine(zerolog.Nop()).Evaluate(snap)
}

func TestFileWriter_Write(t *testing.T) {
	result := scoredFixtures(t)
	dir := filepath.Join(t.TempDir(), "out")

	path, err := NewFileWriter(dir, zerolog.Nop()).Write(result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var dump map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &dump))

	assert.Len(t, dump, len(result.Evaluated), "every evaluated stock is dumped")
	assert.NotContains(t, dump, "DEAD.NS")
	require.Contains(t, dump, "AAA.NS")
	assert.Equal(t, true, dump["AAA.NS"]["is_pick"])
	assert.Equal(t, float64(1), dump["AAA.NS"]["pick_rank"])
	assert.Contains(t, dump["AAA.NS"], "evaluations")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestRepository_SaveAndRead(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "audit")
	defer cleanup()

	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()
	result := scoredFixtures(t)

	started := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	run := &Run{StartedAt: started, CompletedAt: started.Add(time.Minute), SnapshotPath: "data/latest.json"}
	require.NoError(t, repo.SaveRun(ctx, run, result))
	require.NotEmpty(t, run.ID)
	assert.Equal(t, len(result.Evaluated), run.Evaluated)
	assert.Equal(t, 1, run.Skipped)

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.True(t, latest.CompletedAt.Equal(run.CompletedAt))
	assert.Equal(t, "data/latest.json", latest.SnapshotPath)

	picks, err := repo.ListPicks(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, picks, len(result.Picks))
	for i := range picks {
		assert.Equal(t, result.Picks[i].Symbol, picks[i].Symbol)
	}

	got, err := repo.GetEvaluation(ctx, run.ID, "AAA.NS")
	require.NoError(t, err)
	require.NotNil(t, got)
	expected, _ := result.Find("AAA.NS")
	assert.Equal(t, expected.Total, got.Total)
	assert.Equal(t, expected.Reasons, got.Reasons)
	assert.Equal(t, expected.Subtotals, got.Subtotals)
	assert.Len(t, got.Evaluations, len(expected.Evaluations))

	missing, err := repo.GetEvaluation(ctx, run.ID, "DEAD.NS")
	require.NoError(t, err)
	assert.Nil(t, missing, "error records are never stored as evaluations")

	skipped, err := repo.ListSkipped(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, "DEAD.NS", skipped[0].Symbol)
}

func TestRepository_ListRuns_NewestFirst(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "audit")
	defer cleanup()

	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	base := time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := &Run{CompletedAt: base.Add(time.Duration(i) * 24 * time.Hour)}
		require.NoError(t, repo.SaveRun(ctx, run, scoring.Result{Threshold: 10}))
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].CompletedAt.After(runs[1].CompletedAt))
	assert.Equal(t, 10.0, runs[0].Threshold)
}

func TestRepository_LatestRun_Empty(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "audit")
	defer cleanup()

	latest, err := NewRepository(db.Conn(), zerolog.Nop()).LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestRepository_SaveRun_DuplicateIDRollsBack(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "audit")
	defer cleanup()

	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()
	result := scoredFixtures(t)

	require.NoError(t, repo.SaveRun(ctx, &Run{ID: "fixed"}, result))
	require.Error(t, repo.SaveRun(ctx, &Run{ID: "fixed"}, result))

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
