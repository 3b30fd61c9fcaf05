package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRunParams() RunParams {
	return RunParams{
		DatasetPath:  "data/rates.csv",
		BoundaryPath: "data/counties.geojson",
		Palette:      "pink-blue",
		K:            3,
	}
}

func TestSQLiteStore_CreateAndGetRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testRunParams())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "data/rates.csv", got.DatasetPath)
	assert.Equal(t, "data/counties.geojson", got.BoundaryPath)
	assert.Equal(t, "pink-blue", got.Palette)
	assert.Equal(t, 3, got.K)
	assert.Equal(t, RunStatusRunning, got.Status)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_CompleteRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testRunParams())
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, run.ID, "out/map.png", 56, 2))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusComplete, got.Status)
	assert.Equal(t, "out/map.png", got.OutputPath)
	assert.Equal(t, 56, got.Joined)
	assert.Equal(t, 2, got.Dropped)
}

func TestSQLiteStore_FailRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testRunParams())
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, assert.AnError))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, assert.AnError.Error(), got.Error)
}

func TestSQLiteStore_UpdateMissingRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	assert.Error(t, s.CompleteRun(ctx, "missing", "map.png", 0, 0))
	assert.Error(t, s.FailRun(ctx, "missing", assert.AnError))
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, testRunParams())
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, testRunParams())
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, second.ID, "map.png", 10, 0))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, second.ID, complete[0].ID)

	running, err := s.ListRuns(ctx, RunFilter{Status: RunStatusRunning})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, first.ID, running[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_Assignments(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testRunParams())
	require.NoError(t, err)

	assignments := []Assignment{
		{County: "Tuolumne", X: 5.5, Y: 69.7, BinX: 1, BinY: 2, Color: "#8c62aa"},
		{County: "Alameda", X: 5.1, Y: 49.4, BinX: 0, BinY: 0, Color: "#e8e8e8"},
	}
	require.NoError(t, s.SaveAssignments(ctx, run.ID, assignments))

	got, err := s.ListAssignments(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by county name.
	assert.Equal(t, "Alameda", got[0].County)
	assert.Equal(t, 0, got[0].BinX)
	assert.Equal(t, "#e8e8e8", got[0].Color)
	assert.Equal(t, "Tuolumne", got[1].County)
	assert.Equal(t, run.ID, got[1].RunID)
	assert.InDelta(t, 69.7, got[1].Y, 1e-9)
}

func TestSQLiteStore_SaveAssignmentsEmpty(t *testing.T) {
	s := newTestSQLiteStore(t)
	assert.NoError(t, s.SaveAssignments(context.Background(), "any", nil))
}
