package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.RecordRun(ctx, Run{
		InputPath:    "borings.csv",
		TargetCounty: "MARION",
		Zone:         "EAST",
		RowsIn:       10,
		RowsKept:     8,
		RowsDropped:  2,
		AutoDetect:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "borings.csv", got.InputPath)
	assert.Equal(t, "MARION", got.TargetCounty)
	assert.Equal(t, "EAST", got.Zone)
	assert.Equal(t, 8, got.RowsKept)
	assert.Equal(t, 2, got.RowsDropped)
	assert.True(t, got.AutoDetect)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.RecordRun(ctx, Run{
			InputPath:    "f.csv",
			TargetCounty: "MARION",
			Zone:         "EAST",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
}

func TestSQLiteStore_EmptyList(t *testing.T) {
	s := newTestStore(t)
	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
