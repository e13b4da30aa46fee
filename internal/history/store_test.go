// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pkprocessing/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAssignsID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	e, err := s.Record(ctx, Entry{
		Algorithm:   "pksvm",
		CommandLine: "pksvm -t train.sqlite",
		StartedAt:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Duration:    1500 * time.Millisecond,
		Status:      types.RunSucceeded,
		Outputs:     map[string]string{"OUTPUT": "class.tif"},
	})
	require.NoError(t, err)
	_, err = uuid.Parse(e.ID)
	require.NoError(t, err, "ID should be a UUID")

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "pksvm", got.Algorithm)
	assert.Equal(t, "pksvm -t train.sqlite", got.CommandLine)
	assert.True(t, got.StartedAt.Equal(e.StartedAt))
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.Equal(t, types.RunSucceeded, got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, map[string]string{"OUTPUT": "class.tif"}, got.Outputs)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, Entry{
			Algorithm:   "pkextract_grid",
			CommandLine: "pkextractogr",
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
			Status:      types.RunFailed,
			Error:       "exit status 1",
		})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].StartedAt.Equal(base.Add(4*time.Minute)))
	assert.True(t, entries[2].StartedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "exit status 1", entries[0].Error)
	assert.Nil(t, entries[0].Outputs)
}

func TestRecordDuplicateID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	e := Entry{ID: "fixed", Algorithm: "pksvm", CommandLine: "pksvm", StartedAt: time.Now(), Status: types.RunSucceeded}
	_, err := s.Record(ctx, e)
	require.NoError(t, err)
	_, err = s.Record(ctx, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixed")
}

func TestClear(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.Record(ctx, Entry{Algorithm: "pksvm", CommandLine: "pksvm", StartedAt: time.Now(), Status: types.RunSucceeded})
		require.NoError(t, err)
	}

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, Entry{Algorithm: "pksvm", CommandLine: "pksvm", StartedAt: time.Now(), Status: types.RunSucceeded})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
