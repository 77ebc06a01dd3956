package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordScan_AndLatest(t *testing.T) {
	db := openTestDB(t)

	id, err := db.RecordScan(&ScanSnapshot{
		ProjectRoot:   "/proj",
		Version:       "dev",
		FileCount:     12,
		EdgeCount:     20,
		PackageCount:  4,
		AvgImportance: 3.5,
		MaxImportance: 9,
	}, []TopFile{
		{Path: "/proj/src/index.ts", Importance: 9, Dependents: 5},
		{Path: "/proj/src/utils.ts", Importance: 7, Dependents: 3},
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	snap, err := db.GetLatestSnapshot("/proj")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 12, snap.FileCount)
	assert.Equal(t, 20, snap.EdgeCount)
	assert.InDelta(t, 3.5, snap.AvgImportance, 0.001)

	files, err := db.GetTopFiles(id)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/proj/src/index.ts", files[0].Path)
}

func TestGetLatestSnapshot_Empty(t *testing.T) {
	db := openTestDB(t)

	snap, err := db.GetLatestSnapshot("/nothing")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestDiffLatest(t *testing.T) {
	db := openTestDB(t)

	_, err := db.RecordScan(&ScanSnapshot{
		ProjectRoot: "/proj", Version: "dev",
		FileCount: 10, EdgeCount: 15, PackageCount: 3,
		AvgImportance: 3.0, MaxImportance: 8,
	}, nil)
	require.NoError(t, err)

	_, err = db.RecordScan(&ScanSnapshot{
		ProjectRoot: "/proj", Version: "dev",
		FileCount: 12, EdgeCount: 18, PackageCount: 3,
		AvgImportance: 3.2, MaxImportance: 9,
	}, nil)
	require.NoError(t, err)

	diff, err := db.DiffLatest("/proj")
	require.NoError(t, err)
	require.NotNil(t, diff.Previous)
	require.NotNil(t, diff.Current)

	byName := map[string]MetricDelta{}
	for _, d := range diff.Deltas {
		byName[d.Name] = d
	}
	assert.InDelta(t, 2, byName["files"].Delta, 0.001)
	assert.InDelta(t, 3, byName["dependency edges"].Delta, 0.001)
}

func TestDiffLatest_InsufficientHistory(t *testing.T) {
	db := openTestDB(t)

	_, err := db.RecordScan(&ScanSnapshot{ProjectRoot: "/proj", Version: "dev"}, nil)
	require.NoError(t, err)

	diff, err := db.DiffLatest("/proj")
	require.NoError(t, err)
	assert.Nil(t, diff.Previous)
	require.NotNil(t, diff.Current)
	assert.Empty(t, diff.Deltas)
}
