package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, 64, prefs.HashMB, "defaults on empty database")

	prefs.HashMB = 256
	prefs.MultiPV = 4
	prefs.Ponder = true
	require.NoError(t, s.SavePreferences(prefs))

	loaded, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, 256, loaded.HashMB)
	assert.Equal(t, 4, loaded.MultiPV)
	assert.True(t, loaded.Ponder)
	assert.False(t, loaded.LastUsed.IsZero())
}

func TestRecordSearchAccumulates(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.RecordSearch(SearchRecord{Depth: 12, Nodes: 100000, Duration: time.Second}))
	require.NoError(t, s.RecordSearch(SearchRecord{Depth: 9, Nodes: 50000, Duration: time.Second / 2}))

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Searches)
	assert.Equal(t, uint64(150000), stats.TotalNodes)
	assert.Equal(t, 12, stats.DeepestSearch)
	assert.Equal(t, 3*time.Second/2, stats.TotalTime)
	assert.InDelta(t, 100000, stats.NodesPerSecond(), 1)
}

func TestStatsEmpty(t *testing.T) {
	stats := NewSearchStats()
	assert.Zero(t, stats.Searches)
	assert.Zero(t, stats.NodesPerSecond())
}
