package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	database, err := Open(MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB))
	// Second run finds nothing to do
	require.NoError(t, RunMigrations(database.DB))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)

	for _, table := range []string{"leagues", "standings", "tournaments", "tournament_participants", "matches", "match_legs", "match_results"} {
		assert.Contains(t, tables, table)
	}
}

func TestOpenFileDatabase(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "cups.db"))
	require.NoError(t, err)
	defer database.Close()

	var busyTimeout int64
	require.NoError(t, database.Get(&busyTimeout, "PRAGMA busy_timeout"))
	assert.Equal(t, BusyTimeout.Milliseconds(), busyTimeout)

	var journalMode string
	require.NoError(t, database.Get(&journalMode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", journalMode)
}
