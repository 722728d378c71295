package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkRun(t *testing.T, base, id string) string {
	t.Helper()
	dir := filepath.Join(base, "runs", id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestParseRunTimestamp(t *testing.T) {
	ts, ok := ParseRunTimestamp("run_20250101_120000")
	require.True(t, ok)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, time.January, ts.Month())
	assert.Equal(t, 1, ts.Day())
	assert.Equal(t, 12, ts.Hour())

	_, ok = ParseRunTimestamp("not_a_run_id")
	assert.False(t, ok)

	_, ok = ParseRunTimestamp("run_garbage")
	assert.False(t, ok)
}

func TestSweepRemovesOnlyExpiredRuns(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	oldRun := mkRun(t, base, "run_20250101_000000")
	recentRun := mkRun(t, base, "run_20260730_000000")
	malformed := mkRun(t, base, "not-a-run-dir")

	removed, err := Sweep(base, 90, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run_20250101_000000"}, removed)

	_, err = os.Stat(oldRun)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(recentRun)
	assert.NoError(t, err)

	_, err = os.Stat(malformed)
	assert.NoError(t, err)
}

func TestSweepOnMissingRunsDirIsNoop(t *testing.T) {
	base := t.TempDir()
	removed, err := Sweep(base, 90, time.Now())
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestSweepIsIdempotent(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	mkRun(t, base, "run_20200101_000000")

	first, err := Sweep(base, 30, now)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := Sweep(base, 30, now)
	require.NoError(t, err)
	assert.Empty(t, second)
}
