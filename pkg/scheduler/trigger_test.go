package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendThenDrainReturnsTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.jsonl")
	log := NewTriggerLog(path)

	now := time.Now()
	require.NoError(t, log.AppendAt("operator", "0xABC", "", now))

	triggers, err := log.Drain(now, 10*time.Minute)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "0xABC", triggers[0].Pool)
}

func TestDrainDiscardsTriggersOlderThanHorizon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.jsonl")
	log := NewTriggerLog(path)

	now := time.Now()
	require.NoError(t, log.AppendAt("stale-trigger", "0xABC", "", now.Add(-time.Hour)))

	triggers, err := log.Drain(now, 10*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, triggers)
}

func TestDrainTruncatesLogAfterReading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.jsonl")
	log := NewTriggerLog(path)
	now := time.Now()
	require.NoError(t, log.AppendAt("a", "p", "", now))

	_, err := log.Drain(now, 10*time.Minute)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDrainSkipsMalformedLinesIndividually(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n{\"reason\":\"ok\",\"pool\":\"p\",\"at\":\""+
		time.Now().Format(time.RFC3339)+"\"}\n"), 0o644))

	log := NewTriggerLog(path)
	triggers, err := log.Drain(time.Now(), 10*time.Minute)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "ok", triggers[0].Reason)
}
