package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifactThenReadBack(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	require.NoError(t, w.CreateRun("run_20260731_120000"))
	require.NoError(t, w.CreateEpisode("run_20260731_120000", "ep_20260731_120000_1"))

	require.NoError(t, w.WriteArtifact("run_20260731_120000", "ep_20260731_120000_1", KindProposal,
		map[string]any{"episode_id": "ep_20260731_120000_1"}))

	path := filepath.Join(w.EpisodeDir("run_20260731_120000", "ep_20260731_120000_1"), "proposal.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "ep_20260731_120000_1", got["episode_id"])
}

func TestWriteArtifactLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	require.NoError(t, w.CreateRun("run_1"))
	require.NoError(t, w.CreateEpisode("run_1", "ep_1"))
	require.NoError(t, w.WriteArtifact("run_1", "ep_1", KindMetadata, map[string]any{"a": 1}))

	entries, err := os.ReadDir(w.EpisodeDir("run_1", "ep_1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "metadata.json", entries[0].Name())
}

func TestMergeMetadataDeepMergesAndPreservesPriorKeys(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	require.NoError(t, w.CreateRun("run_1"))
	require.NoError(t, w.CreateEpisode("run_1", "ep_1"))

	require.NoError(t, w.WriteArtifact("run_1", "ep_1", KindMetadata, map[string]any{
		"episode_id": "ep_1",
		"extra": map[string]any{
			"intel_snapshot": map[string]any{"gas_regime()": map[string]any{"quality": "fresh"}},
		},
	}))

	require.NoError(t, w.MergeMetadata("run_1", "ep_1", map[string]any{
		"extra": map[string]any{
			"intel_hygiene": map[string]any{"total_queries": 1},
		},
	}))

	path := filepath.Join(w.EpisodeDir("run_1", "ep_1"), "metadata.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "ep_1", got["episode_id"])

	extra := got["extra"].(map[string]any)
	assert.Contains(t, extra, "intel_snapshot")
	assert.Contains(t, extra, "intel_hygiene")
}

func TestAppendLogWritesLineDelimitedJSON(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	require.NoError(t, w.CreateRun("run_1"))
	require.NoError(t, w.CreateEpisode("run_1", "ep_1"))

	require.NoError(t, w.AppendLog("run_1", "ep_1", "proposed", map[string]any{"n": 1}))
	require.NoError(t, w.AppendLog("run_1", "ep_1", "executed", map[string]any{"n": 2}))

	data, err := os.ReadFile(filepath.Join(w.EpisodeDir("run_1", "ep_1"), "logs.jsonl"))
	require.NoError(t, err)

	lines := splitLines(string(data))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "proposed", first["event"])
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
