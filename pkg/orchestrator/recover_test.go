package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverWritesFailureForOrphanedEpisode(t *testing.T) {
	o, w, runID := newTestOrchestrator(t, &fakeAgent{proposal: baseProposal()})

	require.NoError(t, w.CreateEpisode(runID, "ep_orphan"))
	require.NoError(t, w.WriteArtifact(runID, "ep_orphan", "proposal", baseProposal()))

	n, err := o.Recover(runID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(w.EpisodeDir(runID, "ep_orphan"), "failure.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "orphaned")
}

func TestRecoverSkipsCompletedAndUnstartedEpisodes(t *testing.T) {
	o, w, runID := newTestOrchestrator(t, &fakeAgent{proposal: baseProposal()})

	require.NoError(t, w.CreateEpisode(runID, "ep_never_started"))

	require.NoError(t, o.RunEpisode(context.Background(), runID, "ep_done", 1))

	n, err := o.Recover(runID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = os.Stat(filepath.Join(w.EpisodeDir(runID, "ep_never_started"), "failure.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRecoverIsIdempotent(t *testing.T) {
	o, w, runID := newTestOrchestrator(t, &fakeAgent{proposal: baseProposal()})
	require.NoError(t, w.CreateEpisode(runID, "ep_orphan"))
	require.NoError(t, w.WriteArtifact(runID, "ep_orphan", "metadata", map[string]any{"episode_id": "ep_orphan"}))

	n1, err := o.Recover(runID)
	require.NoError(t, err)
	assert.Equal(t, 1, n1)

	n2, err := o.Recover(runID)
	require.NoError(t, err)
	assert.Equal(t, 0, n2)
}

func TestRecoverOnMissingRunDirIsNoop(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, &fakeAgent{proposal: baseProposal()})
	n, err := o.Recover("run_does_not_exist")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
