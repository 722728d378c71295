package orchestrator

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clmmsim/pipeline/pkg/artifact"
	"github.com/clmmsim/pipeline/pkg/model"
)

// Recover scans the episodes subdirectory of runID's run directory for episodes left with a
// proposal.json or metadata.json but no terminal artifact (result.json or
// failure.json) — the signature of a process crash mid-episode. Each one
// found is completed with a synthetic failure.json carrying stage
// "orphaned", so artifact completeness holds across process restarts and
// not just within one process lifetime.
//
// Recover is idempotent: re-running it over an already-recovered run finds
// nothing to do, since every orphan now has a terminal artifact.
func (o *Orchestrator) Recover(runID string) (int, error) {
	episodesDir := filepath.Join(o.writer.RunDir(runID), "episodes")
	entries, err := os.ReadDir(episodesDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		episodeID := e.Name()
		dir := filepath.Join(episodesDir, episodeID)

		if !hasAnyArtifact(dir, "proposal.json", "metadata.json") {
			continue // never started; nothing to recover
		}
		if hasAnyArtifact(dir, "result.json", "failure.json") {
			continue // already terminal
		}

		f := Failure{
			Stage:     "orphaned",
			Error:     "episode left without a terminal artifact; recovered at campaign start",
			ExitCode:  1,
			ExecMode:  model.ExecModeMock,
			Timestamp: time.Now(),
		}
		if err := o.writer.WriteArtifact(runID, episodeID, artifact.KindFailure, f); err != nil {
			return recovered, err
		}
		_ = o.writer.MergeMetadata(runID, episodeID, map[string]any{
			"episode_id": episodeID,
			"run_id":     runID,
		})
		slog.Warn("recovered orphaned episode", "run_id", runID, "episode_id", episodeID)
		recovered++
	}
	return recovered, nil
}

func hasAnyArtifact(dir string, names ...string) bool {
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(dir, n)); err == nil {
			return true
		}
	}
	return false
}
