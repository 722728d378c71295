package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aquasecurity/table"
	"github.com/spf13/cobra"

	"github.com/clmmsim/pipeline/pkg/model"
)

func newInspectCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a hygiene summary table for a run's episodes (read-only).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runID == "" {
				return fmt.Errorf("--run is required")
			}
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			return inspectRun(a, runID, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run id to inspect")
	return cmd
}

func inspectRun(a *app, runID string, out *os.File) error {
	episodesDir := filepath.Join(a.writer.RunDir(runID), "episodes")
	entries, err := os.ReadDir(episodesDir)
	if err != nil {
		return fmt.Errorf("reading run directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)

	t := table.New(out)
	t.SetHeaders("Episode", "Status", "Stage", "Fresh%", "Total", "Fresh", "Stale", "Missing/Old")

	for _, id := range ids {
		row := inspectEpisodeRow(a, runID, id)
		t.AddRow(row...)
	}
	t.Render()
	return nil
}

func inspectEpisodeRow(a *app, runID, episodeID string) []string {
	dir := a.writer.EpisodeDir(runID, episodeID)

	status, stage := "unknown", "-"
	if data, err := os.ReadFile(filepath.Join(dir, "result.json")); err == nil {
		var r model.EpisodeResult
		if json.Unmarshal(data, &r) == nil {
			status, stage = string(r.Status), "executed"
		}
	} else if data, err := os.ReadFile(filepath.Join(dir, "failure.json")); err == nil {
		var f struct {
			Stage string `json:"stage"`
		}
		_ = json.Unmarshal(data, &f)
		status, stage = "failed", f.Stage
	}

	hygiene := model.Hygiene{}
	if data, err := os.ReadFile(filepath.Join(dir, "metadata.json")); err == nil {
		var meta struct {
			Extra struct {
				IntelHygiene *model.Hygiene `json:"intel_hygiene"`
			} `json:"extra"`
		}
		if json.Unmarshal(data, &meta) == nil && meta.Extra.IntelHygiene != nil {
			hygiene = *meta.Extra.IntelHygiene
		}
	}

	return []string{
		episodeID,
		status,
		stage,
		fmt.Sprintf("%.1f", hygiene.FreshPercent),
		fmt.Sprintf("%d", hygiene.TotalQueries),
		fmt.Sprintf("%d", hygiene.FreshCount),
		fmt.Sprintf("%d", hygiene.StaleCount),
		fmt.Sprintf("%d", hygiene.MissingOrTooOldCount),
	}
}
