package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newCampaignCmd() *cobra.Command {
	var (
		runID    string
		episodes int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Run N sequential episodes in one run directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			if episodes <= 0 {
				return fmt.Errorf("--episodes must be positive")
			}
			if runID == "" {
				runID = newRunID()
			}
			if err := a.writer.CreateRun(runID); err != nil {
				return err
			}
			if n, err := a.orch.Recover(runID); err != nil {
				return fmt.Errorf("recovering orphaned episodes: %w", err)
			} else if n > 0 {
				slog.Warn("recovered orphaned episodes before campaign start", "run_id", runID, "count", n)
			}

			for i := 0; i < episodes; i++ {
				episodeID := newEpisodeID(i + 1)
				episodeSeed := seed + int64(i)
				if err := a.orch.RunEpisode(cmd.Context(), runID, episodeID, episodeSeed); err != nil {
					return fmt.Errorf("episode %s: %w", episodeID, err)
				}
			}
			fmt.Printf("run=%s episodes=%d complete\n", runID, episodes)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&runID, "run", "", "run id to use (default: generated from the current time)")
	f.IntVar(&episodes, "episodes", 1, "number of sequential episodes to run")
	f.Int64Var(&seed, "seed", 0, "base deterministic seed; episode i uses seed+i")
	return cmd
}
