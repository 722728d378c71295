package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clmmsim/pipeline/pkg/config"
)

func newEpisodeCmd() *cobra.Command {
	var (
		runID       string
		seed        int64
		environment string
	)

	cmd := &cobra.Command{
		Use:   "episode",
		Short: "Run exactly one episode through the orchestrator and exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			if environment != "" {
				env := config.Environment(environment)
				if !env.IsValid() {
					return fmt.Errorf("invalid --environment %q", environment)
				}
				a.cfg.Run.Environment = env
			}
			if runID == "" {
				runID = newRunID()
			}
			if err := a.writer.CreateRun(runID); err != nil {
				return err
			}
			if _, err := a.orch.Recover(runID); err != nil {
				return fmt.Errorf("recovering orphaned episodes: %w", err)
			}

			episodeID := newEpisodeID(1)
			if err := a.orch.RunEpisode(cmd.Context(), runID, episodeID, seed); err != nil {
				return err
			}
			fmt.Printf("run=%s episode=%s complete\n", runID, episodeID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&runID, "run", "", "run id to use (default: generated from the current time)")
	f.Int64Var(&seed, "seed", 0, "deterministic seed for the mock executor")
	f.StringVar(&environment, "environment", "", "override the configured environment (mock|real)")
	return cmd
}

func newRunID() string {
	return "run_" + time.Now().Format("20060102_150405")
}

// newEpisodeID builds an episode identifier in the ep_<YYYYMMDD_HHMMSS>_<n>
// form (spec.md §6 "Run and episode identifiers"), matching the timestamp
// convention newRunID uses for run identifiers.
func newEpisodeID(n int) string {
	return fmt.Sprintf("ep_%s_%d", time.Now().Format("20060102_150405"), n)
}
