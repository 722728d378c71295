package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clmmsim/pipeline/pkg/agentclient"
	"github.com/clmmsim/pipeline/pkg/analytics"
	"github.com/clmmsim/pipeline/pkg/artifact"
	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/config"
	"github.com/clmmsim/pipeline/pkg/gate"
	"github.com/clmmsim/pipeline/pkg/gateway"
	"github.com/clmmsim/pipeline/pkg/harness"
	"github.com/clmmsim/pipeline/pkg/intel"
	"github.com/clmmsim/pipeline/pkg/orchestrator"
	"github.com/clmmsim/pipeline/pkg/registry"
	"github.com/clmmsim/pipeline/pkg/scheduler"
)

var (
	flagConfigDir string
	flagBaseDir   string
)

// connectionFlags groups the flags that locate config and data on disk in
// their own pflag.FlagSet, separate from per-subcommand flags, the way
// the teacher's CLI groups connection flags apart from operation flags.
func connectionFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("connection", pflag.ContinueOnError)
	fs.StringVar(&flagConfigDir, "config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "path to configuration directory")
	fs.StringVar(&flagBaseDir, "base-dir", getEnv("BASE_DIR", "./data"), "root directory under which runs/ is created")
	return fs
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "CLMM research pipeline: episode orchestration and background intel refresh.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().AddFlagSet(connectionFlags())

	root.AddCommand(newEpisodeCmd())
	root.AddCommand(newCampaignCmd())
	root.AddCommand(newSchedulerCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// app bundles the components shared by every subcommand.
type app struct {
	cfg       *config.Config
	reg       *registry.Registry
	store     *cachekv.Store
	writer    *artifact.Writer
	orch      *orchestrator.Orchestrator
	triggers  *scheduler.TriggerLog
	caller    analytics.Caller
	retention *config.RetentionConfig
}

// buildApp loads configuration and constructs every long-lived component,
// following the teacher's cmd/tarsy/main.go load-then-wire sequence.
func buildApp(ctx context.Context) (*app, error) {
	envPath := filepath.Join(flagConfigDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	cfg, err := config.Initialize(ctx, flagConfigDir, flagBaseDir)
	if err != nil {
		return nil, fmt.Errorf("initializing configuration: %w", err)
	}

	reg, err := registry.LoadYAML(cfg.RegistryPath())
	if err != nil {
		slog.Warn("registry.yaml not found or invalid, falling back to built-in defaults", "path", cfg.RegistryPath(), "error", err)
		reg = registry.NewDefault()
	}

	store, err := cachekv.Open(filepath.Join(cfg.BaseDir(), "cache.json"))
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	writer := artifact.New(cfg.BaseDir())
	_ = os.MkdirAll(cfg.BaseDir(), 0o755)

	triggers := scheduler.NewTriggerLog(filepath.Join(cfg.BaseDir(), "triggers.jsonl"))

	mock := harness.NewMockExecutor()

	var live harness.Executor
	var gw gateway.Mock
	if cfg.Run.Environment == config.EnvironmentReal {
		live = harness.NewLiveExecutor(gateway.New(cfg.Gateway.BaseURL, os.Getenv(cfg.Gateway.TokenEnv)), float64(cfg.Gateway.MaxGasCeiling))
	} else {
		live = harness.NewLiveExecutor(&gw, float64(cfg.Gateway.MaxGasCeiling))
	}

	var caller analytics.Caller = analytics.MockCaller{}
	if cfg.Run.IntelSource == config.IntelSourceDune {
		caller = analytics.NewHTTPCaller(cfg.Analytics.BaseURL, os.Getenv(cfg.Analytics.TokenEnv))
	}

	orch := orchestrator.New(orchestrator.Params{
		Writer:      writer,
		Agent:       &agentclient.Mock{},
		Validator:   gate.New(gate.DefaultBounds()),
		Chain:       "ethereum",
		Mock:        mock,
		Live:        live,
		Environment: cfg.Run.Environment,
		ForceMock:   cfg.Run.ForceMock,
		Triggers:    triggers,
		NewAccessor: func() *intel.Accessor { return intel.New(store, reg, triggers) },
	})

	return &app{
		cfg:       cfg,
		reg:       reg,
		store:     store,
		writer:    writer,
		orch:      orch,
		triggers:  triggers,
		caller:    caller,
		retention: cfg.Retention,
	}, nil
}
