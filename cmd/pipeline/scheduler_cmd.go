package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/clmmsim/pipeline/pkg/retention"
	"github.com/clmmsim/pipeline/pkg/scheduler"
)

func newSchedulerCmd() *cobra.Command {
	var (
		tick    time.Duration
		workers int
		pools   string
		serve   bool
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the background refresher's run-forever loop until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			if tick > 0 {
				a.cfg.Scheduler.TickInterval = tick
			}
			if workers > 0 {
				a.cfg.Scheduler.WorkerCount = workers
			}

			promReg := prometheus.NewRegistry()
			metrics := scheduler.NewMetrics(promReg)

			pool := scheduler.NewWorkerPool(
				a.cfg.Scheduler.WorkerCount,
				a.cfg.Scheduler.QueueCapacity,
				a.store,
				a.caller,
				a.cfg.Scheduler.JobTimeout,
				a.cfg.Scheduler.BackendRatePerSecond,
				a.cfg.Scheduler.BackendRateBurst,
				metrics,
			)

			configuredPools := splitNonEmpty(pools)
			activePools := func() []scheduler.PoolActivity {
				recent := scheduler.RecentPoolActivity(a.cfg.BaseDir(), 20)
				return scheduler.ActivePoolSet(recent, configuredPools, a.cfg.Scheduler.PoolCap)
			}

			budget := a.cfg.Scheduler.ExpensiveBudgetPerTick
			sched := scheduler.New(a.reg, a.store, pool, a.triggers, metrics, scheduler.Config{
				TickInterval:    a.cfg.Scheduler.TickInterval,
				TriggerHorizon:  a.cfg.Scheduler.TriggerHorizon,
				ExpensiveBudget: budget,
				HardP0Exempt:    a.cfg.Scheduler.ExpensiveBudgetHardP0Exempt,
				ShutdownGrace:   a.cfg.Scheduler.ShutdownGrace,
			}, activePools)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if a.retention != nil && a.retention.Enabled {
				startRetention(ctx, a)
			}
			if serve {
				startMetricsServer(ctx, addr, promReg)
			}

			slog.Info("scheduler starting", "tick_interval", a.cfg.Scheduler.TickInterval, "workers", a.cfg.Scheduler.WorkerCount)
			sched.RunForever(ctx)
			slog.Info("scheduler stopped")
			return nil
		},
	}

	f := cmd.Flags()
	f.DurationVar(&tick, "tick", 0, "override the configured tick interval")
	f.IntVar(&workers, "workers", 0, "override the configured worker count")
	f.StringVar(&pools, "pools", "", "comma-separated pool addresses forming the active pool set override")
	f.BoolVar(&serve, "serve-metrics", false, "also serve /metrics and /healthz over HTTP")
	f.StringVar(&addr, "metrics-addr", ":9090", "listen address for --serve-metrics")
	return cmd
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func startRetention(ctx context.Context, a *app) {
	svc := retention.NewService(*a.retention, a.cfg.BaseDir())
	svc.Start(ctx)
	go func() {
		<-ctx.Done()
		svc.Stop()
	}()
}
