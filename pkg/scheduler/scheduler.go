package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/registry"
)

// Scheduler drives the tick loop (spec.md §4.5). One Scheduler owns the
// trigger log, the registry, QualityKV, and a worker pool; RunForever
// should be started exactly once per process.
type Scheduler struct {
	reg     *registry.Registry
	store   *cachekv.Store
	pool    *WorkerPool
	trigger *TriggerLog
	metrics *Metrics

	tickInterval    time.Duration
	triggerHorizon  time.Duration
	expensiveBudget int
	hardP0Exempt    bool
	shutdownGrace   time.Duration

	activePools func() []PoolActivity
}

// Config bundles Scheduler construction parameters sourced from
// pkg/config.SchedulerConfig.
type Config struct {
	TickInterval    time.Duration
	TriggerHorizon  time.Duration
	ExpensiveBudget int
	HardP0Exempt    bool
	ShutdownGrace   time.Duration
}

// New builds a Scheduler. activePools supplies the current active pool set
// each tick (e.g. backed by recent-episode lookback or static config).
func New(reg *registry.Registry, store *cachekv.Store, pool *WorkerPool, trigger *TriggerLog, metrics *Metrics, cfg Config, activePools func() []PoolActivity) *Scheduler {
	return &Scheduler{
		reg:             reg,
		store:           store,
		pool:            pool,
		trigger:         trigger,
		metrics:         metrics,
		tickInterval:    cfg.TickInterval,
		triggerHorizon:  cfg.TriggerHorizon,
		expensiveBudget: cfg.ExpensiveBudget,
		hardP0Exempt:    cfg.HardP0Exempt,
		shutdownGrace:   cfg.ShutdownGrace,
		activePools:     activePools,
	}
}

// RunForever loops Tick at the configured interval until ctx is cancelled,
// then drains in-flight workers for up to the configured grace period
// before returning (spec.md §4.5 "Run-forever").
func (s *Scheduler) RunForever(ctx context.Context) {
	s.pool.Start(ctx)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down", "grace", s.shutdownGrace)
			s.pool.Stop(s.shutdownGrace)
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one refresh cycle (spec.md §4.5 steps 1-5).
func (s *Scheduler) Tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.TickDuration.Observe(time.Since(start).Seconds())
		}
	}()

	triggers, err := s.trigger.Drain(start, s.triggerHorizon)
	if err != nil {
		slog.Error("draining trigger log", "error", err)
	}
	if s.metrics != nil {
		s.metrics.TriggerDepth.Set(float64(len(triggers)))
	}

	active := s.activePools()
	jobs := BuildPlan(s.reg, active, triggers, s.store, start)
	jobs = ApplyBudget(jobs, s.expensiveBudget, s.hardP0Exempt)

	dropped := s.pool.Dispatch(jobs)
	if s.metrics != nil {
		for _, j := range jobs {
			s.metrics.JobsDispatched.WithLabelValues(string(j.Reason)).Inc()
		}
		s.metrics.JobsDropped.Add(float64(dropped))
	}

	slog.Debug("scheduler tick complete", "dispatched", len(jobs), "dropped", dropped, "triggers", len(triggers))
}
