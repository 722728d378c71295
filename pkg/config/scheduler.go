package config

import "time"

// SchedulerConfig controls the background refresh scheduler's tick loop,
// worker pool, and per-tick budgets.
type SchedulerConfig struct {
	// WorkerCount is the number of worker goroutines processing the
	// dispatch queue each tick. Default 3.
	WorkerCount int `yaml:"worker_count"`

	// TickInterval is the wall interval between Tick invocations in
	// run-forever mode. Default 60s.
	TickInterval time.Duration `yaml:"tick_interval"`

	// JobTimeout bounds a single worker's call to the analytics backend.
	// Default 30s.
	JobTimeout time.Duration `yaml:"job_timeout"`

	// ShutdownGrace bounds how long run-forever waits for in-flight
	// workers to drain on cancellation. Default 30s.
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`

	// PoolCap is the maximum size (K) of the active pool set. Default 3.
	PoolCap int `yaml:"pool_cap"`

	// QueueCapacity bounds the per-tick dispatch channel; surplus items
	// are dropped and recomputed next tick. Default 64.
	QueueCapacity int `yaml:"queue_capacity"`

	// ExpensiveBudgetPerTick caps the number of expensive-cost-class items
	// dispatched in a single tick. Default 1.
	ExpensiveBudgetPerTick int `yaml:"expensive_budget_per_tick"`

	// ExpensiveBudgetHardP0Exempt controls whether P0 items are exempt from
	// ExpensiveBudgetPerTick (spec.md §9: "hard" is the named default).
	ExpensiveBudgetHardP0Exempt bool `yaml:"expensive_budget_hard_p0_exempt"`

	// TriggerHorizon bounds how old a trigger-log entry may be before it is
	// discarded unprocessed. Default 10m.
	TriggerHorizon time.Duration `yaml:"trigger_horizon"`

	// BackendRatePerSecond limits outbound analytics backend calls per
	// second via a token-bucket limiter. Default 5.
	BackendRatePerSecond float64 `yaml:"backend_rate_per_second"`

	// BackendRateBurst is the limiter's burst size. Default 5.
	BackendRateBurst int `yaml:"backend_rate_burst"`
}

// DefaultSchedulerConfig returns the built-in scheduler defaults.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		WorkerCount:                 3,
		TickInterval:                60 * time.Second,
		JobTimeout:                  30 * time.Second,
		ShutdownGrace:               30 * time.Second,
		PoolCap:                     3,
		QueueCapacity:               64,
		ExpensiveBudgetPerTick:      1,
		ExpensiveBudgetHardP0Exempt: true,
		TriggerHorizon:              10 * time.Minute,
		BackendRatePerSecond:        5,
		BackendRateBurst:            5,
	}
}
