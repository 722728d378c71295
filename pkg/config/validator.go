package config

import "fmt"

// Validator validates configuration comprehensively with clear error
// messages, mirroring the teacher's per-component validate* method style.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast: stops at the
// first error, mirroring the teacher's validateQueue → ... → validateChains
// ordering).
func (v *Validator) ValidateAll() error {
	if err := v.validateRun(); err != nil {
		return fmt.Errorf("run validation failed: %w", err)
	}
	if err := v.validateScheduler(); err != nil {
		return fmt.Errorf("scheduler validation failed: %w", err)
	}
	if err := v.validateRetention(); err != nil {
		return fmt.Errorf("retention validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateRun() error {
	r := v.cfg.Run
	if r == nil {
		return NewValidationError("run", "", fmt.Errorf("run configuration is nil"))
	}
	if !r.Environment.IsValid() {
		return NewValidationError("run", "environment", fmt.Errorf("%w: %q", ErrInvalidValue, r.Environment))
	}
	if !r.IntelSource.IsValid() {
		return NewValidationError("run", "intel_source", fmt.Errorf("%w: %q", ErrInvalidValue, r.IntelSource))
	}
	return nil
}

func (v *Validator) validateScheduler() error {
	s := v.cfg.Scheduler
	if s == nil {
		return NewValidationError("scheduler", "", fmt.Errorf("scheduler configuration is nil"))
	}
	if s.WorkerCount < 1 || s.WorkerCount > 50 {
		return NewValidationError("scheduler", "worker_count", fmt.Errorf("must be between 1 and 50, got %d", s.WorkerCount))
	}
	if s.TickInterval <= 0 {
		return NewValidationError("scheduler", "tick_interval", fmt.Errorf("must be positive, got %v", s.TickInterval))
	}
	if s.JobTimeout <= 0 {
		return NewValidationError("scheduler", "job_timeout", fmt.Errorf("must be positive, got %v", s.JobTimeout))
	}
	if s.ShutdownGrace <= 0 {
		return NewValidationError("scheduler", "shutdown_grace", fmt.Errorf("must be positive, got %v", s.ShutdownGrace))
	}
	if s.PoolCap < 1 {
		return NewValidationError("scheduler", "pool_cap", fmt.Errorf("must be at least 1, got %d", s.PoolCap))
	}
	if s.QueueCapacity < 1 {
		return NewValidationError("scheduler", "queue_capacity", fmt.Errorf("must be at least 1, got %d", s.QueueCapacity))
	}
	if s.ExpensiveBudgetPerTick < 0 {
		return NewValidationError("scheduler", "expensive_budget_per_tick", fmt.Errorf("must be non-negative, got %d", s.ExpensiveBudgetPerTick))
	}
	if s.TriggerHorizon <= 0 {
		return NewValidationError("scheduler", "trigger_horizon", fmt.Errorf("must be positive, got %v", s.TriggerHorizon))
	}
	if s.BackendRatePerSecond <= 0 {
		return NewValidationError("scheduler", "backend_rate_per_second", fmt.Errorf("must be positive, got %v", s.BackendRatePerSecond))
	}
	if s.BackendRateBurst < 1 {
		return NewValidationError("scheduler", "backend_rate_burst", fmt.Errorf("must be at least 1, got %d", s.BackendRateBurst))
	}
	return nil
}

func (v *Validator) validateRetention() error {
	r := v.cfg.Retention
	if r == nil {
		return NewValidationError("retention", "", fmt.Errorf("retention configuration is nil"))
	}
	if !r.Enabled {
		return nil
	}
	if r.RunRetentionDays < 1 {
		return NewValidationError("retention", "run_retention_days", fmt.Errorf("must be at least 1, got %d", r.RunRetentionDays))
	}
	if r.CleanupInterval <= 0 {
		return NewValidationError("retention", "cleanup_interval", fmt.Errorf("must be positive, got %v", r.CleanupInterval))
	}
	return nil
}
