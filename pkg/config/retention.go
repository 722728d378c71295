package config

import "time"

// RetentionConfig controls pruning of completed run directories (§ SUPPLEMENTED
// FEATURES: retention/cleanup in SPEC_FULL.md). Disabled unless enabled is set.
type RetentionConfig struct {
	// Enabled turns on the background retention sweep. Default false: the
	// core pipeline never deletes artifacts on its own initiative.
	Enabled bool `yaml:"enabled"`

	// RunRetentionDays is how many days, counted from the timestamp in its
	// run id, to keep a run directory before pruning it.
	RunRetentionDays int `yaml:"run_retention_days"`

	// CleanupInterval is how often the retention loop sweeps the base
	// directory for prunable runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		Enabled:          false,
		RunRetentionDays: 90,
		CleanupInterval:  12 * time.Hour,
	}
}
