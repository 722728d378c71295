package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		baseDir:      "/tmp/runs",
		registryPath: "/tmp/registry.yaml",
		Run:          DefaultRunDefaults(),
		Scheduler:    DefaultSchedulerConfig(),
		Retention:    DefaultRetentionConfig(),
		Analytics:    resolveAnalyticsConfig(nil),
		Gateway:      resolveGatewayConfig(nil),
	}
}

func TestValidatorAcceptsDefaults(t *testing.T) {
	require.NoError(t, NewValidator(validConfig()).ValidateAll())
}

func TestValidatorRejectsInvalidEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.Run.Environment = "bogus"
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run validation failed")
}

func TestValidatorRejectsBadWorkerCount(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.WorkerCount = 0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler validation failed")
}

func TestValidatorIgnoresDisabledRetention(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.Enabled = false
	cfg.Retention.RunRetentionDays = -1
	require.NoError(t, NewValidator(cfg).ValidateAll())
}

func TestValidatorValidatesEnabledRetention(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.Enabled = true
	cfg.Retention.RunRetentionDays = 0
	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention validation failed")
}

func TestDefaultSchedulerConfigShape(t *testing.T) {
	s := DefaultSchedulerConfig()
	assert.Equal(t, 3, s.WorkerCount)
	assert.Equal(t, 60*time.Second, s.TickInterval)
	assert.True(t, s.ExpensiveBudgetHardP0Exempt)
}
