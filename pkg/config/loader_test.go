package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAppliesBuiltinDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Initialize(context.Background(), dir, filepath.Join(dir, "runs"))
	require.NoError(t, err)
	assert.Equal(t, EnvironmentMock, cfg.Run.Environment)
	assert.Equal(t, 3, cfg.Scheduler.WorkerCount)
	assert.Equal(t, filepath.Join(dir, "registry.yaml"), cfg.RegistryPath())
}

func TestInitializeMergesUserOverridesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
run:
  environment: real
  intel_source: dune
scheduler:
  worker_count: 7
  pool_cap: 5
system:
  registry: queries.yaml
  analytics:
    token_env: MY_TOKEN
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pipeline.yaml"), []byte(yaml), 0o644))

	cfg, err := Initialize(context.Background(), dir, filepath.Join(dir, "runs"))
	require.NoError(t, err)
	assert.Equal(t, EnvironmentReal, cfg.Run.Environment)
	assert.Equal(t, IntelSourceDune, cfg.Run.IntelSource)
	assert.Equal(t, 7, cfg.Scheduler.WorkerCount)
	assert.Equal(t, 5, cfg.Scheduler.PoolCap)
	// Untouched scheduler fields retain their defaults.
	assert.Equal(t, 30, int(cfg.Scheduler.JobTimeout.Seconds()))
	assert.Equal(t, filepath.Join(dir, "queries.yaml"), cfg.RegistryPath())
	assert.Equal(t, "MY_TOKEN", cfg.Analytics.TokenEnv)
}

func TestInitializeRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pipeline.yaml"), []byte("run: [this is not a map"), 0o644))

	_, err := Initialize(context.Background(), dir, dir)
	require.Error(t, err)
}

func TestInitializeRejectsInvalidMergedValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pipeline.yaml"), []byte("run:\n  environment: bogus\n"), 0o644))

	_, err := Initialize(context.Background(), dir, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExpandEnvSubstitutesShellStyleVars(t *testing.T) {
	t.Setenv("PIPELINE_TEST_VAR", "hello")
	out := ExpandEnv([]byte("value: ${PIPELINE_TEST_VAR}"))
	assert.Equal(t, "value: hello", string(out))
}
