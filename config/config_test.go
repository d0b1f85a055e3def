package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokergto/engine/config"
)

func TestLoadMissingFileFallsBackToZeroValue(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nonexistent.hcl"))
	require.NoError(t, err, "Load of a missing file should not error")

	resolved, err := cfg.Resolve()
	require.NoError(t, err, "Resolve of the zero-value config should not error")
	assert.Equal(t, 10_000, resolved.Training.Iterations, "expected cfr's own default iteration count")
	assert.Equal(t, 0.01, resolved.EquityTolerance, "expected the package default equity tolerance")
}

func TestLoadOverridesMergeOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.hcl")
	writeFile(t, path, `
training {
  iterations = 500
  small_blind = 5
  big_blind   = 10
}

search {
  time_budget_ms = 250
}

equity {
  tolerance = 0.02
}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 500, resolved.Training.Iterations, "expected overridden iterations")
	assert.Equal(t, 5, resolved.Training.SmallBlind, "expected overridden small blind")
	assert.Equal(t, 10, resolved.Training.BigBlind, "expected overridden big blind")
	// Untouched training fields still come from cfr.DefaultTrainingConfig.
	assert.Equal(t, 200, resolved.Training.StartingStack, "expected the default starting stack to survive a partial override")
	assert.Equal(t, 250*time.Millisecond, resolved.Search.TimeBudget, "expected overridden time budget")
	assert.Equal(t, 0.02, resolved.EquityTolerance, "expected overridden equity tolerance")
}

func TestResolveRejectsInvalidSamplingMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.hcl")
	writeFile(t, path, `
training {
  sampling = "bogus"
}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	_, err = cfg.Resolve()
	assert.Error(t, err, "expected an error for an unknown sampling mode")
}

func TestResolvePropagatesValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.hcl")
	writeFile(t, path, `
search {
  widening_alpha = 2
}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	_, err = cfg.Resolve()
	assert.Error(t, err, "expected mcts.Config.Validate's error to surface through Resolve")
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644), "writing %s", path)
}
