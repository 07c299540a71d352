package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/internal/config"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Cache.ContentMB)
	assert.Equal(t, 0.7, cfg.Duplication.Threshold)
	assert.Equal(t, 500, cfg.Rules.MaxFunctionLines)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "couplint.yaml")
	content := `
analysis:
  workers: 8
  exclude:
    - "*_test.go"
duplication:
  threshold: 0.85
rules:
  max_function_lines: 120
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, []string{"*_test.go"}, cfg.Analysis.Exclude)
	assert.Equal(t, 0.85, cfg.Duplication.Threshold)
	assert.Equal(t, 120, cfg.Rules.MaxFunctionLines)

	// Untouched sections keep their defaults.
	assert.Equal(t, 16, cfg.Cache.PoolMax)
}

func TestLoad_RejectsBadThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "couplint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("duplication:\n  threshold: 1.5\n"), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidThreshold)
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "couplint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestAnalyzerConfig_Translation(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	analyzerCfg := cfg.AnalyzerConfig("/src", nil)

	assert.Equal(t, "/src", analyzerCfg.Root)
	assert.Equal(t, int64(64<<20), analyzerCfg.ContentCacheBytes)
	assert.Equal(t, 0.7, analyzerCfg.Dupe.Threshold)
	assert.Equal(t, 4, analyzerCfg.Pool.Detector.MaxPositionalParams)
}
