package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modguard/modguard/internal/adapters/outbound/config"
	"github.com/modguard/modguard/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".modguard.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoad_MergesExplicitOverDefaults(t *testing.T) {
	dir := writeConfig(t, `
max_parallel: 8
rule_timeout: 2s
rules:
  exclude:
    - PERF-001
fix:
  aggressive: true
`)

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxParallel)
	assert.Equal(t, "2s", cfg.RuleTimeout)
	assert.Equal(t, []string{"PERF-001"}, cfg.Rules.Exclude)
	assert.True(t, cfg.Fix.Aggressive)
	// Untouched fields keep their defaults.
	assert.Equal(t, ".modguard/backups", cfg.Fix.BackupDir)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := writeConfig(t, "fail_fast: true\n")

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.FailFast)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.Equal(t, "5s", cfg.RuleTimeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "max_parallel: [not a number\n")

	_, err := config.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".modguard.yaml")
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	dir := writeConfig(t, "rule_timeout: soon\n")

	_, err := config.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule_timeout")
}
