package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/modguard/modguard/internal/domain"
)

const fileName = ".modguard.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .modguard.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .modguard.yaml from path.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(path string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(path, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate before merging, so typos in the raw input surface directly.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return mergeConfig(domain.DefaultConfig(), cfg), nil
}

// mergeConfig layers explicit values over defaults.
func mergeConfig(base, explicit domain.ProjectConfig) domain.ProjectConfig {
	out := base

	if explicit.MaxParallel > 0 {
		out.MaxParallel = explicit.MaxParallel
	}
	out.FailFast = explicit.FailFast
	if explicit.RuleTimeout != "" {
		out.RuleTimeout = explicit.RuleTimeout
	}
	if len(explicit.Rules.Include) > 0 {
		out.Rules.Include = explicit.Rules.Include
	}
	if len(explicit.Rules.Exclude) > 0 {
		out.Rules.Exclude = explicit.Rules.Exclude
	}
	if len(explicit.Rules.Disabled) > 0 {
		out.Rules.Disabled = explicit.Rules.Disabled
	}
	if explicit.Fix.BackupDir != "" {
		out.Fix.BackupDir = explicit.Fix.BackupDir
	}
	if explicit.Fix.MaxFiles > 0 {
		out.Fix.MaxFiles = explicit.Fix.MaxFiles
	}
	out.Fix.Aggressive = explicit.Fix.Aggressive

	return out
}
