package domain

import (
	"fmt"
	"time"
)

const DefaultRuleTimeout = 5 * time.Second

// DiscoveryOptions controls how the module discoverer walks a tree.
type DiscoveryOptions struct {
	IncludeHidden  bool `json:"include_hidden" yaml:"include_hidden"`
	FollowSymlinks bool `json:"follow_symlinks" yaml:"follow_symlinks"`
	// MaxDepth limits traversal below the module root; 0 means unlimited.
	MaxDepth       int  `json:"max_depth" yaml:"max_depth"`
	AnalyzeContent bool `json:"analyze_content" yaml:"analyze_content"`
}

// ValidationOptions controls a single-module validation run.
type ValidationOptions struct {
	// IncludeRules, when non-empty, restricts evaluation to that exact set.
	IncludeRules []string
	// ExcludeRules removes named rules from the applicable set.
	ExcludeRules []string
	// RuleTimeout bounds each rule check; expiry yields an error-status
	// result instead of stalling the run. Zero means DefaultRuleTimeout.
	RuleTimeout time.Duration
	Discovery   DiscoveryOptions
}

func (o ValidationOptions) EffectiveTimeout() time.Duration {
	if o.RuleTimeout <= 0 {
		return DefaultRuleTimeout
	}
	return o.RuleTimeout
}

// BatchOptions controls a bounded-concurrency batch run.
type BatchOptions struct {
	// MaxParallel is the chunk size; validations within a chunk run
	// concurrently, chunks run strictly in order. Values < 1 mean 1.
	MaxParallel     int
	ContinueOnError bool
	OnProgress      func(Progress)
	OnItem          func(path string, report *ValidationReport)
	Validation      ValidationOptions
}

func (o BatchOptions) EffectiveParallel() int {
	if o.MaxParallel < 1 {
		return 1
	}
	return o.MaxParallel
}

// FixOptions controls an auto-fix run.
type FixOptions struct {
	DryRun      bool
	BackupFiles bool
	// BackupDir defaults to .modguard/backups under the module path.
	BackupDir string
	// MaxFilesToFix is a hard ceiling on distinct files touched in one run;
	// 0 means unlimited. Violations beyond the ceiling are skipped.
	MaxFilesToFix int
	// AggressiveMode permits high-risk fixes; otherwise they are skipped.
	AggressiveMode bool
	IncludeRules   []string
	ExcludeRules   []string
}

// ProjectConfig is the on-disk .modguard.yaml shape.
type ProjectConfig struct {
	MaxParallel int         `yaml:"max_parallel"`
	FailFast    bool        `yaml:"fail_fast"`
	RuleTimeout string      `yaml:"rule_timeout"`
	Rules       RulesConfig `yaml:"rules"`
	Fix         FixConfig   `yaml:"fix"`
}

type RulesConfig struct {
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	Disabled []string `yaml:"disabled"`
}

type FixConfig struct {
	BackupDir  string `yaml:"backup_dir"`
	MaxFiles   int    `yaml:"max_files"`
	Aggressive bool   `yaml:"aggressive"`
}

// DefaultConfig returns the configuration used when no .modguard.yaml exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		MaxParallel: 4,
		RuleTimeout: DefaultRuleTimeout.String(),
		Fix: FixConfig{
			BackupDir: ".modguard/backups",
		},
	}
}

// Validate catches typos and out-of-range values in user-supplied config.
func (c ProjectConfig) Validate() error {
	if c.MaxParallel < 0 {
		return fmt.Errorf("max_parallel must be >= 0, got %d", c.MaxParallel)
	}
	if c.RuleTimeout != "" {
		if _, err := time.ParseDuration(c.RuleTimeout); err != nil {
			return fmt.Errorf("rule_timeout: %w", err)
		}
	}
	if c.Fix.MaxFiles < 0 {
		return fmt.Errorf("fix.max_files must be >= 0, got %d", c.Fix.MaxFiles)
	}
	return nil
}

// RuleTimeoutDuration parses the configured timeout, falling back to the
// default for empty or unset values. Validate must have accepted the config.
func (c ProjectConfig) RuleTimeoutDuration() time.Duration {
	if c.RuleTimeout == "" {
		return DefaultRuleTimeout
	}
	d, err := time.ParseDuration(c.RuleTimeout)
	if err != nil || d <= 0 {
		return DefaultRuleTimeout
	}
	return d
}

// ValidationOptions resolves the config into per-run validation options.
func (c ProjectConfig) ValidationOptions() ValidationOptions {
	return ValidationOptions{
		IncludeRules: c.Rules.Include,
		ExcludeRules: append(append([]string{}, c.Rules.Exclude...), c.Rules.Disabled...),
		RuleTimeout:  c.RuleTimeoutDuration(),
	}
}
