package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

// FixService applies mechanical, template-based remediations for
// auto-fixable violations. Not safe for concurrent invocation against the
// same module path; callers serialize fix runs per module.
type FixService struct {
	catalog *rules.Catalog
	fixers  map[string]fixer
}

// fileChange is one planned mutation: write content to a path relative to
// the module root.
type fileChange struct {
	RelPath     string
	Content     []byte
	Description string
}

// fixer plans the changes remediating one rule's violation. Planning never
// mutates the filesystem; the engine applies changes subject to dry-run,
// backups, and the file ceiling.
type fixer func(modulePath string) ([]fileChange, error)

func NewFixService(catalog *rules.Catalog) *FixService {
	s := &FixService{catalog: catalog}
	s.fixers = map[string]fixer{
		rules.RuleManifestRequired: fixManifest,
		rules.RuleReadmeMinLength:  fixReadme,
		rules.RuleIgnoreFile:       fixIgnoreFile,
		rules.RuleTestDirectory:    fixTestDirectory,
		rules.RuleBuildScript:      fixBuildScript,
	}
	return s
}

// AutoFix filters violations to the auto-fixable, risk-gated subset and
// applies (or, with DryRun, only plans) their remediations. The summary is
// always a best-effort partial outcome; per-violation failures never abort
// the run. After a real pass, callers re-run validation to confirm.
func (s *FixService) AutoFix(modulePath string, violations []domain.ValidationResult, opts domain.FixOptions) (*domain.FixSummary, error) {
	absPath, err := filepath.Abs(modulePath)
	if err != nil {
		return nil, err
	}

	summary := &domain.FixSummary{
		ModulePath: absPath,
		DryRun:     opts.DryRun,
	}

	backupRoot := s.backupRoot(absPath, opts)
	touched := make(map[string]bool)
	backedUp := make(map[string]bool)

	for _, v := range candidates(violations, opts) {
		outcome := domain.FixOutcome{RuleID: v.RuleID, Risk: riskFor(s.catalog, v.RuleID)}

		if outcome.Risk == domain.RiskHigh && !opts.AggressiveMode {
			outcome.Status = domain.FixSkipped
			outcome.Reason = "high-risk fix requires aggressive mode"
			summary.Outcomes = append(summary.Outcomes, outcome)
			continue
		}

		plan, ok := s.fixers[v.RuleID]
		if !ok {
			outcome.Status = domain.FixSkipped
			outcome.Reason = "marked for manual resolution"
			summary.Outcomes = append(summary.Outcomes, outcome)
			continue
		}

		changes, err := plan(absPath)
		if err != nil {
			outcome.Status = domain.FixFailed
			outcome.Error = (&domain.AutoFixError{RuleID: v.RuleID, Path: absPath, Err: err}).Error()
			summary.Outcomes = append(summary.Outcomes, outcome)
			continue
		}

		if exceedsFileLimit(touched, changes, opts.MaxFilesToFix) {
			outcome.Status = domain.FixSkipped
			outcome.Reason = fmt.Sprintf("file limit of %d reached", opts.MaxFilesToFix)
			summary.Outcomes = append(summary.Outcomes, outcome)
			continue
		}

		outcome.Status = domain.FixSuccess
		for _, change := range changes {
			if !opts.DryRun {
				if err := s.applyChange(absPath, backupRoot, change, opts, backedUp, summary); err != nil {
					outcome.Status = domain.FixFailed
					outcome.Error = (&domain.AutoFixError{RuleID: v.RuleID, Path: change.RelPath, Err: err}).Error()
					break
				}
			}
			touched[change.RelPath] = true
			outcome.Applied = append(outcome.Applied, change.Description)
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.FilesModified = len(touched)
	domain.SummarizeFixes(summary)
	return summary, nil
}

// applyChange backs up the existing file (if requested) and writes the new
// content. The backup is written before any overwrite on every path.
func (s *FixService) applyChange(modulePath, backupRoot string, change fileChange, opts domain.FixOptions, backedUp map[string]bool, summary *domain.FixSummary) error {
	target := filepath.Join(modulePath, change.RelPath)

	if opts.BackupFiles && !backedUp[change.RelPath] {
		if _, err := os.Stat(target); err == nil {
			if err := copyFile(target, filepath.Join(backupRoot, change.RelPath)); err != nil {
				return fmt.Errorf("backing up %s: %w", change.RelPath, err)
			}
			backedUp[change.RelPath] = true
			summary.BackupsCreated++
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, change.Content, 0644)
}

// backupRoot returns a per-run backup directory so repeated fix runs never
// clobber earlier backups.
func (s *FixService) backupRoot(modulePath string, opts domain.FixOptions) string {
	dir := opts.BackupDir
	if dir == "" {
		dir = filepath.Join(".modguard", "backups")
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(modulePath, dir)
	}
	return filepath.Join(dir, strconv.FormatInt(time.Now().UnixNano(), 10))
}

// candidates filters to CanAutoFix violations with status Fail, subject to
// the include/exclude rule lists.
func candidates(violations []domain.ValidationResult, opts domain.FixOptions) []domain.ValidationResult {
	include := make(map[string]bool, len(opts.IncludeRules))
	for _, id := range opts.IncludeRules {
		include[id] = true
	}
	exclude := make(map[string]bool, len(opts.ExcludeRules))
	for _, id := range opts.ExcludeRules {
		exclude[id] = true
	}

	var out []domain.ValidationResult
	for _, v := range violations {
		if !v.CanAutoFix || v.Status != domain.StatusFail {
			continue
		}
		if len(include) > 0 && !include[v.RuleID] {
			continue
		}
		if exclude[v.RuleID] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// riskFor reads the risk level from the unified rule catalog, defaulting to
// Medium for unlisted or unclassified rules.
func riskFor(catalog *rules.Catalog, ruleID string) domain.RiskLevel {
	rule, ok := catalog.Get(ruleID)
	if !ok || rule.Risk == "" {
		return domain.RiskMedium
	}
	return rule.Risk
}

func exceedsFileLimit(touched map[string]bool, changes []fileChange, limit int) bool {
	if limit <= 0 {
		return false
	}
	newFiles := 0
	for _, c := range changes {
		if !touched[c.RelPath] {
			newFiles++
		}
	}
	return len(touched)+newFiles > limit
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
