package application

import (
	"fmt"
	"time"

	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

// ValidateService runs the single-module pipeline:
// discover -> filter applicable rules -> evaluate -> build report.
type ValidateService struct {
	discoverer domain.ModuleDiscoverer
	catalog    *rules.Catalog
	git        domain.GitInfo
}

// NewValidateService wires the pipeline. git may be nil; reports then carry
// no commit hash.
func NewValidateService(discoverer domain.ModuleDiscoverer, catalog *rules.Catalog, git domain.GitInfo) *ValidateService {
	return &ValidateService{discoverer: discoverer, catalog: catalog, git: git}
}

// ValidateModule validates the module rooted at path. It returns
// domain.ErrModuleNotFound (wrapped) when path has no manifest, and a
// *domain.ModuleLoadError when the manifest is unreadable or malformed.
func (s *ValidateService) ValidateModule(path string, opts domain.ValidationOptions) (*domain.ValidationReport, error) {
	start := time.Now()

	mod, err := s.discoverer.Discover(path, opts.Discovery)
	if err != nil {
		return nil, fmt.Errorf("discovering module: %w", err)
	}

	applicable := s.catalog.Applicable(mod, opts.IncludeRules, opts.ExcludeRules)

	results := make([]domain.ValidationResult, 0, len(applicable))
	ranIDs := make([]string, 0, len(applicable))
	for _, rule := range applicable {
		results = append(results, evaluateRule(rule, mod, opts.EffectiveTimeout()))
		ranIDs = append(ranIDs, rule.ID)
	}

	// Include-list entries naming rules absent from the catalog surface as
	// Fail results rather than silently vanishing.
	for _, id := range opts.IncludeRules {
		if _, ok := s.catalog.Get(id); !ok {
			results = append(results, domain.ValidationResult{
				RuleID:   id,
				Status:   domain.StatusFail,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("rule %s is not implemented", id),
			})
		}
	}

	cfg := domain.ConfigSummary{
		RulesRun:      ranIDs,
		RuleTimeoutMS: opts.EffectiveTimeout().Milliseconds(),
	}
	report := domain.BuildReport(mod, results, cfg, time.Since(start))

	if s.git != nil && s.git.IsGitRepo(mod.Path) {
		if hash, err := s.git.CommitHash(mod.Path); err == nil {
			report.CommitHash = hash
		}
	}

	return report, nil
}

// evaluateRule runs one check with timing, panic isolation, and a deadline.
// A panicking or overrunning check becomes an error-status result; the
// evaluation loop always continues.
func evaluateRule(rule rules.Rule, mod *domain.Module, timeout time.Duration) domain.ValidationResult {
	start := time.Now()

	res := domain.ValidationResult{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Category:    rule.Category,
		Severity:    rule.Severity,
		Remediation: rule.Remediation,
		CanAutoFix:  rule.CanAutoFix,
	}

	if rule.Check == nil {
		res.Status = domain.StatusFail
		res.Message = fmt.Sprintf("rule %s is not implemented", rule.ID)
		res.ExecutionMS = time.Since(start).Milliseconds()
		return res
	}

	outcomeCh := make(chan rules.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcomeCh <- rules.Outcome{
					Status:  domain.StatusError,
					Message: fmt.Sprintf("check panicked: %v", r),
				}
			}
		}()
		outcomeCh <- rule.Check.Evaluate(mod)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case outcome := <-outcomeCh:
		res.Status = outcome.Status
		res.Message = outcome.Message
		res.FilePath = outcome.FilePath
		res.Line = outcome.Line
		res.Context = outcome.Context
	case <-timer.C:
		// The check goroutine is abandoned, not cancelled; its late result
		// is dropped via the buffered channel.
		res.Status = domain.StatusError
		res.Message = fmt.Sprintf("check exceeded %s deadline", timeout)
	}

	res.ExecutionMS = time.Since(start).Milliseconds()
	return res
}
