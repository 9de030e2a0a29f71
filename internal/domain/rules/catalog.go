// Package rules holds the compliance rule catalog and the built-in checks.
package rules

import (
	"fmt"
	"sort"

	"github.com/modguard/modguard/internal/domain"
)

// Check is the executable part of a rule. Implementations are pure
// functions over filesystem state reachable from the module path.
type Check interface {
	Evaluate(mod *domain.Module) Outcome
}

// Outcome is what a check reports back; the evaluator fills in severity,
// remediation, and timing from the rule record.
type Outcome struct {
	Status   domain.Status
	Message  string
	FilePath string
	Line     int
	Context  map[string]any
}

func pass(msg string) Outcome { return Outcome{Status: domain.StatusPass, Message: msg} }
func fail(msg string) Outcome { return Outcome{Status: domain.StatusFail, Message: msg} }

// Rule is a declarative compliance rule plus its executable check. The risk
// level lives here too, so the fix engine and the catalog cannot drift.
type Rule struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    domain.Category     `json:"category"`
	Severity    domain.Severity     `json:"severity"`
	AppliesTo   []domain.ModuleType `json:"applies_to,omitempty"`  // empty = all types
	ExcludeIDs  []string            `json:"exclude_ids,omitempty"` // module ids exempt from this rule
	Enabled     bool                `json:"enabled"`
	Remediation string              `json:"remediation"`
	CanAutoFix  bool                `json:"can_auto_fix"`
	Risk        domain.RiskLevel    `json:"risk,omitempty"`
	Check       Check               `json:"-"`
}

// AppliesToModule combines the rule's applicability predicate with the
// module's type and id.
func (r Rule) AppliesToModule(mod *domain.Module) bool {
	for _, id := range r.ExcludeIDs {
		if id == mod.ID {
			return false
		}
	}
	if len(r.AppliesTo) == 0 {
		return true
	}
	for _, t := range r.AppliesTo {
		if t == mod.Type {
			return true
		}
	}
	return false
}

// Catalog is the in-memory rule registry. Built once at process start,
// read-only during evaluation.
type Catalog struct {
	rules []Rule
	byID  map[string]int
}

// NewCatalog returns a catalog preloaded with the built-in rules.
func NewCatalog() *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	for _, r := range builtinRules() {
		// Built-ins are statically known; a collision is a programming error.
		if err := c.Register(r); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a rule; duplicate ids are rejected.
func (c *Catalog) Register(r Rule) error {
	if r.ID == "" {
		return fmt.Errorf("rule has empty id")
	}
	if _, exists := c.byID[r.ID]; exists {
		return fmt.Errorf("rule %s already registered", r.ID)
	}
	c.byID[r.ID] = len(c.rules)
	c.rules = append(c.rules, r)
	return nil
}

// Rules returns all registered rules in registration order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Get looks up a rule by id.
func (c *Catalog) Get(id string) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// Applicable filters the catalog for one module: rule enabled, predicate
// accepts the module, include-list (if non-empty) restricts to that exact
// set, exclude-list removes named rules.
func (c *Catalog) Applicable(mod *domain.Module, include, exclude []string) []Rule {
	includeSet := toSet(include)
	excludeSet := toSet(exclude)

	var out []Rule
	for _, r := range c.rules {
		if !r.Enabled {
			continue
		}
		if !r.AppliesToModule(mod) {
			continue
		}
		if len(includeSet) > 0 && !includeSet[r.ID] {
			continue
		}
		if excludeSet[r.ID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Built-in rule ids, referenced by the fix engine's remediation templates.
const (
	RuleManifestRequired = "STRUCT-001"
	RuleTestDirectory    = "STRUCT-002"
	RuleReadmeMinLength  = "DOC-001"
	RuleBuildConfig      = "CFG-001"
	RuleIgnoreFile       = "CFG-002"
	RuleBuildScript      = "TEST-001"
	RuleNoMockData       = "SEC-001"
	RuleNoSecrets        = "SEC-002"
	RuleFileSizeLimit    = "PERF-001"
)

func builtinRules() []Rule {
	return []Rule{
		{
			ID:          RuleManifestRequired,
			Name:        "manifest-required",
			Category:    domain.CategoryStructure,
			Severity:    domain.SeverityCritical,
			Enabled:     true,
			Remediation: "Add a package.json manifest with name and version fields",
			CanAutoFix:  true,
			Risk:        domain.RiskMedium,
			Check:       manifestCheck{},
		},
		{
			ID:          RuleTestDirectory,
			Name:        "test-directory",
			Category:    domain.CategoryTesting,
			Severity:    domain.SeverityError,
			Enabled:     true,
			Remediation: "Add a tests/ directory with at least one test file",
			CanAutoFix:  true,
			Risk:        domain.RiskMedium,
			Check:       testDirCheck{},
		},
		{
			ID:          RuleReadmeMinLength,
			Name:        "readme-min-length",
			Category:    domain.CategoryDocumentation,
			Severity:    domain.SeverityError,
			Enabled:     true,
			Remediation: "Add a README.md of at least 50 characters describing the module",
			CanAutoFix:  true,
			Risk:        domain.RiskLow,
			Check:       readmeCheck{MinLength: 50},
		},
		{
			ID:          RuleBuildConfig,
			Name:        "build-config",
			Category:    domain.CategoryConfiguration,
			Severity:    domain.SeverityError,
			Enabled:     true,
			Remediation: "Add a tsconfig.json with a compilerOptions block",
			Check:       buildConfigCheck{},
		},
		{
			ID:          RuleIgnoreFile,
			Name:        "ignore-file",
			Category:    domain.CategoryConfiguration,
			Severity:    domain.SeverityWarning,
			Enabled:     true,
			Remediation: "Add a .gitignore covering build artifacts and dependency caches",
			CanAutoFix:  true,
			Risk:        domain.RiskLow,
			Check:       ignoreFileCheck{},
		},
		{
			ID:          RuleBuildScript,
			Name:        "build-script",
			Category:    domain.CategoryTesting,
			Severity:    domain.SeverityError,
			Enabled:     true,
			Remediation: "Add a build entry to the manifest scripts block",
			CanAutoFix:  true,
			Risk:        domain.RiskMedium,
			Check:       buildScriptCheck{},
		},
		{
			ID:          RuleNoMockData,
			Name:        "no-mock-data",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityError,
			Enabled:     true,
			Remediation: "Remove mock/fake/dummy/placeholder data from production sources",
			Check:       mockDataCheck{},
		},
		{
			ID:          RuleNoSecrets,
			Name:        "no-hardcoded-secrets",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityCritical,
			Enabled:     true,
			Remediation: "Move credential-like values out of configuration files into the environment",
			Check:       secretsCheck{},
		},
		{
			ID:          RuleFileSizeLimit,
			Name:        "file-size-limit",
			Category:    domain.CategoryPerformance,
			Severity:    domain.SeverityWarning,
			Enabled:     true,
			Remediation: "Split source files over 200 lines into smaller units",
			Check:       fileSizeCheck{MaxLines: 200},
		},
	}
}

// SortedIDs returns all rule ids, sorted, for stable listings.
func (c *Catalog) SortedIDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
