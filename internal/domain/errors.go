package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers for path-level misuse.
var (
	// ErrModuleNotFound means the caller requested a path with no
	// manifest-bearing directory.
	ErrModuleNotFound = errors.New("no module found")

	// ErrNoModulesFound means an ecosystem scan discovered zero modules.
	ErrNoModulesFound = errors.New("no modules found")
)

// ModuleLoadError means a module's manifest was unreadable or malformed.
// Fatal for that single module, isolated inside a batch.
type ModuleLoadError struct {
	Path string
	Err  error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("loading module %s: %v", e.Path, e.Err)
}

func (e *ModuleLoadError) Unwrap() error { return e.Err }

// BatchValidationError wraps the first failure of a fail-fast batch run.
// Sibling validations already started in the same chunk run to completion
// before this is returned.
type BatchValidationError struct {
	ModulePath string
	Err        error
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("batch validation failed at %s: %v", e.ModulePath, e.Err)
}

func (e *BatchValidationError) Unwrap() error { return e.Err }

// AutoFixError means one remediation step failed. Recorded per violation;
// never aborts the fix run.
type AutoFixError struct {
	RuleID string
	Path   string
	Err    error
}

func (e *AutoFixError) Error() string {
	return fmt.Sprintf("auto-fix %s on %s: %v", e.RuleID, e.Path, e.Err)
}

func (e *AutoFixError) Unwrap() error { return e.Err }
