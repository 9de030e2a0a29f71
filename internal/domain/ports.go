package domain

// ModuleDiscoverer builds a Module structure from a filesystem path.
type ModuleDiscoverer interface {
	// Discover returns ErrModuleNotFound (wrapped) when no manifest-bearing
	// directory exists at path, and *ModuleLoadError when the manifest is
	// unreadable or malformed.
	Discover(path string, opts DiscoveryOptions) (*Module, error)

	// DiscoverModulePaths recursively locates all manifest-bearing
	// directories under root, excluding dependency caches. Recursion does
	// not continue past a module root into its own subtree.
	DiscoverModulePaths(root string) ([]string, error)
}

// GitInfo reports version-control metadata for a path.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// ReportHistory persists summaries of validation runs.
type ReportHistory interface {
	Save(modulePath string, entry HistoryEntry) error
	Load(modulePath string) ([]HistoryEntry, error)
}

// ConfigLoader reads project-level validation configuration.
type ConfigLoader interface {
	Load(path string) (ProjectConfig, error)
}
