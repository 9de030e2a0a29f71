// Package discovery implements domain.ModuleDiscoverer by walking the
// filesystem for manifest-bearing directories.
package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/modguard/modguard/internal/domain"
)

const manifestName = "package.json"

var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".cache":       true,
	".modguard":    true,
}

// Discoverer walks a directory tree and builds Module structures.
type Discoverer struct{}

func New() *Discoverer {
	return &Discoverer{}
}

// Discover builds the Module rooted at path. The manifest must exist at the
// root; an unreadable or malformed manifest is a ModuleLoadError.
func (d *Discoverer) Discover(path string, opts domain.DiscoveryOptions) (*domain.Module, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(absPath, manifestName)
	if _, err := os.Stat(manifestPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", absPath, domain.ErrModuleNotFound)
		}
		return nil, &domain.ModuleLoadError{Path: absPath, Err: err}
	}

	manifest, err := readManifest(manifestPath)
	if err != nil {
		return nil, &domain.ModuleLoadError{Path: absPath, Err: err}
	}

	files, err := d.collectFiles(absPath, opts)
	if err != nil {
		return nil, &domain.ModuleLoadError{Path: absPath, Err: err}
	}

	name := manifest.Name
	if name == "" {
		name = filepath.Base(absPath)
	}

	mod := &domain.Module{
		ID:       name,
		Name:     name,
		Path:     absPath,
		Type:     inferModuleType(name, filepath.Base(absPath), manifest),
		Files:    files,
		Manifest: manifest,
	}
	mod.StructuralScore = structuralScore(mod)

	return mod, nil
}

func readManifest(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

func (d *Discoverer) collectFiles(root string, opts domain.DiscoveryOptions) ([]domain.ModuleFile, error) {
	var files []domain.ModuleFile

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name := entry.Name()
		hidden := strings.HasPrefix(name, ".") && name != ".gitignore" && !strings.HasPrefix(name, ".env")

		if entry.IsDir() {
			if skipDirs[name] {
				return filepath.SkipDir
			}
			if hidden && !opts.IncludeHidden {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && strings.Count(rel, "/")+1 >= opts.MaxDepth {
				files = append(files, domain.ModuleFile{Path: path, RelativePath: rel, IsDir: true})
				return filepath.SkipDir
			}
			files = append(files, domain.ModuleFile{Path: path, RelativePath: rel, IsDir: true})
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
			return nil
		}
		if hidden && !opts.IncludeHidden {
			return nil
		}

		mf := domain.ModuleFile{
			Path:         path,
			RelativePath: rel,
			IsTest:       isTestPath(rel),
		}
		if info, err := entry.Info(); err == nil {
			mf.Size = info.Size()
		}
		if opts.AnalyzeContent {
			analyzeFile(&mf)
		}
		files = append(files, mf)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

const maxAnalyzeSize = 512 * 1024

// analyzeFile fills in line counts and the generated-file marker.
func analyzeFile(mf *domain.ModuleFile) {
	base := strings.ToLower(filepath.Base(mf.RelativePath))
	if strings.Contains(base, ".min.") || strings.HasSuffix(base, ".d.ts") {
		mf.IsGenerated = true
	}

	data, err := os.ReadFile(mf.Path)
	if err != nil {
		return
	}
	if len(data) > maxAnalyzeSize {
		data = data[:maxAnalyzeSize]
	}

	mf.Lines = countLines(data)

	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, []byte("Code generated")) || bytes.Contains(head, []byte("@generated")) {
		mf.IsGenerated = true
	}
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

var testDirNames = []string{"tests", "test", "__tests__", "spec"}

func isTestPath(relPath string) bool {
	for _, seg := range strings.Split(filepath.Dir(relPath), "/") {
		for _, d := range testDirNames {
			if seg == d {
				return true
			}
		}
	}
	base := filepath.Base(relPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(stem, "_test") ||
		strings.HasSuffix(stem, ".test") ||
		strings.HasSuffix(stem, ".spec")
}

// typeKeywords maps lowercased name words to module types. Earlier entries
// win when a name matches several.
var typeKeywords = []struct {
	word string
	typ  domain.ModuleType
}{
	{"core", domain.ModuleCore},
	{"api", domain.ModuleAPI},
	{"gateway", domain.ModuleAPI},
	{"frontend", domain.ModuleFrontend},
	{"ui", domain.ModuleFrontend},
	{"web", domain.ModuleFrontend},
	{"client", domain.ModuleFrontend},
	{"app", domain.ModuleFrontend},
	{"util", domain.ModuleUtility},
	{"utils", domain.ModuleUtility},
	{"common", domain.ModuleUtility},
	{"shared", domain.ModuleUtility},
	{"lib", domain.ModuleUtility},
	{"helpers", domain.ModuleUtility},
	{"server", domain.ModuleBackend},
	{"service", domain.ModuleBackend},
	{"backend", domain.ModuleBackend},
	{"worker", domain.ModuleBackend},
}

// inferModuleType classifies a module from its name words and manifest
// hints. Names are split on camelCase boundaries and separators, so
// "userApiService" and "user-api-service" classify alike.
func inferModuleType(name, dirName string, manifest *domain.Manifest) domain.ModuleType {
	words := nameWords(name)
	words = append(words, nameWords(dirName)...)

	for _, kw := range typeKeywords {
		for _, w := range words {
			if w == kw.word {
				return kw.typ
			}
		}
	}

	// A manifest with a main entry but no build script looks like a library.
	if manifest != nil && manifest.Main != "" {
		if _, hasBuild := manifest.Scripts["build"]; !hasBuild {
			return domain.ModuleUtility
		}
	}
	return domain.ModuleBackend
}

func nameWords(name string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '/' || r == '@' || r == '.'
	}) {
		for _, w := range camelcase.Split(part) {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// structuralScore is a discovery-time sanity heuristic, independent of the
// rule pipeline.
func structuralScore(mod *domain.Module) int {
	score := 100
	if !hasRootFile(mod, "README.md") {
		score -= 20
	}
	if !hasTestDir(mod) {
		score -= 20
	}
	if !hasRootFile(mod, ".gitignore") {
		score -= 10
	}
	if !hasRootFile(mod, "tsconfig.json") && !hasRootFile(mod, "jsconfig.json") {
		score -= 10
	}
	if mod.Manifest == nil || mod.Manifest.Scripts["build"] == "" {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

func hasRootFile(mod *domain.Module, name string) bool {
	for _, f := range mod.Files {
		if !f.IsDir && !strings.Contains(f.RelativePath, "/") && strings.EqualFold(f.RelativePath, name) {
			return true
		}
	}
	return false
}

func hasTestDir(mod *domain.Module) bool {
	for _, f := range mod.Files {
		if f.IsDir {
			for _, d := range testDirNames {
				if f.RelativePath == d {
					return true
				}
			}
		}
	}
	return false
}

// DiscoverModulePaths locates all manifest-bearing directories under root,
// excluding caches. Recursion does not continue past a module root into its
// own subtree, so nested manifests (e.g. fixtures) are not reported twice.
func (d *Discoverer) DiscoverModulePaths(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if path != absRoot {
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
		}
		if _, statErr := os.Stat(filepath.Join(path, manifestName)); statErr == nil {
			paths = append(paths, path)
			if path != absRoot {
				return filepath.SkipDir
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}
