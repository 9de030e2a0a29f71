package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/modguard/modguard/internal/domain"
)

// maxScanSize caps per-file reads during content scans.
const maxScanSize = 256 * 1024

// testDirNames are the conventional test directory names, in preference order.
var testDirNames = []string{"tests", "test", "__tests__", "spec"}

// sourceExtensions are the file extensions content rules scan.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
	".go":  true,
	".py":  true,
}

func isSourceFile(relPath string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(relPath))]
}

// isTestPath reports whether a file follows conventional test naming: a
// test directory segment or a *_test.* / *.test.* / *.spec.* basename.
func isTestPath(relPath string) bool {
	norm := filepath.ToSlash(relPath)
	for _, seg := range strings.Split(filepath.Dir(norm), "/") {
		for _, d := range testDirNames {
			if seg == d {
				return true
			}
		}
	}
	base := filepath.Base(norm)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if strings.HasSuffix(stem, "_test") {
		return true
	}
	return strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec")
}

// readCapped reads at most maxScanSize bytes of a file.
func readCapped(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > maxScanSize {
		data = data[:maxScanSize]
	}
	return data, nil
}

// findRootFile returns the module file whose root-level basename equals
// name case-insensitively, or nil.
func findRootFile(mod *domain.Module, name string) *domain.ModuleFile {
	for i := range mod.Files {
		f := &mod.Files[i]
		if f.IsDir {
			continue
		}
		rel := filepath.ToSlash(f.RelativePath)
		if !strings.Contains(rel, "/") && strings.EqualFold(rel, name) {
			return f
		}
	}
	return nil
}

// findRootDir returns the module directory entry with the given root-level
// name, or nil.
func findRootDir(mod *domain.Module, name string) *domain.ModuleFile {
	for i := range mod.Files {
		f := &mod.Files[i]
		if !f.IsDir {
			continue
		}
		if filepath.ToSlash(f.RelativePath) == name {
			return f
		}
	}
	return nil
}

// filesUnder returns non-directory files whose relative path starts with
// dir + "/".
func filesUnder(mod *domain.Module, dir string) []domain.ModuleFile {
	prefix := dir + "/"
	var out []domain.ModuleFile
	for _, f := range mod.Files {
		if f.IsDir {
			continue
		}
		if strings.HasPrefix(filepath.ToSlash(f.RelativePath), prefix) {
			out = append(out, f)
		}
	}
	return out
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
