package atomcss

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DiscoverStats tracks file discovery statistics
type DiscoverStats struct {
	FilesDiscovered int // Files matched by include globs
	FilesSkipped    int // Excluded, ignored or generated files
}

// isTemplGenerated checks if a file is a templ-generated Go file. Its class
// strings are already scanned from the .templ source.
func isTemplGenerated(path string) bool {
	return strings.HasSuffix(path, "_templ.go") ||
		strings.HasSuffix(path, ".templ.go")
}

// loadGitIgnore compiles baseDir/.gitignore. A missing file means nothing is
// ignored.
func loadGitIgnore(baseDir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(baseDir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// resolvePath joins a relative path onto baseDir.
func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// discover expands content globs relative to baseDir. It returns sorted,
// slash-separated paths relative to baseDir; matches outside baseDir keep
// their absolute form. Files in skip are never returned.
func discover(baseDir string, patterns []string, skip ...string) ([]string, DiscoverStats, error) {
	var (
		includes []string
		excludes []string
		stats    DiscoverStats
	)
	for _, p := range patterns {
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			excludes = append(excludes, filepath.ToSlash(rest))
			continue
		}
		includes = append(includes, p)
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if s == "" {
			continue
		}
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	gi := loadGitIgnore(baseDir)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range includes {
		matches, err := doublestar.FilepathGlob(resolvePath(baseDir, pattern))
		if err != nil {
			return nil, stats, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}

		for _, match := range matches {
			rel := relativeTo(baseDir, match)
			if seen[rel] {
				continue
			}
			seen[rel] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(rel, match, excludes, gi, skipped) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, rel)
		}
	}

	sort.Strings(files)
	return files, stats, nil
}

// shouldSkipFile applies exclusion globs, the gitignore and the skip list.
// Exclusions and the gitignore only apply to paths inside baseDir.
func shouldSkipFile(rel, match string, excludes []string, gi *ignore.GitIgnore, skipped map[string]bool) bool {
	if isTemplGenerated(rel) {
		return true
	}

	if abs, err := filepath.Abs(match); err == nil && skipped[abs] {
		return true
	}

	if filepath.IsAbs(rel) {
		return false
	}

	for _, ex := range excludes {
		if ok, _ := doublestar.Match(ex, rel); ok {
			return true
		}
	}

	return gi != nil && gi.MatchesPath(rel)
}

func relativeTo(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
