package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// defaultIgnorePatterns excludes directories and file types that never
// belong in a memory tree shown to a model.
var defaultIgnorePatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"vendor/",
	"__pycache__/",
	".venv/",
	"venv/",
	"dist/",
	"build/",
	"target/",
	".idea/",
	".vscode/",
	".DS_Store",
	"*.pyc",
	"*.o",
	"*.so",
	"*.dylib",
	"*.exe",
	"*.bin",
	"*.jpg",
	"*.jpeg",
	"*.png",
	"*.gif",
	"*.ico",
	"*.pdf",
	"*.zip",
	"*.tar",
	"*.gz",
	"*.lock",
}

// ignorePattern is a single compiled ignore rule.
type ignorePattern struct {
	matcher glob.Glob
	raw     string
	negated bool // pattern started with '!', re-includes matches
	dirOnly bool // pattern ended with '/', matches directories only
	rooted  bool // pattern contained a slash, matches from the root
}

// IgnoreMatcher decides whether paths are excluded from exploration.
// Patterns follow gitignore conventions closely enough for real trees:
// later patterns win, '!' negates, a trailing '/' restricts to
// directories, and a slash anywhere anchors the pattern to the root.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher loads default patterns plus .gitignore and
// .fathomignore from the root directory, in that precedence order.
func NewIgnoreMatcher(rootDir string) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}

	for _, raw := range defaultIgnorePatterns {
		if err := m.addPattern(raw); err != nil {
			return nil, fmt.Errorf("invalid default pattern %q: %w", raw, err)
		}
	}

	for _, name := range []string{".gitignore", ".fathomignore"} {
		if err := m.loadFile(filepath.Join(rootDir, name)); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// loadFile reads one pattern per line, skipping blanks and comments.
// A missing file is not an error.
func (m *IgnoreMatcher) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Patterns from user files may be malformed; skip rather than fail.
		_ = m.addPattern(line)
	}
	return scanner.Err()
}

// addPattern compiles and appends a single pattern.
func (m *IgnoreMatcher) addPattern(raw string) error {
	p := ignorePattern{raw: raw}

	pattern := raw
	if strings.HasPrefix(pattern, "!") {
		p.negated = true
		pattern = pattern[1:]
	}
	if strings.HasSuffix(pattern, "/") {
		p.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	pattern = strings.TrimPrefix(pattern, "/")
	p.rooted = strings.Contains(pattern, "/")

	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return err
	}
	p.matcher = matcher

	m.patterns = append(m.patterns, p)
	return nil
}

// ShouldIgnore reports whether relPath should be excluded. relPath is
// slash-separated and relative to the root; isDir distinguishes
// directories for dir-only patterns. The last matching pattern wins.
func (m *IgnoreMatcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	if relPath == "." || relPath == "" {
		return false
	}

	ignored := false
	for _, p := range m.patterns {
		if p.dirOnly && !isDir && !m.underIgnoredDir(p, relPath) {
			continue
		}
		if m.matches(p, relPath) {
			ignored = !p.negated
		}
	}
	return ignored
}

// matches checks one pattern against the path. Unrooted patterns match
// against every path segment, like gitignore basename patterns.
func (m *IgnoreMatcher) matches(p ignorePattern, relPath string) bool {
	if p.rooted {
		return p.matcher.Match(relPath)
	}

	for _, segment := range strings.Split(relPath, "/") {
		if p.matcher.Match(segment) {
			return true
		}
	}
	return false
}

// underIgnoredDir reports whether relPath has an ancestor segment matched
// by a dir-only pattern, so files inside ignored directories are ignored.
func (m *IgnoreMatcher) underIgnoredDir(p ignorePattern, relPath string) bool {
	segments := strings.Split(relPath, "/")
	if len(segments) < 2 {
		return false
	}
	for _, segment := range segments[:len(segments)-1] {
		if p.matcher.Match(segment) {
			return true
		}
	}
	return false
}
