// Package workspace confines filesystem access to the directory tree the
// user pointed the tool at. It prevents path traversal out of the root and
// applies ignore rules so noise (VCS metadata, build artifacts, binaries)
// never enters the memory tree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Guard enforces root-directory boundary restrictions on file paths.
type Guard struct {
	rootDir       string         // Absolute path to the explored root
	ignoreMatcher *IgnoreMatcher // Pattern matcher for ignore rules
}

// NewGuard creates a new guard for the given directory. The path is made
// absolute, cleaned, and symlink-resolved. Ignore patterns are loaded from
// defaults, .gitignore, and .fathomignore in the root.
func NewGuard(rootDir string) (*Guard, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	absPath, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	evalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate root directory symlinks: %w", err)
	}

	info, err := os.Stat(evalPath)
	if err != nil {
		return nil, fmt.Errorf("root directory error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path '%s' is not a directory", rootDir)
	}

	ignoreMatcher, err := NewIgnoreMatcher(evalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ignore matcher: %w", err)
	}

	return &Guard{
		rootDir:       evalPath,
		ignoreMatcher: ignoreMatcher,
	}, nil
}

// ValidatePath checks if the given path is within the root boundaries.
func (g *Guard) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	resolvedPath, err := g.ResolvePath(path)
	if err != nil {
		return err
	}

	if !g.IsWithinRoot(resolvedPath) {
		return fmt.Errorf("path '%s' is outside the explored directory", path)
	}

	return nil
}

// ResolvePath converts a relative or absolute path to an absolute path
// within the root context, cleaning it and resolving symlinks.
func (g *Guard) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	var absPath string
	if filepath.IsAbs(cleanPath) {
		absPath = cleanPath
	} else {
		absPath = filepath.Join(g.rootDir, cleanPath)
	}

	return g.resolveSymlinks(filepath.Clean(absPath)), nil
}

// IsWithinRoot checks if an absolute path is the root itself or a child of it.
func (g *Guard) IsWithinRoot(absPath string) bool {
	evalPath := g.resolveSymlinks(absPath)
	sep := string(filepath.Separator)
	return evalPath == g.rootDir || strings.HasPrefix(evalPath+sep, g.rootDir+sep)
}

// resolveSymlinks resolves symlinks in a path, handling non-existent paths
// by resolving parent directories until an existing one is found.
func (g *Guard) resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	var components []string
	currentPath := path

	for {
		if resolved, err := filepath.EvalSymlinks(currentPath); err == nil {
			result := resolved
			for i := len(components) - 1; i >= 0; i-- {
				result = filepath.Join(result, components[i])
			}
			return result
		}

		dir := filepath.Dir(currentPath)
		if dir == currentPath || dir == "." || dir == "/" {
			return path
		}

		components = append(components, filepath.Base(currentPath))
		currentPath = dir
	}
}

// Root returns the absolute path of the explored root directory.
func (g *Guard) Root() string {
	return g.rootDir
}

// MakeRelative converts an absolute path to a path relative to the root.
func (g *Guard) MakeRelative(absPath string) (string, error) {
	if !g.IsWithinRoot(absPath) {
		return "", fmt.Errorf("path '%s' is not within the explored directory", absPath)
	}

	relPath, err := filepath.Rel(g.rootDir, g.resolveSymlinks(absPath))
	if err != nil {
		return "", fmt.Errorf("failed to make path relative: %w", err)
	}

	return relPath, nil
}

// ShouldIgnore checks if a path should be excluded from the memory tree.
// The path can be absolute or relative to the root.
func (g *Guard) ShouldIgnore(path string) bool {
	var absPath string
	if filepath.IsAbs(path) {
		absPath = path
	} else {
		absPath = filepath.Join(g.rootDir, path)
	}

	relPath, err := g.MakeRelative(absPath)
	if err != nil {
		// Outside the root; the boundary check catches this elsewhere.
		return false
	}

	isDir := false
	if info, err := os.Lstat(absPath); err == nil {
		isDir = info.IsDir()
	}

	return g.ignoreMatcher.ShouldIgnore(relPath, isDir)
}
