package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomcli/fathom/pkg/workspace"
)

func newTestGuard(t *testing.T, populate func(dir string)) *workspace.Guard {
	t.Helper()

	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	populate(resolved)

	guard, err := workspace.NewGuard(resolved)
	require.NoError(t, err)
	return guard
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanCountsFilesAndDirs(t *testing.T) {
	guard := newTestGuard(t, func(dir string) {
		write(t, filepath.Join(dir, "main.go"), "package main\n")
		write(t, filepath.Join(dir, "pkg", "a", "a.go"), "package a\n")
		write(t, filepath.Join(dir, "pkg", "b", "b.go"), "package b\n")
		write(t, filepath.Join(dir, "docs", "readme.md"), "# hi\n")
	})

	stats, err := Scan(context.Background(), guard)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 4, stats.Dirs) // pkg, pkg/a, pkg/b, docs
	assert.Equal(t, 3, stats.ByExtension[".go"])
	assert.Equal(t, 1, stats.ByExtension[".md"])
	assert.Positive(t, stats.Bytes)
}

func TestScanRespectsIgnoreRules(t *testing.T) {
	guard := newTestGuard(t, func(dir string) {
		write(t, filepath.Join(dir, "main.go"), "package main\n")
		write(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")
		write(t, filepath.Join(dir, "node_modules", "x", "index.js"), "module.exports = 1\n")
		write(t, filepath.Join(dir, "build.pyc"), "\x00\x01")
	})

	stats, err := Scan(context.Background(), guard)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Files)
	assert.Zero(t, stats.Dirs)
	assert.NotContains(t, stats.ByExtension, ".js")
	assert.NotContains(t, stats.ByExtension, ".pyc")
}

func TestScanHonorsGitignore(t *testing.T) {
	guard := newTestGuard(t, func(dir string) {
		write(t, filepath.Join(dir, ".gitignore"), "out/\n")
		write(t, filepath.Join(dir, "out", "bundle.js"), "x")
		write(t, filepath.Join(dir, "src", "app.js"), "x")
	})

	stats, err := Scan(context.Background(), guard)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ByExtension[".js"])
	assert.Equal(t, 1, stats.Dirs)
}

func TestTopExtensions(t *testing.T) {
	stats := &Stats{ByExtension: map[string]int{
		".go": 5,
		".md": 2,
		".py": 5,
		".js": 1,
	}}

	top := stats.TopExtensions(3)
	assert.Equal(t, []string{".go", ".py", ".md"}, top)
}

func TestScanCancelled(t *testing.T) {
	guard := newTestGuard(t, func(dir string) {
		write(t, filepath.Join(dir, "sub", "f.go"), "package f\n")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, guard)
	assert.Error(t, err)
}
