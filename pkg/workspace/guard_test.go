package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*Guard, string) {
	t.Helper()

	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	guard, err := NewGuard(resolved)
	require.NoError(t, err)
	return guard, resolved
}

func TestNewGuardRejectsMissingDirectory(t *testing.T) {
	_, err := NewGuard(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewGuardRejectsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewGuard(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestNewGuardRejectsEmptyPath(t *testing.T) {
	_, err := NewGuard("")
	assert.Error(t, err)
}

func TestValidatePathInsideRoot(t *testing.T) {
	guard, root := newTestGuard(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("x"), 0o644))

	assert.NoError(t, guard.ValidatePath("a.go"))
	assert.NoError(t, guard.ValidatePath(filepath.Join(root, "a.go")))
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	guard, _ := newTestGuard(t)

	err := guard.ValidatePath("../outside.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the explored directory")
}

func TestValidatePathRejectsSymlinkEscape(t *testing.T) {
	guard, root := newTestGuard(t)

	outside := t.TempDir()
	target := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	link := filepath.Join(root, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	assert.Error(t, guard.ValidatePath("link.txt"))
}

func TestMakeRelative(t *testing.T) {
	guard, root := newTestGuard(t)

	rel, err := guard.MakeRelative(filepath.Join(root, "sub", "f.go"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("sub", "f.go"), rel)

	_, err = guard.MakeRelative("/definitely/elsewhere")
	assert.Error(t, err)
}

func TestShouldIgnoreDefaults(t *testing.T) {
	guard, root := newTestGuard(t)

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("x"), 0o644))

	assert.True(t, guard.ShouldIgnore(".git"))
	assert.True(t, guard.ShouldIgnore(filepath.Join(root, ".git", "HEAD")))
	assert.False(t, guard.ShouldIgnore("main.go"))
}
