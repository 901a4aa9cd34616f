package explorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomcli/fathom/pkg/llm/tokenizer"
	"github.com/fathomcli/fathom/pkg/memory"
	"github.com/fathomcli/fathom/pkg/workspace"
)

func newTestModel(t *testing.T, budget int) *model {
	t.Helper()

	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(resolved, "main.go"), []byte("func main() {\n\trun()\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(resolved, "util.go"), []byte("func run() {}\n"), 0o644))

	guard, err := workspace.NewGuard(resolved)
	require.NoError(t, err)

	tok, _ := tokenizer.New("")

	tree, err := memory.New(guard, tok, budget)
	require.NoError(t, err)
	return newModel(tree)
}

func TestRunCommandExpandsByNumber(t *testing.T) {
	m := newTestModel(t, 2000)
	before := m.tree.Render()

	m.runCommand("1")

	assert.False(t, m.lastError)
	assert.Contains(t, m.feedback, "expanded (1)")
	assert.NotEqual(t, before, m.tree.Render())
}

func TestRunCommandRejectsBadNumber(t *testing.T) {
	m := newTestModel(t, 2000)

	m.runCommand("99")

	assert.True(t, m.lastError)
	assert.Contains(t, m.feedback, "99")
}

func TestRunCommandOpenAndClosePath(t *testing.T) {
	m := newTestModel(t, 2000)

	m.runCommand("open util.go")
	assert.False(t, m.lastError)
	assert.Contains(t, m.feedback, "opened")

	m.runCommand("close util.go")
	assert.False(t, m.lastError)
	assert.Contains(t, m.feedback, "closed")
}

func TestRunCommandUnknownVerb(t *testing.T) {
	m := newTestModel(t, 2000)

	m.runCommand("expand everything")

	assert.True(t, m.lastError)
	assert.Contains(t, m.feedback, "unknown command")
}

func TestRunCommandEvictsAfterExpanding(t *testing.T) {
	m := newTestModel(t, 1)

	m.runCommand("1")

	assert.Contains(t, m.feedback, "evicted")
	assert.LessOrEqual(t, m.tree.PlaceholderCount(), 2)
}
