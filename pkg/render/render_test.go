package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlainTextPassesThrough(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, New(false).Render(&sb, "use a mutex\nto guard the map"))
	assert.Equal(t, "use a mutex\nto guard the map\n", sb.String())
}

func TestRenderDropsFenceMarkers(t *testing.T) {
	answer := "wrap it:\n```go\nvar mu sync.Mutex\n```\ndone"

	var sb strings.Builder
	require.NoError(t, New(false).Render(&sb, answer))

	out := sb.String()
	assert.NotContains(t, out, "```")
	assert.Contains(t, out, "var mu sync.Mutex")
	assert.Contains(t, out, "wrap it:")
	assert.Contains(t, out, "done")
}

func TestRenderHighlightsWithColor(t *testing.T) {
	answer := "```go\nfunc main() {}\n```"

	var sb strings.Builder
	require.NoError(t, New(true).Render(&sb, answer))

	// terminal256 output carries ANSI escapes.
	assert.Contains(t, sb.String(), "\x1b[")
	assert.Contains(t, sb.String(), "main")
}

func TestRenderUnterminatedFence(t *testing.T) {
	answer := "```python\nprint('hi')"

	var sb strings.Builder
	require.NoError(t, New(false).Render(&sb, answer))
	assert.Contains(t, sb.String(), "print('hi')")
}

func TestRenderUnknownLanguageFallsBack(t *testing.T) {
	answer := "```nosuchlang\nplain text body\n```"

	var sb strings.Builder
	require.NoError(t, New(true).Render(&sb, answer))
	assert.Contains(t, sb.String(), "plain text body")
}
