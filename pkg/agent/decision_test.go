package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecisionExpand(t *testing.T) {
	d, err := ParseDecision(`{"thoughts": "look at main first", "command": 3}`)
	require.NoError(t, err)
	assert.True(t, d.IsExpand)
	assert.Equal(t, 3, d.Command)
	assert.Equal(t, "look at main first", d.Thoughts)
}

func TestParseDecisionMessage(t *testing.T) {
	d, err := ParseDecision(`{"message": "use a mutex"}`)
	require.NoError(t, err)
	assert.False(t, d.IsExpand)
	assert.Equal(t, "use a mutex", d.Message)
}

func TestParseDecisionCommandVariants(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"bare integer", `{"command": 7}`, 7},
		{"quoted integer", `{"command": "7"}`, 7},
		{"float with zero fraction", `{"command": 7.0}`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDecision(tt.reply)
			require.NoError(t, err)
			assert.True(t, d.IsExpand)
			assert.Equal(t, tt.want, d.Command)
		})
	}
}

func TestParseDecisionFencedAndProse(t *testing.T) {
	reply := "Sure, here is my decision:\n```json\n{\"thoughts\": \"check the parser\", \"command\": 2}\n```\nLet me know if that helps."

	d, err := ParseDecision(reply)
	require.NoError(t, err)
	assert.True(t, d.IsExpand)
	assert.Equal(t, 2, d.Command)
}

func TestParseDecisionBracesInsideStrings(t *testing.T) {
	d, err := ParseDecision(`{"message": "wrap it in func() { ... }"}`)
	require.NoError(t, err)
	assert.Equal(t, "wrap it in func() { ... }", d.Message)
}

func TestParseDecisionErrors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no JSON at all", "I think you should expand section 3"},
		{"unterminated object", `{"command": 3`},
		{"both command and message", `{"command": 1, "message": "done"}`},
		{"neither command nor message", `{"thoughts": "hmm"}`},
		{"non-integer command", `{"command": "three"}`},
		{"fractional command", `{"command": 2.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecision(tt.reply)
			assert.Error(t, err)
		})
	}
}

func TestStepHistoryBounded(t *testing.T) {
	h := newStepHistory(2)
	h.add(1, "a", "expanded \"one\"")
	h.add(2, "b", "expanded \"two\"")
	h.add(3, "c", "expanded \"three\"")

	assert.Equal(t, 2, h.len())
	rendered := h.render()
	assert.NotContains(t, rendered, "step 1")
	assert.Contains(t, rendered, "step 2")
	assert.Contains(t, rendered, "step 3")
	assert.Contains(t, rendered, "(reasoning: c)")
}

func TestStepHistoryEmptyRendersNothing(t *testing.T) {
	h := newStepHistory(5)
	assert.Empty(t, h.render())
}
