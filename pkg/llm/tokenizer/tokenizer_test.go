package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountEmptyText(t *testing.T) {
	tok, _ := New("")
	assert.Zero(t, tok.Count(""))
}

func TestCountGrowsWithText(t *testing.T) {
	tok, _ := New("")

	short := tok.Count("hello")
	long := tok.Count(strings.Repeat("hello world ", 50))

	assert.Positive(t, short)
	assert.Greater(t, long, short)
}

func TestUnknownModelStillCounts(t *testing.T) {
	tok, _ := New("some-future-model")
	require.NotNil(t, tok)
	assert.Positive(t, tok.Count("some text to count"))
}

func TestEstimateFourCharsPerToken(t *testing.T) {
	assert.Equal(t, 1, estimate("abcd"))
	assert.Equal(t, 2, estimate("abcde"))
	assert.Equal(t, 3, estimate("twelve chars"))
}

func TestNilEncodingFallsBackToEstimate(t *testing.T) {
	tok := &Tokenizer{}
	assert.False(t, tok.IsExact())
	assert.Equal(t, estimate("hello world"), tok.Count("hello world"))
}
