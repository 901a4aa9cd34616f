// Package tokenizer provides token counting for rendered memory and prompts.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when no model-specific encoding can be resolved.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts tokens using tiktoken, with a cheap estimate fallback
// when the encoding cannot be loaded (e.g. offline without a cached BPE).
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer for the given model name. An unknown model falls
// back to the default encoding; a loading failure falls back to estimation.
func New(model string) (*Tokenizer, error) {
	if model != "" {
		if enc, err := tiktoken.EncodingForModel(model); err == nil {
			return &Tokenizer{encoding: enc}, nil
		}
	}

	enc, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		// Estimation-only tokenizer. Callers get counts either way.
		return &Tokenizer{}, err
	}
	return &Tokenizer{encoding: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	if t == nil || t.encoding == nil {
		return estimate(text)
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// IsExact reports whether counts come from a real encoding rather than
// the character estimate.
func (t *Tokenizer) IsExact() bool {
	return t != nil && t.encoding != nil
}

// estimate approximates token counts at four characters per token,
// which tracks cl100k_base closely enough for budget enforcement.
func estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
