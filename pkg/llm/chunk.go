package llm

import "github.com/fathomcli/fathom/pkg/types"

// StreamChunk is a single increment of a streaming completion.
type StreamChunk struct {
	// Error is set when the stream failed; no further chunks follow.
	Error error

	// Content is the text delta carried by this chunk.
	Content string

	// Role is the author role, set on the first chunk of a response.
	Role string

	// Usage carries token usage when the API reports it (typically on the
	// final chunk of a stream).
	Usage *types.TokenUsage

	// Finished marks the last chunk of a successful stream.
	Finished bool
}

// IsError returns true if this chunk carries a stream error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}
