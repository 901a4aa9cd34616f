// Package llm provides abstractions for LLM provider integration.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/fathomcli/fathom/pkg/llm/openai"
//	    "github.com/fathomcli/fathom/pkg/types"
//	)
//
//	func main() {
//	    provider, err := openai.NewProvider(
//	        os.Getenv("OPENAI_API_KEY"),
//	        openai.WithModel("gpt-4o"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    messages := []*types.Message{
//	        types.NewUserMessage("Hello!"),
//	    }
//
//	    stream, err := provider.StreamCompletion(context.Background(), messages)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for chunk := range stream {
//	        if chunk.IsError() {
//	            log.Fatal(chunk.Error)
//	        }
//	        fmt.Print(chunk.Content)
//	    }
//	}
package llm

import (
	"context"

	"github.com/fathomcli/fathom/pkg/types"
)

// Provider defines the interface for LLM integrations.
//
// Providers handle API communication with LLM services and return simple
// StreamChunk instances. This design keeps providers focused on LLM concerns
// without coupling them to the explore loop or its events.
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response chunks.
	//
	// The returned channel emits StreamChunk instances:
	// - First chunk typically has Role set (e.g., "assistant")
	// - Subsequent chunks contain Content deltas
	// - Final chunk has Finished=true
	// - Error chunks have Error set
	//
	// The channel is closed when streaming completes or an error occurs.
	// Callers should continue reading until the channel is closed.
	//
	// Returns an error only if streaming cannot be initiated (e.g., invalid
	// configuration, network unavailable). Stream-time errors are sent as
	// StreamChunk instances with Error set.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages to the LLM and returns the full response.
	//
	// This is a convenience wrapper around StreamCompletion for non-streaming
	// use cases. It accumulates all chunks and returns the complete message.
	// When the API reports token usage, it is attached to the returned
	// message's Metadata under the "usage" key as a types.TokenUsage.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the LLM model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}

// UsageFromMessage extracts token usage attached to a completed message.
// Returns a zero TokenUsage if the provider did not report usage.
func UsageFromMessage(msg *types.Message) types.TokenUsage {
	if msg == nil || msg.Metadata == nil {
		return types.TokenUsage{}
	}
	usage, ok := msg.Metadata["usage"].(types.TokenUsage)
	if !ok {
		return types.TokenUsage{}
	}
	return usage
}
