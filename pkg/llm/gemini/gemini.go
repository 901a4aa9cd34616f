// Package gemini provides a Google Gemini LLM provider implementation.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/fathomcli/fathom/pkg/llm"
	"github.com/fathomcli/fathom/pkg/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Provider implements the LLM provider interface using the Gemini API.
type Provider struct {
	client    *genai.Client
	model     string
	modelInfo *types.ModelInfo
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// NewProvider creates a new Gemini provider.
//
// If apiKey is empty, it will attempt to read from the GEMINI_API_KEY
// environment variable.
func NewProvider(ctx context.Context, apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (provide via parameter or GEMINI_API_KEY environment variable)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	p := &Provider{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.modelInfo = &types.ModelInfo{
		Metadata:          make(map[string]interface{}),
		Provider:          "gemini",
		Name:              p.model,
		SupportsStreaming: true,
	}

	return p, nil
}

// StreamCompletion sends messages to the Gemini API and streams back response chunks.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	contents, config := convertMessages(messages)

	chunks := make(chan *llm.StreamChunk, 10)
	go func() {
		defer close(chunks)

		first := true
		var usage *types.TokenUsage
		for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, config) {
			if err != nil {
				chunks <- &llm.StreamChunk{Error: err}
				return
			}

			if resp.UsageMetadata != nil {
				usage = &types.TokenUsage{
					PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
					CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
					TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
				}
			}

			chunk := &llm.StreamChunk{Content: resp.Text()}
			if first {
				chunk.Role = string(types.RoleAssistant)
				first = false
			}

			select {
			case chunks <- chunk:
			case <-ctx.Done():
				chunks <- &llm.StreamChunk{Error: ctx.Err()}
				return
			}
		}

		chunks <- &llm.StreamChunk{Finished: true, Usage: usage}
	}()

	return chunks, nil
}

// Complete sends messages to the Gemini API and returns the full response.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	contents, config := convertMessages(messages)

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("gemini returned nil result")
	}

	msg := types.NewAssistantMessage(result.Text())
	if result.UsageMetadata != nil {
		msg.Metadata = map[string]interface{}{"usage": types.TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}}
	}
	return msg, nil
}

// GetModelInfo returns information about the Gemini model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// convertMessages splits our messages into Gemini contents and a config.
// System messages become the system instruction; user and assistant
// messages map to "user" and "model" roles.
func convertMessages(messages []*types.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	contents := make([]*genai.Content, 0, len(messages))

	var system strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			if system.Len() > 0 {
				system.WriteString("\n\n")
			}
			system.WriteString(msg.Content)
		case types.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if system.Len() > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system.String()}},
		}
	}

	return contents, config
}
