package types

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem is used for system prompts.
	RoleUser      MessageRole = "user"      // RoleUser is used for user-authored messages.
	RoleAssistant MessageRole = "assistant" // RoleAssistant is used for model responses.
)

// Message represents a single message exchanged with an LLM provider.
type Message struct {
	// Metadata holds optional additional information about the message.
	Metadata map[string]interface{}

	// Content is the text body of the message.
	Content string

	// Role indicates who authored the message.
	Role MessageRole
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// TokenUsage contains token usage statistics from an LLM API call.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the input/prompt.
	PromptTokens int

	// CompletionTokens is the number of tokens in the generated completion.
	CompletionTokens int

	// TotalTokens is the total number of tokens used (prompt + completion).
	TotalTokens int
}

// Add accumulates usage from another API call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ModelInfo describes the LLM model behind a provider.
type ModelInfo struct {
	// Metadata holds provider-specific details (e.g. custom base URL).
	Metadata map[string]interface{}

	// Name is the model identifier (e.g. "gpt-4o").
	Name string

	// Provider is the provider family ("openai", "gemini").
	Provider string

	// MaxTokens is the model's context window size, if known.
	MaxTokens int

	// SupportsStreaming indicates whether streaming completions are available.
	SupportsStreaming bool
}
