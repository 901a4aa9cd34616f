package types

// AgentEventType defines the type of event emitted by the agent loop.
type AgentEventType string

const (
	EventTypeStepStart    AgentEventType = "step_start"     // EventTypeStepStart indicates a new explore step has begun.
	EventTypeThinking     AgentEventType = "thinking"       // EventTypeThinking carries the model's reasoning for a step.
	EventTypeExpand       AgentEventType = "expand"         // EventTypeExpand indicates the agent opened a collapsed section.
	EventTypeEvict        AgentEventType = "evict"          // EventTypeEvict indicates memory was evicted to fit the token budget.
	EventTypeAPICallStart AgentEventType = "api_call_start" // EventTypeAPICallStart indicates an LLM API call is starting.
	EventTypeAPICallEnd   AgentEventType = "api_call_end"   // EventTypeAPICallEnd indicates an LLM API call finished.
	EventTypeTokenUsage   AgentEventType = "token_usage"    // EventTypeTokenUsage carries usage from a completed API call.
	EventTypeAnswer       AgentEventType = "answer"         // EventTypeAnswer carries the final answer.
	EventTypeError        AgentEventType = "error"          // EventTypeError indicates a step-level error.
)

// AgentEvent represents an event emitted by the agent during a run.
type AgentEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// Error contains error information for error events.
	Error error

	// Content holds text content (thoughts, expanded section, answer).
	Content string

	// Type indicates the kind of event.
	Type AgentEventType

	// Step is the 1-based explore step this event belongs to.
	Step int

	// Tokens is the rendered memory size in tokens, for step and evict events.
	Tokens int

	// TokenUsage contains usage information for token usage events.
	TokenUsage *TokenUsage
}

// NewStepStartEvent creates an event marking the start of an explore step.
func NewStepStartEvent(step, tokens int) *AgentEvent {
	return &AgentEvent{Type: EventTypeStepStart, Step: step, Tokens: tokens}
}

// NewThinkingEvent creates an event carrying the model's step reasoning.
func NewThinkingEvent(step int, thoughts string) *AgentEvent {
	return &AgentEvent{Type: EventTypeThinking, Step: step, Content: thoughts}
}

// NewExpandEvent creates an event recording an expanded section.
func NewExpandEvent(step int, section string) *AgentEvent {
	return &AgentEvent{Type: EventTypeExpand, Step: step, Content: section}
}

// NewEvictEvent creates an event recording an eviction pass.
func NewEvictEvent(step, closed, tokens int) *AgentEvent {
	return &AgentEvent{
		Type:     EventTypeEvict,
		Step:     step,
		Tokens:   tokens,
		Metadata: map[string]interface{}{"closed": closed},
	}
}

// NewTokenUsageEvent creates an event carrying API token usage.
func NewTokenUsageEvent(step int, usage TokenUsage) *AgentEvent {
	return &AgentEvent{Type: EventTypeTokenUsage, Step: step, TokenUsage: &usage}
}

// NewAnswerEvent creates an event carrying the final answer.
func NewAnswerEvent(step int, answer string) *AgentEvent {
	return &AgentEvent{Type: EventTypeAnswer, Step: step, Content: answer}
}

// NewErrorEvent creates an event carrying a step-level error.
func NewErrorEvent(step int, err error) *AgentEvent {
	return &AgentEvent{Type: EventTypeError, Step: step, Error: err}
}
