// Package agent runs the automated explore loop: render the memory tree,
// ask the model for the next action, expand the chosen section, repeat
// until the model answers or the step limit is reached.
package agent

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/fathomcli/fathom/pkg/llm"
	"github.com/fathomcli/fathom/pkg/logging"
	"github.com/fathomcli/fathom/pkg/memory"
	"github.com/fathomcli/fathom/pkg/types"
)

const (
	// DefaultMaxSteps bounds how many expand steps a run may take.
	DefaultMaxSteps = 25

	// maxConsecutiveFailures bounds retries on malformed replies and
	// invalid indexes before the run is aborted.
	maxConsecutiveFailures = 3

	// historyLimit caps how many prior steps are replayed in the prompt.
	historyLimit = 20
)

// Result is the outcome of a completed run.
type Result struct {
	// Answer is the model's final message.
	Answer string

	// Steps is the number of API round trips taken, including the
	// answering step.
	Steps int

	// Usage is the summed token usage across all API calls.
	Usage types.TokenUsage
}

// Agent drives one query against a memory tree.
type Agent struct {
	provider llm.Provider
	tree     *memory.Tree
	logger   *logging.Logger
	events   chan<- *types.AgentEvent
	limiter  *rate.Limiter
	maxSteps int
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxSteps overrides the expand step limit.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithRateLimit caps API calls at the given requests per minute.
// Zero or negative disables the limiter.
func WithRateLimit(rpm int) Option {
	return func(a *Agent) {
		if rpm > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
		}
	}
}

// WithEvents sets a channel the agent emits progress events on. The
// agent never closes the channel; the caller must drain it for the run
// to make progress.
func WithEvents(ch chan<- *types.AgentEvent) Option {
	return func(a *Agent) {
		a.events = ch
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New creates an agent for the given provider and tree.
func New(provider llm.Provider, tree *memory.Tree, opts ...Option) *Agent {
	a := &Agent{
		provider: provider,
		tree:     tree,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) emit(event *types.AgentEvent) {
	if a.events != nil {
		a.events <- event
	}
}

func (a *Agent) logf(format string, v ...interface{}) {
	if a.logger != nil {
		a.logger.Infof(format, v...)
	}
}

// Run explores the tree until the model produces a final answer. It
// returns an error when the step limit is exhausted, the context is
// cancelled, or too many consecutive steps fail.
func (a *Agent) Run(ctx context.Context, query string) (*Result, error) {
	history := newStepHistory(historyLimit)
	var usage types.TokenUsage
	failures := 0

	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if closed, size := a.tree.EvictToBudget(); closed > 0 {
			a.logf("step %d: evicted %d sections, view now %d tokens", step, closed, size)
			a.emit(types.NewEvictEvent(step, closed, size))
		}

		a.emit(types.NewStepStartEvent(step, a.tree.TokenSize()))

		decision, stepUsage, err := a.decide(ctx, step, query, history)
		usage.Add(stepUsage)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			a.logf("step %d: %v (failure %d/%d)", step, err, failures, maxConsecutiveFailures)
			a.emit(types.NewErrorEvent(step, err))
			if failures >= maxConsecutiveFailures {
				return nil, fmt.Errorf("aborting after %d consecutive failed steps: %w", failures, err)
			}
			history.add(step, "", fmt.Sprintf("produced an unusable reply (%v)", err))
			continue
		}

		if !decision.IsExpand {
			a.logf("step %d: final answer after %d steps, %d total tokens", step, step, usage.TotalTokens)
			a.emit(types.NewAnswerEvent(step, decision.Message))
			return &Result{Answer: decision.Message, Steps: step, Usage: usage}, nil
		}

		a.emit(types.NewThinkingEvent(step, decision.Thoughts))

		label, ok := a.tree.OpenIndex(decision.Command)
		if !ok {
			failures++
			err := fmt.Errorf("no expandable section numbered %d (view has %d)", decision.Command, a.tree.PlaceholderCount())
			a.logf("step %d: %v (failure %d/%d)", step, err, failures, maxConsecutiveFailures)
			a.emit(types.NewErrorEvent(step, err))
			if failures >= maxConsecutiveFailures {
				return nil, fmt.Errorf("aborting after %d consecutive failed steps: %w", failures, err)
			}
			history.add(step, decision.Thoughts, fmt.Sprintf("tried to expand (%d), which does not exist", decision.Command))
			continue
		}

		failures = 0
		a.logf("step %d: expanded (%d) %s", step, decision.Command, label)
		a.emit(types.NewExpandEvent(step, label))
		history.add(step, decision.Thoughts, fmt.Sprintf("expanded %q", label))
	}

	return nil, fmt.Errorf("no answer after %d steps", a.maxSteps)
}

// decide performs one API round trip and parses the reply.
func (a *Agent) decide(ctx context.Context, step int, query string, history *stepHistory) (*Decision, types.TokenUsage, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, types.TokenUsage{}, err
		}
	}

	messages := []*types.Message{
		types.NewSystemMessage(systemPrompt),
		types.NewUserMessage(buildUserPrompt(query, a.tree.Render(), history.render())),
	}

	a.emit(&types.AgentEvent{Type: types.EventTypeAPICallStart, Step: step})
	reply, err := a.provider.Complete(ctx, messages)
	a.emit(&types.AgentEvent{Type: types.EventTypeAPICallEnd, Step: step})
	if err != nil {
		return nil, types.TokenUsage{}, fmt.Errorf("completion failed: %w", err)
	}

	stepUsage := llm.UsageFromMessage(reply)
	if stepUsage.TotalTokens > 0 {
		a.emit(types.NewTokenUsageEvent(step, stepUsage))
	}

	decision, err := ParseDecision(reply.Content)
	if err != nil {
		return nil, stepUsage, err
	}
	return decision, stepUsage, nil
}
