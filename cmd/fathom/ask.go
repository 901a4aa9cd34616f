package main

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/fathomcli/fathom/pkg/agent"
	"github.com/fathomcli/fathom/pkg/config"
	"github.com/fathomcli/fathom/pkg/history"
	"github.com/fathomcli/fathom/pkg/llm"
	"github.com/fathomcli/fathom/pkg/llm/gemini"
	"github.com/fathomcli/fathom/pkg/llm/openai"
	"github.com/fathomcli/fathom/pkg/llm/tokenizer"
	"github.com/fathomcli/fathom/pkg/memory"
	"github.com/fathomcli/fathom/pkg/render"
	"github.com/fathomcli/fathom/pkg/scan"
	"github.com/fathomcli/fathom/pkg/types"
	"github.com/fathomcli/fathom/pkg/workspace"
)

// largeScanBytes triggers a size warning before exploration starts.
const largeScanBytes = 256 << 20

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	settings := c.resolveSettings(deps.Settings)
	if err := settings.Validate(); err != nil {
		return err
	}

	guard, err := workspace.NewGuard(c.Dir)
	if err != nil {
		return err
	}

	stats, err := scan.Scan(deps.Ctx, guard)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", guard.Root(), err)
	}
	if stats.Files == 0 {
		return fmt.Errorf("nothing to explore in %s (all files ignored or directory empty)", guard.Root())
	}
	if stats.Bytes > largeScanBytes {
		fmt.Fprintf(deps.Stderr, "warning: %s holds %d files (%.1f MB); large trees take more steps to explore\n",
			guard.Root(), stats.Files, float64(stats.Bytes)/(1<<20))
	}

	deps.Logger.Infof("exploring %s: %d files, %d dirs, %d bytes, top extensions %v",
		guard.Root(), stats.Files, stats.Dirs, stats.Bytes, stats.TopExtensions(5))

	provider, err := c.newProvider(deps, settings)
	if err != nil {
		return err
	}

	tok, tokErr := tokenizer.New(provider.GetModel())
	if tokErr != nil {
		deps.Logger.Warnf("tokenizer unavailable for %s, estimating counts: %v", provider.GetModel(), tokErr)
	}

	tree, err := memory.New(guard, tok, settings.TokenLimit)
	if err != nil {
		return err
	}

	events := make(chan *types.AgentEvent, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.reportEvents(deps, events)
	}()

	explorer := agent.New(provider, tree,
		agent.WithMaxSteps(settings.MaxSteps),
		agent.WithRateLimit(settings.RPM),
		agent.WithEvents(events),
		agent.WithLogger(deps.Logger),
	)

	result, runErr := explorer.Run(deps.Ctx, c.Query)
	close(events)
	wg.Wait()
	if runErr != nil {
		return runErr
	}

	renderer := render.New(!c.NoColor)
	if err := renderer.Render(deps.Stdout, result.Answer); err != nil {
		return err
	}

	if c.Copy {
		if err := clipboard.WriteAll(result.Answer); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: failed to copy answer to clipboard: %v\n", err)
		}
	}

	run := &history.Run{
		Root:             guard.Root(),
		Query:            c.Query,
		Answer:           result.Answer,
		Model:            provider.GetModel(),
		Steps:            result.Steps,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
	}
	if err := deps.History.SaveRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to save run: %v\n", err)
	}

	return nil
}

// resolveSettings layers command-line flags over the config file.
func (c *AskCmd) resolveSettings(base *config.Settings) *config.Settings {
	settings := *base
	if c.Provider != "" {
		settings.Provider = c.Provider
	}
	if c.Model != "" {
		settings.Model = c.Model
	}
	if c.TokenLimit > 0 {
		settings.TokenLimit = c.TokenLimit
	}
	if c.MaxSteps > 0 {
		settings.MaxSteps = c.MaxSteps
	}
	if c.RPM > 0 {
		settings.RPM = c.RPM
	}
	return &settings
}

// reportEvents prints agent progress to stderr, leaving stdout for the
// answer alone.
func (c *AskCmd) reportEvents(deps *Dependencies, events <-chan *types.AgentEvent) {
	for ev := range events {
		switch ev.Type {
		case types.EventTypeStepStart:
			if c.Verbose {
				fmt.Fprintf(deps.Stderr, "step %d (view: %d tokens)\n", ev.Step, ev.Tokens)
			}
		case types.EventTypeThinking:
			if c.Verbose {
				fmt.Fprintf(deps.Stderr, "  thinking: %s\n", ev.Content)
			}
		case types.EventTypeExpand:
			if c.Verbose {
				fmt.Fprintf(deps.Stderr, "  expanded: %s\n", ev.Content)
			}
		case types.EventTypeEvict:
			if c.Verbose {
				fmt.Fprintf(deps.Stderr, "  evicted %v sections (view: %d tokens)\n", ev.Metadata["closed"], ev.Tokens)
			}
		case types.EventTypeError:
			fmt.Fprintf(deps.Stderr, "  step %d failed: %v\n", ev.Step, ev.Error)
		case types.EventTypeTokenUsage:
			if c.Verbose && ev.TokenUsage != nil {
				fmt.Fprintf(deps.Stderr, "  api usage: %d prompt + %d completion tokens\n",
					ev.TokenUsage.PromptTokens, ev.TokenUsage.CompletionTokens)
			}
		}
	}
}

// newProvider builds the configured LLM backend. An empty API key falls
// back to the provider's environment variable.
func (c *AskCmd) newProvider(deps *Dependencies, settings *config.Settings) (llm.Provider, error) {
	switch settings.Provider {
	case "gemini":
		return gemini.NewProvider(deps.Ctx, c.APIKey, gemini.WithModel(settings.Model))
	default:
		return openai.NewProvider(c.APIKey,
			openai.WithModel(settings.Model),
			openai.WithBaseURL(c.BaseURL),
		)
	}
}
