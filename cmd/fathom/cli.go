package main

import (
	"context"
	"io"

	"github.com/fathomcli/fathom/pkg/config"
	"github.com/fathomcli/fathom/pkg/history"
	"github.com/fathomcli/fathom/pkg/logging"
)

// Dependencies holds services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Settings *config.Settings
	History  *history.DB
	Logger   *logging.Logger
}

// CLI defines the command-line interface structure for Kong.
// Ask is the default command, so `fathom <dir> <query>` works without
// naming it.
type CLI struct {
	Ask     AskCmd     `cmd:"" default:"withargs" help:"Answer a question about a directory"`
	Explore ExploreCmd `cmd:"" help:"Browse a directory the way the model sees it"`
	History HistoryCmd `cmd:"" help:"Show past runs"`
}

// AskCmd is the "ask" command.
type AskCmd struct {
	Dir   string `arg:"" help:"Directory to explore"`
	Query string `arg:"" help:"Question about the code"`

	Provider   string `help:"LLM backend: openai or gemini"`
	Model      string `help:"Model name (defaults to the provider's default)"`
	BaseURL    string `name:"base-url" help:"OpenAI-compatible API base URL"`
	APIKey     string `name:"api-key" help:"API key (defaults to OPENAI_API_KEY or GEMINI_API_KEY)"`
	TokenLimit int    `name:"token-limit" help:"Token budget for the rendered view"`
	MaxSteps   int    `name:"max-steps" help:"Maximum explore steps before giving up"`
	RPM        int    `help:"API requests per minute (0 disables rate limiting)"`
	Verbose    bool   `short:"v" help:"Show each explore step"`
	NoColor    bool   `name:"no-color" help:"Disable syntax highlighting in the answer"`
	Copy       bool   `help:"Copy the answer to the clipboard"`
}

// ExploreCmd is the "explore" command.
type ExploreCmd struct {
	Dir        string `arg:"" help:"Directory to explore"`
	TokenLimit int    `name:"token-limit" help:"Token budget for the rendered view"`
}

// HistoryCmd is the "history" command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of runs to show"`
	ID    string `arg:"" optional:"" help:"Show the full answer of one run"`
}
