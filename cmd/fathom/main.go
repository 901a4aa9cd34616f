package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/fathomcli/fathom/pkg/config"
	"github.com/fathomcli/fathom/pkg/history"
	"github.com/fathomcli/fathom/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath and HistoryPath may be overridden before calling Run().
	ConfigPath  string
	HistoryPath string

	// History database, opened by Run().
	History *history.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	m := &Main{}
	if path, err := config.DefaultPath(); err == nil {
		m.ConfigPath = path
	}
	m.HistoryPath = defaultHistoryPath()
	return m
}

// defaultHistoryPath returns the run database location, honoring the
// FATHOM_DB override.
func defaultHistoryPath() string {
	if path := os.Getenv("FATHOM_DB"); path != "" {
		return path
	}
	if path, err := history.DefaultPath(); err == nil {
		return path
	}
	return "fathom-history.db"
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.History != nil {
		return m.History.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	settings, err := config.Load(m.ConfigPath)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Settings: settings,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fathom"),
		kong.Description("Answers questions about a directory by exploring it the way you would: opening the promising parts, skimming the rest."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no directory specified. Run 'fathom --help' for usage")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.History = history.NewDB(m.HistoryPath)
	if err := m.History.Open(); err != nil {
		return fmt.Errorf("failed to open history database at %q: %w", m.HistoryPath, err)
	}
	deps.History = m.History

	// The logger degrades to stderr on failure; keep going either way.
	logger, logErr := logging.NewLogger("cli")
	if logErr != nil {
		fmt.Fprintf(stderr, "warning: %v\n", logErr)
	}
	deps.Logger = logger
	defer logger.Close()

	return kongCtx.Run(deps)
}
