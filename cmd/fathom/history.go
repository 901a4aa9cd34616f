package main

import (
	"fmt"
	"strings"
	"time"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		return c.showRun(deps)
	}
	return c.listRuns(deps)
}

func (c *HistoryCmd) listRuns(deps *Dependencies) error {
	runs, err := deps.History.ListRuns(deps.Ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", shortID(run.ID), run.CreatedAt.Local().Format(time.DateTime), run.Root)
		fmt.Fprintf(deps.Stdout, "    %s\n", run.Query)
		fmt.Fprintf(deps.Stdout, "    %d steps, %d tokens, %s\n",
			run.Steps, run.PromptTokens+run.CompletionTokens, run.Model)
	}
	fmt.Fprintf(deps.Stdout, "\nRun 'fathom history <id>' for a full answer.\n")
	return nil
}

func (c *HistoryCmd) showRun(deps *Dependencies) error {
	runs, err := deps.History.ListRuns(deps.Ctx, 0)
	if err != nil {
		return err
	}

	// Accept ID prefixes the way the list prints them.
	for _, run := range runs {
		if run.ID == c.ID || strings.HasPrefix(run.ID, c.ID) {
			fmt.Fprintf(deps.Stdout, "%s  %s\n", run.CreatedAt.Local().Format(time.DateTime), run.Root)
			fmt.Fprintf(deps.Stdout, "Q: %s\n\n", run.Query)
			fmt.Fprintln(deps.Stdout, run.Answer)
			return nil
		}
	}
	return fmt.Errorf("run %q not found", c.ID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
