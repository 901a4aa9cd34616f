package main

import (
	"github.com/fathomcli/fathom/pkg/explorer"
	"github.com/fathomcli/fathom/pkg/llm/tokenizer"
	"github.com/fathomcli/fathom/pkg/memory"
	"github.com/fathomcli/fathom/pkg/workspace"
)

// Run executes the explore command.
func (c *ExploreCmd) Run(deps *Dependencies) error {
	guard, err := workspace.NewGuard(c.Dir)
	if err != nil {
		return err
	}

	budget := c.TokenLimit
	if budget <= 0 {
		budget = deps.Settings.TokenLimit
	}

	tok, tokErr := tokenizer.New(deps.Settings.Model)
	if tokErr != nil {
		deps.Logger.Warnf("tokenizer unavailable, estimating counts: %v", tokErr)
	}

	tree, err := memory.New(guard, tok, budget)
	if err != nil {
		return err
	}

	return explorer.Run(tree)
}
