// Package explorer is an interactive terminal view of the memory tree.
// It exists to make the abstraction the model works with tangible: the
// user types the same expand commands the model issues and watches the
// view collapse as eviction keeps it under the token budget.
package explorer

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/fathomcli/fathom/pkg/memory"
)

// model holds the explorer state.
type model struct {
	viewport  viewport.Model
	input     textinput.Model
	tree      *memory.Tree
	feedback  string // result of the last command
	lastError bool   // style the feedback as an error

	width  int
	height int
	ready  bool
}

func newModel(tree *memory.Tree) *model {
	input := textinput.New()
	input.Placeholder = "number to expand, open <path>, close <path>, copy, exit"
	input.Focus()
	input.CharLimit = 256

	return &model{
		input: input,
		tree:  tree,
	}
}
