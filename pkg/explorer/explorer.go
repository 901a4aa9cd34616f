package explorer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fathomcli/fathom/pkg/memory"
)

// Run starts the interactive explorer over an already constructed tree
// and blocks until the user exits.
func Run(tree *memory.Tree) error {
	program := tea.NewProgram(newModel(tree), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("explorer failed: %w", err)
	}
	return nil
}
