package explorer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the number of terminal rows used by everything that
// is not the tree viewport.
const chromeHeight = 8

// View implements tea.Model.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := headerStyle.Render("  fathom explorer")
	tips := tipsStyle.Render("  Type a section number to expand it • open/close <path> • Ctrl+Y to copy • Esc to exit")
	status := statusStyle.Render(fmt.Sprintf("Exploring: %s", m.tree.Root().Path()))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		tips,
		status,
		m.viewport.View(),
		m.buildFeedback(),
		m.buildGauge(),
		inputBoxStyle.Width(m.width-4).Render(m.input.View()),
	)
}

// buildFeedback renders the outcome of the last command.
func (m *model) buildFeedback() string {
	if m.feedback == "" {
		return ""
	}
	if m.lastError {
		return errorStyle.Render("  " + m.feedback)
	}
	return feedbackStyle.Render("  " + m.feedback)
}

// buildGauge renders the token gauge against the budget.
func (m *model) buildGauge() string {
	size := m.tree.TokenSize()
	budget := m.tree.Budget()

	text := fmt.Sprintf("  tokens: %d/%d • sections: %d", size, budget, m.tree.PlaceholderCount())
	switch {
	case size > budget:
		return gaugeOverStyle.Render(text)
	case size*10 >= budget*8:
		return gaugeWarnStyle.Render(text)
	default:
		return gaugeOKStyle.Render(text)
	}
}
