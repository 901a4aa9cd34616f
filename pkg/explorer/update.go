package explorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := msg.Height - chromeHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.refreshTree()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlY:
			m.copyView()
			return m, nil
		case tea.KeyEnter:
			command := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if command == "" {
				return m, nil
			}
			return m.runCommand(command)
		}
	}

	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewportCmd)
}

// runCommand executes one typed command against the tree.
func (m *model) runCommand(command string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(command)
	verb := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(command, fields[0]))

	switch {
	case verb == "exit" || verb == "quit":
		return m, tea.Quit

	case verb == "copy":
		m.copyView()

	case verb == "open" && arg != "":
		if m.tree.Open(arg) {
			m.setFeedback(fmt.Sprintf("opened %q", arg), false)
		} else {
			m.setFeedback(fmt.Sprintf("nothing closed matches %q", arg), true)
		}

	case verb == "close" && arg != "":
		if m.tree.Close(arg) {
			m.setFeedback(fmt.Sprintf("closed %q", arg), false)
		} else {
			m.setFeedback(fmt.Sprintf("nothing opened matches %q", arg), true)
		}

	default:
		n, err := strconv.Atoi(verb)
		if err != nil {
			m.setFeedback(fmt.Sprintf("unknown command %q", command), true)
			break
		}
		if label, ok := m.tree.OpenIndex(n); ok {
			m.setFeedback(fmt.Sprintf("expanded (%d) %s", n, label), false)
		} else {
			m.setFeedback(fmt.Sprintf("no expandable section numbered %d (view has %d)", n, m.tree.PlaceholderCount()), true)
		}
	}

	// The view only ever grows through commands, so evict afterwards,
	// the same as the automated loop does before each step.
	if closed, size := m.tree.EvictToBudget(); closed > 0 {
		m.setFeedback(fmt.Sprintf("%s; evicted %d sections to fit %d tokens", m.feedback, closed, size), m.lastError)
	}

	m.refreshTree()
	return m, nil
}

func (m *model) copyView() {
	if err := clipboard.WriteAll(m.tree.Render()); err != nil {
		m.setFeedback(fmt.Sprintf("clipboard unavailable: %v", err), true)
		return
	}
	m.setFeedback("copied view to clipboard", false)
}

func (m *model) setFeedback(text string, isError bool) {
	m.feedback = text
	m.lastError = isError
}

func (m *model) refreshTree() {
	if m.ready {
		m.viewport.SetContent(treeStyle.Render(m.tree.Render()))
	}
}
