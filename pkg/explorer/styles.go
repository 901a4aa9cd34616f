package explorer

import "github.com/charmbracelet/lipgloss"

// Color palette shared across the explorer views.
var (
	seaBlue     = lipgloss.Color("#7AA2F7") // headers and accents
	kelpGreen   = lipgloss.Color("#9ECE6A") // success and confirmations
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	warmAmber   = lipgloss.Color("#E0AF68") // token gauge near budget
	alarmRed    = lipgloss.Color("#F7768E") // errors and over-budget
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(seaBlue).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	treeStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(kelpGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(alarmRed)

	gaugeOKStyle = lipgloss.NewStyle().
			Foreground(kelpGreen)

	gaugeWarnStyle = lipgloss.NewStyle().
			Foreground(warmAmber)

	gaugeOverStyle = lipgloss.NewStyle().
			Foreground(alarmRed)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(seaBlue).
			Padding(0, 1)
)
