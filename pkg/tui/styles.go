package tui

import "github.com/charmbracelet/lipgloss"

// --- Styles ---
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2A82DA")).
			Padding(0, 1).
			Bold(true)
	balanceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2A82DA")).
			Padding(0, 1)
	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("57"))
	outgoingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	incomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)
