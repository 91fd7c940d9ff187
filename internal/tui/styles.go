package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	errorColor  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	warnColor   = lipgloss.AdaptiveColor{Light: "208", Dark: "208"}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	hintStyle   = lipgloss.NewStyle().Foreground(dimColor)
	echoStyle   = lipgloss.NewStyle().Foreground(accentColor)
	resultStyle = lipgloss.NewStyle().PaddingLeft(2)
	errorStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(errorColor)
	warnStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(warnColor)
)

// InputBorder returns the rounded border drawn around the input line.
func InputBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		PaddingLeft(1)
}
