package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numcalc/internal/ui"
)

// Styles are rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle        lipgloss.Style
	focusedPanelStyle lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	dimStyle          lipgloss.Style
	accentStyle       lipgloss.Style
	labelStyle        lipgloss.Style
	valueStyle        lipgloss.Style
	problemStyle      lipgloss.Style
	selectedStyle     lipgloss.Style
	runningStyle      lipgloss.Style
	idleStyle         lipgloss.Style
	statusOKStyle     lipgloss.Style
	statusErrorStyle  lipgloss.Style
	sparklineStyle    lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again because the theme is chosen after package init.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Dim).
		Foreground(t.Text).
		Padding(0, 1)

	focusedPanelStyle = panelStyle.
		BorderForeground(t.Border)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	labelStyle = lipgloss.NewStyle().Foreground(t.Info)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	problemStyle = lipgloss.NewStyle().Foreground(t.Error)

	selectedStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	runningStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	idleStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusOKStyle = lipgloss.NewStyle().Foreground(t.Success)
	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	sparklineStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
