package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme pairs the ANSI codes used by line output with the lipgloss palette
// used by the dashboard.
type Theme struct {
	Name string

	// Primary highlights prompts and headings.
	Primary   string
	Secondary string
	// Success marks finished jobs and results.
	Success string
	// Warning marks running jobs and usage hints.
	Warning string
	Error   string
	Info    string
	Bold    string
	Reset   string

	TUI TUITheme
}

// TUITheme holds the lipgloss colors of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

func ansi256(code string) string { return "\033[38;5;" + code + "m" }

func hexPalette(text, border, accent, success, warning, errColor, dim, info string) TUITheme {
	return TUITheme{
		Text:    lipgloss.Color(text),
		Border:  lipgloss.Color(border),
		Accent:  lipgloss.Color(accent),
		Success: lipgloss.Color(success),
		Warning: lipgloss.Color(warning),
		Error:   lipgloss.Color(errColor),
		Dim:     lipgloss.Color(dim),
		Info:    lipgloss.Color(info),
	}
}

var (
	// DarkTheme suits dark terminal backgrounds. It is the default.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   ansi256("39"),
		Secondary: ansi256("245"),
		Success:   ansi256("82"),
		Warning:   ansi256("220"),
		Error:     ansi256("196"),
		Info:      ansi256("141"),
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		TUI:       hexPalette("#E0E0E0", "#3D7EFF", "#5FAFFF", "#9ECE6A", "#FFB347", "#FF4444", "#666666", "#BB9AF7"),
	}

	// LightTheme uses darker tones for light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   ansi256("27"),
		Secondary: ansi256("240"),
		Success:   ansi256("28"),
		Warning:   ansi256("130"),
		Error:     ansi256("124"),
		Info:      ansi256("54"),
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		TUI:       hexPalette("#1F1F1F", "#1E5FD0", "#0057B8", "#2E7D32", "#B35C00", "#C62828", "#8A8A8A", "#5E35B1"),
	}

	// NoColorTheme emits no escape codes and leaves the dashboard in the
	// terminal's default colors.
	NoColorTheme = Theme{
		Name: "none",
		TUI: TUITheme{
			Text:    lipgloss.NoColor{},
			Border:  lipgloss.NoColor{},
			Accent:  lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Warning: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
			Info:    lipgloss.NoColor{},
		},
	}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	mu      sync.RWMutex
	current = DarkTheme
)

// LookupTheme returns the theme registered under name.
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// GetCurrentTUITheme returns the dashboard palette of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().TUI
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

// InitTheme activates the theme called name, falling back to dark for
// unknown names. noColor or a NO_COLOR environment variable
// (https://no-color.org/) forces the none theme.
func InitTheme(name string, noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); set || noColor {
		name = NoColorTheme.Name
	}
	t, ok := LookupTheme(name)
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}
