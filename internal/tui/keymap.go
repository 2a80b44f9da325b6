package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the dashboard bindings. Printable keys are only bound while
// the job list has focus, so they can still be typed into the input.
type KeyMap struct {
	Quit        key.Binding
	QuitList    key.Binding
	SwitchFocus key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	RunAll      key.Binding
	CancelAll   key.Binding
	Clear       key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		QuitList: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "input/jobs"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "start/cancel"),
		),
		RunAll: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "run all"),
		),
		CancelAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "cancel all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear results"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchFocus, k.Toggle, k.RunAll, k.CancelAll, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchFocus, k.Up, k.Down, k.Toggle},
		{k.RunAll, k.CancelAll, k.Clear},
		{k.Help, k.QuitList, k.Quit},
	}
}
