package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"QuitList", km.QuitList},
		{"SwitchFocus", km.SwitchFocus},
		{"Up", km.Up},
		{"Down", km.Down},
		{"Toggle", km.Toggle},
		{"RunAll", km.RunAll},
		{"CancelAll", km.CancelAll},
		{"Clear", km.Clear},
		{"Help", km.Help},
	}

	for _, b := range bindings {
		t.Run(b.name, func(t *testing.T) {
			if !b.binding.Enabled() {
				t.Errorf("expected %s binding to be enabled", b.name)
			}
			if len(b.binding.Keys()) == 0 {
				t.Errorf("expected %s binding to have at least one key", b.name)
			}
			if b.binding.Help().Desc == "" {
				t.Errorf("expected %s binding to have a help text", b.name)
			}
		})
	}
}

func TestDefaultKeyMap_GlobalKeysAreNotPrintable(t *testing.T) {
	km := DefaultKeyMap()
	// These fire while the input field has focus, so they must not be
	// characters a user would type.
	for _, b := range []key.Binding{km.Quit, km.SwitchFocus, km.RunAll, km.CancelAll, km.Clear} {
		for _, k := range b.Keys() {
			if len([]rune(k)) == 1 {
				t.Errorf("global binding %q is a printable key", k)
			}
		}
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("expected short help bindings")
	}
	total := 0
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	if total != 10 {
		t.Errorf("full help lists %d bindings, want 10", total)
	}
}
