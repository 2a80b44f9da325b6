package ui

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// Theme state is global, so these tests do not run in parallel.

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")

	tests := []struct {
		name    string
		noColor bool
		want    string
	}{
		{"light", false, "light"},
		{"dark", false, "dark"},
		{"neon", false, "dark"},
		{"light", true, "none"},
		{"none", false, "none"},
	}
	for _, tt := range tests {
		InitTheme(tt.name, tt.noColor)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("InitTheme(%q, %v) selected %q, want %q", tt.name, tt.noColor, got, tt.want)
		}
	}

	if _, ok := GetCurrentTUITheme().Accent.(lipgloss.NoColor); !ok {
		t.Error("the none theme should give the dashboard lipgloss.NoColor")
	}
}

func TestInitTheme_NoColorEnv(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Setenv("NO_COLOR", "1")
	InitTheme("light", false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR should disable colors")
	}
}

func TestLookupTheme(t *testing.T) {
	for _, name := range []string{"dark", "light", "none"} {
		th, ok := LookupTheme(name)
		if !ok || th.Name != name {
			t.Errorf("LookupTheme(%q) = %q, %v", name, th.Name, ok)
		}
		if th.TUI.Text == nil {
			t.Errorf("theme %q has no dashboard palette", name)
		}
	}
	if _, ok := LookupTheme("neon"); ok {
		t.Error("unknown theme should not be found")
	}
}

func TestPaint(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(NoColorTheme)
	if got := Paint(ColorSuccess(), "ok"); got != "ok" {
		t.Errorf("Paint without colors = %q, want ok", got)
	}

	SetCurrentTheme(LightTheme)
	want := LightTheme.Success + "ok" + LightTheme.Reset
	if got := Paint(ColorSuccess(), "ok"); got != want {
		t.Errorf("Paint = %q, want %q", got, want)
	}
}
