package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numcalc/internal/jobs"
)

// HeaderModel renders the top bar: title, version, running count and
// session time.
type HeaderModel struct {
	startTime time.Time
	now       time.Time
	version   string
	running   int
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	now := time.Now()
	return HeaderModel{startTime: now, now: now, version: version}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Tick advances the session clock.
func (h *HeaderModel) Tick(t time.Time) {
	h.now = t
}

// SetState counts the computations currently running.
func (h *HeaderModel) SetState(s jobs.Snapshot) {
	h.running = 0
	for _, k := range jobs.Computations() {
		if s.Running(k) {
			h.running++
		}
	}
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "numcalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	left := titleStyle.Render(titleText) + dimStyle.Render(" | ")
	if h.running > 0 {
		left += runningStyle.Render(fmt.Sprintf("%d running", h.running))
	} else {
		left += idleStyle.Render("idle")
	}

	right := dimStyle.Render("Session: " + h.now.Sub(h.startTime).Truncate(time.Second).String())

	gap := h.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(left + strings.Repeat(" ", gap) + right)
}
