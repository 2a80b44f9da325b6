// Package tui implements the interactive dashboard: an input field, one row
// per job with its running state and latest results, and a memory footer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numcalc/internal/calculator"
	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/format"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/metrics"
)

// Engine is the calculator surface driven by the dashboard.
// *calculator.Calculator implements it.
type Engine interface {
	SetInput(string)
	Input() string
	Request(jobs.Kind) (bool, error)
	RunAll() (bool, error)
	CancelAll()
	Current() jobs.Snapshot
	States() (<-chan jobs.Snapshot, func())
	Updates() (<-chan calculator.Update, func())
	Latest(calculator.Slot) (string, bool)
	ClearResults()
}

var _ Engine = (*calculator.Calculator)(nil)

type focusArea int

const (
	focusInput focusArea = iota
	focusJobs
)

const (
	tickInterval  = 500 * time.Millisecond
	minValueWidth = 16
	// labelColumn is the indent plus the padded label of a result line.
	labelColumn = 16
)

// Model is the root bubbletea model.
type Model struct {
	engine    Engine
	ref       *programRef
	collector *metrics.MemoryCollector

	keys   KeyMap
	help   help.Model
	input  textinput.Model
	header HeaderModel
	memory MemoryModel

	state    jobs.Snapshot
	results  map[calculator.Slot]string
	selected int
	focus    focusArea

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel creates the dashboard over eng, seeded with its current input,
// state and results.
func NewModel(eng Engine, version string) Model {
	ti := textinput.New()
	ti.Prompt = "Input: "
	ti.Placeholder = "a number, e.g. 17"
	ti.SetValue(eng.Input())
	ti.Focus()

	results := make(map[calculator.Slot]string)
	for _, s := range calculator.Slots() {
		if v, ok := eng.Latest(s); ok {
			results[s] = v
		}
	}

	header := NewHeaderModel(version)
	state := eng.Current()
	header.SetState(state)

	return Model{
		engine:    eng,
		ref:       &programRef{},
		collector: metrics.NewMemoryCollector(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     ti,
		header:    header,
		memory:    NewMemoryModel(),
		state:     state,
		results:   results,
		focus:     focusInput,
	}
}

// Init starts the cursor blink, the clock and the first memory sample.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(), sampleMemStatsCmd(m.collector))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case StateMsg:
		m.state = jobs.Snapshot(msg)
		m.header.SetState(m.state)
		return m, nil

	case ResultMsg:
		m.results[msg.Slot] = msg.Value
		return m, nil

	case TickMsg:
		m.header.Tick(time.Time(msg))
		return m, tea.Batch(sampleMemStatsCmd(m.collector), tickCmd())

	case MemStatsMsg:
		m.memory.Update(metrics.MemorySnapshot(msg))
		return m, nil

	case EngineClosedMsg:
		return m, tea.Quit
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == focusInput {
			m.focus = focusJobs
			m.input.Blur()
			return m, nil
		}
		m.focus = focusInput
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.RunAll):
		m.toggle(jobs.All)
		return m, nil

	case key.Matches(msg, m.keys.CancelAll):
		m.engine.CancelAll()
		m.setStatus("All jobs canceled", false)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.engine.ClearResults()
		m.results = make(map[calculator.Slot]string)
		m.setStatus("Results cleared", false)
		return m, nil
	}

	if m.focus == focusInput {
		if msg.Type == tea.KeyEnter {
			m.toggle(jobs.All)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	kinds := jobs.Kinds()
	switch {
	case key.Matches(msg, m.keys.QuitList):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(kinds)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggle(kinds[m.selected])
	}
	return m, nil
}

// toggle starts kind on the current input field value, or cancels it when
// it is running. The input is only validated and written when starting.
func (m *Model) toggle(kind jobs.Kind) {
	if !m.engine.Current().Running(kind) {
		value := strings.TrimSpace(m.input.Value())
		if err := calculator.ValidateInput(value); err != nil {
			m.setStatus("Invalid input: "+err.Error(), true)
			return
		}
		m.engine.SetInput(value)
	}

	var (
		started bool
		err     error
	)
	if kind == jobs.All {
		started, err = m.engine.RunAll()
	} else {
		started, err = m.engine.Request(kind)
	}
	switch {
	case err != nil:
		m.setStatus("Error: "+err.Error(), true)
	case started:
		m.setStatus(fmt.Sprintf("%s started on %s", kind, m.engine.Input()), false)
	default:
		m.setStatus(kind.String()+" canceled", false)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	inputPanel := panelStyle
	jobsPanel := panelStyle
	if m.focus == focusInput {
		inputPanel = focusedPanelStyle
	} else {
		jobsPanel = focusedPanelStyle
	}
	inner := max(m.width-4, 0)

	status := ""
	if m.status != "" {
		if m.statusErr {
			status = statusErrorStyle.Render("  " + m.status)
		} else {
			status = statusOKStyle.Render("  " + m.status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		inputPanel.Width(inner).Render(m.input.View()),
		jobsPanel.Width(inner).Render(m.jobsView(inner)),
		status,
		m.memory.View(),
		"  "+m.help.View(m.keys),
	)
}

// jobsView renders one block per kind: the state line, then one line per
// result slot of that kind.
func (m Model) jobsView(width int) string {
	valueWidth := max(width-labelColumn, minValueWidth)
	var b strings.Builder
	for i, kind := range jobs.Kinds() {
		cursor := "  "
		name := fmt.Sprintf("%-11s", kind)
		if i == m.selected && m.focus == focusJobs {
			cursor = selectedStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		state := idleStyle.Render("idle")
		if m.state.Running(kind) {
			state = runningStyle.Render("running")
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(cursor + name + " " + state)

		for _, s := range slotsOf(kind) {
			v, ok := m.results[s]
			if !ok {
				continue
			}
			style := valueStyle
			if calculator.IsProblem(v) {
				style = problemStyle
			}
			fmt.Fprintf(&b, "\n      %s %s", labelStyle.Render(fmt.Sprintf("%-8s", s.Label())), style.Render(format.TruncateDigits(v, valueWidth)))
		}
	}
	return b.String()
}

// slotsOf lists the slots shown under kind. The aggregate shows none.
func slotsOf(kind jobs.Kind) []calculator.Slot {
	if kind == jobs.All {
		return nil
	}
	slots := calculator.SlotsOf(kind)
	if kind == jobs.Prime {
		slots = append(slots, calculator.ErrorMessage)
	}
	return slots
}

// Run shows the dashboard until the user quits or ctx is done. Running jobs
// are canceled on exit.
func Run(ctx context.Context, eng Engine, version string) int {
	// Rebuild styles from the theme chosen by the app after package init.
	initTUIStyles()

	model := NewModel(eng, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so the bridge can Send.
	model.ref.SetProgram(p)

	bridgeCtx, stop := context.WithCancel(ctx)
	bridged := make(chan struct{})
	go func() {
		defer close(bridged)
		bridge(bridgeCtx, eng, model.ref)
	}()

	_, err := p.Run()
	stop()
	<-bridged
	eng.CancelAll()

	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil:
		return apperrors.ExitErrorCanceled
	default:
		return apperrors.ExitErrorGeneric
	}
}

// tickCmd sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats.
func sampleMemStatsCmd(c *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(c.Snapshot())
	}
}
