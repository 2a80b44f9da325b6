package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/numcalc/internal/calculator"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/metrics"
)

// fakeEngine toggles flags on a real broadcaster without running anything.
type fakeEngine struct {
	input    string
	state    *jobs.Broadcaster
	requests []jobs.Kind
	canceled int
	cleared  int
	latest   map[calculator.Slot]string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{state: jobs.NewBroadcaster(), latest: map[calculator.Slot]string{}}
}

func (f *fakeEngine) SetInput(s string) { f.input = s }
func (f *fakeEngine) Input() string     { return f.input }

func (f *fakeEngine) Request(k jobs.Kind) (bool, error) {
	f.requests = append(f.requests, k)
	start := !f.state.Current().Running(k)
	f.state.Set(k, start)
	return start, nil
}

func (f *fakeEngine) RunAll() (bool, error) { return f.Request(jobs.All) }
func (f *fakeEngine) CancelAll()            { f.canceled++; f.state.SetAll(false) }
func (f *fakeEngine) Current() jobs.Snapshot {
	return f.state.Current()
}

func (f *fakeEngine) States() (<-chan jobs.Snapshot, func()) { return f.state.Subscribe() }

func (f *fakeEngine) Updates() (<-chan calculator.Update, func()) {
	ch := make(chan calculator.Update)
	return ch, func() {}
}

func (f *fakeEngine) Latest(s calculator.Slot) (string, bool) {
	v, ok := f.latest[s]
	return v, ok
}

func (f *fakeEngine) ClearResults() { f.cleared++; f.latest = map[calculator.Slot]string{} }

var _ Engine = (*fakeEngine)(nil)

// send feeds msgs to m in order and returns the final model and the last
// command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		next, c := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
		cmd = c
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_TypeAndEnterRunsAll(t *testing.T) {
	eng := newFakeEngine()
	m := NewModel(eng, "dev")

	m, _ = send(t, m, runes("1"), runes("7"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "17", eng.Input())
	assert.Equal(t, []jobs.Kind{jobs.All}, eng.requests)
	assert.Equal(t, "all started on 17", m.status)
	assert.False(t, m.statusErr)
}

func TestModel_InvalidInputIsNotSent(t *testing.T) {
	eng := newFakeEngine()
	m := NewModel(eng, "dev")

	m, _ = send(t, m, runes("-"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, eng.requests)
	assert.Empty(t, eng.Input())
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Invalid input")
}

func TestModel_JobListToggle(t *testing.T) {
	eng := newFakeEngine()
	eng.input = "9"
	m := NewModel(eng, "dev")
	assert.Equal(t, "9", m.input.Value(), "the field starts with the engine input")

	down := tea.KeyMsg{Type: tea.KeyDown}
	space := tea.KeyMsg{Type: tea.KeySpace}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, down, down)
	require.Equal(t, focusJobs, m.focus)
	require.Equal(t, 2, m.selected)

	m, _ = send(t, m, space)
	assert.Equal(t, "logarithms started on 9", m.status)
	assert.True(t, eng.Current().Running(jobs.Logarithms))

	m, _ = send(t, m, space)
	assert.Equal(t, "logarithms canceled", m.status)
	assert.Equal(t, []jobs.Kind{jobs.Logarithms, jobs.Logarithms}, eng.requests)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selected, "the cursor stops at the first row")
}

func TestModel_CancelingDoesNotNeedValidInput(t *testing.T) {
	eng := newFakeEngine()
	eng.input = "5"
	m := NewModel(eng, "dev")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.True(t, eng.Current().Running(jobs.All))

	m.input.SetValue("")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, eng.Current().Running(jobs.All))
	assert.Equal(t, "all canceled", m.status)
}

func TestModel_GlobalKeys(t *testing.T) {
	eng := newFakeEngine()
	eng.latest[calculator.SquareResult] = "4"
	m := NewModel(eng, "dev")
	require.Equal(t, "4", m.results[calculator.SquareResult])

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, 1, eng.canceled)
	assert.Equal(t, "All jobs canceled", m.status)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, 1, eng.cleared)
	assert.Empty(t, m.results)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, isQuit(cmd))
}

func TestModel_QOnlyQuitsFromJobList(t *testing.T) {
	m := NewModel(newFakeEngine(), "dev")

	m, cmd := send(t, m, runes("q"))
	assert.False(t, isQuit(cmd))
	assert.Equal(t, "q", m.input.Value())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)

	_, cmd = send(t, m, runes("q"))
	assert.True(t, isQuit(cmd))
}

func TestModel_StreamsUpdateView(t *testing.T) {
	eng := newFakeEngine()
	m := NewModel(eng, "v1.2.3")
	assert.Equal(t, "Initializing...", m.View())

	b := jobs.NewBroadcaster()
	b.Set(jobs.Factorial, true)
	m, _ = send(t, m,
		tea.WindowSizeMsg{Width: 100, Height: 40},
		StateMsg(b.Current()),
		ResultMsg{Slot: calculator.FactorialResult, Value: "120"},
		ResultMsg{Slot: calculator.ErrorMessage, Value: calculator.MsgTimeout},
		MemStatsMsg(metrics.MemorySnapshot{HeapAlloc: 3 << 20, Goroutines: 7}),
	)

	view := m.View()
	assert.Contains(t, view, "numcalc v1.2.3")
	assert.Contains(t, view, "1 running")
	assert.Contains(t, view, "n!")
	assert.Contains(t, view, "120")
	assert.Contains(t, view, calculator.MsgTimeout)
	assert.Contains(t, view, "3.0 MB")
	assert.Contains(t, view, "Goroutines: 7")
	assert.Equal(t, 2, strings.Count(view, "running"), "the header and the factorial row")
}

func TestModel_TickSchedulesSampling(t *testing.T) {
	m := NewModel(newFakeEngine(), "dev")
	_, cmd := send(t, m, TickMsg{})
	assert.NotNil(t, cmd)
}

func TestModel_EngineClosedQuits(t *testing.T) {
	m := NewModel(newFakeEngine(), "dev")
	_, cmd := send(t, m, EngineClosedMsg{})
	assert.True(t, isQuit(cmd))
}
