package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/numcalc/internal/calculator"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/metrics"
)

// StateMsg carries a new job-state snapshot.
type StateMsg jobs.Snapshot

// ResultMsg carries one posted result.
type ResultMsg calculator.Update

// TickMsg drives the elapsed timer and memory sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory reading.
type MemStatsMsg metrics.MemorySnapshot

// EngineClosedMsg is sent when the calculator's streams end.
type EngineClosedMsg struct{}

// sender is the part of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the tea.Program. bubbletea copies the
// model on every Update, so the bridge goroutines hold this pointer instead.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, or drops it when none is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// bridge forwards the calculator's state and result streams to the program
// until ctx is done or the streams close. It returns once both forwarding
// goroutines have exited.
func bridge(ctx context.Context, eng Engine, ref *programRef) {
	states, stopStates := eng.States()
	updates, stopUpdates := eng.Updates()
	defer stopStates()
	defer stopUpdates()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case s, ok := <-states:
				if !ok {
					ref.Send(EngineClosedMsg{})
					return
				}
				ref.Send(StateMsg(s))
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case u, ok := <-updates:
				if !ok {
					return
				}
				ref.Send(ResultMsg(u))
			case <-ctx.Done():
				return
			}
		}
	}()
	wg.Wait()
}
