package jobs

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/numcalc/internal/logging"
)

const (
	waitFor = 5 * time.Second
	tick    = time.Millisecond
)

// lockedBuffer is a bytes.Buffer safe for concurrent writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeRecorder captures lifecycle events.
type fakeRecorder struct {
	mu       sync.Mutex
	started  map[Kind]int
	outcomes map[Kind][]Outcome
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{started: map[Kind]int{}, outcomes: map[Kind][]Outcome{}}
}

func (r *fakeRecorder) JobStarted(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[k]++
}

func (r *fakeRecorder) JobFinished(k Kind, o Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[k] = append(r.outcomes[k], o)
}

func (r *fakeRecorder) outcomesOf(k Kind) []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes[k]...)
}

// blockingWork waits for cancellation, then tries to deliver a late result.
func blockingWork(late *atomic.Int32, ids chan<- string) Work {
	return func(ctx context.Context, h *Handle) error {
		if ids != nil {
			ids <- h.ID().String()
		}
		<-ctx.Done()
		if h.Deliver(func() {}) {
			late.Add(1)
		}
		return ctx.Err()
	}
}

func worksOf(w Work) map[Kind]Work {
	works := make(map[Kind]Work)
	for _, k := range Computations() {
		works[k] = w
	}
	return works
}

func newTestManager(t *testing.T, works map[Kind]Work, opts ...Option) *Manager {
	t.Helper()
	m, err := New(works, opts...)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestNew_RequiresEveryComputation(t *testing.T) {
	t.Parallel()
	works := worksOf(func(context.Context, *Handle) error { return nil })
	delete(works, Prime)
	_, err := New(works)
	require.ErrorIs(t, err, ErrMissingWork)

	works = worksOf(func(context.Context, *Handle) error { return nil })
	works[All] = works[Factorial]
	_, err = New(works)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestManager_RequestToggles(t *testing.T) {
	t.Parallel()
	var late atomic.Int32
	ids := make(chan string, 4)
	m := newTestManager(t, worksOf(blockingWork(&late, ids)))

	started, err := m.Request(Factorial)
	require.NoError(t, err)
	require.True(t, started)
	require.True(t, m.IsRunning(Factorial))
	first := <-ids

	started, err = m.Request(Factorial)
	require.NoError(t, err)
	assert.False(t, started, "second request must cancel")
	assert.False(t, m.IsRunning(Factorial))

	started, err = m.Request(Factorial)
	require.NoError(t, err)
	require.True(t, started, "third request must start a fresh run")
	second := <-ids
	assert.NotEqual(t, first, second, "handles must not be reused")
	assert.True(t, m.IsRunning(Factorial))

	m.Cancel(Factorial)
	require.Eventually(t, func() bool { return m.Current().AllIdle() }, waitFor, tick)
	assert.Zero(t, late.Load(), "canceled runs must not deliver")
}

func TestManager_CompletionClearsState(t *testing.T) {
	t.Parallel()
	rec := newFakeRecorder()
	boom := errors.New("boom")
	works := map[Kind]Work{
		Factorial:  func(context.Context, *Handle) error { return nil },
		Roots:      func(context.Context, *Handle) error { return boom },
		Logarithms: func(context.Context, *Handle) error { panic("unexpected") },
		Powers:     func(context.Context, *Handle) error { return nil },
		Prime:      func(context.Context, *Handle) error { return nil },
	}
	logs := &lockedBuffer{}
	m := newTestManager(t, works, WithRecorder(rec), WithLogger(logging.NewLogger(logs, "jobs")))

	for _, k := range []Kind{Factorial, Roots, Logarithms} {
		_, err := m.Request(k)
		require.NoError(t, err)
	}
	require.NoError(t, m.WaitIdle(context.Background()))

	require.Eventually(t, func() bool {
		return len(rec.outcomesOf(Factorial)) == 1 && len(rec.outcomesOf(Roots)) == 1 && len(rec.outcomesOf(Logarithms)) == 1
	}, waitFor, tick)
	assert.Equal(t, []Outcome{OutcomeSucceeded}, rec.outcomesOf(Factorial))
	assert.Equal(t, []Outcome{OutcomeFailed}, rec.outcomesOf(Roots))
	assert.Equal(t, []Outcome{OutcomeFailed}, rec.outcomesOf(Logarithms))
	assert.Contains(t, logs.String(), "boom")
	assert.Contains(t, logs.String(), "panic: unexpected")
}

func TestManager_RunAllReportsChildFailure(t *testing.T) {
	t.Parallel()
	rec := newFakeRecorder()
	works := worksOf(func(context.Context, *Handle) error { return nil })
	works[Logarithms] = func(context.Context, *Handle) error { panic("unexpected") }
	logs := &lockedBuffer{}
	m := newTestManager(t, works, WithRecorder(rec), WithLogger(logging.NewLogger(logs, "jobs")))

	_, err := m.RunAll()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(rec.outcomesOf(All)) == 1 }, waitFor, tick)

	assert.Equal(t, []Outcome{OutcomeFailed}, rec.outcomesOf(All))
	assert.Equal(t, []Outcome{OutcomeFailed}, rec.outcomesOf(Logarithms))
	assert.Equal(t, []Outcome{OutcomeSucceeded}, rec.outcomesOf(Factorial), "siblings are not canceled")
	assert.True(t, m.Current().AllIdle())

	var summary string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "run all finished") {
			summary = line
		}
	}
	require.NotEmpty(t, summary)
	assert.Contains(t, summary, `"outcome":"failed"`)
	assert.Contains(t, summary, "panic: unexpected")
}

func TestManager_DeliverAfterCompletionIsRefused(t *testing.T) {
	t.Parallel()
	handles := make(chan *Handle, 1)
	works := worksOf(func(context.Context, *Handle) error { return nil })
	works[Powers] = func(_ context.Context, h *Handle) error {
		handles <- h
		return nil
	}
	m := newTestManager(t, works)

	_, err := m.Request(Powers)
	require.NoError(t, err)
	h := <-handles
	<-h.Done()
	assert.False(t, h.Deliver(func() { t.Error("post ran after completion") }))
}

// TestManager_RunAllSnapshotsAreUniform checks that a run-all is observed as
// all-running then all-idle, never as a mix, even though the children
// finish at different times.
func TestManager_RunAllSnapshotsAreUniform(t *testing.T) {
	t.Parallel()
	works := make(map[Kind]Work)
	for i, k := range Computations() {
		delay := time.Duration(i+1) * 10 * time.Millisecond
		works[k] = func(ctx context.Context, _ *Handle) error {
			select {
			case <-time.After(delay):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	m := newTestManager(t, works)

	states, unsubscribe := m.Subscribe()
	defer unsubscribe()
	require.True(t, (<-states).AllIdle())

	started, err := m.RunAll()
	require.NoError(t, err)
	require.True(t, started)
	require.True(t, m.Current().AllRunning(), "every flag must be set at once")

	sawRunning := false
	timeout := time.After(waitFor)
	for {
		select {
		case s := <-states:
			require.True(t, s.AllRunning() || s.AllIdle(), "mixed snapshot observed: %v", s)
			if s.AllRunning() {
				sawRunning = true
			}
			if s.AllIdle() {
				assert.True(t, sawRunning)
				return
			}
		case <-timeout:
			t.Fatal("run all did not complete")
		}
	}
}

func TestManager_CancelRunAllStopsEveryChild(t *testing.T) {
	t.Parallel()
	var late atomic.Int32
	ids := make(chan string, 5)
	rec := newFakeRecorder()
	m := newTestManager(t, worksOf(blockingWork(&late, ids)), WithRecorder(rec))

	started, err := m.Request(All)
	require.NoError(t, err)
	require.True(t, started)
	for range Computations() {
		<-ids
	}

	started, err = m.Request(All)
	require.NoError(t, err)
	assert.False(t, started, "second run-all request must cancel")
	assert.True(t, m.Current().AllIdle(), "cancel must publish all idle immediately")

	require.Eventually(t, func() bool { return len(rec.outcomesOf(All)) == 1 }, waitFor, tick)
	for _, k := range Computations() {
		assert.Equal(t, []Outcome{OutcomeCanceled}, rec.outcomesOf(k), k.String())
	}
	assert.Equal(t, []Outcome{OutcomeCanceled}, rec.outcomesOf(All))
	assert.Zero(t, late.Load(), "no child may deliver after cancellation")
	assert.True(t, m.Current().AllIdle())
}

func TestManager_ManualCancelDuringRunAll(t *testing.T) {
	t.Parallel()
	var late atomic.Int32
	release := make(chan struct{})
	works := worksOf(func(ctx context.Context, _ *Handle) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	works[Roots] = blockingWork(&late, nil)
	m := newTestManager(t, works)

	_, err := m.RunAll()
	require.NoError(t, err)

	started, err := m.Request(Roots)
	require.NoError(t, err)
	assert.False(t, started)

	s := m.Current()
	assert.False(t, s.Running(Roots))
	for _, k := range []Kind{Factorial, Logarithms, Powers, Prime, All} {
		assert.True(t, s.Running(k), k.String())
	}

	close(release)
	require.NoError(t, m.WaitIdle(context.Background()))
	assert.Zero(t, late.Load())
}

func TestManager_RunAllReplacesStandaloneRuns(t *testing.T) {
	t.Parallel()
	var late atomic.Int32
	ids := make(chan string, 8)
	m := newTestManager(t, worksOf(blockingWork(&late, ids)))

	_, err := m.Request(Prime)
	require.NoError(t, err)
	standalone := <-ids

	_, err = m.RunAll()
	require.NoError(t, err)
	seen := map[string]bool{}
	for range Computations() {
		seen[<-ids] = true
	}
	assert.False(t, seen[standalone], "children must be fresh handles")
	assert.True(t, m.Current().AllRunning())

	m.CancelAll()
	require.NoError(t, m.WaitIdle(context.Background()))
	assert.Zero(t, late.Load())
}

func TestManager_ToggleFinishedChildDuringRunAll(t *testing.T) {
	t.Parallel()
	var late atomic.Int32
	release := make(chan struct{})
	standaloneStarted := make(chan struct{})
	var primeRuns atomic.Int32
	works := worksOf(func(ctx context.Context, _ *Handle) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	works[Prime] = func(ctx context.Context, h *Handle) error {
		if primeRuns.Add(1) == 1 {
			return nil // aggregate child finishes at once
		}
		close(standaloneStarted)
		return blockingWork(&late, nil)(ctx, h)
	}
	m := newTestManager(t, works)

	_, err := m.RunAll()
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return primeRuns.Load() == 1 && m.registry.Get(Prime) == nil
	}, waitFor, tick)
	require.True(t, m.IsRunning(Prime), "the aggregate owns the finished child's flag")

	// The flag says running, so the toggle cancels rather than starting a
	// second primality run.
	started, err := m.Request(Prime)
	require.NoError(t, err)
	assert.False(t, started)
	assert.False(t, m.IsRunning(Prime))
	assert.True(t, m.IsRunning(Factorial))
	assert.True(t, m.IsRunning(All))
	assert.Equal(t, int32(1), primeRuns.Load())

	// Toggling again starts a standalone run that outlives the aggregate.
	started, err = m.Request(Prime)
	require.NoError(t, err)
	require.True(t, started)
	<-standaloneStarted

	close(release)
	require.Eventually(t, func() bool { return !m.IsRunning(All) }, waitFor, tick)
	s := m.Current()
	assert.True(t, s.Running(Prime), "standalone run keeps its flag")
	assert.False(t, s.Running(Factorial))

	m.Cancel(Prime)
	assert.True(t, m.Current().AllIdle())
}

func TestManager_InputCapturedAtDispatch(t *testing.T) {
	t.Parallel()
	var (
		mu      sync.Mutex
		current = "a"
		seen    = map[Kind]string{}
	)
	read := func() string {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	release := make(chan struct{})
	works := worksOf(func(ctx context.Context, h *Handle) error {
		mu.Lock()
		seen[h.Kind()] = h.Input()
		mu.Unlock()
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	m := newTestManager(t, works, WithWorkers(1), WithInput(read))

	_, err := m.RunAll()
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, waitFor, tick)

	// Four children are still waiting for the single worker.
	mu.Lock()
	current = "b"
	mu.Unlock()
	close(release)
	require.NoError(t, m.WaitIdle(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, len(Computations()))
	for k, in := range seen {
		assert.Equal(t, "a", in, k.String())
	}
}

func TestManager_InvalidKind(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, worksOf(func(context.Context, *Handle) error { return nil }))
	_, err := m.Request(Kind(99))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

// TestManager_ConcurrentRequests hammers the manager from many goroutines
// and checks it settles with no live handle and an idle snapshot.
func TestManager_ConcurrentRequests(t *testing.T) {
	t.Parallel()
	var late atomic.Int32
	works := worksOf(func(ctx context.Context, h *Handle) error {
		select {
		case <-time.After(time.Duration(rand.Intn(3)) * time.Millisecond):
			h.Deliver(func() {})
			return nil
		case <-ctx.Done():
			if h.Deliver(func() {}) {
				late.Add(1)
			}
			return ctx.Err()
		}
	})
	m := newTestManager(t, works, WithWorkers(2))

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			kinds := Kinds()
			for i := 0; i < 200; i++ {
				_, _ = m.Request(kinds[r.Intn(len(kinds))])
			}
		}(int64(g))
	}
	wg.Wait()

	m.CancelAll()
	require.NoError(t, m.WaitIdle(context.Background()))
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.registry.Len() == 0
	}, waitFor, tick)
	assert.True(t, m.Current().AllIdle())
	assert.Zero(t, late.Load())
}
