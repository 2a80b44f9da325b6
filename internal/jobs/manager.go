package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/logging"
)

const tracerName = "github.com/agbru/numcalc/internal/jobs"

var (
	// ErrUnknownKind is returned for a Kind outside the declared set.
	ErrUnknownKind = errors.New("unknown job kind")
	// ErrClosed is returned by Request after Close.
	ErrClosed = errors.New("job manager closed")
	// ErrMissingWork is returned by New when a computation has no Work.
	ErrMissingWork = errors.New("missing work for job kind")
)

// Work is the body of a job. It must return promptly once ctx is canceled
// and should post its results through h.Deliver.
type Work func(ctx context.Context, h *Handle) error

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger (default: no-op).
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithRecorder sets the metrics recorder (default: no-op).
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithTracer sets the tracer (default: the global otel provider).
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

// WithWorkers sets the size of the CPU-bound pool (default: 1 per computation).
func WithWorkers(n int) Option {
	return func(m *Manager) { m.pool = NewPool(n) }
}

// WithInput sets the function read once when a run is dispatched; the value
// is available to the work as Handle.Input. Children of a run-all share the
// value read for the aggregate.
func WithInput(read func() string) Option {
	return func(m *Manager) { m.input = read }
}

// WithContext sets the parent context of every run. Canceling it cancels
// all runs.
func WithContext(ctx context.Context) Option {
	return func(m *Manager) { m.parent = ctx }
}

// Manager coordinates job runs. All of its methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	registry *Registry
	state    *Broadcaster
	closed   bool

	works    map[Kind]Work
	pool     *Pool
	logger   logging.Logger
	recorder Recorder
	tracer   trace.Tracer
	input    func() string

	parent context.Context
	base   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a Manager running works. Every computation kind must have a
// Work; All must not.
func New(works map[Kind]Work, opts ...Option) (*Manager, error) {
	for _, k := range Computations() {
		if works[k] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingWork, k)
		}
	}
	if _, ok := works[All]; ok {
		return nil, fmt.Errorf("%w: all is the aggregate and cannot have work", ErrUnknownKind)
	}

	m := &Manager{
		registry: NewRegistry(),
		state:    NewBroadcaster(),
		works:    works,
		pool:     NewPool(len(Computations())),
		logger:   logging.NewNop(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
		parent:   context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.base, m.stop = context.WithCancel(m.parent)
	return m, nil
}

// Request toggles kind: if it shows as running it is canceled, otherwise a
// fresh run starts. Requesting All toggles the aggregate run. started reports
// whether a run was started (false means one was canceled).
func (m *Manager) Request(kind Kind) (started bool, err error) {
	if !kind.Valid() {
		return false, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if kind == All {
		return m.RunAll()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}

	if h := m.registry.Get(kind); h != nil {
		m.cancelLocked(h)
		return false, nil
	}
	if m.state.Current().Running(kind) {
		// A finished child of the aggregate still shows as running: the
		// toggle follows the visible flag and clears it.
		m.state.Set(kind, false)
		m.logger.Debug("job flag cleared", logging.String("job", kind.String()))
		return false, nil
	}
	h := m.newHandleLocked(kind, m.base, nil)
	m.state.Set(kind, true)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		_ = m.run(h)
	}()
	return true, nil
}

// Cancel cancels kind's live run, if any, and marks it idle. Canceling All
// is the same as CancelAll.
func (m *Manager) Cancel(kind Kind) {
	if kind == All {
		m.CancelAll()
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if h := m.registry.Get(kind); h != nil {
		m.cancelLocked(h)
	}
}

// CancelAll cancels every live run (aggregate, its children and standalone
// runs) and publishes an all-idle snapshot.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelAllLocked()
}

// IsRunning reports kind's current flag.
func (m *Manager) IsRunning(kind Kind) bool {
	return m.state.Current().Running(kind)
}

// Current returns the latest state snapshot.
func (m *Manager) Current() Snapshot { return m.state.Current() }

// Subscribe returns a conflating stream of state snapshots; see
// Broadcaster.Subscribe.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) { return m.state.Subscribe() }

// WaitIdle blocks until every kind is idle or ctx is done.
func (m *Manager) WaitIdle(ctx context.Context) error {
	states, unsubscribe := m.state.Subscribe()
	defer unsubscribe()
	for {
		select {
		case s, ok := <-states:
			if !ok || s.AllIdle() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels every run, waits for their goroutines to exit and ends all
// subscriptions. Later requests fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.cancelAllLocked()
	m.mu.Unlock()

	m.stop()
	m.wg.Wait()
	m.state.Close()
}

// newHandleLocked creates and registers a run of kind under parentCtx.
func (m *Manager) newHandleLocked(kind Kind, parentCtx context.Context, parent *Handle) *Handle {
	spanCtx, span := m.tracer.Start(parentCtx, "job."+kind.String())
	ctx, cancel := context.WithCancel(spanCtx)
	h := newHandle(kind, ctx, cancel, span, parent)
	switch {
	case parent != nil:
		h.input = parent.input
	case m.input != nil:
		h.input = m.input()
	}
	span.SetAttributes(
		attribute.String("job.kind", kind.String()),
		attribute.String("job.id", h.id.String()),
	)
	m.registry.Put(h)
	m.recorder.JobStarted(kind)
	m.logger.Debug("job started", logging.String("job", kind.String()), logging.String("job_id", h.id.String()))
	return h
}

// cancelLocked aborts h, drops it from the registry and marks its kind idle.
func (m *Manager) cancelLocked(h *Handle) {
	h.abort()
	m.registry.Remove(h)
	m.state.Set(h.kind, false)
	m.logger.Debug("job cancel requested", logging.String("job", h.kind.String()), logging.String("job_id", h.id.String()))
}

func (m *Manager) cancelAllLocked() {
	for _, h := range m.registry.Live() {
		h.abort()
		m.registry.Remove(h)
	}
	m.state.SetAll(false)
}

// run executes h's work and then finishes it. It returns the error of a
// failed run; cancellations and timeouts are expected outcomes and return nil.
func (m *Manager) run(h *Handle) error {
	start := time.Now()
	err := m.execute(h)
	outcome := m.classify(h, err)
	m.finish(h, outcome, err, time.Since(start))
	if outcome == OutcomeFailed {
		return apperrors.CalculationError{Job: h.kind.String(), Cause: err}
	}
	return nil
}

// execute runs the work inside a pool slot, converting panics into errors.
func (m *Manager) execute(h *Handle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	work := m.works[h.kind]
	return m.pool.Do(h.ctx, func() error { return work(h.ctx, h) })
}

func (m *Manager) classify(h *Handle, err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case apperrors.IsTimeout(err):
		return OutcomeTimedOut
	case errors.Is(err, context.Canceled), h.ctx.Err() != nil:
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}

// finish seals h, clears its registry entry and, for standalone runs that
// were still live, marks the kind idle. Children of the aggregate leave
// their flags to the aggregate.
func (m *Manager) finish(h *Handle, outcome Outcome, err error, elapsed time.Duration) {
	log := m.logger.With(logging.String("job", h.kind.String()), logging.String("job_id", h.id.String()))
	switch outcome {
	case OutcomeSucceeded:
		log.Debug("job finished", logging.Duration("duration", elapsed))
	case OutcomeCanceled:
		log.Debug("job canceled", logging.Duration("duration", elapsed))
	case OutcomeTimedOut:
		log.Warn("job timed out", logging.Err(err))
		h.span.SetStatus(codes.Error, "timed out")
	case OutcomeFailed:
		log.Error("job failed", apperrors.CalculationError{Job: h.kind.String(), Cause: err})
		h.span.RecordError(err)
		h.span.SetStatus(codes.Error, err.Error())
	}
	h.span.SetAttributes(attribute.String("job.outcome", outcome.String()))
	h.span.End()

	m.mu.Lock()
	h.seal()
	if m.registry.Remove(h) && h.parent == nil {
		m.state.Set(h.kind, false)
	}
	m.mu.Unlock()

	h.cancel()
	close(h.done)
	m.recorder.JobFinished(h.kind, outcome, elapsed)
}
