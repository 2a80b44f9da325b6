package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Handle is the cancellation token and completion signal of one job run.
// A handle is created when the run starts and is never reused.
type Handle struct {
	id     uuid.UUID
	kind   Kind
	ctx    context.Context
	cancel context.CancelFunc
	span   trace.Span
	// parent is the aggregate handle for children of a run-all, nil otherwise.
	parent *Handle
	input  string
	done   chan struct{}

	mu     sync.Mutex
	sealed bool
}

func newHandle(kind Kind, ctx context.Context, cancel context.CancelFunc, span trace.Span, parent *Handle) *Handle {
	return &Handle{
		id:     uuid.New(),
		kind:   kind,
		ctx:    ctx,
		cancel: cancel,
		span:   span,
		parent: parent,
		done:   make(chan struct{}),
	}
}

// ID returns the unique identifier of this run.
func (h *Handle) ID() uuid.UUID { return h.id }

// Kind returns the computation this run performs.
func (h *Handle) Kind() Kind { return h.kind }

// Context returns the context canceled when the run is canceled.
func (h *Handle) Context() context.Context { return h.ctx }

// Input returns the input captured when the run was dispatched.
func (h *Handle) Input() string { return h.input }

// Done is closed once the run has fully finished and its bookkeeping is done.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Deliver runs post while holding the handle's lock, unless the run has
// been canceled or has finished, in which case post is skipped and false is
// returned. Cancellation takes the same lock, so once Cancel returns no
// further Deliver call can succeed.
func (h *Handle) Deliver(post func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sealed {
		return false
	}
	post()
	return true
}

// seal stops further deliveries.
func (h *Handle) seal() {
	h.mu.Lock()
	h.sealed = true
	h.mu.Unlock()
}

// abort seals the handle and cancels its context.
func (h *Handle) abort() {
	h.seal()
	h.cancel()
}
