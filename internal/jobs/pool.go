package jobs

import "context"

// Pool bounds the number of CPU-bound computations running at once.
type Pool struct {
	slots chan struct{}
}

// NewPool returns a pool with size slots (at least one).
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Do waits for a free slot, runs fn and releases the slot. It returns
// ctx.Err() without running fn if ctx is canceled while waiting.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.slots }()
	return fn()
}

// Size returns the number of slots.
func (p *Pool) Size() int { return cap(p.slots) }

// InUse returns the number of slots currently held.
func (p *Pool) InUse() int { return len(p.slots) }
