package jobs

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/numcalc/internal/logging"
)

// RunAll toggles the aggregate run.
//
// From Idle it cancels any standalone runs, starts one child per
// computation under a single aggregate handle, and marks every kind running
// in one snapshot. While the aggregate is running it behaves like CancelAll.
func (m *Manager) RunAll() (started bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}

	if m.registry.Get(All) != nil {
		m.cancelAllLocked()
		m.logger.Info("run all canceled")
		return false, nil
	}

	// The aggregate replaces any standalone run so each kind keeps a single
	// live handle.
	for _, h := range m.registry.Live() {
		h.abort()
		m.registry.Remove(h)
	}

	agg := m.newHandleLocked(All, m.base, nil)
	children := make([]*Handle, 0, len(Computations()))
	for _, k := range Computations() {
		children = append(children, m.newHandleLocked(k, agg.ctx, agg))
	}
	m.state.SetAll(true)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runAggregate(agg, children)
	}()
	return true, nil
}

// runAggregate waits for every child and then clears all flags in one
// snapshot, unless the aggregate was canceled (the cancel path already
// published the idle snapshot).
func (m *Manager) runAggregate(agg *Handle, children []*Handle) {
	start := time.Now()

	// A failed child does not cancel its siblings: children already share
	// agg.ctx, and Wait only reports the first failure.
	var g errgroup.Group
	for _, child := range children {
		g.Go(func() error { return m.run(child) })
	}
	childErr := g.Wait()
	elapsed := time.Since(start)

	m.mu.Lock()
	agg.seal()
	completed := m.registry.Remove(agg)
	if completed {
		m.state.SetAll(false, m.standaloneKindsLocked()...)
	}
	m.mu.Unlock()

	outcome := OutcomeSucceeded
	switch {
	case !completed || agg.ctx.Err() != nil:
		outcome = OutcomeCanceled
		agg.span.SetStatus(codes.Error, "canceled")
	case childErr != nil:
		outcome = OutcomeFailed
		agg.span.RecordError(childErr)
		agg.span.SetStatus(codes.Error, childErr.Error())
	}
	agg.span.SetAttributes(attribute.String("job.outcome", outcome.String()))
	agg.span.End()
	agg.cancel()
	close(agg.done)

	fields := []logging.Field{
		logging.String("outcome", outcome.String()),
		logging.Duration("duration", elapsed),
		logging.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if childErr != nil {
		fields = append(fields, logging.Err(childErr))
	}
	m.logger.Info("run all finished", fields...)
	m.recorder.JobFinished(All, outcome, elapsed)
}

// standaloneKindsLocked lists kinds whose live handle does not belong to an
// aggregate, i.e. runs started manually while the aggregate was in flight.
func (m *Manager) standaloneKindsLocked() []Kind {
	var kinds []Kind
	for _, h := range m.registry.Live() {
		if h.parent == nil && h.kind != All {
			kinds = append(kinds, h.kind)
		}
	}
	return kinds
}
