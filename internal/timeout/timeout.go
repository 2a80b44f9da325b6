// Package timeout bounds a single computation with a deadline.
package timeout

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/agbru/numcalc/internal/errors"
)

// StopGrace is how long Run waits, once the deadline has passed, for the
// computation to observe cancellation before returning anyway.
const StopGrace = 250 * time.Millisecond

// Run executes fn under a context that expires after limit.
//
// If fn returns first, its value and error are returned. If the limit
// elapses first, the context passed to fn is canceled, Run waits up to
// StopGrace for fn to return and then reports apperrors.TimeoutError. A value
// produced after the deadline is dropped. When ctx itself is canceled, Run
// returns ctx.Err() rather than a timeout.
//
// fn must poll its context for the computation to actually stop.
func Run[T any](ctx context.Context, limit time.Duration, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	runCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(runCtx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && errors.Is(o.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, apperrors.TimeoutError{Operation: operation, Limit: limit}
		}
		return o.value, o.err
	case <-runCtx.Done():
	}

	cancel()
	grace := time.NewTimer(StopGrace)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return zero, apperrors.TimeoutError{Operation: operation, Limit: limit}
}
