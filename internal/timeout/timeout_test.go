package timeout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/agbru/numcalc/internal/errors"
)

func TestRun_ReturnsValueBeforeDeadline(t *testing.T) {
	t.Parallel()
	got, err := Run(context.Background(), time.Second, "quick", func(context.Context) (string, error) {
		return "Prime", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Prime" {
		t.Errorf("got %q, want %q", got, "Prime")
	}
}

func TestRun_PropagatesComputationError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	_, err := Run(context.Background(), time.Second, "failing", func(context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

// TestRun_InfiniteLoopTimesOut drives a loop that only stops when its
// context is canceled and checks that it makes no progress after Run returns.
func TestRun_InfiniteLoopTimesOut(t *testing.T) {
	t.Parallel()
	const limit = 1000 * time.Millisecond
	var iterations atomic.Int64

	start := time.Now()
	_, err := Run(context.Background(), limit, "primality test", func(ctx context.Context) (bool, error) {
		for {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			iterations.Add(1)
		}
	})
	elapsed := time.Since(start)

	var te apperrors.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Operation != "primality test" || te.Limit != limit {
		t.Errorf("unexpected timeout details: %+v", te)
	}
	if elapsed < limit || elapsed > limit+StopGrace+500*time.Millisecond {
		t.Errorf("Run returned after %v, want about %v", elapsed, limit)
	}

	stopped := iterations.Load()
	time.Sleep(50 * time.Millisecond)
	if after := iterations.Load(); after != stopped {
		t.Errorf("computation kept running after Run returned: %d -> %d iterations", stopped, after)
	}
}

func TestRun_UncooperativeComputationDoesNotBlock(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	_, err := Run(context.Background(), 20*time.Millisecond, "stuck", func(context.Context) (int, error) {
		<-release
		return 1, nil
	})
	if !apperrors.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond+StopGrace+500*time.Millisecond {
		t.Errorf("Run blocked for %v", elapsed)
	}
}

func TestRun_ParentCancellationIsNotATimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Run(ctx, time.Minute, "canceled", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if apperrors.IsTimeout(err) {
		t.Error("parent cancellation must not be reported as a timeout")
	}
}
