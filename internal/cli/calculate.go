package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/numcalc/internal/calculator"
	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/format"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/ui"
)

// Engine is the calculator surface used by the line front ends.
// *calculator.Calculator implements it.
type Engine interface {
	SetInput(string)
	Input() string
	Request(jobs.Kind) (bool, error)
	RunAll() (bool, error)
	Cancel(jobs.Kind)
	CancelAll()
	Current() jobs.Snapshot
	States() (<-chan jobs.Snapshot, func())
	Updates() (<-chan calculator.Update, func())
	Latest(calculator.Slot) (string, bool)
	WaitIdle(context.Context) error
}

var _ Engine = (*calculator.Calculator)(nil)

// RunOptions configures RunOnce.
type RunOptions struct {
	Input string
	Job   jobs.Kind
	// Timeout bounds the whole run.
	Timeout time.Duration
	// PrimeTimeout is reported in the timeout error of a primality test.
	PrimeTimeout time.Duration
	Quiet        bool
}

// RunOnce runs one job (or all of them) on opts.Input, waits for it with a
// spinner and prints the results.
//
// The returned error drives the exit code: a ValidationError when the input
// was rejected, a TimeoutError when the primality test or the whole run ran
// out of time, the context error when ctx was canceled.
func RunOnce(ctx context.Context, eng Engine, opts RunOptions, out io.Writer) error {
	if err := calculator.ValidateInput(opts.Input); err != nil {
		return err
	}
	eng.SetInput(opts.Input)

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var sp Spinner
	if !opts.Quiet {
		fmt.Fprintf(out, "Input: %s\n", ui.Paint(ui.ColorPrimary(), opts.Input))
		sp = newSpinner(spinner.WithWriter(out))
		sp.UpdateSuffix(" starting " + opts.Job.String())
		sp.Start()
	}

	start := time.Now()
	err := runAndWait(ctx, eng, opts.Job, sp)
	elapsed := time.Since(start)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.TimeoutError{Operation: opts.Job.String(), Limit: opts.Timeout}
		}
		return err
	}

	if opts.Quiet {
		DisplayQuietResults(out, opts.Job, eng.Latest)
	} else {
		DisplayResults(out, opts.Job, eng.Latest)
		fmt.Fprintf(out, "Duration: %s\n", format.FormatExecutionDuration(elapsed))
	}
	return outcomeError(opts, eng.Latest)
}

// runAndWait starts kind and blocks until every flag is idle. On ctx
// expiry everything is canceled.
func runAndWait(ctx context.Context, eng Engine, kind jobs.Kind, sp Spinner) error {
	var err error
	if kind == jobs.All {
		_, err = eng.RunAll()
	} else {
		_, err = eng.Request(kind)
	}
	if err != nil {
		return err
	}

	// Subscribing after the request means the first snapshot already
	// reflects it.
	states, unsubscribe := eng.States()
	defer unsubscribe()
	for {
		select {
		case s, ok := <-states:
			if !ok {
				return jobs.ErrClosed
			}
			if s.AllIdle() {
				return nil
			}
			if sp != nil {
				sp.UpdateSuffix(" " + s.String())
			}
		case <-ctx.Done():
			eng.CancelAll()
			return ctx.Err()
		}
	}
}

// outcomeError maps the posted messages of a finished run to an error.
func outcomeError(opts RunOptions, latest func(calculator.Slot) (string, bool)) error {
	if v, ok := latest(calculator.ErrorMessage); ok && v == calculator.MsgTimeout {
		return apperrors.TimeoutError{Operation: "primality test", Limit: opts.PrimeTimeout}
	}
	for _, s := range slotsFor(opts.Job) {
		if v, ok := latest(s); ok && calculator.IsProblem(v) {
			return apperrors.NewValidationError("input", "%s: %s", s.Kind(), v)
		}
	}
	return nil
}
