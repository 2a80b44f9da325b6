package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Exit codes returned by the numcalc binary.
const (
	ExitSuccess           = 0   // Successful execution.
	ExitErrorGeneric      = 1   // Unexpected failure.
	ExitErrorTimeout      = 2   // A job or the whole run exceeded its time limit.
	ExitErrorInvalidInput = 3   // The input value was rejected by a computation.
	ExitErrorConfig       = 4   // Invalid flags or environment.
	ExitErrorCanceled     = 130 // Interrupted (SIGINT) or canceled by the user.
)

// ConfigError reports an invalid flag or environment value.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the configuration message unchanged.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A ConfigError holding the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure raised inside a job's computation.
// Job boundaries log it and never let it reach the caller.
type CalculationError struct {
	// Job is the name of the job whose work failed.
	Job string
	// Cause is the underlying error.
	Cause error
}

// Error returns the job name followed by the cause.
func (e CalculationError) Error() string {
	if e.Job == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Job, e.Cause)
}

// Unwrap returns the underlying cause so errors.Is and errors.As can walk the chain.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation did not finish before its limit.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was abandoned.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports a value outside the domain accepted by a computation.
type ValidationError struct {
	// Field is the name of the value that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field with a formatted message.
func NewValidationError(field, format string, a ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsTimeout reports whether err carries a TimeoutError anywhere in its chain.
func IsTimeout(err error) bool {
	var te TimeoutError
	return errors.As(err, &te)
}

// IsValidation reports whether err carries a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case IsValidation(err):
		return ExitErrorInvalidInput
	default:
		var ce ConfigError
		if errors.As(err, &ce) {
			return ExitErrorConfig
		}
		return ExitErrorGeneric
	}
}

// HandleCalculationError prints a user-facing line for err on out and
// returns the matching exit code. A nil error prints nothing.
//
// Parameters:
//   - err: The error returned by a run.
//   - duration: How long the run lasted before failing.
//   - out: Destination for the message; may be io.Discard.
//
// Returns:
//   - int: The exit code for err.
func HandleCalculationError(err error, duration time.Duration, out io.Writer) int {
	code := ExitCodeFor(err)
	switch code {
	case ExitSuccess:
		return code
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The run exceeded its time limit after %s.\n", duration)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Status: Canceled after %s.\n", duration)
	case ExitErrorInvalidInput:
		fmt.Fprintf(out, "Status: Invalid input. %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. %v\n", err)
	}
	return code
}
