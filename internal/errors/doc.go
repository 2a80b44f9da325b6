// Package apperrors defines the structured error types shared by the job
// manager, the computations and the command-line front ends, together with
// the mapping from those errors to process exit codes.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapping types implement Unwrap() to support errors.Is() and errors.As().
package apperrors
