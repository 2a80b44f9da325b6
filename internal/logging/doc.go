// Package logging provides the structured logging interface used by the job
// manager and the front ends, backed by zerolog.
package logging
