package jobs

import "time"

// Outcome classifies how a job run ended.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeFailed
	OutcomeCanceled
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Recorder receives job lifecycle events, typically to export metrics.
type Recorder interface {
	JobStarted(kind Kind)
	JobFinished(kind Kind, outcome Outcome, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) JobStarted(Kind)                           {}
func (nopRecorder) JobFinished(Kind, Outcome, time.Duration) {}
