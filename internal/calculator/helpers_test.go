package calculator

import (
	"sync"
	"time"

	"github.com/agbru/numcalc/internal/jobs"
)

type outcomeKey struct {
	kind    jobs.Kind
	outcome jobs.Outcome
}

type outcomeRecorder struct {
	mu     sync.Mutex
	counts map[outcomeKey]int
}

func newOutcomeRecorder() *outcomeRecorder {
	return &outcomeRecorder{counts: make(map[outcomeKey]int)}
}

func (r *outcomeRecorder) JobStarted(jobs.Kind) {}

func (r *outcomeRecorder) JobFinished(kind jobs.Kind, outcome jobs.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[outcomeKey{kind, outcome}]++
}

func (r *outcomeRecorder) count(kind jobs.Kind, outcome jobs.Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[outcomeKey{kind, outcome}]
}
