// Package jobs runs named computations as independently startable and
// cancellable units of work.
//
// A Manager keeps at most one live Handle per Kind in its Registry and
// mirrors every start, cancel and completion into a Broadcaster, which
// publishes the full Kind→running mapping to subscribers as a Snapshot.
// Request is a toggle: asking for a kind that is already running cancels it.
//
// The All kind is the aggregate "run all" job. It owns one child handle per
// computation, marks every kind running in a single snapshot, and clears
// them all in a single snapshot when it completes or is canceled. Child
// completions do not touch the flags while the aggregate is in flight.
//
// CPU-bound work runs through a bounded Pool. Results leave a job only via
// Handle.Deliver, which refuses to run once the handle has been canceled, so
// no value can be posted after Cancel or CancelAll returns.
package jobs
