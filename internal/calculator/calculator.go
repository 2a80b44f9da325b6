package calculator

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/format"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/logging"
	"github.com/agbru/numcalc/internal/numeric"
	"github.com/agbru/numcalc/internal/timeout"
)

// Defaults used when the matching Options field is zero.
const (
	DefaultPrimeTimeout = 1000 * time.Millisecond
	DefaultPrimeRounds  = numeric.DefaultRounds
)

// Options configures New. Zero values select defaults.
type Options struct {
	// PrimeTimeout bounds every primality test.
	PrimeTimeout time.Duration
	// PrimeRounds is the number of Miller-Rabin witnesses per test.
	PrimeRounds int
	// Workers caps concurrently running computations.
	Workers int
	// Witnesses draws Miller-Rabin bases (default crypto/rand).
	Witnesses numeric.WitnessSource
	Logger    logging.Logger
	Recorder  jobs.Recorder
	Tracer    trace.Tracer
	// Context cancels every run when done.
	Context context.Context
}

// Calculator runs the five computations as jobs over one shared input.
type Calculator struct {
	inputMu sync.RWMutex
	input   string

	manager *jobs.Manager
	board   *board
	logger  logging.Logger

	primeTimeout time.Duration
	primeRounds  int
	witnesses    numeric.WitnessSource
}

// New builds a Calculator and its job manager.
func New(opts Options) (*Calculator, error) {
	c := &Calculator{
		board:        newBoard(),
		logger:       opts.Logger,
		primeTimeout: opts.PrimeTimeout,
		primeRounds:  opts.PrimeRounds,
		witnesses:    opts.Witnesses,
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.primeTimeout <= 0 {
		c.primeTimeout = DefaultPrimeTimeout
	}
	if c.primeRounds <= 0 {
		c.primeRounds = DefaultPrimeRounds
	}
	if c.witnesses == nil {
		c.witnesses = numeric.CryptoSource{}
	}

	managerOpts := []jobs.Option{jobs.WithLogger(c.logger), jobs.WithInput(c.Input)}
	if opts.Recorder != nil {
		managerOpts = append(managerOpts, jobs.WithRecorder(opts.Recorder))
	}
	if opts.Tracer != nil {
		managerOpts = append(managerOpts, jobs.WithTracer(opts.Tracer))
	}
	if opts.Workers > 0 {
		managerOpts = append(managerOpts, jobs.WithWorkers(opts.Workers))
	}
	if opts.Context != nil {
		managerOpts = append(managerOpts, jobs.WithContext(opts.Context))
	}

	m, err := jobs.New(map[jobs.Kind]jobs.Work{
		jobs.Factorial:  c.factorial,
		jobs.Roots:      c.roots,
		jobs.Logarithms: c.logarithms,
		jobs.Powers:     c.powers,
		jobs.Prime:      c.prime,
	}, managerOpts...)
	if err != nil {
		return nil, err
	}
	c.manager = m
	return c, nil
}

// ValidateInput rejects values that cannot be a number at all: blank text
// and a lone ".", "-" or "-.". Anything else is left to each computation,
// which reports its own invalid-input result.
func ValidateInput(s string) error {
	switch strings.TrimSpace(s) {
	case "":
		return apperrors.NewValidationError("input", "value is empty")
	case ".", "-", "-.":
		return apperrors.NewValidationError("input", "%q is not a number", strings.TrimSpace(s))
	}
	return nil
}

// SetInput replaces the shared input. Runs already dispatched keep the value
// captured by Request or RunAll, even while they wait for a worker.
func (c *Calculator) SetInput(s string) {
	c.inputMu.Lock()
	c.input = strings.TrimSpace(s)
	c.inputMu.Unlock()
	c.logger.Debug("input changed", logging.String("input", s))
}

// Input returns the shared input.
func (c *Calculator) Input() string {
	c.inputMu.RLock()
	defer c.inputMu.RUnlock()
	return c.input
}

// Request toggles kind; see jobs.Manager.Request.
func (c *Calculator) Request(kind jobs.Kind) (bool, error) { return c.manager.Request(kind) }

// RunAll toggles the aggregate run.
func (c *Calculator) RunAll() (bool, error) { return c.manager.RunAll() }

// Cancel stops kind if it is running.
func (c *Calculator) Cancel(kind jobs.Kind) { c.manager.Cancel(kind) }

// CancelAll stops every run.
func (c *Calculator) CancelAll() { c.manager.CancelAll() }

// IsRunning reports kind's flag.
func (c *Calculator) IsRunning(kind jobs.Kind) bool { return c.manager.IsRunning(kind) }

// Current returns the latest state snapshot.
func (c *Calculator) Current() jobs.Snapshot { return c.manager.Current() }

// States subscribes to state snapshots.
func (c *Calculator) States() (<-chan jobs.Snapshot, func()) { return c.manager.Subscribe() }

// Updates subscribes to result updates posted after the call.
func (c *Calculator) Updates() (<-chan Update, func()) { return c.board.subscribe() }

// Latest returns the last value posted to s.
func (c *Calculator) Latest(s Slot) (string, bool) { return c.board.get(s) }

// Results returns every filled slot keyed by slot name.
func (c *Calculator) Results() map[string]string {
	out := make(map[string]string, slotCount)
	for _, s := range Slots() {
		if v, ok := c.board.get(s); ok {
			out[s.String()] = v
		}
	}
	return out
}

// ClearResults forgets every posted value.
func (c *Calculator) ClearResults() { c.board.clear() }

// WaitIdle blocks until no job is running or ctx is done.
func (c *Calculator) WaitIdle(ctx context.Context) error { return c.manager.WaitIdle(ctx) }

// Close stops every run and ends all subscriptions.
func (c *Calculator) Close() {
	c.manager.Close()
	c.board.close()
}

// post publishes updates through h, so nothing is posted once h was
// canceled.
func (c *Calculator) post(h *jobs.Handle, updates ...Update) {
	if !h.Deliver(func() { c.board.post(updates...) }) {
		c.logger.Debug("late result dropped", logging.String("job", h.Kind().String()))
	}
}

func (c *Calculator) factorial(ctx context.Context, h *jobs.Handle) error {
	input := h.Input()
	value, err := numeric.FactorialString(ctx, input)
	if apperrors.IsValidation(err) {
		c.logger.Warn("invalid factorial input", logging.String("input", input), logging.Err(err))
		c.post(h, Update{FactorialResult, MsgFactorialInvalid})
		return nil
	}
	if err != nil {
		return err
	}
	c.post(h, Update{FactorialResult, value})
	return nil
}

// realJob runs a pair of float computations on the input. Out-of-range
// numerals saturate to ±Inf or 0 instead of being rejected.
func (c *Calculator) realJob(h *jobs.Handle, first, second Slot, f, g func(float64) float64) error {
	input := h.Input()
	x, err := strconv.ParseFloat(input, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		c.logger.Warn("invalid input", logging.String("job", h.Kind().String()), logging.String("input", input))
		c.post(h, Update{first, MsgInvalidInput}, Update{second, MsgInvalidInput})
		return nil
	}
	c.post(h,
		Update{first, format.FormatReal(f(x))},
		Update{second, format.FormatReal(g(x))},
	)
	return nil
}

func (c *Calculator) roots(_ context.Context, h *jobs.Handle) error {
	return c.realJob(h, SquareRootResult, CubeRootResult, numeric.SquareRoot, numeric.CubeRoot)
}

func (c *Calculator) logarithms(_ context.Context, h *jobs.Handle) error {
	return c.realJob(h, Log10Result, NaturalLogResult, numeric.Log10, numeric.NaturalLog)
}

func (c *Calculator) powers(_ context.Context, h *jobs.Handle) error {
	return c.realJob(h, SquareResult, CubeResult, numeric.Square, numeric.Cube)
}

var two = big.NewInt(2)

// prime runs Miller-Rabin under the prime timeout. A timeout posts the
// generic error message and is returned so the run is recorded as timed out.
func (c *Calculator) prime(ctx context.Context, h *jobs.Handle) error {
	input := h.Input()
	n, ok := new(big.Int).SetString(input, 10)
	if !ok || n.Cmp(two) < 0 {
		c.logger.Warn("invalid primality input", logging.String("input", input))
		c.post(h, Update{PrimeTestResult, MsgPrimeInvalid})
		return nil
	}

	prime, err := timeout.Run(ctx, c.primeTimeout, "primality test", func(ctx context.Context) (bool, error) {
		return numeric.IsProbablePrime(ctx, n, c.primeRounds, c.witnesses)
	})
	if apperrors.IsTimeout(err) {
		c.post(h, Update{ErrorMessage, MsgTimeout})
		return err
	}
	if err != nil {
		return err
	}
	if prime {
		c.post(h, Update{PrimeTestResult, MsgPrime})
	} else {
		c.post(h, Update{PrimeTestResult, MsgNotPrime})
	}
	return nil
}
