// Package cli implements the line-oriented front ends: the interactive menu
// shell and the one-shot runner.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/numcalc/internal/calculator"
	"github.com/agbru/numcalc/internal/digits"
	"github.com/agbru/numcalc/internal/geometry"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/logging"
	"github.com/agbru/numcalc/internal/thermo"
	"github.com/agbru/numcalc/internal/ui"
)

// REPLConfig holds configuration for the shell session.
type REPLConfig struct {
	// WaitTimeout bounds the "wait" command.
	WaitTimeout time.Duration
	Logger      logging.Logger
}

// REPL is the interactive menu shell. Results are printed as they arrive,
// interleaved with the prompt.
type REPL struct {
	config REPLConfig
	engine Engine
	logger logging.Logger
	in     io.Reader

	mu  sync.Mutex // guards out
	out io.Writer
}

// NewREPL creates a shell over eng reading stdin and writing stdout.
func NewREPL(eng Engine, config REPLConfig) *REPL {
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = time.Minute
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &REPL{
		config: config,
		engine: eng,
		logger: logger,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// printf writes to the output under the output lock.
func (r *REPL) printf(format string, a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, a...)
}

// Start runs the session until "exit", EOF or ctx cancellation. Running
// jobs are canceled on the way out.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()

	updates, unsubscribe := r.engine.Updates()
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		for u := range updates {
			r.printf("%s\n", FormatUpdate(u))
		}
	}()
	defer func() {
		r.engine.CancelAll()
		unsubscribe()
		<-printerDone
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		readErr <- err
	}()

	for {
		r.printf("%s", ui.Paint(ui.ColorSuccess(), "numcalc> "))
		select {
		case <-ctx.Done():
			r.printf("\nInterrupted.\n")
			return
		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				r.printf("%s\n", ui.Paint(ui.ColorError(), "Read error: "+err.Error()))
			}
			r.printf("\nGoodbye!\n")
			return
		case line := <-lines:
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !r.processCommand(ctx, line) {
				return
			}
		}
	}
}

func (r *REPL) printBanner() {
	r.printf("\n%s\n", ui.Paint(ui.ColorPrimary(), "╔═══════════════════════════════════════════╗"))
	r.printf("%s  %s  %s\n", ui.Paint(ui.ColorPrimary(), "║"), ui.Paint(ui.ColorBold(), "numcalc - concurrent calculator shell"), ui.Paint(ui.ColorPrimary(), "  ║"))
	r.printf("%s\n\n", ui.Paint(ui.ColorPrimary(), "╚═══════════════════════════════════════════╝"))
}

func (r *REPL) printHelp() {
	cmd := func(name, desc string) {
		r.printf("  %s %s\n", ui.Paint(ui.ColorWarning(), fmt.Sprintf("%-30s", name)), desc)
	}
	r.printf("%s\n", ui.Paint(ui.ColorBold(), "Calculator:"))
	cmd("input <value>", "Set the shared input (alias: set)")
	cmd("run <job>", "Start or cancel a job ("+strings.Join(jobs.KindNames(), ", ")+")")
	cmd("all", "Start or cancel every job at once")
	cmd("cancel [job|all]", "Cancel one job, or everything")
	cmd("wait", "Block until every job is idle")
	cmd("status", "Show the input and job states")
	cmd("results", "Show the latest results")
	cmd("<number>", "Set the input and run every job")
	r.printf("%s\n", ui.Paint(ui.ColorBold(), "Tools:"))
	cmd("circles x1 y1 r1 x2 y2 r2", "How do two circles relate?")
	cmd("primes <n> [reverse]", "Prime check of every digit prefix")
	cmd("temp <value> <C|K|F> <w|s>", "Comfort advice for a Celsius reading")
	r.printf("%s\n", ui.Paint(ui.ColorBold(), "Session:"))
	cmd("help", "Show this help")
	cmd("exit", "Leave the shell (alias: quit)")
	r.printf("\n")
}

// processCommand executes one line. It returns false when the shell should
// exit.
func (r *REPL) processCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	r.logger.Debug("command", logging.String("command", cmd), logging.Int("args", len(args)))

	switch cmd {
	case "input", "set":
		r.cmdInput(args)
	case "run", "r":
		r.cmdRun(args)
	case "all", "a":
		r.toggle(jobs.All)
	case "cancel", "c":
		r.cmdCancel(args)
	case "wait", "w":
		r.cmdWait(ctx)
	case "status", "st":
		r.cmdStatus()
	case "results", "res":
		r.cmdResults()
	case "circles":
		r.printf("%s\n", geometry.Describe(args))
	case "primes":
		r.cmdPrimes(args)
	case "temp":
		r.cmdTemp(args)
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		r.printf("%s\n", ui.Paint(ui.ColorSuccess(), "Goodbye!"))
		return false
	default:
		if _, err := strconv.ParseFloat(cmd, 64); err == nil {
			if r.setInput(cmd) {
				r.toggle(jobs.All)
			}
			return true
		}
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Unknown command: "+cmd))
		r.printf("Type %s to see available commands.\n", ui.Paint(ui.ColorWarning(), "help"))
	}
	return true
}

func (r *REPL) setInput(value string) bool {
	if err := calculator.ValidateInput(value); err != nil {
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Invalid input: "+err.Error()))
		return false
	}
	r.engine.SetInput(value)
	r.printf("Input set to %s\n", ui.Paint(ui.ColorPrimary(), value))
	return true
}

func (r *REPL) cmdInput(args []string) {
	if len(args) != 1 {
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Usage: input <value>"))
		return
	}
	r.setInput(args[0])
}

func (r *REPL) cmdRun(args []string) {
	if len(args) != 1 {
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Usage: run <job>"))
		return
	}
	kind, err := jobs.ParseKind(args[0])
	if err != nil {
		r.printf("%s (valid: %s)\n", ui.Paint(ui.ColorError(), "Unknown job: "+args[0]), strings.Join(jobs.KindNames(), ", "))
		return
	}
	r.toggle(kind)
}

// toggle starts kind, or cancels it when it is already running.
func (r *REPL) toggle(kind jobs.Kind) {
	if r.engine.Input() == "" && !r.engine.Current().Running(kind) {
		r.printf("%s\n", ui.Paint(ui.ColorWarning(), "Set an input first: input <value>"))
		return
	}
	var (
		started bool
		err     error
	)
	if kind == jobs.All {
		started, err = r.engine.RunAll()
	} else {
		started, err = r.engine.Request(kind)
	}
	switch {
	case err != nil:
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Error: "+err.Error()))
	case started:
		r.printf("%s started\n", ui.Paint(ui.ColorWarning(), kind.String()))
	default:
		r.printf("%s canceled\n", ui.Paint(ui.ColorSecondary(), kind.String()))
	}
}

func (r *REPL) cmdCancel(args []string) {
	if len(args) == 0 || strings.EqualFold(args[0], "all") {
		r.engine.CancelAll()
		r.printf("All jobs canceled\n")
		return
	}
	kind, err := jobs.ParseKind(args[0])
	if err != nil {
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Unknown job: "+args[0]))
		return
	}
	if !r.engine.Current().Running(kind) {
		r.printf("%s is not running\n", kind)
		return
	}
	r.engine.Cancel(kind)
	r.printf("%s canceled\n", ui.Paint(ui.ColorSecondary(), kind.String()))
}

func (r *REPL) cmdWait(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.WaitTimeout)
	defer cancel()
	if err := r.engine.WaitIdle(ctx); err != nil {
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Still running: "+r.engine.Current().String()))
		return
	}
	r.printf("All jobs idle\n")
}

func (r *REPL) cmdStatus() {
	input := r.engine.Input()
	if input == "" {
		input = "(none)"
	}
	r.printf("Input: %s\n", ui.Paint(ui.ColorPrimary(), input))
	r.printf("Jobs:  %s\n", FormatStatus(r.engine.Current()))
}

func (r *REPL) cmdResults() {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := false
	for _, s := range calculator.Slots() {
		if v, ok := r.engine.Latest(s); ok {
			fmt.Fprintln(r.out, FormatUpdate(calculator.Update{Slot: s, Value: v}))
			found = true
		}
	}
	if !found {
		fmt.Fprintln(r.out, "No results yet.")
	}
}

func (r *REPL) cmdPrimes(args []string) {
	if len(args) == 0 || len(args) > 2 {
		r.printf("%s\n", ui.Paint(ui.ColorError(), "Usage: primes <n> [reverse]"))
		return
	}
	reversed := len(args) == 2 && strings.HasPrefix(strings.ToLower(args[1]), "rev")
	r.printf("%s", strings.TrimSuffix(digits.Describe(args[0], reversed), "\n")+"\n")
}

func (r *REPL) cmdTemp(args []string) {
	if len(args) != 3 {
		r.printf("%s\n", thermo.MsgIncorrect)
		return
	}
	r.printf("%s\n", thermo.Describe(args[0], args[1], args[2]))
}
