// Package app wires configuration, logging, metrics and the calculator to
// one of the three front ends: one-shot run, line shell or dashboard.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/numcalc/internal/calculator"
	"github.com/agbru/numcalc/internal/cli"
	"github.com/agbru/numcalc/internal/config"
	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/logging"
	"github.com/agbru/numcalc/internal/metrics"
	"github.com/agbru/numcalc/internal/server"
	"github.com/agbru/numcalc/internal/tui"
	"github.com/agbru/numcalc/internal/ui"
)

// shutdownTimeout bounds the status server's graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Application represents the numcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In feeds the line shell. Defaults to os.Stdin.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader used by the line shell.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "numcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = config.ApplyAdaptiveWorkers(cfg)
	return app, nil
}

// Run executes the application in the configured mode and returns the
// process exit code. SIGINT and SIGTERM cancel ctx.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	logger, closeLog, err := a.newLogger()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer closeLog()

	opts := calculator.Options{
		PrimeTimeout: a.Config.PrimeTimeout,
		PrimeRounds:  a.Config.PrimeRounds,
		Workers:      a.Config.Workers,
		Logger:       logger,
		Context:      ctx,
	}
	var jobMetrics *metrics.JobMetrics
	if a.Config.MetricsAddr != "" {
		jobMetrics = metrics.NewJobMetrics()
		opts.Recorder = jobMetrics
	}
	calc, err := calculator.New(opts)
	if err != nil {
		logger.Error("calculator setup failed", err)
		return apperrors.ExitErrorGeneric
	}
	defer calc.Close()

	if jobMetrics != nil {
		srv := server.New(a.Config.MetricsAddr, calc, jobMetrics, logger)
		addr, err := srv.Start()
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Configuration error: status server: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		logger.Info("status server listening", logging.String("addr", addr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("status server shutdown", logging.Err(err))
			}
		}()
	}

	switch {
	case a.Config.Job != "":
		return a.runOnce(ctx, calc, out)
	case a.Config.TUI:
		a.presetInput(calc, logger)
		return tui.Run(ctx, calc, Version)
	default:
		a.presetInput(calc, logger)
		return a.runREPL(ctx, calc, logger, out)
	}
}

// runCompletion prints the shell completion script.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// newLogger builds the logger for the selected mode. The dashboard owns
// the terminal, so it only logs when a log file is given.
func (a *Application) newLogger() (logging.Logger, func(), error) {
	var w io.Writer = a.ErrWriter
	closeFn := func() {}
	switch {
	case a.Config.LogFile != "":
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, apperrors.NewConfigError("cannot open log file: %v", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case a.Config.TUI:
		w = io.Discard
	}

	logger, err := logging.New(logging.Options{
		Level:     a.Config.LogLevel,
		Format:    a.Config.LogFormat,
		Writer:    w,
		Component: "numcalc",
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

// presetInput copies -input into the calculator for the interactive modes.
func (a *Application) presetInput(calc *calculator.Calculator, logger logging.Logger) {
	if a.Config.Input == "" {
		return
	}
	if err := calculator.ValidateInput(a.Config.Input); err != nil {
		logger.Warn("ignoring -input", logging.Err(err))
		return
	}
	calc.SetInput(a.Config.Input)
}

// runOnce runs the configured job once and maps the outcome to an exit code.
func (a *Application) runOnce(ctx context.Context, calc *calculator.Calculator, out io.Writer) int {
	kind, err := jobs.ParseKind(a.Config.Job)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	start := time.Now()
	err = cli.RunOnce(ctx, calc, cli.RunOptions{
		Input:        a.Config.Input,
		Job:          kind,
		Timeout:      a.Config.Timeout,
		PrimeTimeout: a.Config.PrimeTimeout,
		Quiet:        a.Config.Quiet,
	}, out)
	return apperrors.HandleCalculationError(err, time.Since(start), a.ErrWriter)
}

// runREPL runs the line shell until the user leaves or ctx is canceled.
func (a *Application) runREPL(ctx context.Context, calc *calculator.Calculator, logger logging.Logger, out io.Writer) int {
	repl := cli.NewREPL(calc, cli.REPLConfig{Logger: logger})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start(ctx)
	if ctx.Err() != nil {
		return apperrors.ExitErrorCanceled
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
