// Package config parses command-line flags and environment variables into
// the AppConfig consumed by the application.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/numcalc/internal/errors"
	"github.com/agbru/numcalc/internal/jobs"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "NUMCALC_"

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultTimeout      = 5 * time.Minute
	DefaultPrimeTimeout = 1000 * time.Millisecond
	DefaultPrimeRounds  = 20
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultTheme        = "dark"
	maxPrimeRounds      = 1000
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Input is the numeric value fed to every job.
	Input string
	// Job selects one-shot mode: a job name or "all". Empty means interactive.
	Job string
	// Timeout bounds a whole one-shot run.
	Timeout time.Duration
	// PrimeTimeout bounds each primality test.
	PrimeTimeout time.Duration
	// PrimeRounds is the number of Miller-Rabin witnesses drawn per test.
	PrimeRounds int
	// Workers caps concurrently running CPU-bound computations. Zero means auto.
	Workers int
	// TUI starts the interactive dashboard instead of the line shell.
	TUI bool
	// Quiet prints bare result values in one-shot mode.
	Quiet bool
	// Verbose enables debug logging and extra output.
	Verbose bool
	// NoColor disables ANSI colors. It takes precedence over Theme.
	NoColor bool
	// Theme names the color scheme: dark, light or none.
	Theme string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is console or json.
	LogFormat string
	// LogFile redirects logs to a file. Empty means stderr (discarded in TUI mode).
	LogFile string
	// MetricsAddr starts the status HTTP server when non-empty (e.g. ":9090").
	MetricsAddr string
	// Completion names a shell (bash, zsh, fish). When set the completion
	// script is printed instead of running anything.
	Completion string
}

// Shorthands maps each single-letter flag to the long flag it aliases.
var Shorthands = map[string]string{
	"i": "input",
	"j": "job",
	"q": "quiet",
	"v": "verbose",
}

// CompletionShells lists the shells -completion can generate a script for.
var CompletionShells = []string{"bash", "zsh", "fish"}

// FlagValues returns the suggested values of the flags that take a fixed
// set of words, keyed by long flag name.
func FlagValues() map[string][]string {
	return map[string][]string{
		"job":           jobs.KindNames(),
		"timeout":       {"30s", "1m", "5m", "10m"},
		"prime-timeout": {"250ms", "500ms", "1s", "5s"},
		"theme":         {"dark", "light", "none"},
		"log-level":     {"debug", "info", "warn", "error"},
		"log-format":    {"console", "json"},
		"completion":    slices.Clone(CompletionShells),
	}
}

// FlagSet returns the flags understood by ParseConfig, bound to a scratch
// config. It is used to describe the command line, not to parse it.
func FlagSet(programName string) *flag.FlagSet {
	return newFlagSet(programName, &AppConfig{})
}

func newFlagSet(programName string, config *AppConfig) *flag.FlagSet {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.StringVar(&config.Input, "input", "", "Numeric `number` shared by every job.")
	fs.StringVar(&config.Input, "i", "", "Numeric input (shorthand).")
	fs.StringVar(&config.Job, "job", "", fmt.Sprintf("Run one `job` and exit (%s).", strings.Join(jobs.KindNames(), ", ")))
	fs.StringVar(&config.Job, "j", "", "Job to run (shorthand).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of a one-shot run.")
	fs.DurationVar(&config.PrimeTimeout, "prime-timeout", DefaultPrimeTimeout, "Time limit of a single primality test.")
	fs.IntVar(&config.PrimeRounds, "prime-rounds", DefaultPrimeRounds, "Miller-Rabin rounds per primality test.")
	fs.IntVar(&config.Workers, "workers", 0, "Maximum concurrent CPU-bound computations (0 = number of CPUs).")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive dashboard.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print bare result values only.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", DefaultTheme, "Color `theme` (dark, light or none).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log `level` (debug, info, warn or error).")
	fs.StringVar(&config.LogFormat, "log-format", DefaultLogFormat, "Log `format` (console or json).")
	fs.StringVar(&config.LogFile, "log-file", "", "Write logs to this `file`.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve /metrics, /jobs and /healthz on this `address`.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for `shell` (bash, zsh or fish) and exit.")
	return fs
}

// Validate checks the semantic consistency of the configuration.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem, or nil.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be strictly positive")
	}
	if c.PrimeTimeout <= 0 {
		return apperrors.NewConfigError("prime timeout must be strictly positive")
	}
	if c.PrimeRounds < 1 || c.PrimeRounds > maxPrimeRounds {
		return apperrors.NewConfigError("prime rounds must be between 1 and %d, got %d", maxPrimeRounds, c.PrimeRounds)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers cannot be negative: %d", c.Workers)
	}
	if c.Job != "" {
		if _, err := jobs.ParseKind(c.Job); err != nil {
			return apperrors.NewConfigError("unrecognized job %q (valid: %s)", c.Job, strings.Join(jobs.KindNames(), ", "))
		}
		if strings.TrimSpace(c.Input) == "" {
			return apperrors.NewConfigError("-job requires -input")
		}
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-quiet and -verbose are mutually exclusive")
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q (valid: %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	switch c.Theme {
	case "dark", "light", "none":
	default:
		return apperrors.NewConfigError("invalid theme %q (valid: dark, light, none)", c.Theme)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return apperrors.NewConfigError("invalid log format %q", c.LogFormat)
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies NUMCALC_ environment
// overrides for flags that were not given explicitly, and validates the result.
//
// Parameters:
//   - programName: Name shown in usage output.
//   - args: Command-line arguments without the program name.
//   - errorWriter: Destination for usage and parse errors.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, or a parse/validation error.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	config := AppConfig{}
	fs := newFlagSet(programName, &config)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errorWriter, "Runs numeric jobs (factorial, roots, logarithms, powers, prime) concurrently.")
		fmt.Fprintln(errorWriter, "Without -job an interactive shell is started.")
		fmt.Fprintln(errorWriter, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEnvironment variables (prefix %s) override defaults but not explicit flags.\n", EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	explicit := explicitFlags(fs)
	applyEnvOverrides(&config, explicit)
	config.Job = strings.ToLower(strings.TrimSpace(config.Job))
	config.LogLevel = strings.ToLower(config.LogLevel)
	config.LogFormat = strings.ToLower(config.LogFormat)
	config.Theme = strings.ToLower(config.Theme)
	config.Completion = strings.ToLower(config.Completion)
	if config.Verbose && !explicit["log-level"] {
		config.LogLevel = "debug"
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
