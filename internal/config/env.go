// This file contains the NUMCALC_ environment variable overrides.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// envOverride binds NUMCALC_<key> to the flags it shadows. apply receives
// the raw value and leaves the config untouched when it does not parse.
type envOverride struct {
	key   string
	flags []string
	apply func(*AppConfig, string)
}

func stringEnv(key string, field func(*AppConfig) *string, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) { *field(c) = v }}
}

func intEnv(key string, field func(*AppConfig) *int, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*field(c) = n
		}
	}}
}

func durationEnv(key string, field func(*AppConfig) *time.Duration, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			*field(c) = d
		}
	}}
}

func boolEnv(key string, field func(*AppConfig) *bool, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		p := field(c)
		*p = parseBoolEnv(v, *p)
	}}
}

var envOverrides = []envOverride{
	stringEnv("INPUT", func(c *AppConfig) *string { return &c.Input }, "input", "i"),
	stringEnv("JOB", func(c *AppConfig) *string { return &c.Job }, "job", "j"),
	durationEnv("TIMEOUT", func(c *AppConfig) *time.Duration { return &c.Timeout }, "timeout"),
	durationEnv("PRIME_TIMEOUT", func(c *AppConfig) *time.Duration { return &c.PrimeTimeout }, "prime-timeout"),
	intEnv("PRIME_ROUNDS", func(c *AppConfig) *int { return &c.PrimeRounds }, "prime-rounds"),
	intEnv("WORKERS", func(c *AppConfig) *int { return &c.Workers }, "workers"),

	boolEnv("TUI", func(c *AppConfig) *bool { return &c.TUI }, "tui"),
	boolEnv("QUIET", func(c *AppConfig) *bool { return &c.Quiet }, "quiet", "q"),
	boolEnv("VERBOSE", func(c *AppConfig) *bool { return &c.Verbose }, "verbose", "v"),
	boolEnv("NO_COLOR", func(c *AppConfig) *bool { return &c.NoColor }, "no-color"),
	stringEnv("THEME", func(c *AppConfig) *string { return &c.Theme }, "theme"),

	stringEnv("LOG_LEVEL", func(c *AppConfig) *string { return &c.LogLevel }, "log-level"),
	stringEnv("LOG_FORMAT", func(c *AppConfig) *string { return &c.LogFormat }, "log-format"),
	stringEnv("LOG_FILE", func(c *AppConfig) *string { return &c.LogFile }, "log-file"),
	stringEnv("METRICS_ADDR", func(c *AppConfig) *string { return &c.MetricsAddr }, "metrics-addr"),
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case. Anything else
// returns current.
func parseBoolEnv(val string, current bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return current
}

// applyEnvOverrides fills every option whose flags were all left unset from
// the environment. Flags win over the environment, which wins over defaults.
func applyEnvOverrides(config *AppConfig, explicit map[string]bool) {
	for _, o := range envOverrides {
		shadowed := false
		for _, name := range o.flags {
			shadowed = shadowed || explicit[name]
		}
		if shadowed {
			continue
		}
		if val, ok := os.LookupEnv(EnvPrefix + o.key); ok && val != "" {
			o.apply(config, val)
		}
	}
}
