package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/agbru/numcalc/internal/config"
)

const programName = "numcalc"

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell script is generated from the same registry.
type FlagCompletion struct {
	Long      string   // long flag name without dashes (e.g., "job")
	Short     string   // single-letter alias without the dash (e.g., "j")
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label of the value (empty for boolean flags)
	IsFile    bool     // the flag takes a file path
}

// fileFlags are completed with file names.
var fileFlags = map[string]bool{"log-file": true}

// CompletionRegistry builds the completion registry from the flags parsed
// by config.ParseConfig. Shorthands are folded into their long flag; the
// entries follow help and version in lexical order.
func CompletionRegistry() []FlagCompletion {
	short := make(map[string]string, len(config.Shorthands))
	for s, long := range config.Shorthands {
		short[long] = s
	}
	values := config.FlagValues()

	var registry []FlagCompletion
	config.FlagSet(programName).VisitAll(func(f *flag.Flag) {
		if _, alias := config.Shorthands[f.Name]; alias {
			return
		}
		valueName, usage := flag.UnquoteUsage(f)
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			valueName = ""
		}
		registry = append(registry, FlagCompletion{
			Long:      f.Name,
			Short:     short[f.Name],
			Help:      strings.TrimSuffix(usage, "."),
			Values:    values[f.Name],
			ValueName: valueName,
			IsFile:    fileFlags[f.Name],
		})
	})

	return append([]FlagCompletion{
		{Long: "help", Short: "h", Help: "Show help message"},
		{Long: "version", Short: "V", Help: "Show version information"},
	}, registry...)
}

// GenerateCompletion writes the completion script of shell to out.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh" or "fish").
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string) error {
	registry := CompletionRegistry()
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(registry)
	case "zsh":
		script = zshCompletion(registry)
	case "fish":
		script = fishCompletion(registry)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(config.CompletionShells, ", "))
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// patterns returns the spellings of f matched against the previous word.
func patterns(f FlagCompletion) []string {
	p := []string{"--" + f.Long, "-" + f.Long}
	if f.Short != "" {
		p = append(p, "-"+f.Short)
	}
	return p
}

func bashCompletion(registry []FlagCompletion) string {
	var opts []string
	for _, f := range registry {
		opts = append(opts, "--"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	var cases strings.Builder
	writeCase := func(pats []string, body string) {
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(pats, "|"), body)
	}
	var filePatterns []string
	for _, f := range registry {
		switch {
		case f.IsFile:
			filePatterns = append(filePatterns, patterns(f)...)
		case len(f.Values) > 0:
			writeCase(patterns(f), fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}
	if len(filePatterns) > 0 {
		writeCase(filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}

	return fmt.Sprintf(`# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

_%[1]s_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%[2]s"

    case "${prev}" in
%[3]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _%[1]s_completions %[1]s
`, programName, strings.Join(opts, " "), cases.String())
}

// zshEscaper escapes the characters _arguments treats specially inside a
// description.
var zshEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, ":", `\:`, "'", `'\''`)

func zshArgEntry(f FlagCompletion) string {
	help := zshEscaper.Replace(f.Help)

	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, help, valueSuffix)
}

func zshCompletion(registry []FlagCompletion) string {
	args := make([]string, 0, len(registry))
	for _, f := range registry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef %[1]s

# Zsh completion script for %[1]s
# Add this to your ~/.zshrc or place in $fpath

_%[1]s() {
    _arguments -s \
%[2]s
}

_%[1]s "$@"
`, programName, strings.Join(args, " \\\n"))
}

func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c " + programName}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long)
	parts = append(parts, fmt.Sprintf("-d '%s'", strings.ReplaceAll(f.Help, "'", `\'`)))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func fishCompletion(registry []FlagCompletion) string {
	lines := []string{
		"# Fish completion script for " + programName,
		"# Add this to ~/.config/fish/completions/" + programName + ".fish",
		"",
		"# Disable file completion by default",
		"complete -c " + programName + " -f",
		"",
	}
	for _, f := range registry {
		lines = append(lines, fishCompleteLine(f))
	}
	return strings.Join(lines, "\n") + "\n"
}
