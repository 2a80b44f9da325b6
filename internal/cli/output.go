// Functions in this package follow the naming used across numcalc's front
// ends: Display* writes to an io.Writer, Format* returns a string.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/numcalc/internal/calculator"
	"github.com/agbru/numcalc/internal/format"
	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/ui"
)

// DisplayLimit is the length from which long values (large factorials) are
// shortened in the line shell.
const DisplayLimit = 72

// FormatValue shortens v when it is longer than DisplayLimit.
func FormatValue(v string) string {
	return format.TruncateDigits(v, DisplayLimit)
}

// FormatUpdate renders one result line, e.g. "  [factorial] n! = 120".
func FormatUpdate(u calculator.Update) string {
	color := ui.ColorSuccess()
	if calculator.IsProblem(u.Value) {
		color = ui.ColorError()
	}
	return fmt.Sprintf("  [%s] %-8s = %s", u.Slot.Kind(), u.Slot.Label(), ui.Paint(color, FormatValue(u.Value)))
}

// slotsFor lists the slots a run of kind fills, ErrorMessage last.
func slotsFor(kind jobs.Kind) []calculator.Slot {
	if kind == jobs.All {
		return calculator.Slots()
	}
	slots := calculator.SlotsOf(kind)
	if kind == jobs.Prime {
		slots = append(slots, calculator.ErrorMessage)
	}
	return slots
}

// DisplayResults prints the latest value of every slot filled by kind.
func DisplayResults(out io.Writer, kind jobs.Kind, latest func(calculator.Slot) (string, bool)) {
	for _, s := range slotsFor(kind) {
		if v, ok := latest(s); ok {
			fmt.Fprintln(out, FormatUpdate(calculator.Update{Slot: s, Value: v}))
		}
	}
}

// DisplayQuietResults prints bare values, one per line, for scripting.
// Long values are not shortened.
func DisplayQuietResults(out io.Writer, kind jobs.Kind, latest func(calculator.Slot) (string, bool)) {
	for _, s := range slotsFor(kind) {
		if v, ok := latest(s); ok {
			fmt.Fprintln(out, v)
		}
	}
}

// FormatStatus renders the running flags as "factorial:idle roots:running ...".
func FormatStatus(s jobs.Snapshot) string {
	parts := make([]string, 0, len(jobs.Kinds()))
	for _, k := range jobs.Kinds() {
		state := ui.Paint(ui.ColorSecondary(), "idle")
		if s.Running(k) {
			state = ui.Paint(ui.ColorWarning(), "running")
		}
		parts = append(parts, fmt.Sprintf("%s:%s", k, state))
	}
	return strings.Join(parts, " ")
}
