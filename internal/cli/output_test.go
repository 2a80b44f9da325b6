package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agbru/numcalc/internal/calculator"
	"github.com/agbru/numcalc/internal/jobs"
)

func latestFrom(m map[calculator.Slot]string) func(calculator.Slot) (string, bool) {
	return func(s calculator.Slot) (string, bool) {
		v, ok := m[s]
		return v, ok
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "120", FormatValue("120"))

	long := strings.Repeat("7", DisplayLimit+10)
	got := FormatValue(long)
	assert.Less(t, len(got), len(long)+20)
	assert.Contains(t, got, "digits")
}

func TestFormatUpdate(t *testing.T) {
	t.Parallel()
	got := FormatUpdate(calculator.Update{Slot: calculator.SquareResult, Value: "49"})
	assert.Equal(t, "  [powers] x²       = 49", got)

	got = FormatUpdate(calculator.Update{Slot: calculator.ErrorMessage, Value: calculator.MsgTimeout})
	assert.Contains(t, got, "[prime] error")
	assert.Contains(t, got, calculator.MsgTimeout)
}

func TestDisplayResults(t *testing.T) {
	t.Parallel()
	latest := latestFrom(map[calculator.Slot]string{
		calculator.FactorialResult: "6",
		calculator.SquareResult:    "9",
		calculator.CubeResult:      "27",
		calculator.ErrorMessage:    calculator.MsgTimeout,
	})

	var out bytes.Buffer
	DisplayResults(&out, jobs.Powers, latest)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
	assert.NotContains(t, out.String(), "n!")

	out.Reset()
	DisplayResults(&out, jobs.Prime, latest)
	assert.Contains(t, out.String(), calculator.MsgTimeout)

	out.Reset()
	DisplayQuietResults(&out, jobs.All, latest)
	assert.Equal(t, "6\n9\n27\n"+calculator.MsgTimeout+"\n", out.String())
}

func TestFormatStatus(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"factorial:idle roots:idle logarithms:idle powers:idle prime:idle all:idle",
		FormatStatus(jobs.Snapshot{}))
}
