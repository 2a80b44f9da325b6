package calculator

import "github.com/agbru/numcalc/internal/jobs"

// Slot identifies one result channel.
type Slot int

const (
	FactorialResult Slot = iota
	SquareRootResult
	CubeRootResult
	Log10Result
	NaturalLogResult
	SquareResult
	CubeResult
	PrimeTestResult
	ErrorMessage

	slotCount
)

var slotNames = [slotCount]string{
	"factorial",
	"square_root",
	"cube_root",
	"log10",
	"natural_log",
	"square",
	"cube",
	"prime_test",
	"error",
}

var slotLabels = [slotCount]string{
	"n!",
	"√x",
	"∛x",
	"log₁₀ x",
	"ln x",
	"x²",
	"x³",
	"prime?",
	"error",
}

func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return "unknown"
	}
	return slotNames[s]
}

// Label is the short mathematical caption used by the front ends.
func (s Slot) Label() string {
	if s < 0 || s >= slotCount {
		return "?"
	}
	return slotLabels[s]
}

// Kind returns the job that writes s. ErrorMessage belongs to Prime, the
// only job that can time out.
func (s Slot) Kind() jobs.Kind {
	switch s {
	case FactorialResult:
		return jobs.Factorial
	case SquareRootResult, CubeRootResult:
		return jobs.Roots
	case Log10Result, NaturalLogResult:
		return jobs.Logarithms
	case SquareResult, CubeResult:
		return jobs.Powers
	default:
		return jobs.Prime
	}
}

// Slots lists every slot in display order.
func Slots() []Slot {
	out := make([]Slot, slotCount)
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}

// SlotsOf returns the result slots written by kind, excluding ErrorMessage.
func SlotsOf(kind jobs.Kind) []Slot {
	var out []Slot
	for _, s := range Slots() {
		if s != ErrorMessage && s.Kind() == kind {
			out = append(out, s)
		}
	}
	return out
}

// Update is one value posted to a slot.
type Update struct {
	Slot  Slot
	Value string
}
