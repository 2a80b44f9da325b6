package jobs

import (
	"fmt"
	"strings"
)

// Kind identifies the computation a job performs.
type Kind int

// The concrete computations, followed by the aggregate.
const (
	Factorial Kind = iota
	Roots
	Logarithms
	Powers
	Prime
	All

	kindCount = int(All) + 1
)

var kindNames = [kindCount]string{
	Factorial:  "factorial",
	Roots:      "roots",
	Logarithms: "logarithms",
	Powers:     "powers",
	Prime:      "prime",
	All:        "all",
}

// String returns the lower-case name used on the command line.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= Factorial && k <= All }

// Kinds returns every kind, All last.
func Kinds() []Kind {
	return []Kind{Factorial, Roots, Logarithms, Powers, Prime, All}
}

// Computations returns the five kinds that run actual work.
func Computations() []Kind {
	return []Kind{Factorial, Roots, Logarithms, Powers, Prime}
}

// KindNames returns the names of every kind in declaration order.
func KindNames() []string {
	names := make([]string, kindCount)
	copy(names, kindNames[:])
	return names
}

// ParseKind maps a name (or a common alias) to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "factorial", "fact", "f":
		return Factorial, nil
	case "roots", "root", "r":
		return Roots, nil
	case "logarithms", "logs", "log", "l":
		return Logarithms, nil
	case "powers", "power", "pow", "p":
		return Powers, nil
	case "prime", "primality", "isprime":
		return Prime, nil
	case "all", "a":
		return All, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
