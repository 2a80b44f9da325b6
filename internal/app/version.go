package app

import (
	"fmt"
	"io"
	"runtime"
)

// Version is set at build time with -ldflags "-X github.com/agbru/numcalc/internal/app.Version=...".
var Version = "dev"

// HasVersionFlag reports whether args ask for the version. It is checked
// before flag parsing so it works alongside otherwise invalid flags.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-version", "--version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version line.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "numcalc %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
