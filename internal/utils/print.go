package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"golang.org/x/term"
)

// UseColor reports whether f is a terminal and NO_COLOR is unset.
func UseColor(f *os.File) bool {
	if misc.Truthy(os.Getenv("NO_COLOR")) {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PrintSection writes "role: content". The role is colored when color is set.
func PrintSection(w io.Writer, role, content string, color bool) {
	prefix := role
	if color {
		switch role {
		case "reasoning":
			prefix = ancli.ColoredMessage(ancli.MAGENTA, role)
		case "user":
			prefix = ancli.ColoredMessage(ancli.CYAN, role)
		default:
			prefix = ancli.ColoredMessage(ancli.BLUE, role)
		}
	}
	fmt.Fprintf(w, "%v: %v\n", prefix, content)
}
