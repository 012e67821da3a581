package dextir

import (
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Trace pretty printer
// ---------------------------------------------------------------------------

// stepColors cycles whenever a step enters a new function, so consecutive
// steps inside one function share a color.
var stepColors = []string{
	"\x1b[31m", // red
	"\x1b[32m", // green
	"\x1b[34m", // blue
	"\x1b[33m", // yellow
}

const colorReset = "\x1b[0m"

// Render writes a framed listing of the trace's steps. With color enabled,
// runs of steps within the same function are tinted alike.
func Render(w io.Writer, t *Trace, color bool) {
	fmt.Fprintln(w, "## BEGIN ##")
	colorIdx := 0
	for _, s := range t.Steps {
		if s.Kind.isFuncKind() {
			colorIdx++
		}
		if color {
			c := stepColors[colorIdx%len(stepColors)]
			fmt.Fprintf(w, "%s%s%s\n", c, s, colorReset)
		} else {
			fmt.Fprintln(w, s)
		}
	}
	plural := "s"
	if t.NumSteps() == 1 {
		plural = ""
	}
	fmt.Fprintf(w, "## END (%d step%s) ##\n", t.NumSteps(), plural)
}
