// Package command parses the annotation directives embedded in debugger
// test sources: labels for source lines, expected watch-value sequences,
// and expected step-kind classifications. Directives look like Python
// calls inside ordinary comments, e.g.
//
//	// DexExpectWatchValue('vla[0]', '23', on_line='end_init')
//
// and are inert in the compiled program.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dexgo/dexgo/dextir"
)

// Directive names recognized by the scanner.
const (
	NameLabel            = "DexLabel"
	NameExpectWatchValue = "DexExpectWatchValue"
	NameExpectStepKind   = "DexExpectStepKind"
)

// directiveNames is ordered so the scanner checks longer names first,
// keeping prefixes from shadowing each other.
var directiveNames = []string{
	NameExpectWatchValue,
	NameExpectStepKind,
	NameLabel,
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Command is a parsed directive.
type Command interface {
	// DexName returns the directive name, e.g. "DexLabel".
	DexName() string
	// Loc returns where the directive sits in its source file.
	Loc() dextir.Loc
	// RawText returns the directive exactly as written.
	RawText() string
	// String re-serializes the directive; parsing the result yields an
	// equivalent command.
	String() string
}

// base carries the source position shared by all commands.
type base struct {
	loc dextir.Loc
	raw string
}

func (b *base) Loc() dextir.Loc { return b.loc }
func (b *base) RawText() string { return b.raw }

// Label binds a symbolic name to the line it appears on, so other
// directives can reference the line without hardcoding its number.
type Label struct {
	base
	Name string
}

func (c *Label) DexName() string { return NameLabel }

func (c *Label) String() string {
	return fmt.Sprintf("%s(%s)", NameLabel, quote(c.Name))
}

// LineRef is a line reference in a directive: either an explicit line
// number or a label name resolved against the file's labels.
type LineRef struct {
	Label string // label name; empty for an explicit line
	Line  int    // explicit line, or the label's line once resolved
}

// IsLabel reports whether the reference was written as a label.
func (r LineRef) IsLabel() bool { return r.Label != "" }

// IsZero reports whether the reference was absent from the directive.
func (r LineRef) IsZero() bool { return r.Label == "" && r.Line == 0 }

func (r LineRef) String() string {
	if r.IsLabel() {
		return quote(r.Label)
	}
	return strconv.Itoa(r.Line)
}

// ExpectWatchValue asserts that an expression takes an ordered sequence of
// values at successive stops on a line or inclusive line range.
type ExpectWatchValue struct {
	base
	Expr   string
	Values []string

	// Exactly one of OnLine or the FromLine/ToLine pair is set.
	OnLine   LineRef
	FromLine LineRef
	ToLine   LineRef

	// RequireInOrder demands the values appear in the listed order.
	// Directives may relax it with require_in_order=False.
	RequireInOrder bool

	resolved bool
	from, to int
}

func (c *ExpectWatchValue) DexName() string { return NameExpectWatchValue }

// Range returns the resolved inclusive line range. It is only valid after
// the file's labels have been resolved.
func (c *ExpectWatchValue) Range() (from, to int) {
	return c.from, c.to
}

// Resolved reports whether label references have been resolved to lines.
func (c *ExpectWatchValue) Resolved() bool { return c.resolved }

func (c *ExpectWatchValue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s", NameExpectWatchValue, quote(c.Expr))
	for _, v := range c.Values {
		fmt.Fprintf(&b, ", %s", quote(v))
	}
	if !c.OnLine.IsZero() {
		fmt.Fprintf(&b, ", on_line=%s", c.OnLine)
	} else {
		fmt.Fprintf(&b, ", from_line=%s, to_line=%s", c.FromLine, c.ToLine)
	}
	if !c.RequireInOrder {
		b.WriteString(", require_in_order=False")
	}
	b.WriteString(")")
	return b.String()
}

// ExpectStepKind asserts how many steps in the recorded trace are
// classified as the given kind. A count of zero asserts the kind never
// occurs, e.g. DexExpectStepKind('FUNC_EXTERNAL', 0) fails if the
// debugger ever stepped into a function outside the test's sources.
type ExpectStepKind struct {
	base
	Kind  dextir.StepKind
	Count int
}

func (c *ExpectStepKind) DexName() string { return NameExpectStepKind }

func (c *ExpectStepKind) String() string {
	return fmt.Sprintf("%s(%s, %d)", NameExpectStepKind, quote(string(c.Kind)), c.Count)
}

// quote renders a string as a single-quoted directive literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// ---------------------------------------------------------------------------
// Parse errors
// ---------------------------------------------------------------------------

// ParseError describes a malformed directive, with enough context to point
// a caret at the offending column.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Info   string
	Src    string // the full source line
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s(%d): %s", e.Path, e.Line, e.Info)
}

// Caret returns a line of spaces with a ^ under the error column.
func (e *ParseError) Caret() string {
	if e.Column < 1 {
		return "^"
	}
	return strings.Repeat(" ", e.Column-1) + "^"
}

// Pretty renders the error with its source line and caret.
func (e *ParseError) Pretty() string {
	return fmt.Sprintf("%s\n%s\n%s", e.Error(), e.Src, e.Caret())
}
