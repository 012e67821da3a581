package dextir

import "fmt"

// ---------------------------------------------------------------------------
// Loc: a source position reported by the debugger
// ---------------------------------------------------------------------------

// Loc identifies a source position in a stopped program. Column may be zero
// when the debugger does not report one.
type Loc struct {
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// Known reports whether the location carries a source path at all.
// Steps through code without line tables (PLT stubs, stripped libraries)
// come back with no path.
func (l Loc) Known() bool {
	return l.Path != ""
}

// Equal reports whether two locations are the same position.
func (l Loc) Equal(o Loc) bool {
	return l.Path == o.Path && l.Line == o.Line && l.Column == o.Column
}

// Compare orders two locations as (path, line, column) tuples: negative
// when l is before o, positive when after, zero when equal. The path
// ordering is lexical; it keeps cross-file steps of a same-named function
// from all classifying as forward motion.
func (l Loc) Compare(o Loc) int {
	if l.Path != o.Path {
		if l.Path < o.Path {
			return -1
		}
		return 1
	}
	if l.Line != o.Line {
		if l.Line < o.Line {
			return -1
		}
		return 1
	}
	if l.Column != o.Column {
		if l.Column < o.Column {
			return -1
		}
		return 1
	}
	return 0
}

func (l Loc) String() string {
	if !l.Known() {
		return "<unknown>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.Path, l.Line)
}
