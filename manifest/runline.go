package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// RUN: line parsing
// ---------------------------------------------------------------------------

// RunSpec is the per-file override a test's RUN: line applies on top of the
// manifest: which builder and debugger to use, their flags, and the pass
// threshold.
type RunSpec struct {
	Builder  string
	Debugger string
	CFlags   []string
	LDFlags  []string
	FailLt   *float64 // nil when the RUN line does not set it
}

// ParseRunLine parses an already-joined RUN: invocation such as
//
//	dexgo test --fail-lt 1.0 -w --builder clang-c --debugger lldb --cflags "-O0 -glldb" -- %S
//
// Only the flags dexgo understands are extracted; unknown flags and the
// trailing path placeholder are ignored.
func ParseRunLine(line string) (*RunSpec, error) {
	fields, err := splitQuoted(line)
	if err != nil {
		return nil, fmt.Errorf("manifest: RUN line: %w", err)
	}

	spec := &RunSpec{}
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch f {
		case "--builder", "--debugger", "--cflags", "--ldflags", "--fail-lt":
			if i+1 >= len(fields) {
				return nil, fmt.Errorf("manifest: RUN line: %s needs a value", f)
			}
			i++
			v := fields[i]
			switch f {
			case "--builder":
				spec.Builder = v
			case "--debugger":
				spec.Debugger = v
			case "--cflags":
				spec.CFlags = strings.Fields(v)
			case "--ldflags":
				spec.LDFlags = strings.Fields(v)
			case "--fail-lt":
				lt, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("manifest: RUN line: bad --fail-lt %q", v)
				}
				spec.FailLt = &lt
			}
		case "--":
			// Everything after -- is the harness's positional input.
			i = len(fields)
		}
	}
	return spec, nil
}

// Apply overlays the RUN line's settings onto a copy of the manifest.
func (s *RunSpec) Apply(m *Manifest) *Manifest {
	out := *m
	if s.Builder != "" {
		out.Build.Builder = s.Builder
	}
	if s.Debugger != "" {
		out.Debug.Debugger = s.Debugger
	}
	if len(s.CFlags) > 0 {
		out.Build.CFlags = s.CFlags
	}
	if len(s.LDFlags) > 0 {
		out.Build.LDFlags = s.LDFlags
	}
	if s.FailLt != nil {
		out.Test.FailLt = *s.FailLt
	}
	return &out
}

// splitQuoted splits a command line into fields, honoring double and single
// quotes the way a POSIX shell does for simple cases.
func splitQuoted(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inField := false
	var quote byte

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteByte(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inField = true
		case ch == ' ' || ch == '\t':
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteByte(ch)
			inField = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unbalanced %c quote", quote)
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
