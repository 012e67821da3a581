package dextir

import (
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Step: one debugger stop event and its classification
// ---------------------------------------------------------------------------

// StepKind classifies a single step event relative to the step before it.
type StepKind string

const (
	// KindFunc is a step into a function defined in one of the test's
	// own source files.
	KindFunc StepKind = "FUNC"
	// KindFuncExternal is a step into a function defined outside the
	// test's source files.
	KindFuncExternal StepKind = "FUNC_EXTERNAL"
	// KindFuncUnknown is a step into a function with no source location.
	KindFuncUnknown StepKind = "FUNC_UNKNOWN"
	// KindForward is a step to a later location in the same function.
	KindForward StepKind = "FORWARD"
	// KindBackward is a step to an earlier location in the same function.
	KindBackward StepKind = "BACKWARD"
	// KindSame is a step that stayed on the same location.
	KindSame StepKind = "SAME"
	// KindUnknown is a step with no current function.
	KindUnknown StepKind = "UNKNOWN"
)

var knownKinds = map[StepKind]bool{
	KindFunc:         true,
	KindFuncExternal: true,
	KindFuncUnknown:  true,
	KindForward:      true,
	KindBackward:     true,
	KindSame:         true,
	KindUnknown:      true,
}

// KindFromString validates a step-kind name as written in a directive.
func KindFromString(s string) (StepKind, error) {
	k := StepKind(s)
	if !knownKinds[k] {
		return "", fmt.Errorf("dextir: unknown step kind %q", s)
	}
	return k, nil
}

// KindNames returns all step-kind names, sorted.
func KindNames() []string {
	names := make([]string, 0, len(knownKinds))
	for k := range knownKinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// isFuncKind reports whether the kind marks a function change.
func (k StepKind) isFuncKind() bool {
	return k == KindFunc || k == KindFuncExternal || k == KindFuncUnknown
}

// Step is a single debugger stop: where the program was, what function it
// was in, and the values the debugger reported for the watched expressions.
type Step struct {
	Index    int               `json:"index"`
	Function string            `json:"function,omitempty"`
	Loc      Loc               `json:"loc"`
	Watches  map[string]string `json:"watches,omitempty"`
	Kind     StepKind          `json:"kind"`
}

// Watch returns the reported value for an expression at this step.
func (s *Step) Watch(expr string) (string, bool) {
	v, ok := s.Watches[expr]
	return v, ok
}

func (s *Step) String() string {
	fn := s.Function
	if fn == "" {
		fn = "?"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%4d. %-13s %-16s %s", s.Index, s.Kind, fn, s.Loc)
	if len(s.Watches) > 0 {
		exprs := make([]string, 0, len(s.Watches))
		for e := range s.Watches {
			exprs = append(exprs, e)
		}
		sort.Strings(exprs)
		parts := make([]string, len(exprs))
		for i, e := range exprs {
			parts[i] = e + "=" + s.Watches[e]
		}
		fmt.Fprintf(&b, "  [%s]", strings.Join(parts, " "))
	}
	return b.String()
}
