// Package expect verifies parsed annotation directives against a recorded
// debugger step trace and scores the outcome.
package expect

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dexgo/dexgo/command"
	"github.com/dexgo/dexgo/dextir"
)

// ---------------------------------------------------------------------------
// Violations and penalties
// ---------------------------------------------------------------------------

// ViolationKind names one way an expectation can fail.
type ViolationKind string

const (
	// Missing: an expected value was never observed.
	Missing ViolationKind = "missing"
	// Misordered: an expected value was observed, but out of order.
	Misordered ViolationKind = "misordered"
	// Unexpected: a value was observed that was not expected.
	Unexpected ViolationKind = "unexpected"
	// Irretrievable: the watched expression had no reported value at an
	// in-range step.
	Irretrievable ViolationKind = "irretrievable"
	// WrongKind: the trace contained a different number of steps of the
	// expected kind.
	WrongKind ViolationKind = "wrong step kind count"
)

// penalties weights each violation kind. Missing or unreadable values hurt
// more than values that merely arrived out of order.
var penalties = map[ViolationKind]int{
	Missing:       3,
	Misordered:    2,
	Unexpected:    2,
	Irretrievable: 3,
	WrongKind:     4,
}

// Violation is one concrete expectation failure.
type Violation struct {
	Kind     ViolationKind
	Expected string
	Actual   string
	// StepIndex is the trace step involved, or -1 when no single step
	// applies (e.g. a value that never showed up).
	StepIndex int
}

func (v Violation) Penalty() int {
	return penalties[v.Kind]
}

func (v Violation) String() string {
	switch v.Kind {
	case Missing:
		return fmt.Sprintf("missing value %q", v.Expected)
	case Misordered:
		return fmt.Sprintf("value %q seen out of order (step %d)", v.Expected, v.StepIndex)
	case Unexpected:
		return fmt.Sprintf("unexpected value %q (step %d)", v.Actual, v.StepIndex)
	case Irretrievable:
		return fmt.Sprintf("no value reported at step %d", v.StepIndex)
	case WrongKind:
		return fmt.Sprintf("expected %s step(s), counted %s", v.Expected, v.Actual)
	}
	return string(v.Kind)
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// Result is the outcome of checking a single directive.
type Result struct {
	Command    command.Command
	Violations []Violation

	maxPenalty int
}

// Passed reports whether the directive held.
func (r *Result) Passed() bool {
	return len(r.Violations) == 0
}

// Penalty sums the violation penalties, capped at MaxPenalty.
func (r *Result) Penalty() int {
	p := 0
	for _, v := range r.Violations {
		p += v.Penalty()
	}
	if p > r.maxPenalty {
		p = r.maxPenalty
	}
	return p
}

// MaxPenalty is the worst score this directive can contribute.
func (r *Result) MaxPenalty() int {
	return r.maxPenalty
}

// FileResult aggregates the results for one annotated source file.
type FileResult struct {
	Path    string
	Results []*Result
}

// Score is 1.0 for a clean pass, falling toward 0.0 as expectations fail.
// A file with no expectations scores 1.0.
func (fr *FileResult) Score() float64 {
	total, max := 0, 0
	for _, r := range fr.Results {
		total += r.Penalty()
		max += r.MaxPenalty()
	}
	if max == 0 {
		return 1.0
	}
	score := 1.0 - float64(total)/float64(max)
	if score < 0 {
		score = 0
	}
	return score
}

// Passed reports whether the score meets the pass threshold: a run fails
// when its score drops below failLt.
func (fr *FileResult) Passed(failLt float64) bool {
	return fr.Score() >= failLt
}

// NumViolations counts violations across all directives.
func (fr *FileResult) NumViolations() int {
	n := 0
	for _, r := range fr.Results {
		n += len(r.Violations)
	}
	return n
}

// ---------------------------------------------------------------------------
// Checking
// ---------------------------------------------------------------------------

// Check verifies every expectation in fc against the trace. Labels in fc
// must already be resolved (ParseSource does this). Neither the commands
// nor the trace are modified.
func Check(fc *command.FileCommands, trace *dextir.Trace) *FileResult {
	fr := &FileResult{Path: fc.Path}
	for _, cmd := range fc.Commands {
		switch c := cmd.(type) {
		case *command.ExpectWatchValue:
			fr.Results = append(fr.Results, checkWatch(c, trace, fc.Path))
		case *command.ExpectStepKind:
			fr.Results = append(fr.Results, checkStepKind(c, trace))
		}
	}
	return fr
}

// observation is one reported value for a watched expression.
type observation struct {
	value string
	step  int
}

// checkWatch collects the expression's reported values at every in-range
// step and compares the sequence against the expected one.
func checkWatch(c *command.ExpectWatchValue, trace *dextir.Trace, path string) *Result {
	r := &Result{
		Command:    c,
		maxPenalty: len(c.Values) * penalties[Missing],
	}
	from, to := c.Range()

	var observed []observation
	for _, s := range trace.Steps {
		if !sameFile(s.Loc.Path, path) || s.Loc.Line < from || s.Loc.Line > to {
			continue
		}
		v, ok := s.Watch(c.Expr)
		if !ok {
			r.Violations = append(r.Violations, Violation{
				Kind:      Irretrievable,
				Expected:  c.Expr,
				StepIndex: s.Index,
			})
			continue
		}
		// A value that sits unchanged across several stepped lines is one
		// observation, so expectations list value changes, not stops.
		if len(observed) > 0 && observed[len(observed)-1].value == v {
			continue
		}
		observed = append(observed, observation{value: v, step: s.Index})
	}

	matched := make([]bool, len(observed))
	frontier := 0
	for _, want := range c.Values {
		// Look for the value at or past the last in-order match.
		inOrder := -1
		for j := frontier; j < len(observed); j++ {
			if !matched[j] && observed[j].value == want {
				inOrder = j
				break
			}
		}
		if inOrder >= 0 {
			matched[inOrder] = true
			frontier = inOrder + 1
			continue
		}

		// Not found in order; it may have shown up earlier.
		anywhere := -1
		for j := range observed {
			if !matched[j] && observed[j].value == want {
				anywhere = j
				break
			}
		}
		switch {
		case anywhere >= 0 && c.RequireInOrder:
			matched[anywhere] = true
			r.Violations = append(r.Violations, Violation{
				Kind:      Misordered,
				Expected:  want,
				Actual:    observed[anywhere].value,
				StepIndex: observed[anywhere].step,
			})
		case anywhere >= 0:
			matched[anywhere] = true
		default:
			r.Violations = append(r.Violations, Violation{
				Kind:      Missing,
				Expected:  want,
				StepIndex: -1,
			})
		}
	}

	for j, obs := range observed {
		if !matched[j] {
			r.Violations = append(r.Violations, Violation{
				Kind:      Unexpected,
				Actual:    obs.value,
				StepIndex: obs.step,
			})
		}
	}
	return r
}

// checkStepKind counts the trace's steps of the directive's kind and
// compares against the expected count. A count of zero asserts the kind
// never occurred, which is how the fixtures confirm a function was not
// inlined: stepping into it must never classify as external.
func checkStepKind(c *command.ExpectStepKind, trace *dextir.Trace) *Result {
	r := &Result{
		Command:    c,
		maxPenalty: penalties[WrongKind],
	}
	count := 0
	for _, s := range trace.Steps {
		if s.Kind == c.Kind {
			count++
		}
	}
	if count != c.Count {
		r.Violations = append(r.Violations, Violation{
			Kind:      WrongKind,
			Expected:  fmt.Sprintf("%d %s", c.Count, c.Kind),
			Actual:    strconv.Itoa(count),
			StepIndex: -1,
		})
	}
	return r
}

// sameFile matches a trace path against the annotated file's path. Traces
// often record absolute paths while directives are checked against the
// path the file was parsed from, so fall back to base-name equality.
func sameFile(tracePath, cmdPath string) bool {
	if tracePath == "" {
		return false
	}
	if filepath.Clean(tracePath) == filepath.Clean(cmdPath) {
		return true
	}
	return filepath.Base(tracePath) == filepath.Base(cmdPath)
}
