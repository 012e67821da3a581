// Package dextir models a recorded debugger step trace: the ordered stop
// events a debugger produced while single-stepping a test program, each
// classified relative to the step before it.
package dextir

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// Version is the trace format version stamped into exported traces.
const Version = "0.2"

// Trace is an ordered collection of steps recorded for one executable,
// together with how the executable was produced and stepped.
type Trace struct {
	Version     string   `json:"version"`
	Executable  string   `json:"executable,omitempty"`
	SourcePaths []string `json:"source_paths,omitempty"`
	Builder     string   `json:"builder,omitempty"`
	Debugger    string   `json:"debugger,omitempty"`
	Steps       []*Step  `json:"steps"`
}

// New creates an empty trace for the given executable and source files.
func New(executable string, sourcePaths []string) *Trace {
	return &Trace{
		Version:     Version,
		Executable:  executable,
		SourcePaths: sourcePaths,
	}
}

// NumSteps returns the number of recorded steps.
func (t *Trace) NumSteps() int {
	return len(t.Steps)
}

// ClearSteps drops recorded steps but keeps the trace metadata.
func (t *Trace) ClearSteps() {
	t.Steps = nil
}

// inSources reports whether a path is one of the trace's source files.
func (t *Trace) inSources(path string) bool {
	clean := filepath.Clean(path)
	for _, p := range t.SourcePaths {
		if filepath.Clean(p) == clean {
			return true
		}
	}
	return false
}

// funcKind classifies a step that entered a new function.
func (t *Trace) funcKind(s *Step) StepKind {
	switch {
	case !s.Loc.Known():
		return KindFuncUnknown
	case t.inSources(s.Loc.Path):
		return KindFunc
	default:
		return KindFuncExternal
	}
}

// AddStep appends a step, assigning its index and classifying its kind
// relative to the previous step. The classification depends only on the
// immediately preceding step.
func (t *Trace) AddStep(s *Step) *Step {
	s.Index = len(t.Steps)

	switch {
	case s.Function == "":
		s.Kind = KindUnknown
	case len(t.Steps) == 0:
		s.Kind = t.funcKind(s)
	default:
		prev := t.Steps[len(t.Steps)-1]
		switch {
		case prev.Function == "":
			s.Kind = KindUnknown
		case prev.Function != s.Function:
			s.Kind = t.funcKind(s)
		case prev.Loc.Equal(s.Loc):
			s.Kind = KindSame
		case prev.Loc.Compare(s.Loc) > 0:
			s.Kind = KindBackward
		default:
			s.Kind = KindForward
		}
	}

	t.Steps = append(t.Steps, s)
	return s
}

// EncodeJSON serializes the trace for interchange with other tools.
func (t *Trace) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("dextir: encode trace: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a trace previously produced by EncodeJSON. Step kinds
// are trusted as recorded; re-run classification with Reclassify if the
// source-path set changed.
func DecodeJSON(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("dextir: decode trace: %w", err)
	}
	for i, s := range t.Steps {
		if s == nil {
			return nil, fmt.Errorf("dextir: decode trace: step %d is null", i)
		}
	}
	return &t, nil
}

// Reclassify recomputes every step's kind from scratch, preserving order.
func (t *Trace) Reclassify() {
	steps := t.Steps
	t.Steps = nil
	for _, s := range steps {
		t.AddStep(s)
	}
}
