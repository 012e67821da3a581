package dextir

import (
	"strings"
	"testing"
)

func step(fn, path string, line int) *Step {
	return &Step{Function: fn, Loc: Loc{Path: path, Line: line}}
}

func TestAddStepClassification(t *testing.T) {
	tr := New("a.out", []string{"test.c"})

	tests := []struct {
		step *Step
		want StepKind
	}{
		// First step lands in a source file.
		{step("main", "test.c", 10), KindFunc},
		// Stepping forward and backward inside main.
		{step("main", "test.c", 11), KindForward},
		{step("main", "test.c", 11), KindSame},
		{step("main", "test.c", 10), KindBackward},
		// Into a function outside the source set.
		{step("memcpy", "/usr/src/string.c", 40), KindFuncExternal},
		// Back into a source function.
		{step("init", "test.c", 3), KindFunc},
		// Into a function with no location info.
		{step("stub", "", 0), KindFuncUnknown},
		// No function at all.
		{step("", "test.c", 1), KindUnknown},
		// The step after an unknown function is unknown too.
		{step("main", "test.c", 12), KindUnknown},
	}

	for i, tc := range tests {
		got := tr.AddStep(tc.step)
		if got.Kind != tc.want {
			t.Errorf("step %d: kind = %s, want %s", i, got.Kind, tc.want)
		}
		if got.Index != i {
			t.Errorf("step %d: index = %d", i, got.Index)
		}
	}
}

func TestReclassify(t *testing.T) {
	tr := New("a.out", []string{"test.c"})
	tr.AddStep(step("main", "test.c", 1))
	tr.AddStep(step("main", "test.c", 2))

	// Forget the kinds and recompute.
	for _, s := range tr.Steps {
		s.Kind = ""
	}
	tr.Reclassify()

	if tr.Steps[0].Kind != KindFunc {
		t.Errorf("step 0 kind = %s, want %s", tr.Steps[0].Kind, KindFunc)
	}
	if tr.Steps[1].Kind != KindForward {
		t.Errorf("step 1 kind = %s, want %s", tr.Steps[1].Kind, KindForward)
	}
}

func TestKindFromString(t *testing.T) {
	if _, err := KindFromString("FUNC_EXTERNAL"); err != nil {
		t.Errorf("FUNC_EXTERNAL rejected: %v", err)
	}
	if _, err := KindFromString("SIDEWAYS"); err == nil {
		t.Error("SIDEWAYS accepted, want error")
	}
}

func TestLocCompare(t *testing.T) {
	a := Loc{Path: "t.c", Line: 5, Column: 1}
	b := Loc{Path: "t.c", Line: 7, Column: 1}
	if a.Compare(b) >= 0 {
		t.Error("a should order before b")
	}
	if b.Compare(a) <= 0 {
		t.Error("b should order after a")
	}
	if a.Compare(a) != 0 {
		t.Error("a should compare equal to itself")
	}
	// Different files order lexically by path, line numbers aside.
	c := Loc{Path: "u.c", Line: 1}
	if a.Compare(c) >= 0 {
		t.Error("t.c should order before u.c")
	}
	if c.Compare(a) <= 0 {
		t.Error("u.c should order after t.c")
	}
}

func TestCrossFileStepsAreOrdered(t *testing.T) {
	// A same-named function continuing in another file must not read as
	// forward motion just because the branch fell through.
	tr := New("a.out", []string{"b.c"})
	tr.AddStep(step("f", "b.c", 10))
	s := tr.AddStep(step("f", "a.c", 99))
	if s.Kind != KindBackward {
		t.Errorf("kind = %s, want %s (a.c orders before b.c)", s.Kind, KindBackward)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tr := New("a.out", []string{"test.c"})
	s := tr.AddStep(step("main", "test.c", 10))
	s.Watches = map[string]string{"x": "42"}

	data, err := tr.EncodeJSON()
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	back, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if back.NumSteps() != 1 {
		t.Fatalf("NumSteps = %d, want 1", back.NumSteps())
	}
	got := back.Steps[0]
	if got.Kind != KindFunc || got.Watches["x"] != "42" {
		t.Errorf("step = %+v", got)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	tr := New("a.out", []string{"test.c"})
	tr.AddStep(step("main", "test.c", 10))

	data, err := MarshalTrace(tr)
	if err != nil {
		t.Fatalf("MarshalTrace: %v", err)
	}
	back, err := UnmarshalTrace(data)
	if err != nil {
		t.Fatalf("UnmarshalTrace: %v", err)
	}
	if back.NumSteps() != 1 || back.Steps[0].Function != "main" {
		t.Errorf("trace = %+v", back)
	}

	// Canonical mode: same trace, same bytes.
	again, err := MarshalTrace(tr)
	if err != nil {
		t.Fatalf("MarshalTrace: %v", err)
	}
	if string(data) != string(again) {
		t.Error("canonical encoding is not deterministic")
	}
}

func TestRender(t *testing.T) {
	tr := New("a.out", []string{"test.c"})
	tr.AddStep(step("main", "test.c", 10))
	tr.AddStep(step("main", "test.c", 11))

	var b strings.Builder
	Render(&b, tr, false)
	out := b.String()

	if !strings.HasPrefix(out, "## BEGIN ##\n") {
		t.Errorf("missing BEGIN frame:\n%s", out)
	}
	if !strings.Contains(out, "## END (2 steps) ##") {
		t.Errorf("missing END frame:\n%s", out)
	}
	if !strings.Contains(out, "FORWARD") {
		t.Errorf("missing step line:\n%s", out)
	}
}
