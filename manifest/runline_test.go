package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func floatPtr(v float64) *float64 { return &v }

func TestParseRunLine(t *testing.T) {
	line := `dexgo test --fail-lt 1.0 -w --builder clang-c --debugger lldb ` +
		`--cflags "-O0 -glldb" --ldflags "-lm" -- %S`

	spec, err := ParseRunLine(line)
	if err != nil {
		t.Fatalf("ParseRunLine failed: %v", err)
	}
	want := &RunSpec{
		Builder:  "clang-c",
		Debugger: "lldb",
		CFlags:   []string{"-O0", "-glldb"},
		LDFlags:  []string{"-lm"},
		FailLt:   floatPtr(1.0),
	}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Errorf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRunLineFailLtZero(t *testing.T) {
	// An explicit zero threshold is a real setting, not an unset field.
	spec, err := ParseRunLine("dexgo test --fail-lt 0")
	if err != nil {
		t.Fatalf("ParseRunLine failed: %v", err)
	}
	if spec.FailLt == nil || *spec.FailLt != 0 {
		t.Fatalf("FailLt = %v, want pointer to 0", spec.FailLt)
	}

	out := spec.Apply(Default())
	if out.Test.FailLt != 0 {
		t.Errorf("applied FailLt = %v, want 0", out.Test.FailLt)
	}
}

func TestParseRunLineStopsAtDashDash(t *testing.T) {
	spec, err := ParseRunLine("dexgo test -- --builder gcc")
	if err != nil {
		t.Fatalf("ParseRunLine failed: %v", err)
	}
	if spec.Builder != "" {
		t.Errorf("Builder = %q, want empty (flag after --)", spec.Builder)
	}
}

func TestParseRunLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing value", "dexgo test --builder"},
		{"bad fail-lt", "dexgo test --fail-lt abc"},
		{"unbalanced quote", `dexgo test --cflags "-O0`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRunLine(tc.line); err == nil {
				t.Errorf("ParseRunLine(%q) succeeded, want error", tc.line)
			}
		})
	}
}

func TestRunSpecApply(t *testing.T) {
	m := Default()
	m.Build.CFlags = []string{"-g"}

	spec := &RunSpec{Debugger: "gdb", FailLt: floatPtr(0.9)}
	out := spec.Apply(m)

	if out.Debug.Debugger != "gdb" {
		t.Errorf("Debugger = %q, want gdb", out.Debug.Debugger)
	}
	if out.Test.FailLt != 0.9 {
		t.Errorf("FailLt = %v, want 0.9", out.Test.FailLt)
	}
	// Unset fields keep the manifest's values.
	if out.Build.Builder != "clang-c" {
		t.Errorf("Builder = %q, want clang-c", out.Build.Builder)
	}
	if diff := cmp.Diff([]string{"-g"}, out.Build.CFlags); diff != "" {
		t.Errorf("CFlags mismatch (-want +got):\n%s", diff)
	}
	// The original is untouched.
	if m.Debug.Debugger != "lldb" {
		t.Errorf("original Debugger = %q, want lldb", m.Debug.Debugger)
	}
}

func TestSplitQuoted(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`a b c`, []string{"a", "b", "c"}},
		{`a "b c" d`, []string{"a", "b c", "d"}},
		{`a 'b c'`, []string{"a", "b c"}},
		{`a ""`, []string{"a", ""}},
		{`  spaced   out  `, []string{"spaced", "out"}},
		{`mid"dle quo"te`, []string{"middle quote"}},
	}
	for _, tc := range tests {
		got, err := splitQuoted(tc.input)
		if err != nil {
			t.Errorf("splitQuoted(%q) failed: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("splitQuoted(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}
