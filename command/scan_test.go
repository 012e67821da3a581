package command

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFileVLA(t *testing.T) {
	fc, err := ParseFile(filepath.Join("..", "testdata", "vla.c"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if len(fc.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(fc.Commands))
	}
	if diff := cmp.Diff([]string{"linux", "clang", "lldb"}, fc.Requires); diff != "" {
		t.Errorf("Requires mismatch (-want +got):\n%s", diff)
	}
	wantRun := `dexgo test --fail-lt 1.0 --builder clang-c --debugger lldb --cflags "-O0 -glldb" -- %s`
	if fc.RunLine != wantRun {
		t.Errorf("RunLine = %q, want %q", fc.RunLine, wantRun)
	}

	if line, ok := fc.Labels["end_init"]; !ok || line != 12 {
		t.Errorf("Labels[end_init] = %d, %v; want 12, true", line, ok)
	}

	// Label references resolve to the DexLabel line.
	for _, cmd := range fc.Commands[1:] {
		c, ok := cmd.(*ExpectWatchValue)
		if !ok {
			t.Fatalf("got %T, want *ExpectWatchValue", cmd)
		}
		from, to := c.Range()
		if from != 12 || to != 12 {
			t.Errorf("%s: Range() = (%d, %d), want (12, 12)", c.Expr, from, to)
		}
		if !c.Resolved() {
			t.Errorf("%s: not resolved", c.Expr)
		}
	}
}

func TestParseFileFibonacci(t *testing.T) {
	fc, err := ParseFile(filepath.Join("..", "testdata", "fibonacci_unpack.cpp"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	var watches, kinds int
	for _, cmd := range fc.Commands {
		switch cmd.(type) {
		case *ExpectWatchValue:
			watches++
		case *ExpectStepKind:
			kinds++
		}
	}
	if watches != 7 || kinds != 1 {
		t.Errorf("got %d watch and %d step-kind commands, want 7 and 1", watches, kinds)
	}

	want := []string{"i", "first", "second", "localtotal", "next", "total"}
	if diff := cmp.Diff(want, fc.WatchExpressions()); diff != "" {
		t.Errorf("WatchExpressions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileStaticLoop(t *testing.T) {
	fc, err := ParseFile(filepath.Join("..", "testdata", "static_loop_variables.cpp"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(fc.Commands) != 7 {
		t.Fatalf("got %d commands, want 7", len(fc.Commands))
	}

	// The val trace at the loop body line.
	c := fc.Commands[4].(*ExpectWatchValue)
	if c.Expr != "val" {
		t.Fatalf("command 4 watches %q, want val", c.Expr)
	}
	if diff := cmp.Diff([]string{"6", "56", "106", "256", "356"}, c.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
	from, to := c.Range()
	if from != 8 || to != 8 {
		t.Errorf("Range() = (%d, %d), want (8, 8)", from, to)
	}
}

func TestDuplicateLabel(t *testing.T) {
	src := "int a; // DexLabel('here')\nint b; // DexLabel('here')\n"
	_, err := ParseSource("t.c", src)
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("error line = %d, want 2", perr.Line)
	}
}

func TestUndeclaredLabel(t *testing.T) {
	src := "// DexExpectWatchValue('x', '1', on_line='nowhere')\n"
	_, err := ParseSource("t.c", src)
	if err == nil {
		t.Fatal("ParseSource succeeded, want undeclared label error")
	}
}

func TestDirectiveOutsideComment(t *testing.T) {
	// Only text after // is scanned; this line has no comment at all.
	src := "int DexLabel = 3;\n"
	fc, err := ParseSource("t.c", src)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if len(fc.Commands) != 0 {
		t.Errorf("got %d commands, want 0", len(fc.Commands))
	}
}

func TestDirectiveNameBoundary(t *testing.T) {
	// MyDexLabel is not a directive.
	src := "// MyDexLabel('x')\n"
	fc, err := ParseSource("t.c", src)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if len(fc.Commands) != 0 {
		t.Errorf("got %d commands, want 0", len(fc.Commands))
	}
}
