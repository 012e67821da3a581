package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	if m.Build.Builder != "clang-c" {
		t.Errorf("Builder = %q, want clang-c", m.Build.Builder)
	}
	if m.Debug.Debugger != "lldb" {
		t.Errorf("Debugger = %q, want lldb", m.Debug.Debugger)
	}
	if m.Debug.MaxSteps != 1000 {
		t.Errorf("MaxSteps = %d, want 1000", m.Debug.MaxSteps)
	}
	if m.Test.FailLt != 1.0 {
		t.Errorf("FailLt = %v, want 1.0", m.Test.FailLt)
	}
	if diff := cmp.Diff([]string{"tests"}, m.Test.Dirs); diff != "" {
		t.Errorf("Dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[build]
builder = "gcc"
cflags = ["-O0", "-g"]

[debug]
debugger = "gdb"
max-steps = 250
pause = 0.5

[test]
fail-lt = 0.8
dirs = ["cases", "regress"]
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Build.Builder != "gcc" {
		t.Errorf("Builder = %q, want gcc", m.Build.Builder)
	}
	if diff := cmp.Diff([]string{"-O0", "-g"}, m.Build.CFlags); diff != "" {
		t.Errorf("CFlags mismatch (-want +got):\n%s", diff)
	}
	if m.Debug.Debugger != "gdb" {
		t.Errorf("Debugger = %q, want gdb", m.Debug.Debugger)
	}
	if m.Debug.MaxSteps != 250 {
		t.Errorf("MaxSteps = %d, want 250", m.Debug.MaxSteps)
	}
	if m.Debug.Pause != 0.5 {
		t.Errorf("Pause = %v, want 0.5", m.Debug.Pause)
	}
	if m.Test.FailLt != 0.8 {
		t.Errorf("FailLt = %v, want 0.8", m.Test.FailLt)
	}
	if diff := cmp.Diff([]string{"cases", "regress"}, m.Test.Dirs); diff != "" {
		t.Errorf("Dirs mismatch (-want +got):\n%s", diff)
	}
	if !filepath.IsAbs(m.Dir) {
		t.Errorf("Dir = %q, want absolute path", m.Dir)
	}
}

func TestLoadPartialGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[debug]
debugger = "gdb"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Debug.Debugger != "gdb" {
		t.Errorf("Debugger = %q, want gdb", m.Debug.Debugger)
	}
	if m.Build.Builder != "clang-c" {
		t.Errorf("Builder = %q, want default clang-c", m.Build.Builder)
	}
	if m.Debug.MaxSteps != 1000 {
		t.Errorf("MaxSteps = %d, want default 1000", m.Debug.MaxSteps)
	}
}

func TestLoadBadToml(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[build\nbuilder =")

	if _, err := Load(dir); err == nil {
		t.Error("Load succeeded on malformed toml")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[build]
builder = "gcc-c"
`)
	nested := filepath.Join(root, "tests", "nested")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m.Build.Builder != "gcc-c" {
		t.Errorf("Builder = %q, want gcc-c", m.Build.Builder)
	}
}

func TestFindAndLoadDefaultsWhenAbsent(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if diff := cmp.Diff(Default(), m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}
