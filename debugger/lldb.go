package debugger

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/dexgo/dexgo/dextir"
)

// The script uses the lldb Python API directly, so it runs under the
// system Python with lldb's module path, not inside an lldb session.
const lldbScriptTemplate = `
import json
import os
import sys
import time

import lldb

def emit(function, path, line, column, watches):
	rec = {"function": function, "path": path, "line": line, "column": column, "watches": watches}
	sys.stdout.write("DEXGO: " + json.dumps(rec) + "\n")
	sys.stdout.flush()

debugger = lldb.SBDebugger.Create()
debugger.SkipLLDBInitFiles(True)
debugger.SetAsync(False)

target = debugger.CreateTargetWithFileAndArch({{.Executable | printf "%q"}}, lldb.LLDB_ARCH_DEFAULT)
if not target:
	sys.stderr.write("failed to create target\n")
	sys.exit(1)

bp = target.BreakpointCreateByName("main")
if bp.GetNumLocations() < 1:
	sys.stderr.write("failed to set breakpoint on main\n")
	sys.exit(1)

process = target.LaunchSimple(None, None, os.getcwd())
if not process:
	sys.stderr.write("failed to launch process\n")
	sys.exit(1)

exprs = [{{range $e := .Expressions}}{{$e | printf "%q"}}, {{end}}]

steps = 0
while steps < {{.MaxSteps}}:
	state = process.GetState()
	if state == lldb.eStateExited:
		sys.exit(0)
	if state != lldb.eStateStopped:
		sys.stderr.write("unexpected process state: " + str(state) + "\n")
		sys.exit(1)

	thread = process.GetSelectedThread()
	frame = thread.GetSelectedFrame()

	function = ""
	fn = frame.GetFunctionName()
	if fn is not None:
		function = fn

	path = ""
	line = 0
	column = 0
	le = frame.GetLineEntry()
	fs = le.GetFileSpec()
	if fs.IsValid() and fs.GetFilename() is not None:
		d = fs.GetDirectory()
		path = (d + "/" + fs.GetFilename()) if d else fs.GetFilename()
		line = le.GetLine()
		column = le.GetColumn()

	watches = {}
	for expr in exprs:
		v = frame.EvaluateExpression(expr)
		if v.GetError().Success() and v.GetValue() is not None:
			watches[expr] = v.GetValue()

	emit(function, path, line, column, watches)

	thread.StepInto()
	steps += 1
	{{if .PauseSecs}}time.sleep({{.PauseSecs}}){{end}}

sys.stderr.write("step limit reached\n")
sys.exit(2)
`

// Lldb captures traces through lldb's Python scripting API.
type Lldb struct{}

func init() {
	Register(&Lldb{})
}

func (l *Lldb) Name() string { return "lldb" }

// Version checks that both lldb and a Python interpreter are present.
func (l *Lldb) Version() (string, error) {
	path, err := exec.LookPath("lldb")
	if err != nil {
		return "", fmt.Errorf("lldb not found: %w", err)
	}
	if _, err := pythonPath(); err != nil {
		return "", err
	}
	out, err := exec.Command(path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("lldb --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Capture single-steps the executable from main, recording every stop.
func (l *Lldb) Capture(ctx context.Context, req CaptureRequest) (*dextir.Trace, error) {
	lldbPath, err := exec.LookPath("lldb")
	if err != nil {
		return nil, fmt.Errorf("debugger: lldb not found: %w", err)
	}
	python, err := pythonPath()
	if err != nil {
		return nil, fmt.Errorf("debugger: %w", err)
	}

	// lldb knows where its Python module lives.
	modOut, err := exec.CommandContext(ctx, lldbPath, "--python-path").Output()
	if err != nil {
		return nil, fmt.Errorf("debugger: lldb --python-path: %w", err)
	}
	pythonMod := strings.TrimSpace(string(modOut))

	script, err := renderScript(lldbScriptTemplate, scriptData{
		Executable:  req.Executable,
		Expressions: req.Expressions,
		MaxSteps:    req.MaxSteps,
		PauseSecs:   req.Pause.Seconds(),
	})
	if err != nil {
		return nil, err
	}
	defer os.Remove(script)

	cmd := exec.CommandContext(ctx, python, script)
	cmd.Env = append(os.Environ(), "PYTHONPATH="+pythonMod+string(os.PathListSeparator)+os.Getenv("PYTHONPATH"))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Infof("running lldb script for %s", req.Executable)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("debugger: lldb script failed: %w\n%s", err, stderr.String())
	}

	trace := dextir.New(req.Executable, req.SourcePaths)
	trace.Debugger = l.Name()
	if err := ParseRecords(&stdout, trace); err != nil {
		return nil, err
	}
	return trace, nil
}

type scriptData struct {
	Executable  string
	Expressions []string
	MaxSteps    int
	PauseSecs   float64
}

// renderScript writes a debugger script to a temp file and returns its path.
func renderScript(tmpl string, data interface{}) (string, error) {
	t, err := template.New("script").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("debugger: parse script template: %w", err)
	}
	f, err := os.CreateTemp("", "dexgo-*.py")
	if err != nil {
		return "", fmt.Errorf("debugger: create script: %w", err)
	}
	if err := t.Execute(f, data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("debugger: render script: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("debugger: close script: %w", err)
	}
	return f.Name(), nil
}

// pythonPath finds a Python interpreter able to import the lldb module.
func pythonPath() (string, error) {
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no python interpreter found on PATH")
}
