package debugger

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dexgo/dexgo/dextir"
)

// gdb runs its Python block in-process, so the script is a gdb command
// file rather than a standalone program.
const gdbScriptTemplate = `
set confirm off
set pagination off

python
import json
import time

import gdb

def emit(function, path, line, column, watches):
	rec = {"function": function, "path": path, "line": line, "column": column, "watches": watches}
	print("DEXGO: " + json.dumps(rec))

def snapshot():
	frame = gdb.selected_frame()
	function = frame.name() or ""
	sal = frame.find_sal()
	path = ""
	line = 0
	if sal.symtab is not None:
		path = sal.symtab.fullname() or sal.symtab.filename
		line = sal.line
	watches = {}
	for expr in [{{range $e := .Expressions}}{{$e | printf "%q"}}, {{end}}]:
		try:
			watches[expr] = str(gdb.parse_and_eval(expr))
		except gdb.error:
			pass
	emit(function, path, line, 0, watches)

gdb.execute("tbreak main")
gdb.execute("run")

steps = 0
while steps < {{.MaxSteps}}:
	try:
		snapshot()
	except gdb.error:
		break
	try:
		gdb.execute("step")
	except gdb.error:
		break
	steps += 1
	{{if .PauseSecs}}time.sleep({{.PauseSecs}}){{end}}
end

quit
`

// Gdb captures traces through gdb's batch mode.
type Gdb struct{}

func init() {
	Register(&Gdb{})
}

func (g *Gdb) Name() string { return "gdb" }

func (g *Gdb) Version() (string, error) {
	path, err := exec.LookPath("gdb")
	if err != nil {
		return "", fmt.Errorf("gdb not found: %w", err)
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("gdb --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *Gdb) Capture(ctx context.Context, req CaptureRequest) (*dextir.Trace, error) {
	gdbPath, err := exec.LookPath("gdb")
	if err != nil {
		return nil, fmt.Errorf("debugger: gdb not found: %w", err)
	}

	script, err := renderScript(gdbScriptTemplate, scriptData{
		Executable:  req.Executable,
		Expressions: req.Expressions,
		MaxSteps:    req.MaxSteps,
		PauseSecs:   req.Pause.Seconds(),
	})
	if err != nil {
		return nil, err
	}
	defer os.Remove(script)

	cmd := exec.CommandContext(ctx, gdbPath, "--batch", "--nx", "-x", script, req.Executable)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Infof("running gdb script for %s", req.Executable)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("debugger: gdb failed: %w\n%s", err, stderr.String())
	}

	trace := dextir.New(req.Executable, req.SourcePaths)
	trace.Debugger = g.Name()
	if err := ParseRecords(&stdout, trace); err != nil {
		return nil, err
	}
	return trace, nil
}
