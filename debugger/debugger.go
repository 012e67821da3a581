// Package debugger drives debuggers to capture step traces from compiled
// test programs. Drivers register themselves by option name; availability
// is probed lazily so listing debuggers works on machines missing some of
// them.
package debugger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dexgo/dexgo/dextir"
)

var log = commonlog.GetLogger("dexgo.debugger")

// CaptureRequest tells a driver what to run and what to watch.
type CaptureRequest struct {
	Executable  string
	SourcePaths []string
	// Expressions are evaluated at every step and recorded as watches.
	Expressions []string
	// MaxSteps bounds how long a runaway program is stepped.
	MaxSteps int
	// Pause is an optional delay between steps.
	Pause time.Duration
}

// Driver is a debugger backend able to single-step an executable and
// report each stop.
type Driver interface {
	// Name returns the option name used to select the driver.
	Name() string
	// Version probes availability, returning the debugger's version
	// output or an error describing why it cannot be used.
	Version() (string, error)
	// Capture steps the executable to completion (or MaxSteps) and
	// returns the classified trace.
	Capture(ctx context.Context, req CaptureRequest) (*dextir.Trace, error)
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

var (
	registryMu sync.Mutex
	registry   = make(map[string]Driver)
)

// Register adds a driver under its option name. Registering two drivers
// with one name is a programming error.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := d.Name()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("debugger: duplicate driver %q", name))
	}
	registry[name] = d
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("debugger: unknown debugger %q (have %s)",
			name, strings.Join(names(), ", "))
	}
	return d, nil
}

// Names returns the registered driver names, sorted.
func Names() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	return names()
}

func names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Info describes one potential debugger for the listing view.
type Info struct {
	Name      string
	Available bool
	// Version holds the first line of the version output when available.
	Version string
	// Error holds the first line of the loading error otherwise.
	Error string
}

// List probes every registered driver and reports its availability.
func List() []Info {
	var infos []Info
	for _, name := range Names() {
		d, _ := Lookup(name)
		info := Info{Name: name}
		version, err := d.Version()
		if err != nil {
			info.Error = firstLine(err.Error())
			log.Infof("debugger %s unavailable: %s", name, info.Error)
		} else {
			info.Available = true
			info.Version = firstLine(version)
		}
		infos = append(infos, info)
	}
	return infos
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
