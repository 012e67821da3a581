// Package manifest handles dexgo.toml tool configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the configuration file dexgo looks for.
const ManifestName = "dexgo.toml"

// Manifest represents a dexgo.toml configuration.
type Manifest struct {
	Build Build `toml:"build"`
	Debug Debug `toml:"debug"`
	Test  Test  `toml:"test"`

	// Dir is the directory containing the dexgo.toml file (set at load time).
	Dir string `toml:"-"`
}

// Build configures how test sources are compiled.
type Build struct {
	Builder string   `toml:"builder"`
	CFlags  []string `toml:"cflags"`
	LDFlags []string `toml:"ldflags"`
}

// Debug configures the debugger used to capture traces.
type Debug struct {
	Debugger string  `toml:"debugger"`
	MaxSteps int     `toml:"max-steps"`
	Pause    float64 `toml:"pause"` // seconds between steps
}

// Test configures checking and scoring.
type Test struct {
	FailLt float64  `toml:"fail-lt"`
	Dirs   []string `toml:"dirs"`
}

// Default returns the configuration used when no manifest exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Build.Builder == "" {
		m.Build.Builder = "clang-c"
	}
	if m.Debug.Debugger == "" {
		m.Debug.Debugger = "lldb"
	}
	if m.Debug.MaxSteps == 0 {
		m.Debug.MaxSteps = 1000
	}
	if m.Test.FailLt == 0 {
		m.Test.FailLt = 1.0
	}
	if len(m.Test.Dirs) == 0 {
		m.Test.Dirs = []string{"tests"}
	}
}

// Load parses a dexgo.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a dexgo.toml file, then loads
// and returns the manifest. Returns the defaults if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
