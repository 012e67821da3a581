// Package builder compiles annotated test sources into debuggable
// executables.
package builder

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("dexgo.builder")

// Builder invokes a compiler with the flags a test asked for.
type Builder struct {
	Name     string
	Compiler string
	CFlags   []string
	LDFlags  []string
}

// builders maps RUN-line builder names to compiler commands.
var builders = map[string]string{
	"clang-c": "clang",
	"clang":   "clang++",
	"gcc-c":   "gcc",
	"gcc":     "g++",
}

// ForName returns a builder for a RUN-line builder name such as "clang-c".
func ForName(name string, cflags, ldflags []string) (*Builder, error) {
	compiler, ok := builders[name]
	if !ok {
		known := make([]string, 0, len(builders))
		for n := range builders {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("builder: unknown builder %q (have %s)",
			name, strings.Join(known, ", "))
	}
	return &Builder{Name: name, Compiler: compiler, CFlags: cflags, LDFlags: ldflags}, nil
}

// Build compiles source into outDir and returns the executable path.
// Compiler diagnostics are folded into the returned error.
func (b *Builder) Build(ctx context.Context, source, outDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	out := filepath.Join(outDir, base)

	args := append([]string{}, b.CFlags...)
	args = append(args, "-o", out, source)
	args = append(args, b.LDFlags...)

	log.Infof("compiling %s with %s %s", source, b.Compiler, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, b.Compiler, args...)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("builder: %s failed: %w\n%s", b.Compiler, err, msg)
	}
	return out, nil
}
