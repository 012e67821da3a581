package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ---------------------------------------------------------------------------
// Source scanning: find directives inside comments
// ---------------------------------------------------------------------------

// FileCommands holds everything extracted from one annotated source file.
type FileCommands struct {
	Path     string
	Commands []Command
	// Labels maps each DexLabel name to the line it was declared on.
	Labels map[string]int
	// RunLine is the file's RUN: invocation with continuations joined,
	// empty when the file has none.
	RunLine string
	// Requires lists the features named by REQUIRES: lines.
	Requires []string
}

// ParseFile scans a source file for annotation directives.
func ParseFile(path string) (*FileCommands, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	return ParseSource(path, string(data))
}

// ParseSource scans source text for annotation directives. Directives are
// recognized inside // comments only; they never span lines. After
// scanning, label references in watch expectations are resolved.
func ParseSource(path, src string) (*FileCommands, error) {
	fc := &FileCommands{
		Path:   path,
		Labels: make(map[string]int),
	}

	var runParts []string
	runContinues := false

	scan := bufio.NewScanner(strings.NewReader(src))
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scan.Scan() {
		lineno++
		line := scan.Text()

		idx := strings.Index(line, "//")
		if idx < 0 {
			runContinues = false
			continue
		}
		comment := strings.TrimSpace(line[idx+2:])

		switch {
		case strings.HasPrefix(comment, "RUN:"):
			part := strings.TrimSpace(strings.TrimPrefix(comment, "RUN:"))
			cont := strings.HasSuffix(part, "\\")
			part = strings.TrimSpace(strings.TrimSuffix(part, "\\"))
			if runContinues && len(runParts) > 0 {
				runParts[len(runParts)-1] += " " + part
			} else {
				runParts = append(runParts, part)
			}
			runContinues = cont
			continue

		case strings.HasPrefix(comment, "REQUIRES:"):
			rest := strings.TrimPrefix(comment, "REQUIRES:")
			for _, f := range strings.Split(rest, ",") {
				if f = strings.TrimSpace(f); f != "" {
					fc.Requires = append(fc.Requires, f)
				}
			}
			runContinues = false
			continue
		}
		runContinues = false

		name, col := findDirective(line, idx+2)
		if name == "" {
			continue
		}
		cmd, perr := parseDirective(path, lineno, line, line[col:], col, name)
		if perr != nil {
			return nil, perr
		}

		if lbl, ok := cmd.(*Label); ok {
			if prev, dup := fc.Labels[lbl.Name]; dup {
				return nil, &ParseError{
					Path:   path,
					Line:   lineno,
					Column: lbl.Loc().Column,
					Info:   fmt.Sprintf("label %q already declared on line %d", lbl.Name, prev),
					Src:    line,
				}
			}
			fc.Labels[lbl.Name] = lineno
		}
		fc.Commands = append(fc.Commands, cmd)
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("command: scanning %s: %w", path, err)
	}

	if len(runParts) > 0 {
		fc.RunLine = strings.Join(runParts, " ")
	}

	if err := fc.resolveLabels(); err != nil {
		return nil, err
	}
	return fc, nil
}

// findDirective locates the first directive name in the comment part of a
// line, returning its name and 0-based column, or "" when there is none.
// The character before the name must not be part of an identifier.
func findDirective(line string, from int) (string, int) {
	best := -1
	var bestName string
	for _, name := range directiveNames {
		at := from
		for {
			rel := strings.Index(line[at:], name)
			if rel < 0 {
				break
			}
			pos := at + rel
			if pos > 0 && isIdentPart(rune(line[pos-1])) {
				at = pos + 1
				continue
			}
			if best < 0 || pos < best {
				best, bestName = pos, name
			}
			break
		}
	}
	if best < 0 {
		return "", 0
	}
	return bestName, best
}

// resolveLabels turns label references in watch expectations into concrete
// line ranges.
func (fc *FileCommands) resolveLabels() error {
	for _, cmd := range fc.Commands {
		c, ok := cmd.(*ExpectWatchValue)
		if !ok {
			continue
		}
		if !c.OnLine.IsZero() {
			line, err := fc.resolveRef(c, &c.OnLine)
			if err != nil {
				return err
			}
			c.from, c.to = line, line
		} else {
			from, err := fc.resolveRef(c, &c.FromLine)
			if err != nil {
				return err
			}
			to, err := fc.resolveRef(c, &c.ToLine)
			if err != nil {
				return err
			}
			if to < from {
				return &ParseError{
					Path:   fc.Path,
					Line:   c.Loc().Line,
					Column: c.Loc().Column,
					Info:   fmt.Sprintf("to_line %d is before from_line %d", to, from),
					Src:    c.RawText(),
				}
			}
			c.from, c.to = from, to
		}
		c.resolved = true
	}
	return nil
}

func (fc *FileCommands) resolveRef(c *ExpectWatchValue, ref *LineRef) (int, error) {
	if !ref.IsLabel() {
		return ref.Line, nil
	}
	line, ok := fc.Labels[ref.Label]
	if !ok {
		return 0, &ParseError{
			Path:   fc.Path,
			Line:   c.Loc().Line,
			Column: c.Loc().Column,
			Info:   fmt.Sprintf("reference to undeclared label %q", ref.Label),
			Src:    c.RawText(),
		}
	}
	ref.Line = line
	return line, nil
}

// WatchExpressions returns the distinct expressions watched by the file's
// expectations, in first-seen order. Debugger drivers evaluate these at
// every step.
func (fc *FileCommands) WatchExpressions() []string {
	seen := make(map[string]bool)
	var exprs []string
	for _, cmd := range fc.Commands {
		c, ok := cmd.(*ExpectWatchValue)
		if !ok {
			continue
		}
		if !seen[c.Expr] {
			seen[c.Expr] = true
			exprs = append(exprs, c.Expr)
		}
	}
	return exprs
}
