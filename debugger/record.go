package debugger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dexgo/dexgo/dextir"
)

// recordMarker prefixes step records in debugger output, separating them
// from the debugger's own chatter.
const recordMarker = "DEXGO:"

// stepRecord is the line format debugger scripts emit, one JSON object per
// stop event.
type stepRecord struct {
	Function string            `json:"function"`
	Path     string            `json:"path"`
	Line     int               `json:"line"`
	Column   int               `json:"column"`
	Watches  map[string]string `json:"watches"`
}

// ParseRecords reads marker-prefixed step records from debugger output and
// appends them to the trace in order, classifying each step as it lands.
// Unmarked lines are ignored.
func ParseRecords(r io.Reader, trace *dextir.Trace) error {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if !strings.HasPrefix(line, recordMarker) {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, recordMarker))

		var rec stepRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return fmt.Errorf("debugger: bad step record %q: %w", payload, err)
		}
		trace.AddStep(&dextir.Step{
			Function: rec.Function,
			Loc:      dextir.Loc{Path: rec.Path, Line: rec.Line, Column: rec.Column},
			Watches:  rec.Watches,
		})
	}
	if err := scan.Err(); err != nil {
		return fmt.Errorf("debugger: reading step records: %w", err)
	}
	return nil
}
