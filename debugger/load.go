package debugger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dexgo/dexgo/dextir"
)

// LoadTraceFile reads a previously exported trace, sniffing whether it is
// JSON or the CBOR wire form. This lets the checker run against recorded
// traces on machines with no debugger at all.
func LoadTraceFile(path string) (*dextir.Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("debugger: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("debugger: %s is empty", path)
	}
	if data[0] == '{' {
		return dextir.DecodeJSON(data)
	}
	return dextir.UnmarshalTrace(data)
}

// SaveTraceFile writes a trace in a form LoadTraceFile can read back: a
// .json path gets the interchange encoding, anything else the compact
// CBOR wire form.
func SaveTraceFile(path string, t *dextir.Trace) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = t.EncodeJSON()
	} else {
		data, err = dextir.MarshalTrace(t)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	return nil
}
