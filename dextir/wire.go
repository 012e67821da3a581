package dextir

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so the same trace always encodes to the
// same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dextir: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalTrace serializes a Trace to compact CBOR bytes.
func MarshalTrace(t *Trace) ([]byte, error) {
	return cborEncMode.Marshal(t)
}

// UnmarshalTrace deserializes a Trace from CBOR bytes.
func UnmarshalTrace(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("dextir: unmarshal trace: %w", err)
	}
	return &t, nil
}
