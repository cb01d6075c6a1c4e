package store

import (
	"fmt"

	"github.com/roach88/formatconform/internal/ir"
)

// marshalInput converts a case input to canonical JSON TEXT for storage.
// A nil input is stored as null.
func marshalInput(v ir.IRValue) (string, error) {
	if v == nil {
		v = ir.IRNull{}
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal input: %w", err)
	}
	return string(data), nil
}

// unmarshalInput parses canonical JSON TEXT back to an IRValue.
// Integers and decimals keep their full precision.
func unmarshalInput(data string) (ir.IRValue, error) {
	v, err := ir.UnmarshalIRValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal input: %w", err)
	}
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
