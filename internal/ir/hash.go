package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCase = "formatconform/case/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CaseID computes the content-addressed identity of a fixture case.
// The ID is stable across runs as long as the format, the position in the
// fixture and the input are unchanged.
func CaseID(format string, index int, input IRValue) (string, error) {
	if input == nil {
		input = IRNull{}
	}
	obj := IRObject{
		"format": IRString(format),
		"index":  NewIRInt(int64(index)),
		"input":  input,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CaseID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainCase, canonical), nil
}
