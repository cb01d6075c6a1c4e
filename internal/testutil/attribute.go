package testutil

import (
	"github.com/roach88/formatconform/internal/format"
	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
)

// DefaultStubKey is the template a StubAttribute reports with when Key is
// empty.
const DefaultStubKey = "err.format.invalid"

// StubAttribute is a format.Attribute with scripted behavior. It ignores
// the instance content: every call reports Emit diagnostics, or returns Err.
//
// Each diagnostic is built from the catalog template under Key with the
// instance registered as "value" plus every entry of Args. Mutate, when set,
// may alter the diagnostic before it is reported.
//
// Thread-safety: not safe for concurrent use (Calls is unguarded).
type StubAttribute struct {
	Name   string
	Key    string
	Emit   int
	Args   ir.IRObject
	Err    error
	Mutate func(d *format.Diagnostic)

	// Calls counts Validate invocations.
	Calls int
}

// Validate implements format.Attribute.
func (s *StubAttribute) Validate(report format.Reporter, catalog message.Catalog, data format.Data) error {
	s.Calls++
	if s.Err != nil {
		return s.Err
	}

	key := s.Key
	if key == "" {
		key = DefaultStubKey
	}

	for i := 0; i < s.Emit; i++ {
		msg, err := message.FromCatalog(catalog, key)
		if err != nil {
			return err
		}
		if err := msg.Put("value", data.Instance); err != nil {
			return err
		}
		for _, k := range s.Args.SortedKeys() {
			if err := msg.Put(k, s.Args[k]); err != nil {
				return err
			}
		}

		d := format.NewDiagnostic(s.Name, msg, data.Instance)
		if s.Mutate != nil {
			s.Mutate(&d)
		}
		report.Error(d)
	}
	return nil
}

// Rejecting returns a stub that reports one diagnostic per instance.
func Rejecting(name string) *StubAttribute {
	return &StubAttribute{Name: name, Emit: 1}
}

// Accepting returns a stub that never reports.
func Accepting(name string) *StubAttribute {
	return &StubAttribute{Name: name}
}
