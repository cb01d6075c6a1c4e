package harness

import "github.com/roach88/formatconform/internal/format"

// CaptureSink is a format.Reporter that records every diagnostic it
// receives. A fresh sink is used for each case.
type CaptureSink struct {
	diagnostics []format.Diagnostic
}

// NewCaptureSink creates an empty sink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

// Error implements format.Reporter.
func (s *CaptureSink) Error(d format.Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
}

// Len returns the number of captured diagnostics.
func (s *CaptureSink) Len() int {
	return len(s.diagnostics)
}

// Empty reports whether nothing was captured.
func (s *CaptureSink) Empty() bool {
	return len(s.diagnostics) == 0
}

// Sole returns the captured diagnostic when exactly one was reported.
func (s *CaptureSink) Sole() (format.Diagnostic, bool) {
	if len(s.diagnostics) != 1 {
		return format.Diagnostic{}, false
	}
	return s.diagnostics[0], true
}

// Diagnostics returns a copy of the captured diagnostics in report order.
func (s *CaptureSink) Diagnostics() []format.Diagnostic {
	if len(s.diagnostics) == 0 {
		return nil
	}
	out := make([]format.Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}
