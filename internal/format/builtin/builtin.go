// Package builtin provides reference format attributes.
//
// They give the conformance harness real subjects to exercise and back the
// formatconform CLI. Every attribute only inspects string instances; any
// other kind conforms trivially. A failing instance produces one diagnostic
// whose message comes from the catalog under the attribute's template key,
// with the instance registered as the "value" argument.
package builtin

import (
	"fmt"

	"github.com/roach88/formatconform/internal/format"
	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
)

// Template keys used by the builtin attributes.
const (
	KeyInvalidEmail       = "err.format.invalidEmail"
	KeyInvalidDate        = "err.format.invalidDate"
	KeyInvalidDateTime    = "err.format.invalidDateTime"
	KeyInvalidIPv4        = "err.format.invalidIPv4Address"
	KeyInvalidIPv6        = "err.format.invalidIPv6Address"
	KeyInvalidUUID        = "err.format.invalidUUID"
	KeyInvalidRegex       = "err.format.invalidRegex"
	KeyInvalidURI         = "err.format.invalidURI"
	KeyInvalidHostname    = "err.format.invalidHostname"
	KeyInvalidIDNHostname = "err.format.invalidIDNHostname"
)

// Registry returns a registry holding every builtin attribute.
// Each call returns a fresh registry.
func Registry() *format.Registry {
	r := format.NewRegistry()
	for _, a := range attributes() {
		r.MustRegister(a.name, a)
	}
	return r
}

func attributes() []stringAttribute {
	return []stringAttribute{
		{name: "date", key: KeyInvalidDate, check: isDate,
			extras: ir.IRObject{"expected": ir.IRArray{ir.IRString("yyyy-MM-dd")}}},
		{name: "date-time", key: KeyInvalidDateTime, check: isDateTime,
			extras: ir.IRObject{"expected": ir.IRArray{ir.IRString("yyyy-MM-dd'T'HH:mm:ssZ")}}},
		{name: "email", key: KeyInvalidEmail, check: isEmail},
		{name: "hostname", key: KeyInvalidHostname, check: isHostname},
		{name: "idn-hostname", key: KeyInvalidIDNHostname, check: isIDNHostname},
		{name: "ipv4", key: KeyInvalidIPv4, check: isIPv4},
		{name: "ipv6", key: KeyInvalidIPv6, check: isIPv6},
		{name: "regex", key: KeyInvalidRegex, check: isRegex},
		{name: "uri", key: KeyInvalidURI, check: isURI},
		{name: "uuid", key: KeyInvalidUUID, check: isUUID},
	}
}

// stringAttribute applies check to string instances.
type stringAttribute struct {
	name   string
	key    string
	check  func(string) bool
	extras ir.IRObject
}

// Validate implements format.Attribute.
func (a stringAttribute) Validate(report format.Reporter, catalog message.Catalog, data format.Data) error {
	s, ok := data.Instance.(ir.IRString)
	if !ok || a.check(string(s)) {
		return nil
	}

	msg, err := message.FromCatalog(catalog, a.key)
	if err != nil {
		return fmt.Errorf("format %q: %w", a.name, err)
	}
	if err := msg.Put("value", s); err != nil {
		return fmt.Errorf("format %q: %w", a.name, err)
	}
	for _, k := range a.extras.SortedKeys() {
		if err := msg.Put(k, a.extras[k]); err != nil {
			return fmt.Errorf("format %q: argument %q: %w", a.name, k, err)
		}
	}

	report.Error(format.NewDiagnostic(a.name, msg, data.Instance))
	return nil
}
