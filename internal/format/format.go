// Package format defines the contract between the conformance harness and
// the format attributes it exercises.
//
// A format attribute checks one named semantic format (email, date, ...)
// against an instance and reports at most one Diagnostic when the instance
// does not conform. Attributes are looked up by name in a Registry.
package format

import (
	"fmt"
	"sort"

	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
)

// Keyword is the schema keyword every format diagnostic is attached to.
const Keyword = "format"

// Diagnostic is the failure record a format attribute emits.
type Diagnostic struct {
	// Keyword is always "format" for diagnostics built with NewDiagnostic.
	Keyword string `json:"keyword"`

	// Attribute is the format name that rejected the instance.
	Attribute string `json:"attribute"`

	// Message is the rendered, human-readable text.
	Message string `json:"message"`

	// Value is the offending instance.
	Value ir.IRValue `json:"value"`

	// Contents holds the named message arguments as JSON values.
	Contents ir.IRObject `json:"contents,omitempty"`
}

// NewDiagnostic builds a diagnostic from a rendered message.
// The message's arguments become the diagnostic contents.
func NewDiagnostic(attribute string, msg *message.Message, value ir.IRValue) Diagnostic {
	return Diagnostic{
		Keyword:   Keyword,
		Attribute: attribute,
		Message:   msg.String(),
		Value:     value,
		Contents:  msg.Arguments(),
	}
}

// AsObject returns the diagnostic as a single JSON object, with contents
// merged next to the fixed fields. Fixed fields win on collision.
func (d Diagnostic) AsObject() ir.IRObject {
	obj := make(ir.IRObject, len(d.Contents)+4)
	for k, v := range d.Contents {
		obj[k] = v
	}
	obj["keyword"] = ir.IRString(d.Keyword)
	obj["attribute"] = ir.IRString(d.Attribute)
	obj["message"] = ir.IRString(d.Message)
	if d.Value == nil {
		obj["value"] = ir.IRNull{}
	} else {
		obj["value"] = d.Value
	}
	return obj
}

// Reporter receives diagnostics from a format attribute.
type Reporter interface {
	Error(d Diagnostic)
}

// Data is the validation context handed to an attribute: the instance
// under test and the (minimal) schema that requested the format.
type Data struct {
	Schema   ir.IRObject
	Instance ir.IRValue
}

// NewData wraps an instance in a schema carrying nothing but the format
// keyword for the given attribute.
func NewData(attribute string, instance ir.IRValue) Data {
	if instance == nil {
		instance = ir.IRNull{}
	}
	return Data{
		Schema:   ir.IRObject{Keyword: ir.IRString(attribute)},
		Instance: instance,
	}
}

// Attribute validates instances against one format.
//
// Validate reports zero diagnostics for a conforming instance and exactly one
// for a non-conforming one. A returned error means the attribute itself
// failed (for example a template missing from the catalog).
type Attribute interface {
	Validate(report Reporter, catalog message.Catalog, data Data) error
}

// AttributeFunc adapts a function to the Attribute interface.
type AttributeFunc func(report Reporter, catalog message.Catalog, data Data) error

// Validate implements Attribute.
func (f AttributeFunc) Validate(report Reporter, catalog message.Catalog, data Data) error {
	return f(report, catalog, data)
}

// Registry maps format names to attributes.
// It is populated once and only read afterwards.
type Registry struct {
	attrs map[string]Attribute
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{attrs: make(map[string]Attribute)}
}

// Register adds an attribute under name.
// Empty names and duplicate registrations are rejected.
func (r *Registry) Register(name string, attr Attribute) error {
	if name == "" {
		return fmt.Errorf("format name is required")
	}
	if attr == nil {
		return fmt.Errorf("format %q: attribute is nil", name)
	}
	if _, exists := r.attrs[name]; exists {
		return fmt.Errorf("format %q is already registered", name)
	}
	r.attrs[name] = attr
	return nil
}

// MustRegister is Register for package-level setup; it panics on error.
func (r *Registry) MustRegister(name string, attr Attribute) *Registry {
	if err := r.Register(name, attr); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the attribute registered under name.
func (r *Registry) Lookup(name string) (Attribute, bool) {
	attr, ok := r.attrs[name]
	return attr, ok
}

// Names returns all registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.attrs))
	for name := range r.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
