package message

import (
	"fmt"
	"strings"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/ir"
)

// Catalog resolves template keys to message templates.
type Catalog interface {
	Lookup(key string) (string, bool)
}

// Message is a template plus the named arguments registered against it.
// Placeholders have the form %name%. Placeholders without a registered
// argument are left in the output untouched.
type Message struct {
	template string
	args     map[string]Argument
	values   ir.IRObject
}

// New creates a message from a raw template.
func New(template string) *Message {
	return &Message{
		template: template,
		args:     make(map[string]Argument),
		values:   make(ir.IRObject),
	}
}

// FromCatalog creates a message from the template stored under key.
// Fails with conformerr.UnknownTemplateKey when the catalog has no such key.
func FromCatalog(catalog Catalog, key string) (*Message, error) {
	template, ok := catalog.Lookup(key)
	if !ok {
		return nil, conformerr.Newf(conformerr.UnknownTemplateKey, "no template for key %q", key)
	}
	return New(template), nil
}

// PutArgument registers an already converted argument.
// Registering the same name twice keeps the last argument.
func (m *Message) PutArgument(name string, arg Argument) *Message {
	m.args[name] = arg
	return m
}

// Put converts v and registers it under name. The original value is kept
// so diagnostics can expose it through Arguments.
func (m *Message) Put(name string, v ir.IRValue) error {
	arg, err := Convert(v)
	if err != nil {
		return err
	}
	m.args[name] = arg
	m.values[name] = v
	return nil
}

// Arguments returns the JSON values registered with Put.
// The returned object is a copy.
func (m *Message) Arguments() ir.IRObject {
	out := make(ir.IRObject, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Template returns the raw template.
func (m *Message) Template() string {
	return m.template
}

// String renders the template with every registered argument substituted.
func (m *Message) String() string {
	return render(m.template, m.args)
}

// render performs a single left-to-right pass over template. A %name%
// sequence whose name is registered is replaced by the argument rendering;
// anything else is copied verbatim.
func render(template string, args map[string]Argument) string {
	if len(args) == 0 || !strings.Contains(template, "%") {
		return template
	}

	var buf strings.Builder
	buf.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '%')
		if open < 0 {
			buf.WriteString(rest)
			break
		}
		buf.WriteString(rest[:open])

		closing := strings.IndexByte(rest[open+1:], '%')
		if closing < 0 {
			buf.WriteString(rest[open:])
			break
		}

		name := rest[open+1 : open+1+closing]
		if arg, ok := args[name]; ok {
			buf.WriteString(arg.Render())
			rest = rest[open+closing+2:]
			continue
		}

		// Not a registered placeholder: emit the percent sign and rescan
		// from the next byte so a later %name% can still match.
		buf.WriteByte('%')
		rest = rest[open+1:]
	}

	return buf.String()
}

// Build reconstructs the expected text of a diagnostic.
//
// The template is resolved from the catalog. When params is nil the raw
// template is returned. Otherwise every name in params is looked up in data,
// converted and registered in order before rendering. A name absent from
// data fails with conformerr.MissingParameter.
func Build(catalog Catalog, key string, params []string, data ir.IRObject) (string, error) {
	msg, err := FromCatalog(catalog, key)
	if err != nil {
		return "", err
	}

	if params == nil {
		return msg.Template(), nil
	}

	for _, name := range params {
		v, ok := data[name]
		if !ok {
			return "", conformerr.Newf(conformerr.MissingParameter,
				"parameter %q for template %q is not present in message data", name, key)
		}
		if err := msg.Put(name, v); err != nil {
			return "", fmt.Errorf("parameter %q: %w", name, err)
		}
	}

	return msg.String(), nil
}
