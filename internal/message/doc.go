// Package message turns catalog templates and JSON values into diagnostic
// text.
//
// It has three parts:
//
//   - Convert maps an ir.IRValue to an Argument (strings, big integers,
//     plain-text decimals, booleans, null and lists; objects are refused).
//   - Message and Build interpolate %name% placeholders with arguments.
//     Build is what the conformance runner uses to reconstruct the message a
//     format attribute is expected to emit.
//   - Bundle is a Catalog loaded from YAML, CUE or JSON. DefaultBundle
//     returns the templates used by the builtin format attributes.
//
// Rendering is deterministic: the same template, parameter names and data
// always produce the same bytes, which lets the runner compare messages
// with plain string equality.
package message
