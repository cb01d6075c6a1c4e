// Package fixture loads format-attribute test cases from JSON resources.
//
// # Resource Layout
//
// Fixtures live in an fs.FS under a deterministic name derived from a
// grouping prefix and the format name:
//
//	format/<prefix>/<format>.json
//
// # Fixture Format
//
// A fixture is a JSON array of cases:
//
//	[
//	  { "data": "2012-12-31", "valid": true },
//	  {
//	    "data": "2012-13-01",
//	    "valid": false,
//	    "message": "err.format.invalidDate",
//	    "msgParams": [ "value", "expected" ],
//	    "msgData": { "value": "2012-13-01", "expected": [ "yyyy-MM-dd" ] }
//	  }
//	]
//
// data and valid are required. message is required when valid is false and
// forbidden when it is true. msgParams (parameter names, in interpolation
// order) and msgData (named values, also the expected diagnostic contents)
// are optional and only meaningful together with message.
package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/ir"
)

// Fixture field names.
const (
	FieldData      = "data"
	FieldValid     = "valid"
	FieldMessage   = "message"
	FieldMsgParams = "msgParams"
	FieldMsgData   = "msgData"
)

var knownFields = map[string]bool{
	FieldData:      true,
	FieldValid:     true,
	FieldMessage:   true,
	FieldMsgParams: true,
	FieldMsgData:   true,
}

// Case is one fixture entry. Cases are immutable once loaded.
type Case struct {
	// Index is the position of the case in its fixture, starting at 0.
	Index int

	// Input is the instance handed to the format attribute.
	Input ir.IRValue

	// Valid is the expected outcome.
	Valid bool

	// MessageKey is the catalog key of the expected message.
	// Set if and only if Valid is false.
	MessageKey string

	// Params lists the parameter names to interpolate, in order.
	// Nil when the fixture has no msgParams.
	Params []string

	// Contents holds the named values used for interpolation and expected
	// in the diagnostic. Nil when the fixture has no msgData.
	Contents ir.IRObject
}

// Loader reads fixtures for one grouping prefix.
type Loader struct {
	fsys   fs.FS
	prefix string
}

// NewLoader creates a loader reading format/<prefix>/*.json from fsys.
func NewLoader(fsys fs.FS, prefix string) *Loader {
	return &Loader{fsys: fsys, prefix: prefix}
}

// Prefix returns the grouping prefix.
func (l *Loader) Prefix() string {
	return l.prefix
}

// ResourceName returns the fixture path for a format name.
func (l *Loader) ResourceName(formatName string) string {
	return path.Join("format", l.prefix, formatName+".json")
}

// Load reads and parses the fixture for formatName.
//
// A missing resource fails with conformerr.FixtureNotFound; a resource that
// exists but does not follow the fixture format fails with
// conformerr.FixtureMalformed.
func (l *Loader) Load(formatName string) ([]Case, error) {
	name := l.ResourceName(formatName)

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, conformerr.Newf(conformerr.FixtureNotFound, "no fixture %s", name)
		}
		return nil, conformerr.Wrap(conformerr.FixtureNotFound, "failed to read "+name, err)
	}

	return Parse(name, data)
}

// Formats lists the format names that have a fixture under the prefix,
// in sorted order.
func (l *Loader) Formats() ([]string, error) {
	matches, err := fs.Glob(l.fsys, path.Join("format", l.prefix, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Parse decodes fixture content. name is used in error messages only.
func Parse(name string, data []byte) ([]Case, error) {
	root, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, conformerr.Wrap(conformerr.FixtureMalformed, "failed to parse "+name, err)
	}

	elems, ok := root.(ir.IRArray)
	if !ok {
		return nil, conformerr.Newf(conformerr.FixtureMalformed,
			"%s: top-level value must be an array, got %s", name, root.Kind())
	}

	cases := make([]Case, 0, len(elems))
	for i, elem := range elems {
		c, err := parseCase(i, elem)
		if err != nil {
			return nil, conformerr.Newf(conformerr.FixtureMalformed, "%s: case %d: %v", name, i, err)
		}
		cases = append(cases, c)
	}

	return cases, nil
}

// parseCase validates a single fixture element.
func parseCase(index int, elem ir.IRValue) (Case, error) {
	obj, ok := elem.(ir.IRObject)
	if !ok {
		return Case{}, fmt.Errorf("must be an object, got %s", elem.Kind())
	}

	for _, k := range obj.SortedKeys() {
		if !knownFields[k] {
			return Case{}, fmt.Errorf("unknown field %q", k)
		}
	}

	c := Case{Index: index}

	input, ok := obj[FieldData]
	if !ok {
		return Case{}, fmt.Errorf("%s is required", FieldData)
	}
	c.Input = input

	validVal, ok := obj[FieldValid]
	if !ok {
		return Case{}, fmt.Errorf("%s is required", FieldValid)
	}
	valid, ok := validVal.(ir.IRBool)
	if !ok {
		return Case{}, fmt.Errorf("%s must be a boolean, got %s", FieldValid, validVal.Kind())
	}
	c.Valid = bool(valid)

	if v, ok := obj[FieldMessage]; ok {
		key, ok := v.(ir.IRString)
		if !ok {
			return Case{}, fmt.Errorf("%s must be a string, got %s", FieldMessage, v.Kind())
		}
		if key == "" {
			return Case{}, fmt.Errorf("%s must not be empty", FieldMessage)
		}
		c.MessageKey = string(key)
	}

	if v, ok := obj[FieldMsgParams]; ok {
		arr, ok := v.(ir.IRArray)
		if !ok {
			return Case{}, fmt.Errorf("%s must be an array, got %s", FieldMsgParams, v.Kind())
		}
		c.Params = make([]string, len(arr))
		for i, p := range arr {
			name, ok := p.(ir.IRString)
			if !ok {
				return Case{}, fmt.Errorf("%s[%d] must be a string, got %s", FieldMsgParams, i, p.Kind())
			}
			c.Params[i] = string(name)
		}
	}

	if v, ok := obj[FieldMsgData]; ok {
		contents, ok := v.(ir.IRObject)
		if !ok {
			return Case{}, fmt.Errorf("%s must be an object, got %s", FieldMsgData, v.Kind())
		}
		c.Contents = contents
	}

	switch {
	case c.Valid && c.MessageKey != "":
		return Case{}, fmt.Errorf("%s must be absent when %s is true", FieldMessage, FieldValid)
	case !c.Valid && c.MessageKey == "":
		return Case{}, fmt.Errorf("%s is required when %s is false", FieldMessage, FieldValid)
	case c.MessageKey == "" && (c.Params != nil || c.Contents != nil):
		return Case{}, fmt.Errorf("%s and %s require %s", FieldMsgParams, FieldMsgData, FieldMessage)
	}

	return c, nil
}
