package message

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/roach88/formatconform/internal/conformerr"
)

//go:embed messages.yaml
var defaultMessages []byte

// Bundle is an immutable, in-memory message catalog.
type Bundle struct {
	name     string
	messages map[string]string
}

// NewBundle creates a bundle from a flat key to template map.
// The map is copied.
func NewBundle(name string, messages map[string]string) *Bundle {
	m := make(map[string]string, len(messages))
	for k, v := range messages {
		m[k] = v
	}
	return &Bundle{name: name, messages: m}
}

// Name identifies where the bundle was loaded from.
func (b *Bundle) Name() string {
	return b.name
}

// Lookup implements Catalog.
func (b *Bundle) Lookup(key string) (string, bool) {
	t, ok := b.messages[key]
	return t, ok
}

// Keys returns all template keys in sorted order.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.messages))
	for k := range b.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of templates.
func (b *Bundle) Len() int {
	return len(b.messages)
}

// Overlay returns a new bundle with the templates of other layered over b.
// Keys present in both take other's template.
func (b *Bundle) Overlay(other *Bundle) *Bundle {
	merged := make(map[string]string, len(b.messages)+len(other.messages))
	for k, v := range b.messages {
		merged[k] = v
	}
	for k, v := range other.messages {
		merged[k] = v
	}
	return &Bundle{name: b.name + "+" + other.name, messages: merged}
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// DefaultBundle returns the catalog embedded in the binary.
func DefaultBundle() *Bundle {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = ParseBundle("default", ".yaml", defaultMessages)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("message: embedded catalog is invalid: %v", defaultErr))
	}
	return defaultBundle
}

// LoadBundle reads a catalog file. The format is chosen by extension:
// .yaml/.yml, .cue or .json. Nested objects are flattened into dotted keys,
// so {err: {format: {x: "..."}}} defines "err.format.x".
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, conformerr.Wrap(conformerr.CatalogInvalid, "failed to read catalog file", err)
	}
	return ParseBundle(path, filepath.Ext(path), data)
}

// ParseBundle parses catalog content in the format named by ext.
func ParseBundle(name, ext string, data []byte) (*Bundle, error) {
	messages := make(map[string]string)

	switch ext {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, conformerr.Wrap(conformerr.CatalogInvalid, "failed to parse YAML catalog", err)
		}
		if err := flattenMap("", raw, messages); err != nil {
			return nil, err
		}
	case ".json":
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, conformerr.Wrap(conformerr.CatalogInvalid, "failed to parse JSON catalog", err)
		}
		if err := flattenMap("", raw, messages); err != nil {
			return nil, err
		}
	case ".cue":
		ctx := cuecontext.New()
		v := ctx.CompileBytes(data, cue.Filename(name))
		if err := v.Err(); err != nil {
			return nil, conformerr.Wrap(conformerr.CatalogInvalid, "failed to compile CUE catalog", err)
		}
		if err := flattenCUE("", v, messages); err != nil {
			return nil, err
		}
	default:
		return nil, conformerr.Newf(conformerr.CatalogInvalid, "unsupported catalog extension %q", ext)
	}

	return &Bundle{name: name, messages: messages}, nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// flattenMap walks decoded YAML/JSON into dotted keys.
func flattenMap(prefix string, raw map[string]any, out map[string]string) error {
	for k, v := range raw {
		key := joinKey(prefix, k)
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flattenMap(key, val, out); err != nil {
				return err
			}
		default:
			return conformerr.Newf(conformerr.CatalogInvalid,
				"template %q must be a string, got %T", key, v)
		}
	}
	return nil
}

// flattenCUE walks the regular fields of a CUE struct into dotted keys.
func flattenCUE(prefix string, v cue.Value, out map[string]string) error {
	iter, err := v.Fields()
	if err != nil {
		return conformerr.Wrap(conformerr.CatalogInvalid, "CUE catalog root must be a struct", err)
	}

	for iter.Next() {
		key := joinKey(prefix, iter.Selector().Unquoted())
		child := iter.Value()

		switch child.Kind() {
		case cue.StringKind:
			s, err := child.String()
			if err != nil {
				return conformerr.Wrap(conformerr.CatalogInvalid, fmt.Sprintf("template %q", key), err)
			}
			out[key] = s
		case cue.StructKind:
			if err := flattenCUE(key, child, out); err != nil {
				return err
			}
		default:
			return conformerr.Newf(conformerr.CatalogInvalid,
				"template %q must be a concrete string, got %v", key, child.IncompleteKind())
		}
	}
	return nil
}
