package ir

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/cockroachdb/apd/v3"
	"github.com/goccy/go-json"
)

// IRValue is a sealed interface representing a JSON value.
// Only IRNull, IRString, IRInt, IRDecimal, IRBool, IRArray, and IRObject
// implement this.
type IRValue interface {
	Kind() Kind
	irValue() // Sealed - only these types implement it
}

// Kind names the JSON type of an IRValue.
// Integers and decimals are distinct kinds: a literal with a fraction or
// an exponent is a decimal even when its value is integral.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:    "null",
	KindString:  "string",
	KindInteger: "integer",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindArray:   "array",
	KindObject:  "object",
}

// String returns the JSON type name ("string", "integer", ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IRNull represents a JSON null value.
// Using an explicit type ensures all IRValues satisfy the sealed interface.
type IRNull struct{}

func (IRNull) irValue()   {}
func (IRNull) Kind() Kind { return KindNull }

// IRString represents a string value.
type IRString string

func (IRString) irValue()   {}
func (IRString) Kind() Kind { return KindString }

// IRInt represents an integer of arbitrary magnitude.
// The zero value is 0.
type IRInt struct {
	n *big.Int
}

func (IRInt) irValue()   {}
func (IRInt) Kind() Kind { return KindInteger }

// BigInt returns a copy of the integer.
func (i IRInt) BigInt() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.n)
}

// String returns the base 10 representation.
func (i IRInt) String() string {
	if i.n == nil {
		return "0"
	}
	return i.n.String()
}

// IRDecimal represents a JSON number with a fraction or exponent.
// The value keeps the exact digits of the literal; no binary float is involved.
type IRDecimal struct {
	d *apd.Decimal
}

func (IRDecimal) irValue()   {}
func (IRDecimal) Kind() Kind { return KindNumber }

// Decimal returns a copy of the underlying decimal.
func (d IRDecimal) Decimal() *apd.Decimal {
	if d.d == nil {
		return new(apd.Decimal)
	}
	return new(apd.Decimal).Set(d.d)
}

// PlainString renders the decimal without exponent notation, keeping its
// scale: 1E2 renders as "100" and 1.50 as "1.50".
func (d IRDecimal) PlainString() string {
	if d.d == nil {
		return "0"
	}
	return d.d.Text('f')
}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue()   {}
func (IRBool) Kind() Kind { return KindBoolean }

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue()   {}
func (IRArray) Kind() Kind { return KindArray }

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue()   {}
func (IRObject) Kind() Kind { return KindObject }

// NewIRString creates an IRString value.
func NewIRString(s string) IRString {
	return IRString(s)
}

// NewIRInt creates an IRInt value.
func NewIRInt(n int64) IRInt {
	return IRInt{n: big.NewInt(n)}
}

// NewIRBigInt creates an IRInt holding a copy of n.
func NewIRBigInt(n *big.Int) IRInt {
	return IRInt{n: new(big.Int).Set(n)}
}

// ParseIRInt parses a base 10 integer literal of any magnitude.
func ParseIRInt(s string) (IRInt, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return IRInt{}, fmt.Errorf("invalid integer literal %q", s)
	}
	return IRInt{n: n}, nil
}

// ParseIRDecimal parses a JSON number literal as an exact decimal.
func ParseIRDecimal(s string) (IRDecimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return IRDecimal{}, fmt.Errorf("invalid decimal literal %q: %w", s, err)
	}
	return IRDecimal{d: d}, nil
}

// NewIRBool creates an IRBool value.
func NewIRBool(b bool) IRBool {
	return IRBool(b)
}

// NewIRArray creates an IRArray from values.
func NewIRArray(vals ...IRValue) IRArray {
	return IRArray(vals)
}

// IRPair represents a key-value pair for typed IRObject construction.
type IRPair struct {
	Key   string
	Value IRValue
}

// NewIRObjectFromPairs creates an IRObject from typed key-value pairs.
// Example: NewIRObjectFromPairs(O("value", NewIRString("x")), O("count", NewIRInt(5)))
func NewIRObjectFromPairs(pairs ...IRPair) IRObject {
	obj := make(IRObject, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Value
	}
	return obj
}

// O is a shorthand for IRPair for ergonomic construction.
func O(key string, value IRValue) IRPair {
	return IRPair{Key: key, Value: value}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a different order.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Equal reports whether two values are structurally equal.
// Numbers compare by value within their kind, so 1.0 equals 1.00 but the
// integer 1 never equals the decimal 1.0.
func Equal(a, b IRValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case IRNull:
		return true
	case IRString:
		return av == b.(IRString)
	case IRBool:
		return av == b.(IRBool)
	case IRInt:
		return av.BigInt().Cmp(b.(IRInt).BigInt()) == 0
	case IRDecimal:
		return av.Decimal().Cmp(b.(IRDecimal).Decimal()) == 0
	case IRArray:
		bv := b.(IRArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case IRObject:
		bv := b.(IRObject)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// UnmarshalIRValue decodes a single JSON document into an IRValue.
// Numbers are decoded from their literal text, so integers keep full
// precision and decimals keep their digits. Trailing data is rejected.
func UnmarshalIRValue(data []byte) (IRValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	return FromAny(raw)
}

// numberLiteral is satisfied by the Number types of JSON decoders that
// keep the literal text (UseNumber).
type numberLiteral interface {
	String() string
	Int64() (int64, error)
}

// FromAny recursively converts a decoded Go value to an IRValue.
// Accepts the shapes produced by JSON and YAML decoders.
func FromAny(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case bool:
		return IRBool(val), nil
	case string:
		return IRString(val), nil
	case int:
		return NewIRInt(int64(val)), nil
	case int64:
		return NewIRInt(val), nil
	case uint64:
		return NewIRBigInt(new(big.Int).SetUint64(val)), nil
	case *big.Int:
		return NewIRBigInt(val), nil
	case float64:
		return ParseIRDecimal(fmt.Sprint(val))
	case numberLiteral:
		return parseNumber(val.String())
	case []any:
		arr := make(IRArray, len(val))
		for i, elem := range val {
			irElem, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = irElem
		}
		return arr, nil
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			irElem, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = irElem
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// parseNumber classifies a JSON number literal as integer or decimal.
func parseNumber(s string) (IRValue, error) {
	if strings.ContainsAny(s, ".eE") {
		return ParseIRDecimal(s)
	}
	return ParseIRInt(s)
}
