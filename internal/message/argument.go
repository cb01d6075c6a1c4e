package message

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/ir"
)

// Argument is a value ready for template interpolation.
// Only StringArg, IntArg, DecimalArg, BoolArg, NullArg and ListArg
// implement it.
type Argument interface {
	// Render returns the text substituted for the argument's placeholder.
	Render() string
	argument()
}

// StringArg is substituted unchanged.
type StringArg string

func (StringArg) argument()        {}
func (a StringArg) Render() string { return string(a) }

// IntArg holds an integer of arbitrary magnitude.
type IntArg struct {
	N *big.Int
}

func (IntArg) argument() {}

func (a IntArg) Render() string {
	if a.N == nil {
		return "0"
	}
	return a.N.String()
}

// DecimalArg holds the plain text form of a decimal (no exponent, no
// locale separators).
type DecimalArg string

func (DecimalArg) argument()        {}
func (a DecimalArg) Render() string { return string(a) }

// BoolArg is rendered as true or false.
type BoolArg bool

func (BoolArg) argument()        {}
func (a BoolArg) Render() string { return strconv.FormatBool(bool(a)) }

// NullArg is an explicit null. It renders as "null" rather than vanishing.
type NullArg struct{}

func (NullArg) argument()      {}
func (NullArg) Render() string { return "null" }

// ListArg is an ordered list of arguments, rendered as [a, b, c].
type ListArg []Argument

func (ListArg) argument() {}

func (a ListArg) Render() string {
	parts := make([]string, len(a))
	for i, elem := range a {
		parts[i] = elem.Render()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Convert maps a JSON value to a message argument, branching on its kind.
//
// Strings, booleans and null map one to one, integers keep their full
// magnitude, decimals become plain text and arrays convert element by
// element. Objects have no argument form and fail with
// conformerr.UnsupportedValueKind.
func Convert(v ir.IRValue) (Argument, error) {
	switch val := v.(type) {
	case ir.IRString:
		return StringArg(val), nil
	case ir.IRInt:
		return IntArg{N: val.BigInt()}, nil
	case ir.IRDecimal:
		return DecimalArg(val.PlainString()), nil
	case ir.IRNull:
		return NullArg{}, nil
	case ir.IRBool:
		return BoolArg(val), nil
	case ir.IRArray:
		list := make(ListArg, len(val))
		for i, elem := range val {
			arg, err := Convert(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			list[i] = arg
		}
		return list, nil
	case nil:
		return nil, conformerr.New(conformerr.UnsupportedValueKind, "no value to convert")
	default:
		return nil, conformerr.Newf(conformerr.UnsupportedValueKind,
			"%s values cannot be used as message arguments", v.Kind())
	}
}
