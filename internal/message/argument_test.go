package message

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/ir"
)

func mustDecimal(t *testing.T, s string) ir.IRDecimal {
	t.Helper()
	d, err := ir.ParseIRDecimal(s)
	require.NoError(t, err)
	return d
}

func TestConvert_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    ir.IRValue
		expected Argument
		rendered string
	}{
		{"string", ir.IRString("hello"), StringArg("hello"), "hello"},
		{"empty string", ir.IRString(""), StringArg(""), ""},
		{"true", ir.IRBool(true), BoolArg(true), "true"},
		{"false", ir.IRBool(false), BoolArg(false), "false"},
		{"null", ir.IRNull{}, NullArg{}, "null"},
		{"decimal exponent", mustDecimal(t, "1E2"), DecimalArg("100"), "100"},
		{"decimal scale", mustDecimal(t, "3.140"), DecimalArg("3.140"), "3.140"},
		{"small decimal", mustDecimal(t, "1e-7"), DecimalArg("0.0000001"), "0.0000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, err := Convert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, arg)
			assert.Equal(t, tt.rendered, arg.Render())
		})
	}
}

func TestConvert_IntegerBeyond64Bits(t *testing.T) {
	const literal = "98765432109876543210987654321"
	v, err := ir.ParseIRInt(literal)
	require.NoError(t, err)

	arg, err := Convert(v)
	require.NoError(t, err)

	intArg, ok := arg.(IntArg)
	require.True(t, ok, "expected IntArg, got %T", arg)

	expected, _ := new(big.Int).SetString(literal, 10)
	assert.Equal(t, 0, intArg.N.Cmp(expected))
	assert.Equal(t, literal, arg.Render())
}

func TestConvert_ArrayPreservesStructure(t *testing.T) {
	input := ir.IRArray{
		ir.IRString("a"),
		ir.NewIRInt(1),
		ir.IRArray{},
		ir.IRArray{ir.IRNull{}, ir.IRArray{ir.IRBool(true)}},
	}

	arg, err := Convert(input)
	require.NoError(t, err)

	list, ok := arg.(ListArg)
	require.True(t, ok)
	require.Len(t, list, len(input))

	assert.Equal(t, StringArg("a"), list[0])
	assert.Equal(t, "1", list[1].Render())
	assert.Equal(t, ListArg{}, list[2])

	nested, ok := list[3].(ListArg)
	require.True(t, ok)
	require.Len(t, nested, 2)
	assert.Equal(t, NullArg{}, nested[0])
	assert.Equal(t, ListArg{BoolArg(true)}, nested[1])

	assert.Equal(t, "[a, 1, [], [null, [true]]]", arg.Render())
}

func TestConvert_DeepNesting(t *testing.T) {
	const depth = 200

	var v ir.IRValue = ir.IRString("leaf")
	for i := 0; i < depth; i++ {
		v = ir.IRArray{v}
	}

	arg, err := Convert(v)
	require.NoError(t, err)

	for i := 0; i < depth; i++ {
		list, ok := arg.(ListArg)
		require.True(t, ok, "level %d", i)
		require.Len(t, list, 1)
		arg = list[0]
	}
	assert.Equal(t, StringArg("leaf"), arg)
}

func TestConvert_ObjectUnsupported(t *testing.T) {
	_, err := Convert(ir.IRObject{"a": ir.NewIRInt(1)})
	require.Error(t, err)
	assert.True(t, conformerr.Is(err, conformerr.UnsupportedValueKind))
	assert.Contains(t, err.Error(), "object")
}

func TestConvert_ObjectInsideArray(t *testing.T) {
	_, err := Convert(ir.IRArray{ir.IRString("ok"), ir.IRObject{}})
	require.Error(t, err)
	assert.True(t, conformerr.Is(err, conformerr.UnsupportedValueKind))
	assert.Contains(t, err.Error(), "array[1]")
}

func TestConvert_Nil(t *testing.T) {
	_, err := Convert(nil)
	require.Error(t, err)
	assert.True(t, conformerr.Is(err, conformerr.UnsupportedValueKind))
}
