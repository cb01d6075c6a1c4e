package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
)

type recorder struct {
	diagnostics []Diagnostic
}

func (r *recorder) Error(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func TestNewDiagnostic(t *testing.T) {
	msg := message.New(`"%value%" rejected`)
	require.NoError(t, msg.Put("value", ir.IRString("x")))

	d := NewDiagnostic("email", msg, ir.IRString("x"))

	assert.Equal(t, Keyword, d.Keyword)
	assert.Equal(t, "email", d.Attribute)
	assert.Equal(t, `"x" rejected`, d.Message)
	assert.Equal(t, ir.IRString("x"), d.Value)
	assert.True(t, ir.Equal(ir.IRObject{"value": ir.IRString("x")}, d.Contents))
}

func TestDiagnostic_AsObject(t *testing.T) {
	d := Diagnostic{
		Keyword:   Keyword,
		Attribute: "date",
		Message:   "bad date",
		Value:     ir.NewIRInt(3),
		Contents: ir.IRObject{
			"expected": ir.IRArray{ir.IRString("yyyy-MM-dd")},
			"message":  ir.IRString("shadowed"),
		},
	}

	obj := d.AsObject()

	assert.Equal(t, ir.IRString("bad date"), obj["message"])
	assert.Equal(t, ir.IRString("format"), obj["keyword"])
	assert.Equal(t, ir.IRString("date"), obj["attribute"])
	assert.True(t, ir.Equal(ir.NewIRInt(3), obj["value"]))
	assert.True(t, ir.Equal(ir.IRArray{ir.IRString("yyyy-MM-dd")}, obj["expected"]))

	d.Value = nil
	assert.Equal(t, ir.IRNull{}, d.AsObject()["value"])
}

func TestNewData(t *testing.T) {
	data := NewData("uuid", ir.IRString("abc"))
	assert.True(t, ir.Equal(ir.IRObject{"format": ir.IRString("uuid")}, data.Schema))
	assert.Equal(t, ir.IRString("abc"), data.Instance)

	assert.Equal(t, ir.IRNull{}, NewData("uuid", nil).Instance)
}

func TestAttributeFunc(t *testing.T) {
	var attr Attribute = AttributeFunc(func(report Reporter, _ message.Catalog, data Data) error {
		report.Error(Diagnostic{Attribute: "always", Value: data.Instance})
		return nil
	})

	rec := &recorder{}
	require.NoError(t, attr.Validate(rec, message.NewBundle("empty", nil), NewData("always", ir.IRBool(true))))
	require.Len(t, rec.diagnostics, 1)
	assert.Equal(t, ir.IRBool(true), rec.diagnostics[0].Value)
}

func TestRegistry(t *testing.T) {
	noop := AttributeFunc(func(Reporter, message.Catalog, Data) error { return nil })

	r := NewRegistry()
	require.NoError(t, r.Register("ipv4", noop))
	require.NoError(t, r.Register("date", noop))

	_, ok := r.Lookup("ipv4")
	assert.True(t, ok)
	_, ok = r.Lookup("ipv6")
	assert.False(t, ok)

	assert.Equal(t, []string{"date", "ipv4"}, r.Names())
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	noop := AttributeFunc(func(Reporter, message.Catalog, Data) error { return nil })
	r := NewRegistry().MustRegister("email", noop)

	err := r.Register("email", noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = r.Register("", noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	err = r.Register("nil", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute is nil")

	assert.Panics(t, func() { r.MustRegister("email", noop) })
}
