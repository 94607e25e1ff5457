package udm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/utlx/utlx/udm"
)

func TestNull_IsDistinctFromMissingOrEmpty(t *testing.T) {
	assert.True(t, udm.Null().IsNull())
	assert.False(t, udm.Int(0).IsNull())
	assert.False(t, udm.String("").IsNull())
	assert.False(t, udm.Array().IsNull())
	assert.False(t, udm.NewObject(udm.NewOrderedObject()).IsNull())
}

func TestScalarConstructorsRoundTrip(t *testing.T) {
	assert.Equal(t, true, udm.Bool(true).AsBool())
	assert.Equal(t, int64(42), udm.Int(42).AsInt())
	assert.Equal(t, 3.5, udm.Float(3.5).AsFloat())
	assert.Equal(t, "hi", udm.String("hi").AsString())
	assert.Equal(t, udm.ScalarString, udm.String("hi").ScalarKind())
}

func TestBinary_CopiesInputSlice(t *testing.T) {
	b := []byte{1, 2, 3}
	v := udm.Binary(b)
	b[0] = 99
	assert.Equal(t, byte(1), v.AsBinary()[0], "Binary must copy, not alias, the input slice")
}

func TestArray_CopiesInputSlice(t *testing.T) {
	elems := []*udm.Value{udm.Int(1), udm.Int(2)}
	v := udm.Array(elems...)
	elems[0] = udm.Int(99)
	assert.Equal(t, int64(1), v.AsArray()[0].AsInt(), "Array must copy its slice header")
}

func TestObjectBuilder_PreservesInsertionOrderAndOverwritePosition(t *testing.T) {
	b := udm.NewObjectBuilder().
		Set("b", udm.Int(1)).
		Set("a", udm.Int(2)).
		Set("b", udm.Int(3))
	o := b.Build()
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	assert.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt())
}

func TestObject_EntriesMatchKeyOrder(t *testing.T) {
	o := udm.NewObjectBuilder().Set("x", udm.Int(1)).Set("y", udm.Int(2)).Build()
	entries := o.Entries()
	assert.Equal(t, "x", entries[0].Key)
	assert.Equal(t, "y", entries[1].Key)
}

func TestAttributes_AreSeparateFromObjectKeys(t *testing.T) {
	attrs := udm.NewAttributesBuilder().Set("id", udm.String("1")).Build()
	v := udm.NewObject(udm.NewOrderedObject()).WithAttributes(attrs)
	assert.False(t, v.AsObject().Has("id"))
	got, ok := v.Attributes().Get("id")
	assert.True(t, ok)
	assert.Equal(t, "1", got.AsString())
}

func TestWithMetadata_ReplacesRatherThanMerges(t *testing.T) {
	mb1 := udm.NewMetadataBuilder().Set("a", 1)
	v := udm.Int(1).WithMetadata(mb1.Build())
	mb2 := udm.NewMetadataBuilder().Set("b", 2)
	v2 := v.WithMetadata(mb2.Build())

	_, hasA := v2.Metadata().Get("a")
	assert.False(t, hasA, "WithMetadata must replace the whole side-channel, not merge into it")
	b, hasB := v2.Metadata().Get("b")
	assert.True(t, hasB)
	assert.Equal(t, 2, b)
}

func TestEqual_IntAndFloatCompareByMathematicalValue(t *testing.T) {
	assert.True(t, udm.Equal(udm.Int(1), udm.Float(1.0)))
	assert.False(t, udm.Equal(udm.Int(1), udm.Float(1.5)))
}

func TestEqual_ObjectIsOrderIndependentArrayIsOrderDependent(t *testing.T) {
	o1 := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Set("b", udm.Int(2)).Build())
	o2 := udm.NewObject(udm.NewObjectBuilder().Set("b", udm.Int(2)).Set("a", udm.Int(1)).Build())
	assert.True(t, udm.Equal(o1, o2))

	a1 := udm.Array(udm.Int(1), udm.Int(2))
	a2 := udm.Array(udm.Int(2), udm.Int(1))
	assert.False(t, udm.Equal(a1, a2))
}

func TestEqual_IgnoresAttributesAndMetadata(t *testing.T) {
	attrs := udm.NewAttributesBuilder().Set("id", udm.String("1")).Build()
	a := udm.String("x").WithAttributes(attrs)
	b := udm.String("x")
	assert.True(t, udm.Equal(a, b))
}

func TestEqual_LambdasAreNeverEqual(t *testing.T) {
	l := udm.NewLambda(nil)
	assert.False(t, udm.Equal(l, l))
}

func TestTruthy_FalsyValues(t *testing.T) {
	falsy := []*udm.Value{
		udm.Null(),
		udm.Bool(false),
		udm.Int(0),
		udm.Float(0),
		udm.String(""),
		udm.Array(),
		udm.NewObject(udm.NewOrderedObject()),
	}
	for _, v := range falsy {
		assert.False(t, udm.Truthy(v), "expected %v to be falsy", v)
	}
}

func TestTruthy_TruthyValues(t *testing.T) {
	truthy := []*udm.Value{
		udm.Bool(true),
		udm.Int(1),
		udm.String("x"),
		udm.Array(udm.Int(1)),
		udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Build()),
	}
	for _, v := range truthy {
		assert.True(t, udm.Truthy(v), "expected %v to be truthy", v)
	}
}

func TestCanonicalString_Scalars(t *testing.T) {
	assert.Equal(t, "null", udm.CanonicalString(udm.Null()))
	assert.Equal(t, "true", udm.CanonicalString(udm.Bool(true)))
	assert.Equal(t, "42", udm.CanonicalString(udm.Int(42)))
	assert.Equal(t, "3.5", udm.CanonicalString(udm.Float(3.5)))
	assert.Equal(t, "hi", udm.CanonicalString(udm.String("hi")))
}

func TestCanonicalString_ArrayAndObject(t *testing.T) {
	arr := udm.Array(udm.Int(1), udm.String("a"))
	assert.Equal(t, `[1,a]`, udm.CanonicalString(arr))

	obj := udm.NewObject(udm.NewObjectBuilder().Set("x", udm.Int(1)).Build())
	assert.Equal(t, `{x:1}`, udm.CanonicalString(obj))
}

func TestDateTime_NormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	local := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	dt := udm.NewDateTimeFromTime(local)
	assert.Equal(t, 11, dt.Time().Hour())
	assert.Equal(t, time.UTC, dt.Time().Location())
}

func TestDate_String(t *testing.T) {
	d := udm.Date{Year: 2024, Month: 3, Day: 9}
	assert.Equal(t, "2024-03-09", d.String())
}

func TestTime_StringOmitsZeroNanoseconds(t *testing.T) {
	assert.Equal(t, "01:02:03", udm.Time{Hour: 1, Minute: 2, Second: 3}.String())
	assert.Equal(t, "01:02:03.000000500", udm.Time{Hour: 1, Minute: 2, Second: 3, Nanosecond: 500}.String())
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", (&udm.Value{}).TypeName())
	assert.Equal(t, "int", udm.Int(1).TypeName())
	assert.Equal(t, "array", udm.Array().TypeName())
	assert.Equal(t, "object", udm.NewObject(udm.NewOrderedObject()).TypeName())
}
