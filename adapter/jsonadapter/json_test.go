package jsonadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/adapter/jsonadapter"
	"github.com/utlx/utlx/udm"
)

func TestParse_PreservesKeyOrderAndIntFloatDistinction(t *testing.T) {
	v, err := jsonadapter.Adapter{}.Parse([]byte(`{"b": 1, "a": 2.5}`), nil)
	require.NoError(t, err)
	o := v.AsObject()
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	bv, _ := o.Get("b")
	assert.Equal(t, udm.ScalarInt, bv.ScalarKind())
	av, _ := o.Get("a")
	assert.Equal(t, udm.ScalarFloat, av.ScalarKind())
}

func TestParse_LargeIntegerDoesNotRoundTripThroughFloat(t *testing.T) {
	v, err := jsonadapter.Adapter{}.Parse([]byte(`9007199254740993`), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), v.AsInt())
}

func TestParse_TrailingContentIsError(t *testing.T) {
	_, err := jsonadapter.Adapter{}.Parse([]byte(`1 2`), nil)
	assert.Error(t, err)
}

func TestParse_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`42`)...)
	v, err := jsonadapter.Adapter{}.Parse(data, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())
}

func TestParse_AllowCommentsAndTrailingCommas(t *testing.T) {
	src := `{
		// a comment
		"a": 1,
		"b": 2, /* trailing */
	}`
	v, err := jsonadapter.Adapter{}.Parse([]byte(src), map[string]any{"allowComments": true, "allowTrailingCommas": true})
	require.NoError(t, err)
	o := v.AsObject()
	assert.True(t, o.Has("a"))
	assert.True(t, o.Has("b"))
}

func TestSerialise_MinifiedByDefault(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Build())
	out, err := jsonadapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(out))
}

func TestSerialise_PrettyWithIndent(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Build())
	out, err := jsonadapter.Adapter{}.Serialise(v, map[string]any{"pretty": true, "indent": "  "})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))
}

func TestSerialise_SortKeys(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("b", udm.Int(1)).Set("a", udm.Int(2)).Build())
	out, err := jsonadapter.Adapter{}.Serialise(v, map[string]any{"sortKeys": true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(out))
}

func TestSerialise_AsciiEscapesNonAsciiAndControlChars(t *testing.T) {
	out, err := jsonadapter.Adapter{}.Serialise(udm.String("café\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "\"caf\\u00e9\\n\"", string(out))
}

func TestSerialise_EmptyArrayAndObject(t *testing.T) {
	out, err := jsonadapter.Adapter{}.Serialise(udm.Array(), nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))

	out, err = jsonadapter.Adapter{}.Serialise(udm.NewObject(udm.NewOrderedObject()), nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestSerialise_LambdaIsError(t *testing.T) {
	_, err := jsonadapter.Adapter{}.Serialise(udm.NewLambda(nil), nil)
	assert.Error(t, err)
}

func TestRoundTrip_NestedStructure(t *testing.T) {
	src := `{"name": "A", "tags": ["x", "y"], "meta": {"count": 2}}`
	v, err := jsonadapter.Adapter{}.Parse([]byte(src), nil)
	require.NoError(t, err)
	out, err := jsonadapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"A","tags":["x","y"],"meta":{"count":2}}`, string(out))
}
