package yamladapter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/adapter/yamladapter"
	"github.com/utlx/utlx/udm"
)

func TestParse_PreservesKeyOrderAndScalarKinds(t *testing.T) {
	v, err := yamladapter.Adapter{}.Parse([]byte("b: 1\na: 2.5\nflag: true\nname: hi\n"), nil)
	require.NoError(t, err)
	o := v.AsObject()
	assert.Equal(t, []string{"b", "a", "flag", "name"}, o.Keys())
	bv, _ := o.Get("b")
	assert.Equal(t, udm.ScalarInt, bv.ScalarKind())
	av, _ := o.Get("a")
	assert.Equal(t, udm.ScalarFloat, av.ScalarKind())
	flag, _ := o.Get("flag")
	assert.True(t, flag.AsBool())
}

func TestParse_ResolvesAnchorsAndAliases(t *testing.T) {
	src := "defaults: &defaults\n  retries: 3\ncopy: *defaults\n"
	v, err := yamladapter.Adapter{}.Parse([]byte(src), nil)
	require.NoError(t, err)
	cp, ok := v.AsObject().Get("copy")
	require.True(t, ok)
	retries, ok := cp.AsObject().Get("retries")
	require.True(t, ok)
	assert.Equal(t, int64(3), retries.AsInt())
}

func TestParse_SequenceOfScalars(t *testing.T) {
	v, err := yamladapter.Adapter{}.Parse([]byte("- 1\n- 2\n- 3\n"), nil)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Len(t, arr, 3)
	assert.Equal(t, int64(2), arr[1].AsInt())
}

func TestParse_EmptyDocumentIsNull(t *testing.T) {
	v, err := yamladapter.Adapter{}.Parse([]byte(""), nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestSerialise_BlockStyleByDefault(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Set("b", udm.String("x")).Build())
	out, err := yamladapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.Contains(s, "a: 1"))
	assert.True(t, strings.Contains(s, "b: x"))
	assert.False(t, strings.Contains(s, "{"), "block style must not use flow braces")
}

func TestSerialise_FlowStyle(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Build())
	out, err := yamladapter.Adapter{}.Serialise(v, map[string]any{"flowStyle": true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "{")
}

func TestRoundTrip_NestedMapAndSequence(t *testing.T) {
	src := "name: A\ntags:\n  - x\n  - y\n"
	v, err := yamladapter.Adapter{}.Parse([]byte(src), nil)
	require.NoError(t, err)
	out, err := yamladapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	v2, err := yamladapter.Adapter{}.Parse(out, nil)
	require.NoError(t, err)
	assert.True(t, udm.Equal(v, v2))
}
