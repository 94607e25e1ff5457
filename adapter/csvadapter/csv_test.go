package csvadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/adapter/csvadapter"
	"github.com/utlx/utlx/udm"
)

func TestParse_HeadersTrueProducesArrayOfObjects(t *testing.T) {
	v, err := csvadapter.Adapter{}.Parse([]byte("name,age\nAlice,30\nBob,25\n"), nil)
	require.NoError(t, err)
	rows := v.AsArray()
	require.Len(t, rows, 2)
	name, _ := rows[0].AsObject().Get("name")
	assert.Equal(t, "Alice", name.AsString())
}

func TestParse_HeadersFalseProducesArrayOfArrays(t *testing.T) {
	v, err := csvadapter.Adapter{}.Parse([]byte("a,b\nc,d\n"), map[string]any{"headers": false})
	require.NoError(t, err)
	rows := v.AsArray()
	require.Len(t, rows, 2)
	assert.Equal(t, udm.KindArray, rows[0].Kind())
	assert.Equal(t, "a", rows[0].AsArray()[0].AsString())
}

func TestParse_MissingTrailingCellsBecomeEmptyStrings(t *testing.T) {
	v, err := csvadapter.Adapter{}.Parse([]byte("a,b,c\n1,2\n"), nil)
	require.NoError(t, err)
	row := v.AsArray()[0].AsObject()
	c, ok := row.Get("c")
	require.True(t, ok)
	assert.Equal(t, "", c.AsString())
}

func TestParse_CustomDelimiter(t *testing.T) {
	v, err := csvadapter.Adapter{}.Parse([]byte("a;b\n1;2\n"), map[string]any{"delimiter": ";"})
	require.NoError(t, err)
	row := v.AsArray()[0].AsObject()
	got, _ := row.Get("a")
	assert.Equal(t, "1", got.AsString())
}

func TestParse_EmptyInputIsEmptyArray(t *testing.T) {
	v, err := csvadapter.Adapter{}.Parse([]byte(""), nil)
	require.NoError(t, err)
	assert.Empty(t, v.AsArray())
}

func TestSerialise_ArrayOfObjectsUsesUnionColumnOrder(t *testing.T) {
	row1 := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Set("b", udm.Int(2)).Build())
	row2 := udm.NewObject(udm.NewObjectBuilder().Set("b", udm.Int(3)).Set("c", udm.Int(4)).Build())
	out, err := csvadapter.Adapter{}.Serialise(udm.Array(row1, row2), nil)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,\n,3,4\n", string(out))
}

func TestSerialise_ArrayOfArraysWritesRowsVerbatim(t *testing.T) {
	row := udm.Array(udm.String("x"), udm.String("y"))
	out, err := csvadapter.Adapter{}.Serialise(udm.Array(row), nil)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(out))
}

func TestSerialise_NonArrayRootIsError(t *testing.T) {
	_, err := csvadapter.Adapter{}.Serialise(udm.NewObject(udm.NewOrderedObject()), nil)
	assert.Error(t, err)
}

func TestSerialise_IncludeBOM(t *testing.T) {
	out, err := csvadapter.Adapter{}.Serialise(udm.Array(), map[string]any{"includeBOM": true})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out)
}
