package jschadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/adapter/jschadapter"
	"github.com/utlx/utlx/udm"
)

func TestParse_ExposesSchemaKeysAtTopLevelWithSchemaTypeMetadata(t *testing.T) {
	src := `{"type": "object", "properties": {"name": {"type": "string"}}}`
	v, err := jschadapter.Adapter{}.Parse([]byte(src), nil)
	require.NoError(t, err)
	assert.Equal(t, "jsch", v.Metadata().String(udm.KeySchemaType))
	typ, ok := v.AsObject().Get("type")
	require.True(t, ok)
	assert.Equal(t, "object", typ.AsString())
}

func TestParse_InvalidSchemaDocumentIsError(t *testing.T) {
	_, err := jschadapter.Adapter{}.Parse([]byte(`not json`), nil)
	assert.Error(t, err)
}

func TestParse_NonObjectRootIsError(t *testing.T) {
	_, err := jschadapter.Adapter{}.Parse([]byte(`"just a string"`), nil)
	assert.Error(t, err)
}

func TestSerialise_AlwaysFails(t *testing.T) {
	_, err := jschadapter.Adapter{}.Serialise(udm.Null(), nil)
	assert.Error(t, err)
}
