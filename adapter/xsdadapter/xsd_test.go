package xsdadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/adapter/xsdadapter"
	"github.com/utlx/utlx/udm"
)

func TestParse_SchemaRootChildrenBecomeTopLevelKeys(t *testing.T) {
	src := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="Order"/>
	</xs:schema>`
	v, err := xsdadapter.Adapter{}.Parse([]byte(src), nil)
	require.NoError(t, err)
	assert.Equal(t, "xsd", v.Metadata().String(udm.KeySchemaType))
	elem, ok := v.AsObject().Get("element")
	require.True(t, ok)
	name, ok := elem.Attributes().Get("name")
	require.True(t, ok)
	assert.Equal(t, "Order", name.AsString())
}

func TestParse_PreservesXMLMetadataAlongsideSchemaType(t *testing.T) {
	v, err := xsdadapter.Adapter{}.Parse([]byte(`<xs:schema xmlns:xs="x"/>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "schema", v.Metadata().String(udm.KeyXMLRootName))
	assert.Equal(t, "xsd", v.Metadata().String(udm.KeySchemaType))
}

func TestParse_MalformedXMLIsError(t *testing.T) {
	_, err := xsdadapter.Adapter{}.Parse([]byte(`<xs:schema>`), nil)
	assert.Error(t, err)
}

func TestSerialise_AlwaysFails(t *testing.T) {
	_, err := xsdadapter.Adapter{}.Serialise(udm.Null(), nil)
	assert.Error(t, err)
}
