package xmladapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/adapter/xmladapter"
	"github.com/utlx/utlx/udm"
)

func TestParse_AttributesAndTextSeparateFromChildren(t *testing.T) {
	v, err := xmladapter.Adapter{}.Parse([]byte(`<Order id="1"><Name>A</Name></Order>`), nil)
	require.NoError(t, err)
	require.Equal(t, udm.KindObject, v.Kind())
	name, ok := v.AsObject().Get("Name")
	require.True(t, ok)
	assert.Equal(t, "A", name.AsString())
	idAttr, ok := v.Attributes().Get("id")
	require.True(t, ok)
	assert.Equal(t, "1", idAttr.AsString())
	assert.False(t, v.AsObject().Has("id"), "attributes must not leak into Object keys")
	assert.Equal(t, "Order", v.Metadata().String(udm.KeyXMLRootName))
}

func TestParse_RepeatedElementsAutoArray(t *testing.T) {
	v, err := xmladapter.Adapter{}.Parse([]byte(`<Items><Item>1</Item><Item>2</Item><Item>3</Item></Items>`), nil)
	require.NoError(t, err)
	items, ok := v.AsObject().Get("Item")
	require.True(t, ok)
	require.Equal(t, udm.KindArray, items.Kind())
	arr := items.AsArray()
	require.Len(t, arr, 3)
	assert.Equal(t, "2", arr[1].AsString())
}

func TestParse_MixedContentPreservesTextPosition(t *testing.T) {
	v, err := xmladapter.Adapter{}.Parse([]byte(`<p>hello <b>world</b> again</p>`), nil)
	require.NoError(t, err)
	o := v.AsObject()
	keys := o.Keys()
	assert.Equal(t, []string{"#text", "b", "#text2"}, keys)
}

func TestParse_EncodingDefaultsToUTF8(t *testing.T) {
	v, err := xmladapter.Adapter{}.Parse([]byte(`<a/>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", v.Metadata().String(udm.KeyXMLEncoding))
}

func TestParse_EncodingDeclarationIsHonoured(t *testing.T) {
	v, err := xmladapter.Adapter{}.Parse([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><a/>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "ISO-8859-1", v.Metadata().String(udm.KeyXMLEncoding))
}

func TestParse_NoRootElementIsError(t *testing.T) {
	_, err := xmladapter.Adapter{}.Parse([]byte(`   `), nil)
	assert.Error(t, err)
}

func TestSerialise_IdentityRoundTripUsesOriginalRootName(t *testing.T) {
	v, err := xmladapter.Adapter{}.Parse([]byte(`<Order id="1"><Name>A</Name></Order>`), nil)
	require.NoError(t, err)
	out, err := xmladapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Order id="1"><Name>A</Name></Order>`, string(out))
}

func TestSerialise_FreshSingleKeyObjectNamesTheRoot(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("Greeting",
		udm.NewObject(udm.NewObjectBuilder().Set("Text", udm.String("hi")).Build()),
	).Build())
	out, err := xmladapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Greeting><Text>hi</Text></Greeting>`, string(out))
}

func TestSerialise_MultiKeyObjectWithoutRootNameIsError(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Set("b", udm.Int(2)).Build())
	_, err := xmladapter.Adapter{}.Serialise(v, nil)
	assert.Error(t, err)
}

// Reattaching an entire parsed element under a new parent key (a direct
// reference, e.g. `{ Envelope: { OriginContent: $input } }`) nests the
// whole original element, tag and all, one level deeper.
func TestSerialise_DirectReferenceNestsWholeElementUnderNewParent(t *testing.T) {
	order, err := xmladapter.Adapter{}.Parse([]byte(`<Order id="1"><Name>A</Name></Order>`), nil)
	require.NoError(t, err)

	envelope := udm.NewObject(udm.NewObjectBuilder().Set("Envelope",
		udm.NewObject(udm.NewObjectBuilder().Set("OriginContent", order).Build()),
	).Build())

	out, err := xmladapter.Adapter{}.Serialise(envelope, nil)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Envelope><OriginContent><Order id="1"><Name>A</Name></Order></OriginContent></Envelope>`, string(out))
}

// Spreading a parsed element's fields into a fresh object (e.g.
// `{ Envelope: { ...$input } }`) drops the source root name and metadata,
// so only the merged fields survive under the new wrapper tag — the
// Order wrapper and its attribute are gone.
func TestSerialise_SpreadFieldsMergeWithoutOriginalRootName(t *testing.T) {
	order, err := xmladapter.Adapter{}.Parse([]byte(`<Order id="1"><Name>A</Name></Order>`), nil)
	require.NoError(t, err)

	spread := udm.NewObjectBuilder()
	order.AsObject().ForEach(func(k string, v *udm.Value) bool { spread.Set(k, v); return true })
	fresh := udm.NewObject(spread.Build())

	envelope := udm.NewObject(udm.NewObjectBuilder().Set("Envelope", fresh).Build())

	out, err := xmladapter.Adapter{}.Serialise(envelope, nil)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Envelope><Name>A</Name></Envelope>`, string(out))
}

func TestSerialise_RootNameOptionOverridesMetadata(t *testing.T) {
	order, err := xmladapter.Adapter{}.Parse([]byte(`<Order id="1"><Name>A</Name></Order>`), nil)
	require.NoError(t, err)
	out, err := xmladapter.Adapter{}.Serialise(order, map[string]any{"rootName": "Purchase"})
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Purchase id="1"><Name>A</Name></Purchase>`, string(out))
}

func TestSerialise_EncodingNoneOmitsEncodingAttribute(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.String("x")).Build())
	out, err := xmladapter.Adapter{}.Serialise(v, map[string]any{"encoding": "NONE"})
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0"?><a>x</a>`, string(out))
}

func TestSerialise_PrettyIndentsNestedElements(t *testing.T) {
	v := udm.NewObject(udm.NewObjectBuilder().Set("root",
		udm.NewObject(udm.NewObjectBuilder().Set("child", udm.String("v")).Build()),
	).Build())
	out, err := xmladapter.Adapter{}.Serialise(v, map[string]any{"pretty": true, "indent": "  "})
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  <child>v</child>\n")
}

func TestSerialise_RepeatedKeyArraySerialisesAsSiblings(t *testing.T) {
	items := udm.Array(udm.String("1"), udm.String("2"))
	v := udm.NewObject(udm.NewObjectBuilder().Set("Items",
		udm.NewObject(udm.NewObjectBuilder().Set("Item", items).Build()),
	).Build())
	out, err := xmladapter.Adapter{}.Serialise(v, nil)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Items><Item>1</Item><Item>2</Item></Items>`, string(out))
}

func TestParse_ISO88591DeclarationDecodesLegacyBytes(t *testing.T) {
	src := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><p>caf\xe9</p>")
	v, err := xmladapter.Adapter{}.Parse(src, nil)
	require.NoError(t, err)
	assert.Equal(t, "café", v.AsString())
}
