package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/engine"
	"github.com/utlx/utlx/eval"
	"github.com/utlx/utlx/udm"
)

// TestEndToEnd_JSONSumAggregation drives the full public pipeline: parse
// the script, parseFormat the input, execute, serialiseFormat the result.
func TestEndToEnd_JSONSumAggregation(t *testing.T) {
	script := `%utlx 1.0
input json
output json
---
{ total: $input.items |> map(i => i.price * i.qty) |> sum() }`

	prog, err := engine.Parse([]byte(script))
	require.NoError(t, err)
	require.Len(t, prog.Header.Inputs, 1)
	assert.Equal(t, "input", prog.Header.Inputs[0].Name)
	assert.Equal(t, "json", prog.Header.Inputs[0].Format)

	input, err := engine.ParseFormat([]byte(`{"items":[{"price":10,"qty":2},{"price":5,"qty":3}]}`), "json", nil)
	require.NoError(t, err)

	out, err := engine.Execute(prog, map[string]*udm.Value{"input": input}, eval.Options{})
	require.NoError(t, err)

	data, err := engine.SerialiseFormat(out, "json", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":35}`, string(data))
}

// TestEndToEnd_XMLEnvelopeWrap exercises wrapping an entire parsed XML
// input under a new root element, through real XML parse/serialise.
func TestEndToEnd_XMLEnvelopeWrap(t *testing.T) {
	wrap := `%utlx 1.0
input xml
output xml
---
{ Envelope: { OriginContent: $input } }`

	prog, err := engine.Parse([]byte(wrap))
	require.NoError(t, err)

	input, err := engine.ParseFormat([]byte(`<Order id="1"><Name>A</Name></Order>`), "xml", nil)
	require.NoError(t, err)

	out, err := engine.Execute(prog, map[string]*udm.Value{"input": input}, eval.Options{})
	require.NoError(t, err)

	data, err := engine.SerialiseFormat(out, "xml", nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<Envelope><OriginContent><Order id="1"><Name>A</Name></Order></OriginContent></Envelope>`)
}

func TestParseFormat_AutoDetectsJSONAndXML(t *testing.T) {
	v, err := engine.ParseFormat([]byte(`{"a":1}`), "auto", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", v.Metadata().String("detectedFormat"))

	v, err = engine.ParseFormat([]byte(`<a>1</a>`), "auto", nil)
	require.NoError(t, err)
	assert.Equal(t, "xml", v.Metadata().String("detectedFormat"))
}

func TestSerialiseFormat_UnknownFormat(t *testing.T) {
	_, err := engine.SerialiseFormat(udm.Null(), "protobuf", nil)
	assert.Error(t, err)
}
