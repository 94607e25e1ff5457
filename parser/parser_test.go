package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/parser"
)

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return prog
}

func TestParse_SingleInputShorthandWithImplicitName(t *testing.T) {
	prog := mustParse(t, "%utlx 1.0\ninput json\noutput json\n---\n$input")
	require.Len(t, prog.Header.Inputs, 1)
	assert.Equal(t, "input", prog.Header.Inputs[0].Name)
	assert.Equal(t, "json", prog.Header.Inputs[0].Format)
}

func TestParse_SingleInputShorthandWithExplicitName(t *testing.T) {
	prog := mustParse(t, "%utlx 1.0\ninput orders json\noutput json\n---\n$orders")
	require.Len(t, prog.Header.Inputs, 1)
	assert.Equal(t, "orders", prog.Header.Inputs[0].Name)
	assert.Equal(t, "json", prog.Header.Inputs[0].Format)
}

func TestParse_MultiInputColonForm(t *testing.T) {
	prog := mustParse(t, "%utlx 1.0\ninput: a json, b csv\noutput json\n---\n$a")
	require.Len(t, prog.Header.Inputs, 2)
	assert.Equal(t, "a", prog.Header.Inputs[0].Name)
	assert.Equal(t, "json", prog.Header.Inputs[0].Format)
	assert.Equal(t, "b", prog.Header.Inputs[1].Name)
	assert.Equal(t, "csv", prog.Header.Inputs[1].Format)
}

func TestParse_HeaderOptions(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data csv {headers: true, delimiter: ","}
output json {pretty: true, indent: "  "}
---
$data`)
	in := prog.Header.Inputs[0]
	assert.Equal(t, true, in.Options["headers"])
	assert.Equal(t, ",", in.Options["delimiter"])
	assert.Equal(t, true, prog.Header.Output.Options["pretty"])
}

func TestParse_UnknownOptionIsHeaderError(t *testing.T) {
	_, err := parser.Parse(`%utlx 1.0
input data json {bogus: true}
output json
---
$data`)
	require.Error(t, err)
}

func TestParse_UnknownFormatIsHeaderError(t *testing.T) {
	_, err := parser.Parse(`%utlx 1.0
input data protobuf
output json
---
$data`)
	require.Error(t, err)
}

func TestParse_AutoNotAllowedAsOutputFormat(t *testing.T) {
	_, err := parser.Parse(`%utlx 1.0
input data auto
output auto
---
$data`)
	require.Error(t, err)
}

func TestParse_MissingOutputIsHeaderError(t *testing.T) {
	_, err := parser.Parse(`%utlx 1.0
input data json
---
$data`)
	require.Error(t, err)
}

func TestParse_ObjectLiteralWithSpreadAndLet(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
{ let x = 1; a: x, ...$data }`)
	obj, ok := prog.Body.(*parser.ObjectLiteral)
	require.True(t, ok)
	require.Len(t, obj.Entries, 3)
	assert.Equal(t, parser.EntryLet, obj.Entries[0].Kind)
	assert.Equal(t, parser.EntryKeyValue, obj.Entries[1].Kind)
	assert.Equal(t, parser.EntrySpread, obj.Entries[2].Kind)
}

func TestParse_ArrayLiteralWithSpread(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
[1, 2, ...$data]`)
	arr, ok := prog.Body.(*parser.ArrayLiteral)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	_, isSpread := arr.Elements[2].(*parser.SpreadInArray)
	assert.True(t, isSpread)
}

func TestParse_PropertyAttributeIndexAndSafeNav(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
$data.name.@id[0]?.label`)
	_, ok := prog.Body.(*parser.SafeNav)
	assert.True(t, ok)
}

func TestParse_LambdaAndPipe(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
$data |> map(x => x.price)`)
	pipe, ok := prog.Body.(*parser.Pipe)
	require.True(t, ok)
	call, ok := pipe.Right.(*parser.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	lambda, ok := call.Args[0].(*parser.Lambda)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, lambda.Params)
}

func TestParse_TernaryAndIf(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
$data > 0 ? "pos" : "neg"`)
	_, ok := prog.Body.(*parser.Ternary)
	assert.True(t, ok)

	prog = mustParse(t, `%utlx 1.0
input data json
output json
---
if ($data > 0) "pos" else "neg"`)
	_, ok = prog.Body.(*parser.If)
	assert.True(t, ok)
}

func TestParse_MatchExpression(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
match $data { 1 => "one", _ => "other" }`)
	m, ok := prog.Body.(*parser.Match)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	_, isWildcard := m.Arms[1].Pattern.(parser.PatternWildcard)
	assert.True(t, isWildcard)
}

func TestParse_BinaryPrecedence(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
1 + 2 * 3`)
	bin, ok := prog.Body.(*parser.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*parser.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParse_LiteralKinds(t *testing.T) {
	prog := mustParse(t, `%utlx 1.0
input data json
output json
---
null`)
	lit, ok := prog.Body.(*parser.Literal)
	require.True(t, ok)
	assert.True(t, lit.Value.IsNull())
}
