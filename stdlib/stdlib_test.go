package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/eval"
	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/stdlib"
	"github.com/utlx/utlx/udm"
)

func run(t *testing.T, body string, inputs map[string]*udm.Value) (*udm.Value, error) {
	t.Helper()
	src := "%utlx 1.0\ninput data json\noutput json\n---\n" + body
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return eval.Run(prog, inputs, eval.Options{})
}

func TestStdlib_ArrayMapFilterReduce(t *testing.T) {
	v, err := run(t, `[1, 2, 3, 4] |> map(n => n * 2)`, nil)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Len(t, arr, 4)
	assert.Equal(t, int64(2), arr[0].AsInt())
	assert.Equal(t, int64(8), arr[3].AsInt())

	v, err = run(t, `[1, 2, 3, 4] |> filter(n => n % 2 == 0)`, nil)
	require.NoError(t, err)
	assert.Len(t, v.AsArray(), 2)

	v, err = run(t, `[1, 2, 3] |> reduce((acc, n) => acc + n, 0)`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.AsInt())
}

func TestStdlib_ArraySortAndSortBy(t *testing.T) {
	v, err := run(t, `[3, 1, 2] |> sort()`, nil)
	require.NoError(t, err)
	arr := v.AsArray()
	assert.Equal(t, []int64{1, 2, 3}, []int64{arr[0].AsInt(), arr[1].AsInt(), arr[2].AsInt()})

	v, err = run(t, `["bb", "a", "ccc"] |> sortBy(s => length(s))`, nil)
	require.NoError(t, err)
	arr = v.AsArray()
	assert.Equal(t, "a", arr[0].AsString())
	assert.Equal(t, "ccc", arr[2].AsString())
}

func TestStdlib_ArrayFlattenDepth(t *testing.T) {
	v, err := run(t, `[[1, 2], [3, [4]]] |> flatten()`, nil)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Len(t, arr, 4)
	assert.Equal(t, udm.KindArray, arr[3].Kind(), "default depth 1 leaves nested arrays intact")

	v, err = run(t, `[[1, 2], [3, [4]]] |> flatten(2)`, nil)
	require.NoError(t, err)
	assert.Len(t, v.AsArray(), 4)
}

func TestStdlib_ArrayDistinctAndGroupBy(t *testing.T) {
	v, err := run(t, `[1, 2, 2, 3, 1] |> distinct()`, nil)
	require.NoError(t, err)
	assert.Len(t, v.AsArray(), 3)

	v, err = run(t, `[1, 2, 3, 4] |> groupBy(n => n % 2 == 0 ? "even" : "odd")`, nil)
	require.NoError(t, err)
	o := v.AsObject()
	even, ok := o.Get("even")
	require.True(t, ok)
	assert.Len(t, even.AsArray(), 2)
}

func TestStdlib_ArrayFirstLastEmptyIsError(t *testing.T) {
	v, err := run(t, `[10, 20, 30] |> first()`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.AsInt())

	v, err = run(t, `[10, 20, 30] |> last()`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30), v.AsInt())

	_, err = run(t, `[] |> first()`, nil)
	assert.Error(t, err)
}

func TestStdlib_ArraySumAvgMinMax(t *testing.T) {
	v, err := run(t, `[1, 2, 3] |> sum()`, nil)
	require.NoError(t, err)
	assert.Equal(t, udm.ScalarInt, v.ScalarKind())
	assert.Equal(t, int64(6), v.AsInt())

	v, err = run(t, `[1, 2.5, 3] |> sum()`, nil)
	require.NoError(t, err)
	assert.Equal(t, udm.ScalarFloat, v.ScalarKind())

	v, err = run(t, `[2, 4, 6] |> avg()`, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.AsFloat())

	v, err = run(t, `[5, 1, 9] |> min()`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt())
}

func TestStdlib_ArrayZipAndUnzip(t *testing.T) {
	v, err := run(t, `zip([1, 2], ["a", "b"])`, nil)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Len(t, arr, 2)
	assert.Equal(t, int64(1), arr[0].AsArray()[0].AsInt())
	assert.Equal(t, "a", arr[0].AsArray()[1].AsString())

	v, err = run(t, `unzip([[1, "a"], [2, "b"]])`, nil)
	require.NoError(t, err)
	cols := v.AsArray()
	require.Len(t, cols, 2)
	assert.Equal(t, "b", cols[1].AsArray()[1].AsString())
}

func TestStdlib_StringCaseConversions(t *testing.T) {
	v, err := run(t, `upper("hello")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", v.AsString())

	v, err = run(t, `camelCase("hello world")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "helloWorld", v.AsString())

	v, err = run(t, `snakeCase("HelloWorld")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello_world", v.AsString())

	v, err = run(t, `kebabCase("HelloWorld")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", v.AsString())
}

func TestStdlib_StringSubstringUsesRuneOffsets(t *testing.T) {
	v, err := run(t, `substring("héllo", 1, 3)`, nil)
	require.NoError(t, err)
	assert.Equal(t, "él", v.AsString())
}

func TestStdlib_StringSplitJoinReplace(t *testing.T) {
	v, err := run(t, `split("a,b,c", ",")`, nil)
	require.NoError(t, err)
	assert.Len(t, v.AsArray(), 3)

	v, err = run(t, `join(["a", "b", "c"], "-")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", v.AsString())

	v, err = run(t, `replaceAll("a.b.c", ".", "-")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", v.AsString())
}

func TestStdlib_StringPadAndRepeat(t *testing.T) {
	v, err := run(t, `padStart("7", 3, "0")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "007", v.AsString())

	v, err = run(t, `repeat("ab", 3)`, nil)
	require.NoError(t, err)
	assert.Equal(t, "ababab", v.AsString())
}

func TestStdlib_StringRegexFunctions(t *testing.T) {
	v, err := run(t, `matches("hello123", "^[a-z]+\\d+$")`, nil)
	require.NoError(t, err)
	assert.True(t, v.AsBool())

	v, err = run(t, `replaceRegex("a1b2c3", "\\d", "#")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "a#b#c#", v.AsString())
}

func TestStdlib_ObjectKeysValuesEntries(t *testing.T) {
	v, err := run(t, `keys({a: 1, b: 2})`, nil)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Len(t, arr, 2)
	assert.Equal(t, "a", arr[0].AsString())

	v, err = run(t, `{a: 1, b: 2} |> values()`, nil)
	require.NoError(t, err)
	assert.Len(t, v.AsArray(), 2)

	v, err = run(t, `entries({a: 1})`, nil)
	require.NoError(t, err)
	pair := v.AsArray()[0].AsArray()
	assert.Equal(t, "a", pair[0].AsString())
	assert.Equal(t, int64(1), pair[1].AsInt())
}

func TestStdlib_ObjectFromEntriesRoundTrip(t *testing.T) {
	v, err := run(t, `entries({a: 1, b: 2}) |> fromEntries()`, nil)
	require.NoError(t, err)
	o := v.AsObject()
	got, ok := o.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), got.AsInt())
}

func TestStdlib_ObjectMergeLastWriterWins(t *testing.T) {
	v, err := run(t, `merge({a: 1, b: 2}, {b: 3, c: 4})`, nil)
	require.NoError(t, err)
	o := v.AsObject()
	b, _ := o.Get("b")
	assert.Equal(t, int64(3), b.AsInt())
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys())
}

func TestStdlib_ObjectDeepMerge(t *testing.T) {
	v, err := run(t, `deepMerge({a: {x: 1, y: 2}}, {a: {y: 3, z: 4}})`, nil)
	require.NoError(t, err)
	a, _ := v.AsObject().Get("a")
	inner := a.AsObject()
	x, _ := inner.Get("x")
	y, _ := inner.Get("y")
	z, _ := inner.Get("z")
	assert.Equal(t, int64(1), x.AsInt())
	assert.Equal(t, int64(3), y.AsInt())
	assert.Equal(t, int64(4), z.AsInt())
}

func TestStdlib_ObjectPickOmit(t *testing.T) {
	v, err := run(t, `pick({a: 1, b: 2, c: 3}, ["a", "c"])`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, v.AsObject().Keys())

	v, err = run(t, `omit({a: 1, b: 2, c: 3}, ["b"])`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, v.AsObject().Keys())
}

func TestStdlib_ObjectGetPathSetPath(t *testing.T) {
	v, err := run(t, `getPath({a: {b: {c: 42}}}, "a.b.c")`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())

	v, err = run(t, `getPath({a: {b: 1}}, "a.x.y")`, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = run(t, `getPath(setPath({}, "a.b", 5), "a.b")`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.AsInt())
}

func TestStdlib_MathRoundingAndClamp(t *testing.T) {
	v, err := run(t, `round(3.456, 2)`, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.46, v.AsFloat())

	v, err = run(t, `ceil(2.1)`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.AsInt())

	v, err = run(t, `clamp(15, 0, 10)`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.AsInt())
}

func TestStdlib_MathAbsPreservesIntType(t *testing.T) {
	v, err := run(t, `abs(-5)`, nil)
	require.NoError(t, err)
	assert.Equal(t, udm.ScalarInt, v.ScalarKind())
	assert.Equal(t, int64(5), v.AsInt())
}

func TestStdlib_TypeConversions(t *testing.T) {
	v, err := run(t, `toInt("42")`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())

	v, err = run(t, `toString(42)`, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", v.AsString())

	v, err = run(t, `getType([1,2])`, nil)
	require.NoError(t, err)
	assert.Equal(t, "array", v.AsString())

	v, err = run(t, `isNumber(42)`, nil)
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestStdlib_EncodingBase64AndJSON(t *testing.T) {
	v, err := run(t, `base64Encode("hello")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", v.AsString())

	v, err = run(t, `base64Decode("aGVsbG8=")`, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), v.AsBinary())

	v, err = run(t, `fromJSON("{\"a\":1}").a`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt())
}

func TestStdlib_UnknownFunctionIsError(t *testing.T) {
	_, err := run(t, `noSuchFn(1)`, nil)
	assert.Error(t, err)
}

func TestStdlib_ArityMismatchIsError(t *testing.T) {
	_, err := run(t, `upper()`, nil)
	assert.Error(t, err)

	_, err = run(t, `upper("a", "b")`, nil)
	assert.Error(t, err)
}

func TestStdlib_CanonicalizeXmlSortsAttributesAndNeverSelfCloses(t *testing.T) {
	fn, ok := stdlib.Lookup("canonicalizeXml")
	require.True(t, ok)

	attrs := udm.NewAttributesBuilder().
		Set("zone", udm.String("west")).
		Set("id", udm.String("7")).
		Build()
	order := udm.NewObject(udm.NewObjectBuilder().Set("total", udm.Int(9)).Build()).WithAttributes(attrs)

	out, err := stdlib.Invoke(nil, fn, []*udm.Value{order, udm.String("Order")})
	require.NoError(t, err)
	assert.Equal(t, `<Order id="7" zone="west"><total>9</total></Order>`, out.AsString())
}

func TestStdlib_CanonicalizeXmlUsesRootNameMetadataWhenPresent(t *testing.T) {
	fn, ok := stdlib.Lookup("canonicalizeXml")
	require.True(t, ok)

	v := udm.NewObject(udm.NewObjectBuilder().Set("name", udm.String("A")).Build()).
		WithMetadata(udm.NewMetadataBuilder().Set(udm.KeyXMLRootName, "Item").Build())

	out, err := stdlib.Invoke(nil, fn, []*udm.Value{v})
	require.NoError(t, err)
	assert.Equal(t, `<Item><name>A</name></Item>`, out.AsString())
}

func TestStdlib_CanonicalizeXmlMissingRootNameIsError(t *testing.T) {
	fn, ok := stdlib.Lookup("canonicalizeXml")
	require.True(t, ok)

	v := udm.NewObject(udm.NewObjectBuilder().Set("name", udm.String("A")).Build())
	_, err := stdlib.Invoke(nil, fn, []*udm.Value{v})
	assert.Error(t, err)
}

func TestStdlib_ValidateRequiredTypeMinMaxRegexEnum(t *testing.T) {
	v, err := run(t, `validate(
		{name: "bob", age: 12, tags: "x"},
		[
			{path: "name", required: true, type: "string", regex: "^[a-z]+$"},
			{path: "age", type: "int", min: 18, max: 65},
			{path: "tags", type: "array"},
			{path: "email", required: true},
			{path: "role", type: "string", enum: ["admin", "user"]}
		]
	)`, nil)
	require.NoError(t, err)
	violations := v.AsArray()
	require.Len(t, violations, 3)
	assert.Contains(t, violations[0].AsString(), "age")
	assert.Contains(t, violations[1].AsString(), "tags")
	assert.Contains(t, violations[2].AsString(), "email")
}

func TestStdlib_ValidateCleanValueIsEmpty(t *testing.T) {
	v, err := run(t, `validate({name: "bob"}, [{path: "name", required: true, type: "string"}])`, nil)
	require.NoError(t, err)
	assert.Empty(t, v.AsArray())
}

func TestStdlib_SelectPathNavigatesSegmentsAndFilters(t *testing.T) {
	v, err := run(t, `selectPath({users: {user: [{id: 1, name: "a"}, {id: 5, name: "b"}]}}, "users/user[id=5]/name")`, nil)
	require.NoError(t, err)
	arr := v.AsArray()
	require.Len(t, arr, 1)
	assert.Equal(t, "b", arr[0].AsString())
}

func TestStdlib_SelectPathIndexAndWildcardAndCount(t *testing.T) {
	v, err := run(t, `selectPath({items: [{sku: "x"}, {sku: "y"}]}, "items[0]/sku")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", v.AsArray()[0].AsString())

	v, err = run(t, `selectPath({items: [{sku: "x"}, {sku: "y"}]}, "items/#count")`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.AsArray()[0].AsInt())

	v, err = run(t, `selectPath({a: {x: 1}, b: {x: 2}}, "*/x")`, nil)
	require.NoError(t, err)
	assert.Len(t, v.AsArray(), 2)
}
