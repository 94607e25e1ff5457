package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/eval"
	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/udm"
)

func run(t *testing.T, body string, inputs map[string]*udm.Value) (*udm.Value, error) {
	t.Helper()
	src := "%utlx 1.0\ninput data json\noutput json\n---\n" + body
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return eval.Run(prog, inputs, eval.Options{})
}

func TestEval_ArithmeticPromotion(t *testing.T) {
	v, err := run(t, "1 + 2 * 3", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.AsInt())

	v, err = run(t, "1 + 2.5", nil)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v.AsFloat())
}

func TestEval_DivideAlwaysFloat(t *testing.T) {
	v, err := run(t, "4 / 2", nil)
	require.NoError(t, err)
	assert.Equal(t, udm.ScalarFloat, v.ScalarKind())
	assert.Equal(t, 2.0, v.AsFloat())
}

func TestEval_DivideByZeroIsTypeError(t *testing.T) {
	_, err := run(t, "1 / 0", nil)
	require.Error(t, err)
}

func TestEval_PlusFallsBackToStringConcat(t *testing.T) {
	v, err := run(t, `1 + "x"`, nil)
	require.NoError(t, err)
	assert.Equal(t, "1x", v.AsString())
}

func TestEval_ShortCircuitAndOr(t *testing.T) {
	v, err := run(t, "false && (1/0 == 1)", nil)
	require.NoError(t, err)
	assert.False(t, v.AsBool())

	v, err = run(t, "true || (1/0 == 1)", nil)
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestEval_Coalesce_SwallowsAbsencePropagatesOthers(t *testing.T) {
	v, err := run(t, `$data.missing ?? "fallback"`, map[string]*udm.Value{
		"data": udm.NewObject(udm.NewOrderedObject()),
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback", v.AsString())

	_, err = run(t, `(1/0) ?? "fallback"`, nil)
	require.Error(t, err, "?? must not swallow a TypeError")
}

func TestEval_PropertyAccessDescendsIntoArray(t *testing.T) {
	arr := udm.Array(
		udm.NewObject(udm.NewObjectBuilder().Set("x", udm.Int(1)).Build()),
		udm.NewObject(udm.NewObjectBuilder().Set("x", udm.Int(2)).Build()),
	)
	v, err := run(t, "$data.x", map[string]*udm.Value{"data": arr})
	require.NoError(t, err)
	require.Equal(t, udm.KindArray, v.Kind())
	assert.Equal(t, int64(1), v.AsArray()[0].AsInt())
	assert.Equal(t, int64(2), v.AsArray()[1].AsInt())
}

func TestEval_SafeNavShortCircuitsOnNull(t *testing.T) {
	v, err := run(t, "$data?.missing", map[string]*udm.Value{"data": udm.Null()})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEval_SafeNavStillErrorsOnTypo(t *testing.T) {
	obj := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(1)).Build())
	_, err := run(t, "$data?.b", map[string]*udm.Value{"data": obj})
	assert.Error(t, err)
}

func TestEval_IndexAccessNegativeAndOutOfBounds(t *testing.T) {
	arr := udm.Array(udm.Int(1), udm.Int(2), udm.Int(3))
	v, err := run(t, "$data[-1]", map[string]*udm.Value{"data": arr})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.AsInt())

	_, err = run(t, "$data[10]", map[string]*udm.Value{"data": arr})
	assert.Error(t, err)
}

func TestEval_ObjectLiteralLetAndSpreadOrdering(t *testing.T) {
	src := `{ let x = 1; a: x, b: x + 1, ...$data }`
	data := udm.NewObject(udm.NewObjectBuilder().Set("a", udm.Int(99)).Set("c", udm.Int(3)).Build())
	v, err := run(t, src, map[string]*udm.Value{"data": data})
	require.NoError(t, err)
	o := v.AsObject()
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys())
	got, _ := o.Get("a")
	assert.Equal(t, int64(99), got.AsInt(), "later spread overwrites value but keeps original position")
}

func TestEval_MatchExhaustivenessError(t *testing.T) {
	_, err := run(t, `match 5 { 1 => "one" }`, nil)
	require.Error(t, err)
}

func TestEval_MatchBindsIdentifierPattern(t *testing.T) {
	v, err := run(t, `match 5 { n => n + 1 }`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.AsInt())
}

func TestEval_LambdaArityError(t *testing.T) {
	_, err := run(t, `((x, y) => x)(1)`, nil)
	assert.Error(t, err)
}

func TestEval_PipeDesugarsToCallWithLeftPrepended(t *testing.T) {
	v, err := run(t, `2 |> ((a, b) => a + b)(3)`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.AsInt())
}

func TestEval_UndefinedVariableCarriesNameInContext(t *testing.T) {
	_, err := run(t, `nope`, nil)
	require.Error(t, err)
	var ee *errs.EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "nope", ee.Context["name"])
}

func TestEval_RecursionLimitExceeded(t *testing.T) {
	src := "%utlx 1.0\ninput data json\noutput json\n---\n((x) => x(x))((x) => x(x))"
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	_, err = eval.Run(prog, nil, eval.Options{RecursionLimit: 50})
	require.Error(t, err)
}
