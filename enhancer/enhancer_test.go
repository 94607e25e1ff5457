package enhancer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utlx/utlx/enhancer"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/eval"
	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/udm"
)

func employeesInput() *udm.Value {
	row := func(name, dept string) *udm.Value {
		b := udm.NewObjectBuilder()
		b.Set("Name", udm.String(name))
		b.Set("Department", udm.String(dept))
		return udm.NewObject(b.Build())
	}
	return udm.Array(row("Ann", "Eng"), row("Bo", "Sales"))
}

// TestEnhance_MissingLambdaParameter covers
// `filter($employees, Department == "Eng")` with a bound `employees` input
// whose records have a `Department` field: it must enhance into UTLX-002
// with the exact corrected call text.
func TestEnhance_MissingLambdaParameter(t *testing.T) {
	prog, err := parser.Parse("%utlx 1.0\ninput employees csv\noutput json\n---\nfilter($employees, Department == \"Eng\")")
	require.NoError(t, err)

	inputs := map[string]*udm.Value{"employees": employeesInput()}
	_, runErr := eval.Run(prog, inputs, eval.Options{})
	require.Error(t, runErr)

	fields := enhancer.CollectFields(inputs)
	enhanced := enhancer.Enhance(runErr, fields)
	require.NotNil(t, enhanced, "expected the bare-identifier call to be recognised as a missing lambda parameter")

	assert.Equal(t, "UTLX-002", enhanced.Code)
	assert.Equal(t, `filter($employees, e => e.Department == "Eng")`, enhanced.Suggestion)
	assert.Equal(t, enhanced.Suggestion, enhanced.CorrectExample)
	assert.Equal(t, `filter($employees, Department == "Eng")`, enhanced.IncorrectExample)

	ee := enhanced.AsEngineError()
	assert.Equal(t, errs.KindEnhancedError, ee.Kind)
	assert.Equal(t, "UTLX-002", ee.Context["code"])
}

func TestEnhance_TypoSuggestsClosestField(t *testing.T) {
	prog, err := parser.Parse("%utlx 1.0\ninput employees csv\noutput json\n---\nmap($employees, e => e.Departmant)")
	require.NoError(t, err)

	inputs := map[string]*udm.Value{"employees": employeesInput()}
	_, runErr := eval.Run(prog, inputs, eval.Options{})
	require.Error(t, runErr)

	fields := enhancer.CollectFields(inputs)
	enhanced := enhancer.Enhance(runErr, fields)
	require.NotNil(t, enhanced)
	assert.Equal(t, "UTLX-001", enhanced.Code)
	assert.Equal(t, "Department", enhanced.Suggestion)
}

func TestEnhance_ReturnsNilWhenNothingApplies(t *testing.T) {
	prog, err := parser.Parse("%utlx 1.0\ninput employees csv\noutput json\n---\n$missingTopLevelInput")
	require.NoError(t, err)

	inputs := map[string]*udm.Value{"employees": employeesInput()}
	_, runErr := eval.Run(prog, inputs, eval.Options{})
	require.Error(t, runErr)

	fields := enhancer.CollectFields(inputs)
	assert.Nil(t, enhancer.Enhance(runErr, fields))
}

func TestFieldIndex_UnionAcrossRecords(t *testing.T) {
	idx := enhancer.CollectFields(map[string]*udm.Value{"employees": employeesInput()})
	assert.ElementsMatch(t, []string{"Name", "Department"}, idx.Fields("employees"))
	assert.True(t, idx.Has("Department"))
	assert.False(t, idx.Has("Salary"))
}
