package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utlx/utlx/errs"
)

func TestNew_ErrorStringWithoutLocation(t *testing.T) {
	e := errs.New(errs.KindTypeError, "expected string, got int")
	assert.Equal(t, "TypeError: expected string, got int", e.Error())
}

func TestAt_AddsLocationToErrorString(t *testing.T) {
	e := errs.New(errs.KindSyntaxError, "unexpected token").At(errs.Location{Line: 3, Column: 7})
	assert.Equal(t, "SyntaxError at 3:7: unexpected token", e.Error())
}

func TestNewf_FormatsMessage(t *testing.T) {
	e := errs.Newf(errs.KindUndefinedVariable, "undefined variable %q", "foo")
	assert.Equal(t, `UndefinedVariable: undefined variable "foo"`, e.Error())
}

func TestWithContext_AccumulatesMultipleKeys(t *testing.T) {
	e := errs.New(errs.KindPropertyNotFound, "no such property").
		WithContext("name", "Department").
		WithContext("argIndex", 1)
	assert.Equal(t, "Department", e.Context["name"])
	assert.Equal(t, 1, e.Context["argIndex"])
}

func TestWrap_PreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := errs.Wrap(errs.KindFormatParseError, cause, "invalid input")
	assert.ErrorIs(t, e, cause)
}

func TestIs_MatchesKindThroughPlainWrapping(t *testing.T) {
	e := errs.New(errs.KindArityError, "wrong number of arguments")
	wrapped := fmtErrorf(e)
	assert.True(t, errs.Is(wrapped, errs.KindArityError))
	assert.False(t, errs.Is(wrapped, errs.KindTypeError))
}

func fmtErrorf(e error) error {
	return &wrapper{e}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }

func TestLocation_StringEmptyWhenZero(t *testing.T) {
	assert.Equal(t, "", errs.Location{}.String())
	assert.Equal(t, "1:1", errs.Location{Line: 1, Column: 1}.String())
}
