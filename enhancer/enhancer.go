package enhancer

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/parser"
)

// typoThreshold is the Levenshtein distance threshold (≤ 3) a field name
// must fall within to be suggested as a typo correction.
const typoThreshold = 3

// EnhancedError is a structured wrapper: a suggestion layered on top
// of the EngineError that actually aborted evaluation. It is itself
// reported as errs.KindEnhancedError so callers that only switch on Kind
// still see a recognisable, stable taxonomy member, while Unwrap exposes
// the original error for callers that want it.
type EnhancedError struct {
	Code             string
	Message          string
	Suggestion       string
	CorrectExample   string
	IncorrectExample string
	cause            *errs.EngineError
}

func (e *EnhancedError) Error() string {
	if e.Suggestion == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
}

// Unwrap exposes the original EngineError for errors.As/errors.Is.
func (e *EnhancedError) Unwrap() error { return e.cause }

// AsEngineError renders the enhancement as an errs.EngineError of kind
// EnhancedError, preserving the original error's location and context so
// nothing the caller already depends on (position reporting, `Is` checks
// via the wrapped cause) is lost.
func (e *EnhancedError) AsEngineError() *errs.EngineError {
	ee := errs.New(errs.KindEnhancedError, e.Error()).At(e.cause.Location)
	ee = ee.WithContext("code", e.Code).
		WithContext("suggestion", e.Suggestion).
		WithContext("cause", e.cause)
	if e.CorrectExample != "" {
		ee = ee.WithContext("correctExample", e.CorrectExample)
	}
	if e.IncorrectExample != "" {
		ee = ee.WithContext("incorrectExample", e.IncorrectExample)
	}
	return ee
}

// Enhance inspects err and, if it recognises one of two shapes (missing
// lambda parameter, or a plain field-name typo), returns an *EnhancedError
// wrapping it. It returns nil — not err — when no enhancement applies, so
// a caller can do:
//
//	if enhanced := enhancer.Enhance(err, fields); enhanced != nil {
//	    return enhanced.AsEngineError()
//	}
//	return err
//
// Enhance never replaces an error it doesn't understand, and never runs
// except at the system boundary — the evaluator itself is untouched by
// its existence.
func Enhance(err error, fields FieldIndex) *EnhancedError {
	ee, ok := err.(*errs.EngineError)
	if !ok {
		return nil
	}
	if ee.Kind != errs.KindUndefinedVariable && ee.Kind != errs.KindPropertyNotFound {
		return nil
	}
	name, _ := ee.Context["name"].(string)
	if name == "" {
		return nil
	}

	if enhanced := enhanceMissingLambdaParam(ee, name, fields); enhanced != nil {
		return enhanced
	}
	return enhanceTypo(ee, name, fields)
}

// enhanceMissingLambdaParam recognises the missing-lambda-parameter
// mistake: the unknown name must (a) have failed while evaluating a
// non-lambda argument to some call (the
// "enclosingCall" context eval.go's annotateArgError attaches) and (b)
// match a known field of a bound input — together, good evidence the
// author meant a field comparison and forgot the lambda parameter that
// would make it one.
func enhanceMissingLambdaParam(ee *errs.EngineError, name string, fields FieldIndex) *EnhancedError {
	call, _ := ee.Context["enclosingCall"].(*parser.Call)
	argIndex, hasIdx := ee.Context["argIndex"].(int)
	if call == nil || !hasIdx || argIndex < 0 || argIndex >= len(call.Args) {
		return nil
	}
	if !fields.Has(name) {
		return nil
	}

	const param = "e"
	incorrect := printExpr(call)
	correct := rewriteBareIdentifier(call, argIndex, param)

	return &EnhancedError{
		Code:             "UTLX-002",
		Message:          fmt.Sprintf("%q looks like a field name, but no lambda parameter was given to access it", name),
		Suggestion:       correct,
		IncorrectExample: incorrect,
		CorrectExample:   correct,
		cause:            ee,
	}
}

// enhanceTypo suggests the closest known field name within the
// Levenshtein threshold, if any.
func enhanceTypo(ee *errs.EngineError, name string, fields FieldIndex) *EnhancedError {
	best := ""
	bestDist := typoThreshold + 1
	for _, f := range fields.All() {
		if f == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, f)
		if d < bestDist {
			bestDist = d
			best = f
		}
	}
	if best == "" || bestDist > typoThreshold {
		return nil
	}
	return &EnhancedError{
		Code:       "UTLX-001",
		Message:    fmt.Sprintf("%q is not defined; did you mean %q?", name, best),
		Suggestion: best,
		cause:      ee,
	}
}
