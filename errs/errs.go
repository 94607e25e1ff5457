// Package errs implements the single EngineError taxonomy that crosses
// lexer, parser, adapter, evaluator and stdlib layers. The wrapping
// convention — a typed struct exposing Unwrap over an underlying cause —
// follows github.com/arturoeanton/go-xml's xml/error.go, generalised from
// one XML-specific SyntaxError to the full taxonomy, and built on
// github.com/pkg/errors the way aretext-aretext chains its errors.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which row of the error taxonomy an error belongs to.
type Kind string

const (
	KindSyntaxError              Kind = "SyntaxError"
	KindHeaderError              Kind = "HeaderError"
	KindFormatParseError         Kind = "FormatParseError"
	KindFormatSerialiseError     Kind = "FormatSerialiseError"
	KindUndefinedVariable        Kind = "UndefinedVariable"
	KindPropertyNotFound         Kind = "PropertyNotFound"
	KindIndexOutOfBounds         Kind = "IndexOutOfBounds"
	KindTypeError                Kind = "TypeError"
	KindArityError               Kind = "ArityError"
	KindFunctionArgumentError    Kind = "FunctionArgumentError"
	KindMatchExhaustivenessError Kind = "MatchExhaustivenessError"
	KindRecursionLimitExceeded   Kind = "RecursionLimitExceeded"
	KindEnhancedError            Kind = "EnhancedError"
)

// Location pinpoints a source position (line, column and byte offset).
type Location struct {
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	if l.Line == 0 && l.Column == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// EngineError is the single sum-type error that crosses every layer.
// Every constructor below returns one, so callers at the system boundary
// can type-switch on Kind rather than on Go error types.
type EngineError struct {
	Kind     Kind
	Message  string
	Location Location
	Context  map[string]any
	cause    error
}

func (e *EngineError) Error() string {
	loc := e.Location.String()
	if loc != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, loc, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.As/errors.Is.
func (e *EngineError) Unwrap() error { return e.cause }

// New constructs an EngineError with no location or wrapped cause.
func New(kind Kind, message string) *EngineError {
	return &EngineError{Kind: kind, Message: message}
}

// Newf is New with fmt-style formatting.
func Newf(kind Kind, format string, args ...any) *EngineError {
	return New(kind, fmt.Sprintf(format, args...))
}

// At attaches a source location.
func (e *EngineError) At(loc Location) *EngineError {
	e.Location = loc
	return e
}

// WithContext attaches a single context key/value (e.g. "function": "map").
func (e *EngineError) WithContext(key string, value any) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an underlying cause with pkg/errors so the stack trace and
// chain survive, while still presenting as an EngineError at the boundary.
func Wrap(kind Kind, cause error, message string) *EngineError {
	return &EngineError{Kind: kind, Message: message, cause: errors.Wrap(cause, message)}
}

// Is reports whether err is an EngineError of the given kind.
func Is(err error, kind Kind) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}
