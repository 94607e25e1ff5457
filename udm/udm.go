// Package udm implements the Unified Data Model: the single in-memory,
// format-neutral tree that every adapter parses into and serialises out of,
// and that the evaluator transforms.
//
// Value is a recursive tagged union. Values are immutable after
// construction; "mutation" helpers return a new Value with structural
// sharing of unchanged children, the same discipline arturoeanton/go-xml
// applies to its OrderedMap (xml/map.go) — except here the sharing is
// enforced by never exposing a setter, not by convention.
package udm

import "fmt"

// Kind tags the variant held by a Value.
type Kind int

const (
	KindScalar Kind = iota
	KindBinary
	KindDate
	KindTime
	KindLocalDateTime
	KindDateTime
	KindArray
	KindObject
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindLocalDateTime:
		return "localDateTime"
	case KindDateTime:
		return "dateTime"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// ScalarKind distinguishes the five Scalar payload shapes.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarFloat
	ScalarString
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNull:
		return "null"
	case ScalarBool:
		return "boolean"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the universal node type of the UDM tree.
type Value struct {
	kind       Kind
	scalarKind ScalarKind

	b   bool
	i   int64
	f   float64
	s   string
	bin []byte

	date Date
	time Time
	ldt  LocalDateTime
	dt   DateTime

	arr []*Value
	obj *Object

	lambda *Lambda

	attrs *Attributes
	meta  *Metadata
}

// Kind returns the variant tag of v.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindScalar
	}
	return v.kind
}

// ScalarKind returns the scalar sub-kind. Only meaningful when Kind() ==
// KindScalar.
func (v *Value) ScalarKind() ScalarKind {
	if v == nil {
		return ScalarNull
	}
	return v.scalarKind
}

// IsNull reports whether v is the distinct Scalar(null) value. This is
// never true for a missing key or an empty array.
func (v *Value) IsNull() bool {
	return v != nil && v.kind == KindScalar && v.scalarKind == ScalarNull
}

// Null constructs the distinct null scalar.
func Null() *Value {
	return &Value{kind: KindScalar, scalarKind: ScalarNull}
}

// Bool constructs a boolean scalar.
func Bool(b bool) *Value {
	return &Value{kind: KindScalar, scalarKind: ScalarBool, b: b}
}

// Int constructs a 64-bit signed integer scalar.
func Int(i int64) *Value {
	return &Value{kind: KindScalar, scalarKind: ScalarInt, i: i}
}

// Float constructs a 64-bit IEEE-754 float scalar.
func Float(f float64) *Value {
	return &Value{kind: KindScalar, scalarKind: ScalarFloat, f: f}
}

// String constructs a UTF-8 string scalar.
func String(s string) *Value {
	return &Value{kind: KindScalar, scalarKind: ScalarString, s: s}
}

// Binary constructs an opaque byte-sequence value. The slice is copied so
// the resulting Value stays immutable regardless of caller mutation.
func Binary(b []byte) *Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Value{kind: KindBinary, bin: cp}
}

// Array constructs an Array value from the given elements. The slice header
// is copied (not the elements, which are themselves immutable) so later
// appends to the caller's slice cannot be observed through the Value.
func Array(elems ...*Value) *Value {
	cp := make([]*Value, len(elems))
	copy(cp, elems)
	return &Value{kind: KindArray, arr: cp}
}

// NewLambda wraps a closure as a first-class, non-serialisable UDM value.
func NewLambda(l *Lambda) *Value {
	return &Value{kind: KindLambda, lambda: l}
}

// AsBool returns the boolean payload. Only valid when ScalarKind() ==
// ScalarBool.
func (v *Value) AsBool() bool { return v.b }

// AsInt returns the int64 payload. Only valid when ScalarKind() == ScalarInt.
func (v *Value) AsInt() int64 { return v.i }

// AsFloat returns the float64 payload. Only valid when ScalarKind() ==
// ScalarFloat.
func (v *Value) AsFloat() float64 { return v.f }

// AsString returns the string payload. Only valid when ScalarKind() ==
// ScalarString.
func (v *Value) AsString() string { return v.s }

// AsBinary returns the byte payload. Only valid when Kind() == KindBinary.
func (v *Value) AsBinary() []byte { return v.bin }

// AsArray returns the element slice. Only valid when Kind() == KindArray.
// The returned slice must not be mutated by callers.
func (v *Value) AsArray() []*Value { return v.arr }

// AsObject returns the backing Object. Only valid when Kind() == KindObject.
func (v *Value) AsObject() *Object { return v.obj }

// AsLambda returns the backing Lambda. Only valid when Kind() == KindLambda.
func (v *Value) AsLambda() *Lambda { return v.lambda }

// AsDate returns the Date payload. Only valid when Kind() == KindDate.
func (v *Value) AsDate() Date { return v.date }

// AsTime returns the Time payload. Only valid when Kind() == KindTime.
func (v *Value) AsTime() Time { return v.time }

// AsLocalDateTime returns the LocalDateTime payload.
func (v *Value) AsLocalDateTime() LocalDateTime { return v.ldt }

// AsDateTime returns the absolute-instant payload.
func (v *Value) AsDateTime() DateTime { return v.dt }

// NewDate constructs a calendar-date value.
func NewDate(d Date) *Value { return &Value{kind: KindDate, date: d} }

// NewTime constructs a time-of-day value.
func NewTime(t Time) *Value { return &Value{kind: KindTime, time: t} }

// NewLocalDateTime constructs a date+time-without-zone value.
func NewLocalDateTime(dt LocalDateTime) *Value {
	return &Value{kind: KindLocalDateTime, ldt: dt}
}

// NewDateTime constructs an absolute-instant value, zone-normalised to
// UTC at construction.
func NewDateTime(dt DateTime) *Value {
	return &Value{kind: KindDateTime, dt: dt.UTC()}
}

// NewObject wraps an already-built Object as a Value.
func NewObject(o *Object) *Value {
	if o == nil {
		o = NewOrderedObject()
	}
	return &Value{kind: KindObject, obj: o}
}

// WithAttributes returns a copy of v carrying the given attribute
// side-channel. Attributes are never merged into the main Object mapping;
// they live alongside it.
func (v *Value) WithAttributes(a *Attributes) *Value {
	cp := *v
	cp.attrs = a
	return &cp
}

// Attributes returns v's attribute side-channel, or an empty one if unset.
func (v *Value) Attributes() *Attributes {
	if v == nil || v.attrs == nil {
		return emptyAttributes
	}
	return v.attrs
}

// WithMetadata returns a copy of v carrying the given metadata side-channel.
func (v *Value) WithMetadata(m *Metadata) *Value {
	cp := *v
	cp.meta = m
	return &cp
}

// Metadata returns v's metadata side-channel, or an empty one if unset.
// Metadata never affects Equal.
func (v *Value) Metadata() *Metadata {
	if v == nil || v.meta == nil {
		return emptyMetadata
	}
	return v.meta
}

// TypeName returns the user-facing type name used in error messages and the
// getType() stdlib function.
func (v *Value) TypeName() string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case KindScalar:
		return v.scalarKind.String()
	default:
		return v.kind.String()
	}
}

func (v *Value) String() string {
	return fmt.Sprintf("%s(%v)", v.TypeName(), v.debugPayload())
}

func (v *Value) debugPayload() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindScalar:
		switch v.scalarKind {
		case ScalarNull:
			return nil
		case ScalarBool:
			return v.b
		case ScalarInt:
			return v.i
		case ScalarFloat:
			return v.f
		case ScalarString:
			return v.s
		}
	case KindArray:
		return v.arr
	case KindObject:
		return v.obj
	}
	return nil
}
