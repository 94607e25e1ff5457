// Package stdlib implements the built-in function library: a flat,
// name-dispatched table of pure functions over UDM values. The
// string-keyed global function table, initialised once and read-only
// thereafter, is built directly as a package-level map populated by
// init(), mirroring how github.com/arturoeanton/go-xml registers its
// query-engine functions in a lookup table (xml/query.go
// getQueryFunction) and how MacroPower-x's magicschema registers type
// inference rules — generalised here to broad function coverage across
// array, string, object, math, date/time, type, encoding, hashing/crypto,
// compression, XML helpers, regional number parsing, and JWT inspection.
package stdlib

import (
	"time"

	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Context carries the host-settable defaults a handful of stdlib functions
// consult without giving stdlib a dependency on the eval package.
type Context struct {
	Now      func() time.Time
	Locale   string
	TimeZone string
}

func (c *Context) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) locale() string {
	if c == nil || c.Locale == "" {
		return "en-US"
	}
	return c.Locale
}

func (c *Context) timeZone() string {
	if c == nil || c.TimeZone == "" {
		return "UTC"
	}
	return c.TimeZone
}

// Func is one registered stdlib entry: name, arity bounds (MaxArity == -1
// means unbounded), and the pure implementation.
type Func struct {
	Name      string
	MinArity  int
	MaxArity  int // -1 = unbounded
	ParamHint string
	Call      func(ctx *Context, args []*udm.Value) (*udm.Value, error)
}

var registry = map[string]Func{}

func register(f Func) {
	if _, exists := registry[f.Name]; exists {
		panic("stdlib: duplicate registration for " + f.Name)
	}
	registry[f.Name] = f
}

// Lookup returns the registered function by name.
func Lookup(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns every registered function name, for introspection/tests.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

// Invoke validates arity and dispatches to f.Call, producing a
// FunctionArgumentError (not ArityError, which is reserved for
// lambda-application arity rather than stdlib-call arity) on arity
// mismatch.
func Invoke(ctx *Context, f Func, args []*udm.Value) (*udm.Value, error) {
	if len(args) < f.MinArity || (f.MaxArity >= 0 && len(args) > f.MaxArity) {
		return nil, errs.Newf(errs.KindFunctionArgumentError,
			"%s: expected %s, got %d argument(s)", f.Name, arityDesc(f), len(args)).
			WithContext("function", f.Name)
	}
	return f.Call(ctx, args)
}

func arityDesc(f Func) string {
	if f.MaxArity < 0 {
		return itoa(f.MinArity) + "+ arguments"
	}
	if f.MinArity == f.MaxArity {
		return itoa(f.MinArity) + " argument(s)"
	}
	return itoa(f.MinArity) + "-" + itoa(f.MaxArity) + " arguments"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func argErr(fn, hint string) error {
	return errs.Newf(errs.KindFunctionArgumentError, "%s: %s", fn, hint).WithContext("function", fn)
}

func typeErr(fn, hint string) error {
	return errs.Newf(errs.KindTypeError, "%s: %s", fn, hint).WithContext("function", fn)
}

// callLambda applies a UDM lambda value to args, accommodating callbacks
// declared with fewer parameters than offered (e.g. a map() callback that
// ignores the index) by trimming the argument list to the lambda's arity
// when that arity is smaller.
func callLambda(v *udm.Value, args ...*udm.Value) (*udm.Value, error) {
	if v == nil || v.Kind() != udm.KindLambda {
		return nil, errs.New(errs.KindTypeError, "expected a lambda argument")
	}
	l := v.AsLambda()
	if len(l.Params) < len(args) {
		args = args[:len(l.Params)]
	}
	return l.Call(args)
}
