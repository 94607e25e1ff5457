package eval

import (
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/stdlib"
	"github.com/utlx/utlx/udm"
)

// Evaluator walks a parsed Program body against bound inputs, dispatching
// named calls to the stdlib registry. One Evaluator instance is built per
// execute() call; it carries no mutable state beyond the recursion-depth
// counter, matching arturoeanton/go-xml's own request-scoped,
// reusable-across-goroutines design for its query engine (xml/query.go).
type Evaluator struct {
	opts  Options
	depth int
}

// New builds an Evaluator for a single program execution.
func New(opts Options) *Evaluator {
	return &Evaluator{opts: opts}
}

// Run evaluates prog.Body against the root environment built from inputs.
func Run(prog *parser.Program, inputs map[string]*udm.Value, opts Options) (*udm.Value, error) {
	ev := New(opts)
	env := NewRootEnv(inputs)
	return ev.eval(prog.Body, env)
}

func (ev *Evaluator) stdlibContext() *stdlib.Context {
	return &stdlib.Context{Now: ev.opts.clock(), Locale: ev.opts.locale(), TimeZone: ev.opts.timeZone()}
}

func (ev *Evaluator) enter() (func(), error) {
	ev.depth++
	if ev.depth > ev.opts.recursionLimit() {
		ev.depth--
		return nil, errs.New(errs.KindRecursionLimitExceeded, "maximum evaluation depth exceeded")
	}
	return func() { ev.depth-- }, nil
}

func (ev *Evaluator) eval(e parser.Expr, env *Env) (*udm.Value, error) {
	leave, err := ev.enter()
	if err != nil {
		return nil, err
	}
	defer leave()

	switch n := e.(type) {
	case *parser.Literal:
		return n.Value, nil
	case *parser.InputRef:
		v, ok := env.Lookup("$" + n.Name)
		if !ok {
			return nil, errs.Newf(errs.KindUndefinedVariable, "undefined input $%s", n.Name).At(n.Pos()).WithContext("name", n.Name)
		}
		return v, nil
	case *parser.Identifier:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return nil, errs.Newf(errs.KindUndefinedVariable, "undefined variable %q", n.Name).At(n.Pos()).WithContext("name", n.Name)
		}
		return v, nil
	case *parser.PropertyAccess:
		return ev.evalPropertyAccess(n, env)
	case *parser.AttributeAccess:
		return ev.evalAttributeAccess(n, env)
	case *parser.IndexAccess:
		return ev.evalIndexAccess(n, env)
	case *parser.MetadataAccess:
		target, err := ev.eval(n.Target, env)
		if err != nil {
			return nil, err
		}
		return metadataAsObject(target), nil
	case *parser.SafeNav:
		return ev.evalSafeNav(n, env)
	case *parser.ArrayLiteral:
		return ev.evalArrayLiteral(n, env)
	case *parser.ObjectLiteral:
		return ev.evalObjectLiteral(n, env)
	case *parser.Unary:
		return ev.evalUnary(n, env)
	case *parser.Binary:
		return ev.evalBinary(n, env)
	case *parser.If:
		return ev.evalIf(n, env)
	case *parser.Ternary:
		return ev.evalTernary(n, env)
	case *parser.Match:
		return ev.evalMatch(n, env)
	case *parser.Let:
		return ev.evalLet(n, env)
	case *parser.Lambda:
		return ev.evalLambda(n, env), nil
	case *parser.Call:
		return ev.evalCall(n, env)
	case *parser.Pipe:
		return ev.evalPipe(n, env)
	default:
		return nil, errs.Newf(errs.KindSyntaxError, "internal error: unhandled AST node %T", e).At(e.Pos())
	}
}

// evalPropertyAccess implements `.key` with the auto-descent-into-Array
// rule: applying `.key` to an Array maps the access over every element
// instead of raising a TypeError, matching XPath-style navigation
// arturoeanton/go-xml's XML query layer (xml/query.go, QueryAll-style
// descent) already provides for repeated elements.
func (ev *Evaluator) evalPropertyAccess(n *parser.PropertyAccess, env *Env) (*udm.Value, error) {
	target, err := ev.eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	return propertyOf(n, target)
}

func propertyOf(n *parser.PropertyAccess, target *udm.Value) (*udm.Value, error) {
	switch target.Kind() {
	case udm.KindObject:
		v, ok := target.AsObject().Get(n.Key)
		if !ok {
			return nil, errs.Newf(errs.KindPropertyNotFound, "property %q not found", n.Key).At(n.Pos()).WithContext("name", n.Key)
		}
		return v, nil
	case udm.KindArray:
		arr := target.AsArray()
		out := make([]*udm.Value, len(arr))
		for i, elem := range arr {
			v, err := propertyOf(n, elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return udm.Array(out...), nil
	default:
		return nil, errs.Newf(errs.KindTypeError, "cannot access property %q on %s", n.Key, target.TypeName()).At(n.Pos())
	}
}

func (ev *Evaluator) evalAttributeAccess(n *parser.AttributeAccess, env *Env) (*udm.Value, error) {
	target, err := ev.eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	if v, ok := target.Attributes().Get(n.Key); ok {
		return v, nil
	}
	return nil, errs.Newf(errs.KindPropertyNotFound, "attribute %q not found", n.Key).At(n.Pos()).WithContext("name", n.Key)
}

func (ev *Evaluator) evalIndexAccess(n *parser.IndexAccess, env *Env) (*udm.Value, error) {
	target, err := ev.eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	idx, err := ev.eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	if target.Kind() != udm.KindArray {
		return nil, errs.Newf(errs.KindTypeError, "cannot index into %s", target.TypeName()).At(n.Pos())
	}
	if idx.ScalarKind() != udm.ScalarInt {
		return nil, errs.New(errs.KindTypeError, "array index must be an integer").At(n.Pos())
	}
	arr := target.AsArray()
	i := idx.AsInt()
	if i < 0 {
		i += int64(len(arr))
	}
	if i < 0 || i >= int64(len(arr)) {
		return nil, errs.Newf(errs.KindIndexOutOfBounds, "index %d out of bounds for array of length %d", idx.AsInt(), len(arr)).At(n.Pos())
	}
	return arr[i], nil
}

// metadataAsObject surfaces a Value's metadata side-channel as a plain
// Object for a MetadataAccess node. The parser never builds that node,
// since there is no surface syntax for it (see parser/ast.go
// MetadataAccess, and DESIGN.md); scripts read metadata through the
// metadataValue stdlib function instead.
func metadataAsObject(v *udm.Value) *udm.Value {
	b := udm.NewObjectBuilder()
	for k, raw := range v.Metadata().Entries() {
		b.Set(k, nativeMetadataValue(raw))
	}
	return udm.NewObject(b.Build())
}

func nativeMetadataValue(raw any) *udm.Value {
	switch t := raw.(type) {
	case string:
		return udm.String(t)
	case bool:
		return udm.Bool(t)
	case int:
		return udm.Int(int64(t))
	case int64:
		return udm.Int(t)
	case float64:
		return udm.Float(t)
	default:
		return udm.Null()
	}
}

// evalSafeNav implements `target?.key`: if target itself is
// Scalar(null), the whole expression short-circuits to Scalar(null)
// without raising PropertyNotFound; any other absence (e.g. target is a
// non-null Object missing the key) still raises normally, since `?.`
// guards against a null chain link, not against typos.
func (ev *Evaluator) evalSafeNav(n *parser.SafeNav, env *Env) (*udm.Value, error) {
	target, err := ev.eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	if target.IsNull() {
		return udm.Null(), nil
	}
	return propertyOf(&parser.PropertyAccess{Target: n.Target, Key: n.Key}, target)
}

func (ev *Evaluator) evalArrayLiteral(n *parser.ArrayLiteral, env *Env) (*udm.Value, error) {
	var out []*udm.Value
	for _, elem := range n.Elements {
		if sp, ok := elem.(*parser.SpreadInArray); ok {
			v, err := ev.eval(sp.Target, env)
			if err != nil {
				return nil, err
			}
			if v.Kind() != udm.KindArray {
				return nil, errs.New(errs.KindTypeError, "spread target must be an array").At(sp.Pos())
			}
			out = append(out, v.AsArray()...)
			continue
		}
		v, err := ev.eval(elem, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return udm.Array(out...), nil
}

// evalObjectLiteral processes entries strictly in source order:
// a `let` entry extends the environment visible to every later entry in
// the same literal; a spread's keys are merged at their position, "last
// value wins, first position retained" when a later entry repeats an
// earlier key — the same rule ObjectBuilder.Set already implements.
func (ev *Evaluator) evalObjectLiteral(n *parser.ObjectLiteral, env *Env) (*udm.Value, error) {
	b := udm.NewObjectBuilder()
	cur := env
	for _, entry := range n.Entries {
		switch entry.Kind {
		case parser.EntryLet:
			v, err := ev.eval(entry.Value, cur)
			if err != nil {
				return nil, err
			}
			cur = cur.Bind1(entry.Key, v)
		case parser.EntrySpread:
			v, err := ev.eval(entry.Value, cur)
			if err != nil {
				return nil, err
			}
			if v.Kind() != udm.KindObject {
				return nil, errs.New(errs.KindTypeError, "spread target must be an object").At(entry.Value.Pos())
			}
			v.AsObject().ForEach(func(k string, fv *udm.Value) bool {
				b.Set(k, fv)
				return true
			})
		case parser.EntryKeyValue:
			v, err := ev.eval(entry.Value, cur)
			if err != nil {
				return nil, err
			}
			b.Set(entry.Key, v)
		}
	}
	return udm.NewObject(b.Build()), nil
}

func (ev *Evaluator) evalUnary(n *parser.Unary, env *Env) (*udm.Value, error) {
	v, err := ev.eval(n.Expr, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		switch v.ScalarKind() {
		case udm.ScalarInt:
			return udm.Int(-v.AsInt()), nil
		case udm.ScalarFloat:
			return udm.Float(-v.AsFloat()), nil
		default:
			return nil, errs.Newf(errs.KindTypeError, "unary - requires a number, got %s", v.TypeName()).At(n.Pos())
		}
	case "!":
		return udm.Bool(!udm.Truthy(v)), nil
	default:
		return nil, errs.Newf(errs.KindSyntaxError, "unknown unary operator %q", n.Op).At(n.Pos())
	}
}

// evalPipe implements `left |> f(args...)` by evaluating the right side
// as a call with left prepended to its argument list — the same
// three call-shape resolution evalCall uses (stdlib name, bound lambda
// variable, or arbitrary lambda-producing expression), so `x |> f(y)` and
// `f(x, y)` always agree when both are well-formed.
func (ev *Evaluator) evalPipe(n *parser.Pipe, env *Env) (*udm.Value, error) {
	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	call, ok := n.Right.(*parser.Call)
	if !ok {
		return nil, errs.New(errs.KindSyntaxError, "right side of |> must be a function call").At(n.Pos())
	}
	args, err := ev.evalArgsPrepend(left, call, env)
	if err != nil {
		return nil, err
	}
	if id, isID := call.Fn.(*parser.Identifier); isID {
		if _, bound := env.Lookup(id.Name); !bound {
			f, ok := stdlib.Lookup(id.Name)
			if !ok {
				return nil, errs.Newf(errs.KindUndefinedVariable, "undefined function %q", id.Name).At(n.Pos()).WithContext("name", id.Name)
			}
			return stdlib.Invoke(ev.stdlibContext(), f, args)
		}
	}
	fn, err := ev.eval(call.Fn, env)
	if err != nil {
		return nil, err
	}
	return ev.applyCallable(fn, args, n.Pos())
}

// evalArgsPrepend evaluates |>'s trailing argument list with left
// inserted as the first argument.
func (ev *Evaluator) evalArgsPrepend(left *udm.Value, call *parser.Call, env *Env) ([]*udm.Value, error) {
	rest := call.Args
	out := make([]*udm.Value, 0, len(rest)+1)
	out = append(out, left)
	for i, a := range rest {
		v, err := ev.eval(a, env)
		if err != nil {
			return nil, annotateArgError(err, call, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// annotateArgError records the enclosing call, the callee name and which
// argument position failed, so the enhancer package can later recognise
// the missing-lambda-parameter shape — a bare identifier passed where a
// predicate lambda was expected — without re-parsing the source. It only
// adds context; it never changes the error itself, so this is a no-op
// once the enhancer is bypassed.
func annotateArgError(err error, call *parser.Call, argIndex int) error {
	ee, ok := err.(*errs.EngineError)
	if !ok || (ee.Kind != errs.KindUndefinedVariable && ee.Kind != errs.KindPropertyNotFound) {
		return err
	}
	if argIndex >= 0 && argIndex < len(call.Args) {
		if _, isLambda := call.Args[argIndex].(*parser.Lambda); isLambda {
			return err
		}
	}
	callee := ""
	if id, ok := call.Fn.(*parser.Identifier); ok {
		callee = id.Name
	}
	return ee.WithContext("enclosingCall", call).WithContext("enclosingCallee", callee).WithContext("argIndex", argIndex)
}

func (ev *Evaluator) evalIf(n *parser.If, env *Env) (*udm.Value, error) {
	cond, err := ev.eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if udm.Truthy(cond) {
		return ev.eval(n.Then, env)
	}
	return ev.eval(n.Else, env)
}

func (ev *Evaluator) evalTernary(n *parser.Ternary, env *Env) (*udm.Value, error) {
	cond, err := ev.eval(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if udm.Truthy(cond) {
		return ev.eval(n.Then, env)
	}
	return ev.eval(n.Else, env)
}

// evalMatch tests arms in order, binding PatternIdentifier to the subject
// value within the arm's guard and body, and raises
// MatchExhaustivenessError when no arm matches — match has no
// implicit fallthrough result.
func (ev *Evaluator) evalMatch(n *parser.Match, env *Env) (*udm.Value, error) {
	subject, err := ev.eval(n.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		armEnv, ok := matchPattern(arm.Pattern, subject, env)
		if !ok {
			continue
		}
		if arm.Guard != nil {
			g, err := ev.eval(arm.Guard, armEnv)
			if err != nil {
				return nil, err
			}
			if !udm.Truthy(g) {
				continue
			}
		}
		return ev.eval(arm.Body, armEnv)
	}
	return nil, errs.New(errs.KindMatchExhaustivenessError, "no match arm satisfied the subject value").At(n.Pos())
}

func matchPattern(p parser.Pattern, subject *udm.Value, env *Env) (*Env, bool) {
	switch pat := p.(type) {
	case parser.PatternWildcard:
		return env, true
	case parser.PatternIdentifier:
		return env.Bind1(pat.Name, subject), true
	case parser.PatternLiteral:
		if udm.Equal(pat.Value, subject) {
			return env, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func (ev *Evaluator) evalLet(n *parser.Let, env *Env) (*udm.Value, error) {
	v, err := ev.eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	return ev.eval(n.Body, env.Bind1(n.Name, v))
}

// evalLambda captures env by reference into the closure; since Env
// frames never mutate after construction, the closure observes a stable
// snapshot of every variable in scope at definition time (lexical
// scoping).
func (ev *Evaluator) evalLambda(n *parser.Lambda, env *Env) *udm.Value {
	l := &udm.Lambda{Params: append([]string(nil), n.Params...)}
	l.Call = func(args []*udm.Value) (*udm.Value, error) {
		if len(args) != len(l.Params) {
			return nil, errs.Newf(errs.KindArityError, "lambda expects %d argument(s), got %d", len(l.Params), len(args)).At(n.Pos())
		}
		bindings := make(map[string]*udm.Value, len(l.Params))
		for i, p := range l.Params {
			bindings[p] = args[i]
		}
		return ev.eval(n.Body, env.Child(bindings))
	}
	return udm.NewLambda(l)
}

// evalCall dispatches three call shapes: a bare identifier bound in the
// environment to a lambda value (checked first, so a local binding can
// shadow a same-named stdlib function), a bare identifier that otherwise
// names a stdlib function, or any other expression that must itself
// evaluate to a lambda (e.g. a call returning a lambda, or an IIFE).
func (ev *Evaluator) evalCall(n *parser.Call, env *Env) (*udm.Value, error) {
	args := make([]*udm.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ev.eval(a, env)
		if err != nil {
			return nil, annotateArgError(err, n, i)
		}
		args[i] = v
	}
	if id, ok := n.Fn.(*parser.Identifier); ok {
		if _, bound := env.Lookup(id.Name); !bound {
			if f, ok := stdlib.Lookup(id.Name); ok {
				return stdlib.Invoke(ev.stdlibContext(), f, args)
			}
			return nil, errs.Newf(errs.KindUndefinedVariable, "undefined function %q", id.Name).At(n.Pos()).WithContext("name", id.Name)
		}
	}
	fn, err := ev.eval(n.Fn, env)
	if err != nil {
		return nil, err
	}
	return ev.applyCallable(fn, args, n.Pos())
}

func (ev *Evaluator) applyCallable(fn *udm.Value, args []*udm.Value, loc errs.Location) (*udm.Value, error) {
	if fn.Kind() != udm.KindLambda {
		return nil, errs.Newf(errs.KindTypeError, "cannot call a value of type %s", fn.TypeName()).At(loc)
	}
	return fn.AsLambda().Call(args)
}
