package enhancer

import (
	"strconv"
	"strings"

	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/udm"
)

// printExpr renders a parser.Expr back to UTL-X source text. It only
// covers the node kinds that can plausibly appear inside the argument of
// a higher-order stdlib call (filter/map/find/...) — exactly the surface
// the missing-lambda-parameter suggestion needs to reconstruct. Anything
// else falls back to a placeholder rather than guessing.
func printExpr(e parser.Expr) string {
	switch n := e.(type) {
	case *parser.Literal:
		return printLiteral(n.Value)
	case *parser.InputRef:
		return "$" + n.Name
	case *parser.Identifier:
		return n.Name
	case *parser.PropertyAccess:
		return printExpr(n.Target) + "." + n.Key
	case *parser.AttributeAccess:
		return printExpr(n.Target) + ".@" + n.Key
	case *parser.SafeNav:
		return printExpr(n.Target) + "?." + n.Key
	case *parser.IndexAccess:
		return printExpr(n.Target) + "[" + printExpr(n.Index) + "]"
	case *parser.Unary:
		return n.Op + printExpr(n.Expr)
	case *parser.Binary:
		return printExpr(n.Left) + " " + n.Op + " " + printExpr(n.Right)
	case *parser.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = printExpr(a)
		}
		return printExpr(n.Fn) + "(" + strings.Join(args, ", ") + ")"
	case *parser.Lambda:
		return "(" + strings.Join(n.Params, ", ") + ") => " + printExpr(n.Body)
	case *parser.Ternary:
		return printExpr(n.Cond) + " ? " + printExpr(n.Then) + " : " + printExpr(n.Else)
	default:
		return "<expr>"
	}
}

func printLiteral(v *udm.Value) string {
	if v == nil || v.IsNull() {
		return "null"
	}
	if v.Kind() != udm.KindScalar {
		return udm.CanonicalString(v)
	}
	switch v.ScalarKind() {
	case udm.ScalarString:
		return strconv.Quote(v.AsString())
	default:
		return udm.CanonicalString(v)
	}
}

// rewriteBareIdentifier re-prints call, replacing the argument at argIndex
// — an expression that uses a bare *parser.Identifier whose name matches a
// field of a bound input — with a single-parameter lambda that accesses that field,
// e.g. `Department == "Eng"` becomes `e => e.Department == "Eng"`.
func rewriteBareIdentifier(call *parser.Call, argIndex int, param string) string {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		if i == argIndex {
			args[i] = param + " => " + printExprSubst(a, param)
		} else {
			args[i] = printExpr(a)
		}
	}
	return printExpr(call.Fn) + "(" + strings.Join(args, ", ") + ")"
}

// printExprSubst prints e the way printExpr does, except every bare
// *parser.Identifier becomes a property access off param — the rewrite
// `Foo == 1` needs (`param.Foo == 1`), since the whole point is that the
// author wrote a field comparison without the lambda parameter it needs.
func printExprSubst(e parser.Expr, param string) string {
	switch n := e.(type) {
	case *parser.Identifier:
		return param + "." + n.Name
	case *parser.Binary:
		return printExprSubst(n.Left, param) + " " + n.Op + " " + printExprSubst(n.Right, param)
	case *parser.Unary:
		return n.Op + printExprSubst(n.Expr, param)
	case *parser.Ternary:
		return printExprSubst(n.Cond, param) + " ? " + printExprSubst(n.Then, param) + " : " + printExprSubst(n.Else, param)
	default:
		return printExpr(e)
	}
}
