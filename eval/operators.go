package eval

import (
	"math"

	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/udm"
)

// evalBinary implements every binary operator. Arithmetic promotion, `??`
// absence detection, and strict-boolean `&&`/`||` follow the decisions
// recorded in DESIGN.md: the language description leaves each of these
// underspecified enough that a direct reading admits more than one
// behaviour.
func (ev *Evaluator) evalBinary(n *parser.Binary, env *Env) (*udm.Value, error) {
	switch n.Op {
	case "&&":
		return ev.evalShortCircuit(n, env, false)
	case "||":
		return ev.evalShortCircuit(n, env, true)
	case "??":
		return ev.evalCoalesce(n, env)
	}

	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+":
		return evalPlus(left, right, n)
	case "-", "*", "%":
		return evalArith(n.Op, left, right, n)
	case "/":
		return evalDivide(left, right, n)
	case "**":
		return evalPow(left, right, n)
	case "==":
		return udm.Bool(udm.Equal(left, right)), nil
	case "!=":
		return udm.Bool(!udm.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		return evalCompare(n.Op, left, right, n)
	default:
		return nil, errs.Newf(errs.KindSyntaxError, "unknown binary operator %q", n.Op).At(n.Pos())
	}
}

// evalShortCircuit implements && and ||, always returning a strict
// Scalar(Bool) rather than passing through the last-evaluated operand
// (DESIGN.md). shortOn is the truthiness value that short-circuits: false
// for &&, true for ||.
func (ev *Evaluator) evalShortCircuit(n *parser.Binary, env *Env, shortOn bool) (*udm.Value, error) {
	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	if udm.Truthy(left) == shortOn {
		return udm.Bool(shortOn), nil
	}
	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	return udm.Bool(udm.Truthy(right)), nil
}

// evalCoalesce implements `??`: the right operand is evaluated, and used
// as the result, only when evaluating the left operand either yields
// Scalar(null) or raises one of the "absent path" error kinds
// (PropertyNotFound, IndexOutOfBounds, UndefinedVariable) — see
// DESIGN.md. Any other error (e.g. a TypeError from a nested call) still
// propagates rather than being swallowed.
func (ev *Evaluator) evalCoalesce(n *parser.Binary, env *Env) (*udm.Value, error) {
	left, err := ev.eval(n.Left, env)
	if err == nil {
		if !left.IsNull() {
			return left, nil
		}
		return ev.eval(n.Right, env)
	}
	if errs.Is(err, errs.KindPropertyNotFound) || errs.Is(err, errs.KindIndexOutOfBounds) || errs.Is(err, errs.KindUndefinedVariable) {
		return ev.eval(n.Right, env)
	}
	return nil, err
}

func bothNumeric(a, b *udm.Value) bool {
	return isNum(a) && isNum(b)
}

func isNum(v *udm.Value) bool {
	return v.ScalarKind() == udm.ScalarInt || v.ScalarKind() == udm.ScalarFloat
}

func numVal(v *udm.Value) float64 {
	if v.ScalarKind() == udm.ScalarInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// evalPlus implements `+`: numeric addition when both sides are numbers,
// otherwise falls back to string concatenation via the same canonical
// coercion toString() uses, so `1 + "x"` and `toString(1) + "x"`
// always agree.
func evalPlus(left, right *udm.Value, n *parser.Binary) (*udm.Value, error) {
	if bothNumeric(left, right) {
		if left.ScalarKind() == udm.ScalarInt && right.ScalarKind() == udm.ScalarInt {
			return udm.Int(left.AsInt() + right.AsInt()), nil
		}
		return udm.Float(numVal(left) + numVal(right)), nil
	}
	return udm.String(udm.CanonicalString(left) + udm.CanonicalString(right)), nil
}

// evalArith implements -, * and % — integer-preserving when both
// operands are Scalar(Int), promoting to float otherwise (DESIGN.md).
func evalArith(op string, left, right *udm.Value, n *parser.Binary) (*udm.Value, error) {
	if !bothNumeric(left, right) {
		return nil, errs.Newf(errs.KindTypeError, "operator %s requires numeric operands, got %s and %s", op, left.TypeName(), right.TypeName()).At(n.Pos())
	}
	bothInt := left.ScalarKind() == udm.ScalarInt && right.ScalarKind() == udm.ScalarInt
	switch op {
	case "-":
		if bothInt {
			return udm.Int(left.AsInt() - right.AsInt()), nil
		}
		return udm.Float(numVal(left) - numVal(right)), nil
	case "*":
		if bothInt {
			return udm.Int(left.AsInt() * right.AsInt()), nil
		}
		return udm.Float(numVal(left) * numVal(right)), nil
	case "%":
		if bothInt {
			if right.AsInt() == 0 {
				return nil, errs.New(errs.KindTypeError, "modulo by zero").At(n.Pos())
			}
			return udm.Int(left.AsInt() % right.AsInt()), nil
		}
		return udm.Float(math.Mod(numVal(left), numVal(right))), nil
	default:
		return nil, errs.Newf(errs.KindSyntaxError, "unknown arithmetic operator %q", op).At(n.Pos())
	}
}

// evalDivide implements `/` as always-float division (DESIGN.md), never
// silently truncating the way integer division in most C-family languages
// does.
func evalDivide(left, right *udm.Value, n *parser.Binary) (*udm.Value, error) {
	if !bothNumeric(left, right) {
		return nil, errs.Newf(errs.KindTypeError, "operator / requires numeric operands, got %s and %s", left.TypeName(), right.TypeName()).At(n.Pos())
	}
	if numVal(right) == 0 {
		return nil, errs.New(errs.KindTypeError, "division by zero").At(n.Pos())
	}
	return udm.Float(numVal(left) / numVal(right)), nil
}

// evalPow implements `**` as always-float exponentiation (DESIGN.md).
func evalPow(left, right *udm.Value, n *parser.Binary) (*udm.Value, error) {
	if !bothNumeric(left, right) {
		return nil, errs.Newf(errs.KindTypeError, "operator ** requires numeric operands, got %s and %s", left.TypeName(), right.TypeName()).At(n.Pos())
	}
	return udm.Float(math.Pow(numVal(left), numVal(right))), nil
}

func evalCompare(op string, left, right *udm.Value, n *parser.Binary) (*udm.Value, error) {
	if bothNumeric(left, right) {
		a, b := numVal(left), numVal(right)
		return udm.Bool(compareOp(op, a < b, a == b, a > b)), nil
	}
	if left.ScalarKind() == udm.ScalarString && right.ScalarKind() == udm.ScalarString {
		a, b := left.AsString(), right.AsString()
		return udm.Bool(compareOp(op, a < b, a == b, a > b)), nil
	}
	return nil, errs.Newf(errs.KindTypeError, "operator %s requires two numbers or two strings, got %s and %s", op, left.TypeName(), right.TypeName()).At(n.Pos())
}

func compareOp(op string, lt, eq, gt bool) bool {
	switch op {
	case "<":
		return lt
	case "<=":
		return lt || eq
	case ">":
		return gt
	case ">=":
		return gt || eq
	default:
		return false
	}
}
