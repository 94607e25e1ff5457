package stdlib

import (
	"math"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "abs", MinArity: 1, MaxArity: 1, Call: mathAbs})
	register(Func{Name: "ceil", MinArity: 1, MaxArity: 1, Call: mathCeil})
	register(Func{Name: "floor", MinArity: 1, MaxArity: 1, Call: mathFloor})
	register(Func{Name: "round", MinArity: 1, MaxArity: 2, Call: mathRound})
	register(Func{Name: "sqrt", MinArity: 1, MaxArity: 1, Call: mathSqrt})
	register(Func{Name: "pow", MinArity: 2, MaxArity: 2, Call: mathPow})
	register(Func{Name: "log", MinArity: 1, MaxArity: 1, Call: mathLog})
	register(Func{Name: "log2", MinArity: 1, MaxArity: 1, Call: mathLog2})
	register(Func{Name: "log10", MinArity: 1, MaxArity: 1, Call: mathLog10})
	register(Func{Name: "exp", MinArity: 1, MaxArity: 1, Call: mathExp})
	register(Func{Name: "mod", MinArity: 2, MaxArity: 2, Call: mathMod})
	register(Func{Name: "sign", MinArity: 1, MaxArity: 1, Call: mathSign})
	register(Func{Name: "clamp", MinArity: 3, MaxArity: 3, Call: mathClamp})
	register(Func{Name: "min2", MinArity: 2, MaxArity: 2, Call: mathMin2})
	register(Func{Name: "max2", MinArity: 2, MaxArity: 2, Call: mathMax2})
	register(Func{Name: "isNaN", MinArity: 1, MaxArity: 1, Call: mathIsNaN})
	register(Func{Name: "isInfinite", MinArity: 1, MaxArity: 1, Call: mathIsInfinite})
	register(Func{Name: "sin", MinArity: 1, MaxArity: 1, Call: mathSin})
	register(Func{Name: "cos", MinArity: 1, MaxArity: 1, Call: mathCos})
	register(Func{Name: "tan", MinArity: 1, MaxArity: 1, Call: mathTan})
}

func asNumeric(fn string, v *udm.Value) (float64, bool, error) {
	if v == nil || (v.ScalarKind() != udm.ScalarInt && v.ScalarKind() != udm.ScalarFloat) {
		return 0, false, typeErr(fn, "expected a numeric argument, got "+v.TypeName())
	}
	return numericOf(v), v.ScalarKind() == udm.ScalarInt, nil
}

func mathAbs(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, isInt, err := asNumeric("abs", args[0])
	if err != nil {
		return nil, err
	}
	if isInt {
		i := args[0].AsInt()
		if i < 0 {
			i = -i
		}
		return udm.Int(i), nil
	}
	return udm.Float(math.Abs(n)), nil
}

func mathCeil(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("ceil", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(math.Ceil(n))), nil
}

func mathFloor(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("floor", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(math.Floor(n))), nil
}

// mathRound accepts an optional decimal-places argument; with no second
// argument it rounds to the nearest integer, half away from zero.
func mathRound(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("round", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return udm.Int(int64(math.Round(n))), nil
	}
	if args[1].ScalarKind() != udm.ScalarInt {
		return nil, typeErr("round", "decimal places must be an integer")
	}
	places := args[1].AsInt()
	scale := math.Pow(10, float64(places))
	return udm.Float(math.Round(n*scale) / scale), nil
}

func mathSqrt(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, argErr("sqrt", "argument must be non-negative")
	}
	return udm.Float(math.Sqrt(n)), nil
}

func mathPow(_ *Context, args []*udm.Value) (*udm.Value, error) {
	base, _, err := asNumeric("pow", args[0])
	if err != nil {
		return nil, err
	}
	exp, _, err := asNumeric("pow", args[1])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Pow(base, exp)), nil
}

func mathLog(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("log", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Log(n)), nil
}

func mathLog2(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("log2", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Log2(n)), nil
}

func mathLog10(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("log10", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Log10(n)), nil
}

func mathExp(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("exp", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Exp(n)), nil
}

func mathMod(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, aInt, err := asNumeric("mod", args[0])
	if err != nil {
		return nil, err
	}
	b, bInt, err := asNumeric("mod", args[1])
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, argErr("mod", "division by zero")
	}
	if aInt && bInt {
		return udm.Int(args[0].AsInt() % args[1].AsInt()), nil
	}
	return udm.Float(math.Mod(a, b)), nil
}

func mathSign(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("sign", args[0])
	if err != nil {
		return nil, err
	}
	switch {
	case n > 0:
		return udm.Int(1), nil
	case n < 0:
		return udm.Int(-1), nil
	default:
		return udm.Int(0), nil
	}
}

func mathClamp(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("clamp", args[0])
	if err != nil {
		return nil, err
	}
	lo, _, err := asNumeric("clamp", args[1])
	if err != nil {
		return nil, err
	}
	hi, _, err := asNumeric("clamp", args[2])
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, argErr("clamp", "lower bound must not exceed upper bound")
	}
	switch {
	case n < lo:
		return args[1], nil
	case n > hi:
		return args[2], nil
	default:
		return args[0], nil
	}
}

func mathMin2(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, _, err := asNumeric("min2", args[0])
	if err != nil {
		return nil, err
	}
	b, _, err := asNumeric("min2", args[1])
	if err != nil {
		return nil, err
	}
	if a <= b {
		return args[0], nil
	}
	return args[1], nil
}

func mathMax2(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, _, err := asNumeric("max2", args[0])
	if err != nil {
		return nil, err
	}
	b, _, err := asNumeric("max2", args[1])
	if err != nil {
		return nil, err
	}
	if a >= b {
		return args[0], nil
	}
	return args[1], nil
}

func mathIsNaN(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("isNaN", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Bool(math.IsNaN(n)), nil
}

func mathIsInfinite(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("isInfinite", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Bool(math.IsInf(n, 0)), nil
}

func mathSin(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("sin", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Sin(n)), nil
}

func mathCos(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("cos", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Cos(n)), nil
}

func mathTan(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("tan", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Float(math.Tan(n)), nil
}
