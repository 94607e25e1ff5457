package stdlib

import (
	"strconv"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "toString", MinArity: 1, MaxArity: 1, Call: convToString})
	register(Func{Name: "toInt", MinArity: 1, MaxArity: 1, Call: convToInt})
	register(Func{Name: "toFloat", MinArity: 1, MaxArity: 1, Call: convToFloat})
	register(Func{Name: "toBoolean", MinArity: 1, MaxArity: 1, Call: convToBoolean})
	register(Func{Name: "getType", MinArity: 1, MaxArity: 1, Call: convGetType})
	register(Func{Name: "isNull", MinArity: 1, MaxArity: 1, Call: convIsNull})
	register(Func{Name: "isArray", MinArity: 1, MaxArity: 1, Call: convIsArray})
	register(Func{Name: "isObject", MinArity: 1, MaxArity: 1, Call: convIsObject})
	register(Func{Name: "isString", MinArity: 1, MaxArity: 1, Call: convIsString})
	register(Func{Name: "isNumber", MinArity: 1, MaxArity: 1, Call: convIsNumber})
	register(Func{Name: "isBoolean", MinArity: 1, MaxArity: 1, Call: convIsBoolean})
}

// convToString uses the same canonical-string rules as the `+` operator's
// implicit coercion, so toString(x) and (x + "") always agree.
func convToString(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.String(udm.CanonicalString(args[0])), nil
}

func convToInt(_ *Context, args []*udm.Value) (*udm.Value, error) {
	v := args[0]
	switch v.ScalarKind() {
	case udm.ScalarInt:
		return v, nil
	case udm.ScalarFloat:
		return udm.Int(int64(v.AsFloat())), nil
	case udm.ScalarBool:
		if v.AsBool() {
			return udm.Int(1), nil
		}
		return udm.Int(0), nil
	case udm.ScalarString:
		i, err := strconv.ParseInt(v.AsString(), 10, 64)
		if err != nil {
			return nil, argErr("toInt", "cannot convert \""+v.AsString()+"\" to an integer")
		}
		return udm.Int(i), nil
	default:
		return nil, typeErr("toInt", "cannot convert "+v.TypeName()+" to an integer")
	}
}

func convToFloat(_ *Context, args []*udm.Value) (*udm.Value, error) {
	v := args[0]
	switch v.ScalarKind() {
	case udm.ScalarFloat:
		return v, nil
	case udm.ScalarInt:
		return udm.Float(float64(v.AsInt())), nil
	case udm.ScalarBool:
		if v.AsBool() {
			return udm.Float(1), nil
		}
		return udm.Float(0), nil
	case udm.ScalarString:
		f, err := strconv.ParseFloat(v.AsString(), 64)
		if err != nil {
			return nil, argErr("toFloat", "cannot convert \""+v.AsString()+"\" to a float")
		}
		return udm.Float(f), nil
	default:
		return nil, typeErr("toFloat", "cannot convert "+v.TypeName()+" to a float")
	}
}

func convToBoolean(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.Bool(udm.Truthy(args[0])), nil
}

func convGetType(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.String(args[0].TypeName()), nil
}

func convIsNull(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.Bool(args[0].IsNull()), nil
}

func convIsArray(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.Bool(args[0].Kind() == udm.KindArray), nil
}

func convIsObject(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.Bool(args[0].Kind() == udm.KindObject), nil
}

func convIsString(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.Bool(args[0].ScalarKind() == udm.ScalarString), nil
}

func convIsNumber(_ *Context, args []*udm.Value) (*udm.Value, error) {
	k := args[0].ScalarKind()
	return udm.Bool(k == udm.ScalarInt || k == udm.ScalarFloat), nil
}

func convIsBoolean(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return udm.Bool(args[0].ScalarKind() == udm.ScalarBool), nil
}
