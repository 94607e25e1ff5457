package stdlib

import (
	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "keys", MinArity: 1, MaxArity: 1, Call: objKeys})
	register(Func{Name: "values", MinArity: 1, MaxArity: 1, Call: objValues})
	register(Func{Name: "entries", MinArity: 1, MaxArity: 1, Call: objEntries})
	register(Func{Name: "fromEntries", MinArity: 1, MaxArity: 1, Call: objFromEntries})
	register(Func{Name: "merge", MinArity: 2, MaxArity: -1, Call: objMerge})
	register(Func{Name: "deepMerge", MinArity: 2, MaxArity: -1, Call: objDeepMerge})
	register(Func{Name: "pick", MinArity: 2, MaxArity: 2, Call: objPick})
	register(Func{Name: "omit", MinArity: 2, MaxArity: 2, Call: objOmit})
	register(Func{Name: "mapKeys", MinArity: 2, MaxArity: 2, Call: objMapKeys})
	register(Func{Name: "mapValues", MinArity: 2, MaxArity: 2, Call: objMapValues})
	register(Func{Name: "mapEntries", MinArity: 2, MaxArity: 2, Call: objMapEntries})
	register(Func{Name: "filterEntries", MinArity: 2, MaxArity: 2, Call: objFilterEntries})
	register(Func{Name: "reduceEntries", MinArity: 3, MaxArity: 3, Call: objReduceEntries})
	register(Func{Name: "someEntry", MinArity: 2, MaxArity: 2, Call: objSomeEntry})
	register(Func{Name: "everyEntry", MinArity: 2, MaxArity: 2, Call: objEveryEntry})
	register(Func{Name: "countEntries", MinArity: 1, MaxArity: 1, Call: objCountEntries})
	register(Func{Name: "containsKey", MinArity: 2, MaxArity: 2, Call: objContainsKey})
	register(Func{Name: "getPath", MinArity: 2, MaxArity: 2, Call: objGetPath})
	register(Func{Name: "setPath", MinArity: 3, MaxArity: 3, Call: objSetPath})
}

func asObject(fn string, v *udm.Value) (*udm.Object, error) {
	if v == nil || v.Kind() != udm.KindObject {
		return nil, typeErr(fn, "expected an object argument, got "+v.TypeName())
	}
	return v.AsObject(), nil
}

func objKeys(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("keys", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]*udm.Value, 0, o.Len())
	for _, k := range o.Keys() {
		out = append(out, udm.String(k))
	}
	return udm.Array(out...), nil
}

func objValues(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("values", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]*udm.Value, 0, o.Len())
	o.ForEach(func(_ string, v *udm.Value) bool { out = append(out, v); return true })
	return udm.Array(out...), nil
}

func objEntries(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("entries", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]*udm.Value, 0, o.Len())
	o.ForEach(func(k string, v *udm.Value) bool {
		out = append(out, udm.Array(udm.String(k), v))
		return true
	})
	return udm.Array(out...), nil
}

// objFromEntries builds a dynamic-key object from an array of [key, value]
// pairs, preserving first-seen insertion order when keys repeat.
func objFromEntries(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("fromEntries", args[0])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	for _, e := range arr {
		pair, err := asArray("fromEntries", e)
		if err != nil || len(pair) != 2 {
			return nil, argErr("fromEntries", "expects an array of [key, value] pairs")
		}
		if pair[0].ScalarKind() != udm.ScalarString {
			return nil, typeErr("fromEntries", "entry key must be a string")
		}
		b.Set(pair[0].AsString(), pair[1])
	}
	return udm.NewObject(b.Build()), nil
}

func objMerge(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b := udm.NewObjectBuilder()
	for _, a := range args {
		o, err := asObject("merge", a)
		if err != nil {
			return nil, err
		}
		o.ForEach(func(k string, v *udm.Value) bool { b.Set(k, v); return true })
	}
	return udm.NewObject(b.Build()), nil
}

func objDeepMerge(_ *Context, args []*udm.Value) (*udm.Value, error) {
	var acc *udm.Value
	for _, a := range args {
		if _, err := asObject("deepMerge", a); err != nil {
			return nil, err
		}
		if acc == nil {
			acc = a
			continue
		}
		acc = deepMergeTwo(acc, a)
	}
	return acc, nil
}

func deepMergeTwo(a, c *udm.Value) *udm.Value {
	ao, co := a.AsObject(), c.AsObject()
	b := udm.NewObjectBuilder()
	ao.ForEach(func(k string, v *udm.Value) bool { b.Set(k, v); return true })
	co.ForEach(func(k string, v *udm.Value) bool {
		if existing, ok := ao.Get(k); ok && existing.Kind() == udm.KindObject && v.Kind() == udm.KindObject {
			b.Set(k, deepMergeTwo(existing, v))
		} else {
			b.Set(k, v)
		}
		return true
	})
	return udm.NewObject(b.Build())
}

func objPick(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("pick", args[0])
	if err != nil {
		return nil, err
	}
	keys, err := asArray("pick", args[1])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	for _, k := range keys {
		if k.ScalarKind() != udm.ScalarString {
			return nil, typeErr("pick", "key list must contain strings")
		}
		if v, ok := o.Get(k.AsString()); ok {
			b.Set(k.AsString(), v)
		}
	}
	return udm.NewObject(b.Build()), nil
}

func objOmit(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("omit", args[0])
	if err != nil {
		return nil, err
	}
	keys, err := asArray("omit", args[1])
	if err != nil {
		return nil, err
	}
	excl := map[string]bool{}
	for _, k := range keys {
		if k.ScalarKind() != udm.ScalarString {
			return nil, typeErr("omit", "key list must contain strings")
		}
		excl[k.AsString()] = true
	}
	b := udm.NewObjectBuilder()
	o.ForEach(func(k string, v *udm.Value) bool {
		if !excl[k] {
			b.Set(k, v)
		}
		return true
	})
	return udm.NewObject(b.Build()), nil
}

func objMapKeys(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("mapKeys", args[0])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		nk, err := callLambda(args[1], udm.String(k), v)
		if err != nil {
			callErr = err
			return false
		}
		if nk.ScalarKind() != udm.ScalarString {
			callErr = typeErr("mapKeys", "callback must return a string key")
			return false
		}
		b.Set(nk.AsString(), v)
		return true
	})
	if callErr != nil {
		return nil, callErr
	}
	return udm.NewObject(b.Build()), nil
}

func objMapValues(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("mapValues", args[0])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		nv, err := callLambda(args[1], v, udm.String(k))
		if err != nil {
			callErr = err
			return false
		}
		b.Set(k, nv)
		return true
	})
	if callErr != nil {
		return nil, callErr
	}
	return udm.NewObject(b.Build()), nil
}

// objMapEntries maps each (k,v) pair through a callback returning a
// {key, value} object.
func objMapEntries(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("mapEntries", args[0])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		r, err := callLambda(args[1], udm.String(k), v)
		if err != nil {
			callErr = err
			return false
		}
		if r.Kind() != udm.KindObject {
			callErr = typeErr("mapEntries", "callback must return a {key, value} object")
			return false
		}
		ko, okK := r.AsObject().Get("key")
		vo, okV := r.AsObject().Get("value")
		if !okK || !okV || ko.ScalarKind() != udm.ScalarString {
			callErr = argErr("mapEntries", "callback must return an object with string 'key' and 'value' fields")
			return false
		}
		b.Set(ko.AsString(), vo)
		return true
	})
	if callErr != nil {
		return nil, callErr
	}
	return udm.NewObject(b.Build()), nil
}

func objFilterEntries(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("filterEntries", args[0])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		r, err := callLambda(args[1], udm.String(k), v)
		if err != nil {
			callErr = err
			return false
		}
		if udm.Truthy(r) {
			b.Set(k, v)
		}
		return true
	})
	if callErr != nil {
		return nil, callErr
	}
	return udm.NewObject(b.Build()), nil
}

func objReduceEntries(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("reduceEntries", args[0])
	if err != nil {
		return nil, err
	}
	acc := args[2]
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		acc, callErr = callLambda(args[1], acc, udm.String(k), v)
		return callErr == nil
	})
	if callErr != nil {
		return nil, callErr
	}
	return acc, nil
}

func objSomeEntry(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("someEntry", args[0])
	if err != nil {
		return nil, err
	}
	found := false
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		r, err := callLambda(args[1], udm.String(k), v)
		if err != nil {
			callErr = err
			return false
		}
		if udm.Truthy(r) {
			found = true
			return false
		}
		return true
	})
	if callErr != nil {
		return nil, callErr
	}
	return udm.Bool(found), nil
}

func objEveryEntry(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("everyEntry", args[0])
	if err != nil {
		return nil, err
	}
	allTrue := true
	var callErr error
	o.ForEach(func(k string, v *udm.Value) bool {
		r, err := callLambda(args[1], udm.String(k), v)
		if err != nil {
			callErr = err
			return false
		}
		if !udm.Truthy(r) {
			allTrue = false
			return false
		}
		return true
	})
	if callErr != nil {
		return nil, callErr
	}
	return udm.Bool(allTrue), nil
}

func objCountEntries(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("countEntries", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(o.Len())), nil
}

func objContainsKey(_ *Context, args []*udm.Value) (*udm.Value, error) {
	o, err := asObject("containsKey", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarString {
		return nil, typeErr("containsKey", "key must be a string")
	}
	return udm.Bool(o.Has(args[1].AsString())), nil
}

func objGetPath(_ *Context, args []*udm.Value) (*udm.Value, error) {
	if args[1].ScalarKind() != udm.ScalarString {
		return nil, typeErr("getPath", "path must be a dot-separated string")
	}
	cur := args[0]
	for _, seg := range splitDot(args[1].AsString()) {
		if cur.Kind() != udm.KindObject {
			return udm.Null(), nil
		}
		v, ok := cur.AsObject().Get(seg)
		if !ok {
			return udm.Null(), nil
		}
		cur = v
	}
	return cur, nil
}

func objSetPath(_ *Context, args []*udm.Value) (*udm.Value, error) {
	if args[1].ScalarKind() != udm.ScalarString {
		return nil, typeErr("setPath", "path must be a dot-separated string")
	}
	segs := splitDot(args[1].AsString())
	if len(segs) == 0 {
		return nil, argErr("setPath", "path must not be empty")
	}
	return setPathRec(args[0], segs, args[2]), nil
}

func setPathRec(base *udm.Value, segs []string, val *udm.Value) *udm.Value {
	b := udm.NewObjectBuilder()
	if base != nil && base.Kind() == udm.KindObject {
		base.AsObject().ForEach(func(k string, v *udm.Value) bool { b.Set(k, v); return true })
	}
	head, rest := segs[0], segs[1:]
	if len(rest) == 0 {
		b.Set(head, val)
		return udm.NewObject(b.Build())
	}
	var child *udm.Value
	if base != nil && base.Kind() == udm.KindObject {
		if v, ok := base.AsObject().Get(head); ok {
			child = v
		}
	}
	b.Set(head, setPathRec(child, rest, val))
	return udm.NewObject(b.Build())
}

func splitDot(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
