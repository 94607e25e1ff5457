package stdlib

import (
	"sort"

	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "map", MinArity: 2, MaxArity: 2, Call: arrayMap})
	register(Func{Name: "filter", MinArity: 2, MaxArity: 2, Call: arrayFilter})
	register(Func{Name: "reduce", MinArity: 3, MaxArity: 3, Call: arrayReduce})
	register(Func{Name: "flatMap", MinArity: 2, MaxArity: 2, Call: arrayFlatMap})
	register(Func{Name: "find", MinArity: 2, MaxArity: 2, Call: arrayFind})
	register(Func{Name: "findIndex", MinArity: 2, MaxArity: 2, Call: arrayFindIndex})
	register(Func{Name: "every", MinArity: 2, MaxArity: 2, Call: arrayEvery})
	register(Func{Name: "some", MinArity: 2, MaxArity: 2, Call: arraySome})
	register(Func{Name: "flatten", MinArity: 1, MaxArity: 2, Call: arrayFlatten})
	register(Func{Name: "reverse", MinArity: 1, MaxArity: 1, Call: arrayReverse})
	register(Func{Name: "sort", MinArity: 1, MaxArity: 2, Call: arraySort})
	register(Func{Name: "sortBy", MinArity: 2, MaxArity: 2, Call: arraySortBy})
	register(Func{Name: "distinct", MinArity: 1, MaxArity: 1, Call: arrayDistinct})
	register(Func{Name: "distinctBy", MinArity: 2, MaxArity: 2, Call: arrayDistinctBy})
	register(Func{Name: "chunk", MinArity: 2, MaxArity: 2, Call: arrayChunk})
	register(Func{Name: "windowed", MinArity: 2, MaxArity: 2, Call: arrayWindowed})
	register(Func{Name: "take", MinArity: 2, MaxArity: 2, Call: arrayTake})
	register(Func{Name: "drop", MinArity: 2, MaxArity: 2, Call: arrayDrop})
	register(Func{Name: "zip", MinArity: 2, MaxArity: 2, Call: arrayZip})
	register(Func{Name: "unzip", MinArity: 1, MaxArity: 1, Call: arrayUnzip})
	register(Func{Name: "union", MinArity: 2, MaxArity: 2, Call: arrayUnion})
	register(Func{Name: "intersect", MinArity: 2, MaxArity: 2, Call: arrayIntersect})
	register(Func{Name: "difference", MinArity: 2, MaxArity: 2, Call: arrayDifference})
	register(Func{Name: "groupBy", MinArity: 2, MaxArity: 2, Call: arrayGroupBy})
	register(Func{Name: "count", MinArity: 1, MaxArity: 2, Call: arrayCount})
	register(Func{Name: "sum", MinArity: 1, MaxArity: 1, Call: arraySum})
	register(Func{Name: "avg", MinArity: 1, MaxArity: 1, Call: arrayAvg})
	register(Func{Name: "min", MinArity: 1, MaxArity: 1, Call: arrayMin})
	register(Func{Name: "max", MinArity: 1, MaxArity: 1, Call: arrayMax})
	register(Func{Name: "first", MinArity: 1, MaxArity: 1, Call: arrayFirst})
	register(Func{Name: "last", MinArity: 1, MaxArity: 1, Call: arrayLast})
}

func asArray(fn string, v *udm.Value) ([]*udm.Value, error) {
	if v == nil || v.Kind() != udm.KindArray {
		return nil, typeErr(fn, "expected an array argument, got "+v.TypeName())
	}
	return v.AsArray(), nil
}

func asLambda(fn string, v *udm.Value) (*udm.Value, error) {
	if v == nil || v.Kind() != udm.KindLambda {
		return nil, typeErr(fn, "expected a lambda argument, got "+v.TypeName())
	}
	return v, nil
}

func arrayMap(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("map", args[0])
	if err != nil {
		return nil, err
	}
	if _, err := asLambda("map", args[1]); err != nil {
		return nil, err
	}
	out := make([]*udm.Value, len(arr))
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return udm.Array(out...), nil
}

func arrayFilter(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("filter", args[0])
	if err != nil {
		return nil, err
	}
	if _, err := asLambda("filter", args[1]); err != nil {
		return nil, err
	}
	var out []*udm.Value
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		if udm.Truthy(r) {
			out = append(out, elem)
		}
	}
	return udm.Array(out...), nil
}

func arrayReduce(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("reduce", args[0])
	if err != nil {
		return nil, err
	}
	if _, err := asLambda("reduce", args[1]); err != nil {
		return nil, err
	}
	acc := args[2]
	for _, elem := range arr {
		acc, err = callLambda(args[1], acc, elem)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func arrayFlatMap(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("flatMap", args[0])
	if err != nil {
		return nil, err
	}
	var out []*udm.Value
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		if r.Kind() == udm.KindArray {
			out = append(out, r.AsArray()...)
		} else {
			out = append(out, r)
		}
	}
	return udm.Array(out...), nil
}

func arrayFind(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("find", args[0])
	if err != nil {
		return nil, err
	}
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		if udm.Truthy(r) {
			return elem, nil
		}
	}
	return udm.Null(), nil
}

func arrayFindIndex(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("findIndex", args[0])
	if err != nil {
		return nil, err
	}
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		if udm.Truthy(r) {
			return udm.Int(int64(i)), nil
		}
	}
	return udm.Int(-1), nil
}

func arrayEvery(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("every", args[0])
	if err != nil {
		return nil, err
	}
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		if !udm.Truthy(r) {
			return udm.Bool(false), nil
		}
	}
	return udm.Bool(true), nil
}

func arraySome(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("some", args[0])
	if err != nil {
		return nil, err
	}
	for i, elem := range arr {
		r, err := callLambda(args[1], elem, udm.Int(int64(i)))
		if err != nil {
			return nil, err
		}
		if udm.Truthy(r) {
			return udm.Bool(true), nil
		}
	}
	return udm.Bool(false), nil
}

// arrayFlatten flattens one level by default, or `depth` levels when
// given; it walks each element exactly once per depth level, never
// rescanning an already-flattened prefix.
func arrayFlatten(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("flatten", args[0])
	if err != nil {
		return nil, err
	}
	depth := int64(1)
	if len(args) == 2 {
		if args[1].ScalarKind() != udm.ScalarInt {
			return nil, typeErr("flatten", "depth must be an integer")
		}
		depth = args[1].AsInt()
	}
	return udm.Array(flattenN(arr, depth)...), nil
}

func flattenN(arr []*udm.Value, depth int64) []*udm.Value {
	if depth <= 0 {
		out := make([]*udm.Value, len(arr))
		copy(out, arr)
		return out
	}
	var out []*udm.Value
	for _, e := range arr {
		if e.Kind() == udm.KindArray {
			out = append(out, flattenN(e.AsArray(), depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func arrayReverse(ctx *Context, args []*udm.Value) (*udm.Value, error) {
	if args[0].ScalarKind() == udm.ScalarString {
		return strReverse(ctx, args)
	}
	arr, err := asArray("reverse", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]*udm.Value, len(arr))
	for i, e := range arr {
		out[len(arr)-1-i] = e
	}
	return udm.Array(out...), nil
}

func arraySort(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("sort", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]*udm.Value, len(arr))
	copy(out, arr)
	var cmpErr error
	sort.SliceStable(out, func(i, j int) bool {
		if cmpErr != nil {
			return false
		}
		if len(args) == 2 {
			r, err := callLambda(args[1], out[i], out[j])
			if err != nil {
				cmpErr = err
				return false
			}
			return r.ScalarKind() == udm.ScalarInt && r.AsInt() < 0
		}
		return defaultLess(out[i], out[j])
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return udm.Array(out...), nil
}

func defaultLess(a, b *udm.Value) bool {
	if a.ScalarKind() == udm.ScalarString && b.ScalarKind() == udm.ScalarString {
		return a.AsString() < b.AsString()
	}
	return numericOf(a) < numericOf(b)
}

func numericOf(v *udm.Value) float64 {
	if v.ScalarKind() == udm.ScalarInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func arraySortBy(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("sortBy", args[0])
	if err != nil {
		return nil, err
	}
	keys := make([]*udm.Value, len(arr))
	for i, e := range arr {
		k, err := callLambda(args[1], e)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	idx := make([]int, len(arr))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return defaultLess(keys[idx[i]], keys[idx[j]]) })
	out := make([]*udm.Value, len(arr))
	for i, j := range idx {
		out[i] = arr[j]
	}
	return udm.Array(out...), nil
}

func arrayDistinct(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("distinct", args[0])
	if err != nil {
		return nil, err
	}
	var out []*udm.Value
	for _, e := range arr {
		dup := false
		for _, o := range out {
			if udm.Equal(e, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return udm.Array(out...), nil
}

func arrayDistinctBy(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("distinctBy", args[0])
	if err != nil {
		return nil, err
	}
	var out []*udm.Value
	var keys []*udm.Value
	for _, e := range arr {
		k, err := callLambda(args[1], e)
		if err != nil {
			return nil, err
		}
		dup := false
		for _, ok := range keys {
			if udm.Equal(k, ok) {
				dup = true
				break
			}
		}
		if !dup {
			keys = append(keys, k)
			out = append(out, e)
		}
	}
	return udm.Array(out...), nil
}

func arrayChunk(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("chunk", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarInt || args[1].AsInt() <= 0 {
		return nil, argErr("chunk", "size must be a positive integer")
	}
	size := int(args[1].AsInt())
	var out []*udm.Value
	for i := 0; i < len(arr); i += size {
		end := i + size
		if end > len(arr) {
			end = len(arr)
		}
		out = append(out, udm.Array(arr[i:end]...))
	}
	return udm.Array(out...), nil
}

func arrayWindowed(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("windowed", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarInt || args[1].AsInt() <= 0 {
		return nil, argErr("windowed", "size must be a positive integer")
	}
	size := int(args[1].AsInt())
	var out []*udm.Value
	for i := 0; i+size <= len(arr); i++ {
		out = append(out, udm.Array(arr[i:i+size]...))
	}
	return udm.Array(out...), nil
}

func arrayTake(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("take", args[0])
	if err != nil {
		return nil, err
	}
	n := clampCount(args[1], len(arr))
	return udm.Array(arr[:n]...), nil
}

func arrayDrop(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("drop", args[0])
	if err != nil {
		return nil, err
	}
	n := clampCount(args[1], len(arr))
	return udm.Array(arr[n:]...), nil
}

func clampCount(v *udm.Value, max int) int {
	n := int(v.AsInt())
	if n < 0 {
		n = 0
	}
	if n > max {
		n = max
	}
	return n
}

func arrayZip(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, err := asArray("zip", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asArray("zip", args[1])
	if err != nil {
		return nil, err
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]*udm.Value, n)
	for i := 0; i < n; i++ {
		out[i] = udm.Array(a[i], b[i])
	}
	return udm.Array(out...), nil
}

func arrayUnzip(_ *Context, args []*udm.Value) (*udm.Value, error) {
	pairs, err := asArray("unzip", args[0])
	if err != nil {
		return nil, err
	}
	firsts := make([]*udm.Value, 0, len(pairs))
	seconds := make([]*udm.Value, 0, len(pairs))
	for _, p := range pairs {
		pa, err := asArray("unzip", p)
		if err != nil || len(pa) != 2 {
			return nil, argErr("unzip", "expects an array of 2-element arrays")
		}
		firsts = append(firsts, pa[0])
		seconds = append(seconds, pa[1])
	}
	return udm.Array(udm.Array(firsts...), udm.Array(seconds...)), nil
}

func arrayUnion(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, err := asArray("union", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asArray("union", args[1])
	if err != nil {
		return nil, err
	}
	return arrayDistinct(nil, []*udm.Value{udm.Array(append(append([]*udm.Value{}, a...), b...)...)})
}

func arrayIntersect(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, err := asArray("intersect", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asArray("intersect", args[1])
	if err != nil {
		return nil, err
	}
	var out []*udm.Value
	for _, e := range a {
		for _, o := range b {
			if udm.Equal(e, o) {
				out = append(out, e)
				break
			}
		}
	}
	return udm.Array(out...), nil
}

func arrayDifference(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, err := asArray("difference", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asArray("difference", args[1])
	if err != nil {
		return nil, err
	}
	var out []*udm.Value
	for _, e := range a {
		found := false
		for _, o := range b {
			if udm.Equal(e, o) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, e)
		}
	}
	return udm.Array(out...), nil
}

func arrayGroupBy(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("groupBy", args[0])
	if err != nil {
		return nil, err
	}
	b := udm.NewObjectBuilder()
	order := map[string]bool{}
	groups := map[string][]*udm.Value{}
	var orderedKeys []string
	for _, e := range arr {
		k, err := callLambda(args[1], e)
		if err != nil {
			return nil, err
		}
		ks := udm.CanonicalString(k)
		if !order[ks] {
			order[ks] = true
			orderedKeys = append(orderedKeys, ks)
		}
		groups[ks] = append(groups[ks], e)
	}
	for _, k := range orderedKeys {
		b.Set(k, udm.Array(groups[k]...))
	}
	return udm.NewObject(b.Build()), nil
}

func arrayCount(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("count", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return udm.Int(int64(len(arr))), nil
	}
	n := int64(0)
	for _, e := range arr {
		r, err := callLambda(args[1], e)
		if err != nil {
			return nil, err
		}
		if udm.Truthy(r) {
			n++
		}
	}
	return udm.Int(n), nil
}

func arraySum(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("sum", args[0])
	if err != nil {
		return nil, err
	}
	var isum int64
	var fsum float64
	allInt := true
	for _, e := range arr {
		if e.ScalarKind() != udm.ScalarInt && e.ScalarKind() != udm.ScalarFloat {
			return nil, typeErr("sum", "array elements must be numeric")
		}
		if e.ScalarKind() == udm.ScalarFloat {
			allInt = false
		}
		fsum += numericOf(e)
		if e.ScalarKind() == udm.ScalarInt {
			isum += e.AsInt()
		}
	}
	if allInt {
		return udm.Int(isum), nil
	}
	return udm.Float(fsum), nil
}

func arrayAvg(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("avg", args[0])
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, argErr("avg", "array must not be empty")
	}
	var total float64
	for _, e := range arr {
		total += numericOf(e)
	}
	return udm.Float(total / float64(len(arr))), nil
}

func arrayMin(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("min", args[0])
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, argErr("min", "array must not be empty")
	}
	best := arr[0]
	for _, e := range arr[1:] {
		if numericOf(e) < numericOf(best) {
			best = e
		}
	}
	return best, nil
}

func arrayMax(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("max", args[0])
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, argErr("max", "array must not be empty")
	}
	best := arr[0]
	for _, e := range arr[1:] {
		if numericOf(e) > numericOf(best) {
			best = e
		}
	}
	return best, nil
}

func arrayFirst(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("first", args[0])
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, errs.New(errs.KindIndexOutOfBounds, "first: array is empty")
	}
	return arr[0], nil
}

func arrayLast(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("last", args[0])
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, errs.New(errs.KindIndexOutOfBounds, "last: array is empty")
	}
	return arr[len(arr)-1], nil
}
