package udm

// Equal implements deep structural equality.
//
// Two design decisions are resolved here, recorded in DESIGN.md:
//   - Scalar int/float compare by mathematical value across variants, so
//     1 == 1.0 is true (the reference corpus treats 1 == 1.0 as true).
//   - Object equality is order-independent (same keys, same values); Array
//     equality is order-dependent (source order).
//
// Attributes and Metadata never participate: two values that differ only
// in attributes/metadata are equal.
func Equal(a, b *Value) bool {
	aNull, bNull := a == nil || a.IsNull(), b == nil || b.IsNull()
	if aNull || bNull {
		return aNull && bNull
	}
	if a.kind != b.kind {
		// Cross-kind numeric comparison: int vs float.
		if a.kind == KindScalar && b.kind == KindScalar {
			return scalarEqual(a, b)
		}
		return false
	}
	switch a.kind {
	case KindScalar:
		return scalarEqual(a, b)
	case KindBinary:
		return bytesEqual(a.bin, b.bin)
	case KindDate:
		return a.date == b.date
	case KindTime:
		return a.time == b.time
	case KindLocalDateTime:
		return a.ldt == b.ldt
	case KindDateTime:
		return a.dt.Equal(b.dt)
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return objectEqual(a.obj, b.obj)
	case KindLambda:
		return false // lambdas are never equal, even to themselves by value
	}
	return false
}

func scalarEqual(a, b *Value) bool {
	an, bn := isNumeric(a), isNumeric(b)
	if an && bn {
		return numericValue(a) == numericValue(b)
	}
	if a.scalarKind != b.scalarKind {
		return false
	}
	switch a.scalarKind {
	case ScalarNull:
		return true
	case ScalarBool:
		return a.b == b.b
	case ScalarString:
		return a.s == b.s
	}
	return false
}

func isNumeric(v *Value) bool {
	return v.kind == KindScalar && (v.scalarKind == ScalarInt || v.scalarKind == ScalarFloat)
}

func numericValue(v *Value) float64 {
	if v.scalarKind == ScalarInt {
		return float64(v.i)
	}
	return v.f
}

func objectEqual(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	ok := true
	a.ForEach(func(k string, av *Value) bool {
		bv, present := b.Get(k)
		if !present || !Equal(av, bv) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
