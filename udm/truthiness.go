package udm

// Truthy implements the coercion table used by `&&`, `||`, `if`/`ternary`:
// null, false, 0, "", [], {} are falsy; everything else, truthy.
func Truthy(v *Value) bool {
	if v == nil || v.IsNull() {
		return false
	}
	switch v.kind {
	case KindScalar:
		switch v.scalarKind {
		case ScalarBool:
			return v.b
		case ScalarInt:
			return v.i != 0
		case ScalarFloat:
			return v.f != 0
		case ScalarString:
			return v.s != ""
		}
	case KindArray:
		return len(v.arr) != 0
	case KindObject:
		return v.obj.Len() != 0
	}
	return true
}
