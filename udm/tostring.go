package udm

import (
	"strconv"
	"strings"
)

// CanonicalString returns the canonical string form used when `+`
// concatenates a non-string operand, and by the toString() stdlib
// function.
func CanonicalString(v *Value) string {
	if v == nil || v.IsNull() {
		return "null"
	}
	switch v.kind {
	case KindScalar:
		switch v.scalarKind {
		case ScalarBool:
			return strconv.FormatBool(v.b)
		case ScalarInt:
			return strconv.FormatInt(v.i, 10)
		case ScalarFloat:
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		case ScalarString:
			return v.s
		}
	case KindBinary:
		return "binary(" + strconv.Itoa(len(v.bin)) + " bytes)"
	case KindDate:
		return v.date.String()
	case KindTime:
		return v.time.String()
	case KindLocalDateTime:
		return v.ldt.String()
	case KindDateTime:
		return v.dt.String()
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = CanonicalString(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		var sb strings.Builder
		sb.WriteByte('{')
		first := true
		v.obj.ForEach(func(k string, val *Value) bool {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			sb.WriteString(k)
			sb.WriteByte(':')
			sb.WriteString(CanonicalString(val))
			return true
		})
		sb.WriteByte('}')
		return sb.String()
	case KindLambda:
		return "<lambda>"
	}
	return ""
}
