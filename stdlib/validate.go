package stdlib

import (
	"fmt"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "validate", MinArity: 2, MaxArity: 2, Call: validateFn})
}

// validateFn re-checks a value against a list of shape rules at runtime —
// required/type/min/max/regex/enum — and returns the array of violation
// messages (empty when the value is clean). Follows arturoeanton/go-xml's
// rule-based Validate/Rule (xml/validate.go, xml/helper.go), generalised
// from *OrderedMap + dynamic path strings to udm.Value + the same
// dot-path notation getPath/setPath already use, so one path syntax
// serves both lookup and validation.
//
// Each rule is an object: {path: string, required: bool?, type: string?,
// min: number?, max: number?, regex: string?, enum: [string]?}. "type" is
// one of "string", "int", "float", "array", matching the stdlib type
// names getType already returns.
func validateFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	if args[1].Kind() != udm.KindArray {
		return nil, typeErr("validate", "rules must be an array of rule objects")
	}
	var violations []string
	for _, ruleVal := range args[1].AsArray() {
		if ruleVal.Kind() != udm.KindObject {
			return nil, typeErr("validate", "each rule must be an object")
		}
		msg, err := checkRule(args[0], ruleVal.AsObject())
		if err != nil {
			return nil, err
		}
		if msg != "" {
			violations = append(violations, msg)
		}
	}
	out := make([]*udm.Value, len(violations))
	for i, m := range violations {
		out[i] = udm.String(m)
	}
	return udm.Array(out...), nil
}

func ruleString(o *udm.Object, key string) string {
	v, ok := o.Get(key)
	if !ok || v.ScalarKind() != udm.ScalarString {
		return ""
	}
	return v.AsString()
}

func ruleBool(o *udm.Object, key string) bool {
	v, ok := o.Get(key)
	return ok && v.ScalarKind() == udm.ScalarBool && v.AsBool()
}

func ruleFloat(o *udm.Object, key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	switch v.ScalarKind() {
	case udm.ScalarInt:
		return float64(v.AsInt()), true
	case udm.ScalarFloat:
		return v.AsFloat(), true
	}
	return 0, false
}

func checkRule(data *udm.Value, rule *udm.Object) (string, error) {
	path := ruleString(rule, "path")
	if path == "" {
		return "", argErr("validate", "rule is missing required \"path\" field")
	}

	cur := data
	for _, seg := range splitDot(path) {
		if cur == nil || cur.Kind() != udm.KindObject {
			cur = nil
			break
		}
		v, ok := cur.AsObject().Get(seg)
		if !ok {
			cur = nil
			break
		}
		cur = v
	}
	if cur == nil || cur.IsNull() {
		if ruleBool(rule, "required") {
			return fmt.Sprintf("%s: required field is missing", path), nil
		}
		return "", nil
	}

	switch ruleString(rule, "type") {
	case "array":
		if cur.Kind() != udm.KindArray {
			return fmt.Sprintf("%s: must be an array", path), nil
		}
	case "int", "float":
		f, ok := ruleFloat2(cur)
		if !ok {
			return fmt.Sprintf("%s: must be numeric", path), nil
		}
		if min, ok := ruleFloat(rule, "min"); ok && f < min {
			return fmt.Sprintf("%s: value %v is less than minimum %v", path, f, min), nil
		}
		if max, ok := ruleFloat(rule, "max"); ok && f > max {
			return fmt.Sprintf("%s: value %v is greater than maximum %v", path, f, max), nil
		}
	case "string":
		s := cur.AsString()
		if cur.ScalarKind() != udm.ScalarString {
			return fmt.Sprintf("%s: must be a string", path), nil
		}
		if pattern := ruleString(rule, "regex"); pattern != "" {
			re, err := compileRegex("validate", pattern)
			if err != nil {
				return "", err
			}
			ok, err := re.MatchString(s)
			if err != nil {
				return "", err
			}
			if !ok {
				return fmt.Sprintf("%s: does not match pattern %s", path, pattern), nil
			}
		}
		if enumVal, ok := rule.Get("enum"); ok && enumVal.Kind() == udm.KindArray {
			found := false
			for _, a := range enumVal.AsArray() {
				if a.ScalarKind() == udm.ScalarString && a.AsString() == s {
					found = true
					break
				}
			}
			if !found {
				return fmt.Sprintf("%s: value %q is not one of the allowed values", path, s), nil
			}
		}
	}
	return "", nil
}

func ruleFloat2(v *udm.Value) (float64, bool) {
	switch v.ScalarKind() {
	case udm.ScalarInt:
		return float64(v.AsInt()), true
	case udm.ScalarFloat:
		return v.AsFloat(), true
	}
	return 0, false
}
