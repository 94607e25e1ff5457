package stdlib

import (
	"strconv"
	"strings"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "selectPath", MinArity: 2, MaxArity: 2, Call: selectPathFn})
}

// selectPathFn is a data-driven path query, for the common case where the
// path itself is not known until runtime (built from another field,
// looped over, etc.) and so cannot be written as a static `.` chain.
// Follows arturoeanton/go-xml's QueryAll (xml/query.go): same "/"-segmented
// path syntax, same `[n]` index / `[key=value]` filter / `*` wildcard /
// `#count` meta-segment, generalised from *OrderedMap nodes to udm.Value
// ones. The custom `func:name` segment and `contains()/starts-with()`
// filter functions (xml/features_query.go's registry) are not carried
// over — they let a Go caller register host functions into path strings,
// which has no equivalent for a transform author who can only write
// UTL-X source, and the comparison operators they'd need (`>`, `<`)
// already exist as the language's own infix operators over a resolved
// value, so there is no expressive gap left to fill.
func selectPathFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	path, err := asStr("selectPath", args[1])
	if err != nil {
		return nil, err
	}
	results := []*udm.Value{args[0]}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		var next []*udm.Value
		for _, cur := range results {
			next = append(next, applySegment(cur, seg)...)
		}
		results = next
	}
	return udm.Array(results...), nil
}

func applySegment(cur *udm.Value, seg string) []*udm.Value {
	if seg == "#count" {
		switch cur.Kind() {
		case udm.KindArray:
			return []*udm.Value{udm.Int(int64(len(cur.AsArray())))}
		case udm.KindObject:
			return []*udm.Value{udm.Int(int64(cur.AsObject().Len()))}
		}
		return []*udm.Value{udm.Int(0)}
	}
	if seg == "#text" {
		if cur.Kind() == udm.KindScalar {
			return []*udm.Value{cur}
		}
		return nil
	}

	key, idx, filterKey, filterOp, filterVal := parseQuerySegment(seg)

	nodes := []*udm.Value{cur}
	if cur.Kind() == udm.KindArray {
		nodes = cur.AsArray()
	}

	var out []*udm.Value
	for _, node := range nodes {
		if node.Kind() != udm.KindObject {
			continue
		}
		var candidates []*udm.Value
		if key == "*" {
			node.AsObject().ForEach(func(_ string, v *udm.Value) bool {
				candidates = append(candidates, v)
				return true
			})
		} else if v, ok := node.AsObject().Get(key); ok {
			candidates = append(candidates, v)
		}
		for _, c := range candidates {
			out = append(out, expandCandidate(c, idx, filterKey, filterOp, filterVal)...)
		}
	}
	return out
}

// expandCandidate flattens one resolved child into zero or more results,
// applying an `[n]` index or `[key op value]` filter against each element
// when the child is an array (the auto-array shape repeated XML/JSON
// siblings take).
func expandCandidate(c *udm.Value, idx int, filterKey, filterOp, filterVal string) []*udm.Value {
	if idx < 0 && filterKey == "" {
		// No index/filter: keep the resolved value (array or not) whole.
		// The next segment's own nodes-flatten (in applySegment) descends
		// into it when it needs to match a child key; #count and similar
		// meta-segments need the un-flattened array to measure.
		return []*udm.Value{c}
	}
	items := []*udm.Value{c}
	if c.Kind() == udm.KindArray {
		items = c.AsArray()
	}
	if idx >= 0 {
		if idx < len(items) {
			return []*udm.Value{items[idx]}
		}
		return nil
	}
	var out []*udm.Value
	for _, item := range items {
		if matchesFilter(item, filterKey, filterOp, filterVal) {
			out = append(out, item)
		}
	}
	return out
}

func matchesFilter(item *udm.Value, key, op, want string) bool {
	var field *udm.Value
	if item.Kind() == udm.KindObject {
		field, _ = item.AsObject().Get(key)
	}
	if field == nil {
		if a, ok := item.Attributes().Get(key); ok {
			field = a
		}
	}
	if field == nil {
		return false
	}
	got := udm.CanonicalString(field)
	switch op {
	case "!=":
		return got != want
	case ">", "<", ">=", "<=":
		gf, gok := strconv.ParseFloat(got, 64)
		wf, wok := strconv.ParseFloat(want, 64)
		if !gok || !wok {
			return false
		}
		switch op {
		case ">":
			return gf > wf
		case "<":
			return gf < wf
		case ">=":
			return gf >= wf
		default:
			return gf <= wf
		}
	default: // "="
		return got == want
	}
}

// parseQuerySegment splits "key[...]" into its base key and an optional
// index or filter, matching arturoeanton/go-xml's parseSegment (xml/query.go).
func parseQuerySegment(seg string) (key string, idx int, filterKey, filterOp, filterVal string) {
	idx = -1
	key = seg
	i := strings.Index(seg, "[")
	if i < 0 || !strings.HasSuffix(seg, "]") {
		return
	}
	key = seg[:i]
	inside := seg[i+1 : len(seg)-1]

	for _, op := range []string{"!=", ">=", "<=", "=", ">", "<"} {
		if j := strings.Index(inside, op); j >= 0 {
			filterKey = strings.TrimSpace(inside[:j])
			filterOp = op
			filterVal = strings.Trim(strings.TrimSpace(inside[j+len(op):]), `'"`)
			return
		}
	}
	if n, err := strconv.Atoi(inside); err == nil {
		idx = n
	}
	return
}
