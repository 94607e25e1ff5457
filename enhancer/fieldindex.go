// Package enhancer implements the error enhancer: given an EngineError
// raised by unbound-name lookup or field access, it consults the field
// names exposed by the bound inputs to offer typo corrections and to
// recognise the common "missing lambda parameter" mistake, wrapping the
// original error in an EnhancedError rather than replacing it.
//
// Follows arturoeanton/go-xml's layering style (xml/error.go wraps one
// error kind in another without discarding the cause) and the stdlib
// table's own read-only, process-wide-safe construction (stdlib/registry.go):
// FieldIndex is built once per execute() call from already-parsed UDM
// inputs and never mutated afterwards, so nothing here needs
// synchronisation.
package enhancer

import "github.com/utlx/utlx/udm"

// FieldIndex records, per declared input name, the field names observable
// on that input's top-level shape — an Object's own keys, or (for an Array
// of Objects, the shape every tabular adapter produces: CSV rows, JSON
// arrays of records) the union of keys across its elements. It is the
// per-input field metadata the enhancer caches for the lifetime of one run.
type FieldIndex struct {
	perInput map[string][]string
	all      []string // deduplicated union across every input, for typo search
}

// CollectFields builds a FieldIndex from the inputs bound for one
// execute() call. Call this once per invocation (the engine package is the
// natural caller, right after parseFormat-ing every declared input) and
// reuse the result for every error the evaluator raises during that run.
func CollectFields(inputs map[string]*udm.Value) FieldIndex {
	idx := FieldIndex{perInput: make(map[string][]string, len(inputs))}
	seen := make(map[string]bool)
	for name, v := range inputs {
		fields := topLevelFields(v)
		idx.perInput[name] = fields
		for _, f := range fields {
			if !seen[f] {
				seen[f] = true
				idx.all = append(idx.all, f)
			}
		}
	}
	return idx
}

func topLevelFields(v *udm.Value) []string {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case udm.KindObject:
		return objectKeys(v.AsObject())
	case udm.KindArray:
		seen := make(map[string]bool)
		var out []string
		for _, elem := range v.AsArray() {
			if elem == nil || elem.Kind() != udm.KindObject {
				continue
			}
			for _, k := range objectKeys(elem.AsObject()) {
				if !seen[k] {
					seen[k] = true
					out = append(out, k)
				}
			}
		}
		return out
	default:
		return nil
	}
}

func objectKeys(o *udm.Object) []string {
	entries := o.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

// Fields returns the known field names for one bound input, or nil if that
// input name is not present in the index.
func (idx FieldIndex) Fields(input string) []string {
	return idx.perInput[input]
}

// Has reports whether name is a known field of any bound input — the
// check the missing-lambda-parameter heuristic uses.
func (idx FieldIndex) Has(name string) bool {
	for _, f := range idx.all {
		if f == name {
			return true
		}
	}
	return false
}

// All returns the deduplicated union of every bound input's field names,
// the search space for typo suggestions.
func (idx FieldIndex) All() []string {
	return idx.all
}
