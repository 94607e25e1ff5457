// Package eval implements the tree-walking evaluator: given an AST and
// bound inputs, it produces a result UDM value, dispatching to the
// stdlib registry for named function calls. Replaces the classic mutable
// evaluator environment with parent pointers with an immutable linked
// list of frames — since UDM values are immutable, frames never need
// cloning, only a new link for each lambda call or let-binding.
package eval

import "github.com/utlx/utlx/udm"

// Env is an immutable linked list of lexical frames.
type Env struct {
	parent *Env
	names  map[string]*udm.Value
}

// NewRootEnv builds the base frame holding declared inputs, each bound
// under its `$name` key.
func NewRootEnv(inputs map[string]*udm.Value) *Env {
	names := make(map[string]*udm.Value, len(inputs))
	for k, v := range inputs {
		names["$"+k] = v
	}
	return &Env{names: names}
}

// Child returns a new frame on top of e, without mutating e — the normal
// case for a lambda call or let-binding, and safe to share across multiple
// live closures because nothing downstream ever mutates an existing frame.
func (e *Env) Child(bindings map[string]*udm.Value) *Env {
	return &Env{parent: e, names: bindings}
}

// Bind1 is a convenience for the common single-binding child frame (let,
// single-parameter lambda).
func (e *Env) Bind1(name string, v *udm.Value) *Env {
	return e.Child(map[string]*udm.Value{name: v})
}

// Lookup searches frames from innermost to outermost.
func (e *Env) Lookup(name string) (*udm.Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.names[name]; ok {
			return v, true
		}
	}
	return nil, false
}
