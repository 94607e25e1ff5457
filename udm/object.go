package udm

// Object is an ordered string-keyed mapping: insertion order is preserved
// and observable in serialisation, and key lookup is O(1). This is a
// direct generalisation of arturoeanton/go-xml's OrderedMap (xml/map.go)
// to hold *Value children instead of `any`, and to be immutable-after-build
// rather than offering a fluent mutating Set/Put API.
type Object struct {
	keys   []string
	values map[string]*Value
}

// NewOrderedObject returns an empty Object.
func NewOrderedObject() *Object {
	return &Object{values: make(map[string]*Value)}
}

// ObjectBuilder accumulates key/value pairs and then freezes into an
// immutable Object. Builders are the only way to populate an Object; once
// Build is called, later mutation of the builder does not affect the
// returned Object.
type ObjectBuilder struct {
	keys   []string
	values map[string]*Value
}

// NewObjectBuilder returns an empty builder.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{values: make(map[string]*Value)}
}

// Set inserts or overwrites key. Per spread semantics, overwriting an
// existing key keeps its original position; a new key is appended.
func (b *ObjectBuilder) Set(key string, v *Value) *ObjectBuilder {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = v
	return b
}

// Build freezes the builder into an Object.
func (b *ObjectBuilder) Build() *Object {
	o := &Object{
		keys:   make([]string, len(b.keys)),
		values: make(map[string]*Value, len(b.values)),
	}
	copy(o.keys, b.keys)
	for k, v := range b.values {
		o.values[k] = v
	}
	return o
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. Callers must not mutate the
// returned slice.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// ForEach visits entries in insertion order. Iteration stops early if fn
// returns false.
func (o *Object) ForEach(fn func(key string, v *Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Entries returns a newly-allocated slice of (key, value) pairs in order.
type Entry struct {
	Key   string
	Value *Value
}

func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	out := make([]Entry, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, Entry{Key: k, Value: o.values[k]})
	}
	return out
}
