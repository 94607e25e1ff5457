package udm

// Attributes is the secondary, ordered string→Scalar side-channel attached
// to a Value (principally for XML `@attr`). Attributes are distinct from
// Object keys: they are reached via `.@name`, never via `.name`, and never
// appear when iterating an Object's keys. Modelled the same way
// arturoeanton/go-xml keeps XML attributes out of its OrderedMap's primary
// key space (xml/xml.go, attribute handling in the parser core).
type Attributes struct {
	keys   []string
	values map[string]*Value
}

var emptyAttributes = &Attributes{}

// NewAttributesBuilder returns an empty attribute-set builder.
func NewAttributesBuilder() *AttributesBuilder {
	return &AttributesBuilder{values: make(map[string]*Value)}
}

type AttributesBuilder struct {
	keys   []string
	values map[string]*Value
}

func (b *AttributesBuilder) Set(name string, v *Value) *AttributesBuilder {
	if _, exists := b.values[name]; !exists {
		b.keys = append(b.keys, name)
	}
	b.values[name] = v
	return b
}

func (b *AttributesBuilder) Build() *Attributes {
	if len(b.keys) == 0 {
		return emptyAttributes
	}
	a := &Attributes{
		keys:   make([]string, len(b.keys)),
		values: make(map[string]*Value, len(b.values)),
	}
	copy(a.keys, b.keys)
	for k, v := range b.values {
		a.values[k] = v
	}
	return a
}

// Len returns the attribute count.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns attribute names in original order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return a.keys
}

// Get returns the attribute value for name and whether it was present.
func (a *Attributes) Get(name string) (*Value, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok
}

// ForEach visits attributes in original order.
func (a *Attributes) ForEach(fn func(name string, v *Value) bool) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		if !fn(k, a.values[k]) {
			return
		}
	}
}
