package stdlib

import (
	"strings"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "xmlEscape", MinArity: 1, MaxArity: 1, Call: xmlEscapeFn})
	register(Func{Name: "xmlUnescape", MinArity: 1, MaxArity: 1, Call: xmlUnescapeFn})
	register(Func{Name: "localName", MinArity: 1, MaxArity: 1, Call: xmlLocalName})
	register(Func{Name: "namespacePrefix", MinArity: 1, MaxArity: 1, Call: xmlNamespacePrefix})
	register(Func{Name: "qualifiedName", MinArity: 2, MaxArity: 2, Call: xmlQualifiedName})
	register(Func{Name: "attribute", MinArity: 2, MaxArity: 2, Call: xmlAttribute})
	register(Func{Name: "attributes", MinArity: 1, MaxArity: 1, Call: xmlAttributes})
	register(Func{Name: "metadataValue", MinArity: 2, MaxArity: 2, Call: xmlMetadataValue})
}

var xmlEscapes = []struct{ from, to string }{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{"\"", "&quot;"},
	{"'", "&apos;"},
}

// xmlEscapeFn/xmlUnescapeFn expose the XML adapter's own text-escaping
// rules as stdlib functions so transforms can build XML-bearing string
// fields (e.g. embedding a fragment in a CDATA-free attribute) without
// round-tripping through the full adapter.
func xmlEscapeFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("xmlEscape", args[0])
	if err != nil {
		return nil, err
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	for _, e := range xmlEscapes[1:] {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return udm.String(s), nil
}

func xmlUnescapeFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("xmlUnescape", args[0])
	if err != nil {
		return nil, err
	}
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&apos;", "'",
		"&amp;", "&",
	)
	return udm.String(r.Replace(s)), nil
}

// xmlLocalName/xmlNamespacePrefix split a "prefix:local" qualified name
// the way the XML adapter's key-naming convention requires; a name with
// no colon has an empty prefix and is its own local name.
func splitQName(s string) (prefix, local string) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func xmlLocalName(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("localName", args[0])
	if err != nil {
		return nil, err
	}
	_, local := splitQName(s)
	return udm.String(local), nil
}

func xmlNamespacePrefix(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("namespacePrefix", args[0])
	if err != nil {
		return nil, err
	}
	prefix, _ := splitQName(s)
	return udm.String(prefix), nil
}

func xmlQualifiedName(_ *Context, args []*udm.Value) (*udm.Value, error) {
	prefix, err := asStr("qualifiedName", args[0])
	if err != nil {
		return nil, err
	}
	local, err := asStr("qualifiedName", args[1])
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		return udm.String(local), nil
	}
	return udm.String(prefix + ":" + local), nil
}

// xmlAttribute/xmlAttributes read the UDM attribute side-channel that the
// XML adapter populates from `<el attr="v">`.
func xmlAttribute(_ *Context, args []*udm.Value) (*udm.Value, error) {
	name, err := asStr("attribute", args[1])
	if err != nil {
		return nil, err
	}
	if v, ok := args[0].Attributes().Get(name); ok {
		return v, nil
	}
	return udm.Null(), nil
}

func xmlAttributes(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b := udm.NewObjectBuilder()
	args[0].Attributes().ForEach(func(k string, v *udm.Value) bool {
		b.Set(k, v)
		return true
	})
	return udm.NewObject(b.Build()), nil
}

func xmlMetadataValue(_ *Context, args []*udm.Value) (*udm.Value, error) {
	key, err := asStr("metadataValue", args[1])
	if err != nil {
		return nil, err
	}
	v, ok := args[0].Metadata().Get(key)
	if !ok {
		return udm.Null(), nil
	}
	switch t := v.(type) {
	case string:
		return udm.String(t), nil
	case bool:
		return udm.Bool(t), nil
	case int:
		return udm.Int(int64(t)), nil
	case int64:
		return udm.Int(t), nil
	case float64:
		return udm.Float(t), nil
	default:
		return udm.Null(), nil
	}
}
