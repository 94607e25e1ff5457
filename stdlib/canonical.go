package stdlib

import (
	"sort"
	"strings"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "canonicalizeXml", MinArity: 1, MaxArity: 2, Call: canonicalizeXmlFn})
}

// canonicalizeXmlFn renders a UDM value as XML with C14N's two
// load-bearing rules — attributes sorted alphabetically, no self-closing
// tags — so two structurally equal documents that differ only in
// attribute order or self-closing style hash identically. Follows
// arturoeanton/go-xml's xml/c14n.go (Canonicalize/writeMapCanonical),
// generalised from *OrderedMap to udm.Value: attributes come from the UDM
// attribute side-channel instead of "@"-prefixed map keys, and object keys
// serialise as repeated child elements the way the XML adapter does rather
// than via a bespoke array branch.
//
// The second argument, if given, supplies the root element name for a
// value with no xml.rootName metadata (mirroring the XML adapter's own
// single-key convention otherwise).
func canonicalizeXmlFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	root := args[0]
	rootName := root.Metadata().String(udm.KeyXMLRootName)
	if len(args) == 2 {
		n, err := asStr("canonicalizeXml", args[1])
		if err != nil {
			return nil, err
		}
		rootName = n
	}
	if rootName == "" {
		return nil, argErr("canonicalizeXml", "root element name required: value has no xml.rootName metadata; pass it as the second argument")
	}
	var buf strings.Builder
	writeCanonicalElement(&buf, rootName, root)
	return udm.String(buf.String()), nil
}

func writeCanonicalElement(buf *strings.Builder, tag string, v *udm.Value) {
	buf.WriteByte('<')
	buf.WriteString(tag)

	var attrNames []string
	v.Attributes().ForEach(func(k string, _ *udm.Value) bool {
		attrNames = append(attrNames, k)
		return true
	})
	sort.Strings(attrNames)
	for _, name := range attrNames {
		av, _ := v.Attributes().Get(name)
		buf.WriteByte(' ')
		buf.WriteString(name)
		buf.WriteString(`="`)
		buf.WriteString(canonicalEscapeAttr(scalarText(av)))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')

	switch v.Kind() {
	case udm.KindObject:
		v.AsObject().ForEach(func(k string, child *udm.Value) bool {
			if strings.HasPrefix(k, "#text") {
				buf.WriteString(canonicalEscapeText(scalarText(child)))
				return true
			}
			if child.Kind() == udm.KindArray {
				for _, item := range child.AsArray() {
					writeCanonicalElement(buf, k, item)
				}
				return true
			}
			writeCanonicalElement(buf, k, child)
			return true
		})
	case udm.KindArray:
		for _, item := range v.AsArray() {
			writeCanonicalElement(buf, tag, item)
		}
	default:
		buf.WriteString(canonicalEscapeText(scalarText(v)))
	}

	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

func scalarText(v *udm.Value) string {
	if v == nil || v.Kind() != udm.KindScalar {
		return ""
	}
	return udm.CanonicalString(v)
}

func canonicalEscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\r", "&#xD;")
	return s
}

func canonicalEscapeAttr(s string) string {
	s = canonicalEscapeText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "\n", "&#xA;")
	s = strings.ReplaceAll(s, "\t", "&#x9;")
	return s
}
