// Package xmladapter implements the XML format adapter. The decode side
// is a hand-rolled stack walk over encoding/xml's token stream, directly
// following arturoeanton/go-xml's own MapXML engine (xml/xml.go): same
// streaming xml.Decoder, same stack-of-in-progress-nodes shape, same
// text/children/mixed-content classification — generalised from its
// map[string]any + OrderedMap tree onto UDM's Object/Array side-channel
// model (attributes and namespace/encoding bookkeeping move off the map
// itself and into the attribute/metadata channels UDM provides for
// exactly this purpose).
package xmladapter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/utlx/utlx/adapter"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Adapter implements adapter.Adapter for XML.
type Adapter struct{}

// node mirrors arturoeanton/go-xml's stack entry: an in-progress element
// with its attributes and its children in document order (elements and
// text fragments alike), so mixed content can be reassembled positionally.
type node struct {
	name        string
	nsURI       string
	attrs       *udm.AttributesBuilder
	order       []childEntry
	elementSeen map[string]int // tag name -> index into order, for auto-array merging
	text        strings.Builder
	textFrags   int
	sawElement  bool
	sawText     bool
}

type childEntry struct {
	key string
	val *udm.Value
}

// Parse decodes an XML document into a UDM value: the root element's
// children become the root Object's keys (repeated names auto-array),
// attributes go to the attribute side-channel, and the root tag
// name/namespace/original encoding are recorded in metadata so Serialise
// can round-trip them.
func (Adapter) Parse(data []byte, opts map[string]any) (*udm.Value, error) {
	data = adapter.StripBOM(data)
	encoding := detectEncoding(data)

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charsetReader

	var stack []*node
	var root *udm.Value
	var rootName, rootNSURI string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.KindFormatParseError, err, "invalid XML input")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{
				name:        t.Name.Local,
				nsURI:       t.Name.Space,
				attrs:       udm.NewAttributesBuilder(),
				elementSeen: make(map[string]int),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.attrs.Set(a.Name.Local, udm.String(a.Value))
			}
			if len(stack) == 0 {
				rootName = n.name
				rootNSURI = n.nsURI
			}
			stack = append(stack, n)

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string(t)
			if strings.TrimSpace(text) == "" {
				continue
			}
			cur := stack[len(stack)-1]
			cur.sawText = true
			cur.text.WriteString(text)
			cur.textFrags++
			key := "#text"
			if cur.textFrags > 1 {
				key = fmt.Sprintf("#text%d", cur.textFrags)
			}
			textVal := udm.String(strings.TrimSpace(text)).WithMetadata(
				udm.NewMetadataBuilder().Set(udm.KeyXMLIsText, true).Build(),
			)
			cur.order = append(cur.order, childEntry{key: key, val: textVal})

		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			val := finishNode(n)

			if len(stack) == 0 {
				root = val
				break
			}
			parent := stack[len(stack)-1]
			appendChild(parent, n.name, val)
		}
	}

	if root == nil {
		return nil, errs.New(errs.KindFormatParseError, "XML document has no root element")
	}

	mb := udm.NewMetadataBuilder().
		Set(udm.KeyXMLEncoding, encoding).
		Set(udm.KeyXMLRootName, rootName)
	if rootNSURI != "" {
		mb.Set(udm.KeyXMLNamespaceURI, rootNSURI)
	}
	return root.WithMetadata(mb.Build()), nil
}

// finishNode collapses a completed element into its UDM value: a pure
// Scalar(String) for text-only content, the accumulated Object otherwise
// (with synthetic "#text" entries preserving position on mixed content),
// carrying attributes and namespace metadata either way.
func finishNode(n *node) *udm.Value {
	attrs := n.attrs.Build()

	var val *udm.Value
	switch {
	case !n.sawElement && n.sawText:
		val = udm.String(strings.TrimSpace(n.text.String()))
	case !n.sawElement && !n.sawText:
		val = udm.String("")
	default:
		b := udm.NewObjectBuilder()
		for _, e := range n.order {
			b.Set(e.key, e.val)
		}
		val = udm.NewObject(b.Build())
	}

	if attrs.Len() > 0 {
		val = val.WithAttributes(attrs)
	}
	if n.nsURI != "" {
		val = val.WithMetadata(udm.NewMetadataBuilder().Set(udm.KeyXMLNamespaceURI, n.nsURI).Build())
	}
	return val
}

// appendChild implements repeated-element auto-arraying: the
// first occurrence of a tag name keeps its document position in `order`,
// a second occurrence promotes that slot to an Array, and later ones
// append to it — ObjectBuilder.Set on an existing key preserves its
// original position, so the slot stays where the first occurrence was.
func appendChild(parent *node, name string, val *udm.Value) {
	parent.sawElement = true
	if idx, ok := parent.elementSeen[name]; ok {
		existing := parent.order[idx].val
		if existing.Kind() == udm.KindArray {
			parent.order[idx].val = udm.Array(append(existing.AsArray(), val)...)
		} else {
			parent.order[idx].val = udm.Array(existing, val)
		}
		return
	}
	parent.elementSeen[name] = len(parent.order)
	parent.order = append(parent.order, childEntry{key: name, val: val})
}

// detectEncoding reads the XML declaration's encoding attribute, if any,
// defaulting to UTF-8. The original encoding is recorded in metadata so
// Serialise can round-trip it.
func detectEncoding(data []byte) string {
	head := string(data)
	if i := strings.Index(head, "?>"); i > 0 && i < 200 {
		decl := head[:i]
		if j := strings.Index(decl, "encoding="); j >= 0 {
			rest := decl[j+len("encoding="):]
			if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'') {
				q := rest[0]
				if end := strings.IndexByte(rest[1:], q); end >= 0 {
					return rest[1 : end+1]
				}
			}
		}
	}
	return "UTF-8"
}

// Serialise renders a UDM value as an XML document: the top-level
// UDM.Object names the root element. Two cases:
//
//   - v is (a reference to) an entire document Parse produced — it
//     carries xml.rootName metadata — and is serialised with that tag
//     name, its own Object entries as children: the identity-transform
//     case, `output: $input`.
//   - v was built fresh by the transformation and carries no such
//     metadata: it must be a single-key Object, and that key names the
//     root element (`{ Envelope: { ... } }`). This is the ordinary case
//     for any transform that doesn't just forward an input untouched.
//
// The `encoding` option overrides whatever encoding metadata says;
// `"NONE"` omits the encoding attribute from the XML declaration
// entirely.
func (Adapter) Serialise(v *udm.Value, opts map[string]any) ([]byte, error) {
	pretty, _ := opts["pretty"].(bool)
	indent := "  "
	if iv, ok := opts["indent"].(string); ok {
		indent = iv
	}

	encoding := "UTF-8"
	if metaEnc := v.Metadata().String(udm.KeyXMLEncoding); metaEnc != "" {
		encoding = metaEnc
	}
	if enc, ok := opts["encoding"].(string); ok && enc != "" {
		encoding = enc
	}

	rootTag, rootVal, err := resolveRoot(v, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if encoding == "NONE" {
		buf.WriteString(`<?xml version="1.0"?>`)
	} else {
		fmt.Fprintf(&buf, `<?xml version="1.0" encoding="%s"?>`, encoding)
	}
	if pretty {
		buf.WriteByte('\n')
	}
	if err := encodeElement(&buf, rootTag, rootVal, pretty, indent, 0); err != nil {
		return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not serialise value to XML")
	}
	return buf.Bytes(), nil
}

// resolveRoot picks the document root's tag name and content.
func resolveRoot(v *udm.Value, opts map[string]any) (string, *udm.Value, error) {
	if override, ok := opts["rootName"].(string); ok && override != "" {
		return override, stripRootName(v), nil
	}
	if rn := v.Metadata().String(udm.KeyXMLRootName); rn != "" {
		return rn, v, nil
	}
	if v.Kind() != udm.KindObject || v.AsObject().Len() != 1 {
		return "", nil, errs.New(errs.KindFormatSerialiseError, "XML output must be a single-key object naming its root element")
	}
	entry := v.AsObject().Entries()[0]
	return entry.Key, entry.Value, nil
}

// stripRootName drops xml.rootName so an explicit rootName override
// fully replaces the original tag rather than triggering encodeElement's
// nested-wrap behaviour (see below) against the value's old name.
func stripRootName(v *udm.Value) *udm.Value {
	if v.Metadata().String(udm.KeyXMLRootName) == "" {
		return v
	}
	mb := udm.NewMetadataBuilder()
	for k, raw := range v.Metadata().Entries() {
		if k == udm.KeyXMLRootName {
			continue
		}
		mb.Set(k, raw)
	}
	return v.WithMetadata(mb.Build())
}

// encodeElement writes v as the element named tag. When v itself carries
// xml.rootName metadata for a *different* name than tag — meaning v is
// an entire parsed element reattached under a new parent key, e.g.
// `{ Envelope: { OriginContent: $input } }` — its own tag nests inside
// the wrapper rather than being discarded, so
// `<OriginContent><Order id="1">...</Order></OriginContent>` comes out
// whole instead of losing the Order element entirely.
func encodeElement(buf *bytes.Buffer, tag string, v *udm.Value, pretty bool, indent string, depth int) error {
	if rn := v.Metadata().String(udm.KeyXMLRootName); rn != "" && rn != tag {
		if pretty && depth > 0 {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indent, depth))
		}
		fmt.Fprintf(buf, "<%s>", tag)
		if err := encodeElement(buf, rn, v, pretty, indent, depth+1); err != nil {
			return err
		}
		if pretty {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indent, depth))
		}
		fmt.Fprintf(buf, "</%s>", tag)
		return nil
	}

	if pretty && depth > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indent, depth))
	}
	fmt.Fprintf(buf, "<%s", tag)
	if attrs := v.Attributes(); attrs != nil {
		names := append([]string(nil), attrs.Keys()...)
		for _, name := range names {
			av, _ := attrs.Get(name)
			fmt.Fprintf(buf, ` %s="%s"`, name, escapeXML(udm.CanonicalString(av)))
		}
	}

	switch v.Kind() {
	case udm.KindObject:
		o := v.AsObject()
		if o.Len() == 0 {
			buf.WriteString("/>")
			return nil
		}
		buf.WriteByte('>')
		for _, e := range o.Entries() {
			if strings.HasPrefix(e.Key, "#text") {
				buf.WriteString(escapeXML(udm.CanonicalString(e.Value)))
				continue
			}
			if e.Value.Kind() == udm.KindArray {
				for _, item := range e.Value.AsArray() {
					if err := encodeElement(buf, e.Key, item, pretty, indent, depth+1); err != nil {
						return err
					}
				}
				continue
			}
			if err := encodeElement(buf, e.Key, e.Value, pretty, indent, depth+1); err != nil {
				return err
			}
		}
		if pretty {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indent, depth))
		}
		fmt.Fprintf(buf, "</%s>", tag)
	case udm.KindArray:
		// An Array reaching here means the caller passed a bare array as
		// the document root; wrap each element under the same tag name.
		buf.WriteByte('>')
		for _, item := range v.AsArray() {
			if err := encodeElement(buf, tag, item, pretty, indent, depth+1); err != nil {
				return err
			}
		}
		if pretty {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indent, depth))
		}
		fmt.Fprintf(buf, "</%s>", tag)
	default:
		text := udm.CanonicalString(v)
		if text == "" {
			buf.WriteString("/>")
			return nil
		}
		buf.WriteByte('>')
		buf.WriteString(escapeXML(text))
		fmt.Fprintf(buf, "</%s>", tag)
	}
	return nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
