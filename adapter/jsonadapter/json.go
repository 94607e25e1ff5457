// Package jsonadapter implements the JSON format adapter: RFC 8259
// parse/serialise, preserving Object key order and promoting
// whole-valued numbers to Scalar(Int) the way arturoeanton/go-xml's own
// numeric-literal handling distinguishes int from float tokens
// (xml/xml.go number scanning, generalised here to JSON's single numeric
// literal grammar).
package jsonadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/utlx/utlx/adapter"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Adapter implements adapter.Adapter for JSON.
type Adapter struct{}

// Parse decodes JSON bytes into a UDM value using a streaming
// json.Decoder with UseNumber, so key order survives (encoding/json's
// map-based Unmarshal does not preserve it) and integers never
// round-trip through float64 (which would silently corrupt values beyond
// 2^53).
func (Adapter) Parse(data []byte, opts map[string]any) (*udm.Value, error) {
	data = adapter.StripBOM(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	allowComments, _ := opts["allowComments"].(bool)
	allowTrailingCommas, _ := opts["allowTrailingCommas"].(bool)
	if allowComments || allowTrailingCommas {
		data = stripJSONExtensions(data, allowComments, allowTrailingCommas)
		dec = json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
	}
	v, err := decodeValue(dec)
	if err != nil {
		return nil, errs.Wrap(errs.KindFormatParseError, err, "invalid JSON input")
	}
	if dec.More() {
		return nil, errs.New(errs.KindFormatParseError, "trailing content after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*udm.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*udm.Value, error) {
	switch t := tok.(type) {
	case nil:
		return udm.Null(), nil
	case bool:
		return udm.Bool(t), nil
	case json.Number:
		return decodeNumber(t)
	case string:
		return udm.String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func decodeNumber(n json.Number) (*udm.Value, error) {
	if i, err := n.Int64(); err == nil {
		return udm.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON number %q", n.String())
	}
	return udm.Float(f), nil
}

func decodeArray(dec *json.Decoder) (*udm.Value, error) {
	var elems []*udm.Value
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return udm.Array(elems...), nil
}

func decodeObject(dec *json.Decoder) (*udm.Value, error) {
	b := udm.NewObjectBuilder()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string object key, got %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		b.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return udm.NewObject(b.Build()), nil
}

// Serialise renders a UDM value as JSON: minified by default,
// pretty-printed when `pretty`/`indent` are set, sorted keys when
// `sortKeys` is set, and never emits a BOM.
func (Adapter) Serialise(v *udm.Value, opts map[string]any) ([]byte, error) {
	pretty, _ := opts["pretty"].(bool)
	indent := "  "
	if iv, ok := opts["indent"]; ok {
		switch t := iv.(type) {
		case string:
			indent = t
		case int64:
			indent = spacesOf(int(t))
		}
	}
	sortKeys, _ := opts["sortKeys"].(bool)

	var buf bytes.Buffer
	if err := encodeValue(&buf, v, sortKeys, pretty, indent, 0); err != nil {
		return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not serialise value to JSON")
	}
	return buf.Bytes(), nil
}

func spacesOf(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func encodeValue(buf *bytes.Buffer, v *udm.Value, sortKeys, pretty bool, indent string, depth int) error {
	switch v.Kind() {
	case udm.KindScalar:
		return encodeScalar(buf, v)
	case udm.KindArray:
		return encodeArray(buf, v, sortKeys, pretty, indent, depth)
	case udm.KindObject:
		return encodeObject(buf, v, sortKeys, pretty, indent, depth)
	case udm.KindBinary, udm.KindDate, udm.KindTime, udm.KindLocalDateTime, udm.KindDateTime:
		return encodeScalarlike(buf, v)
	case udm.KindLambda:
		return fmt.Errorf("cannot serialise a lambda value to JSON")
	default:
		return fmt.Errorf("unsupported UDM kind %s", v.Kind())
	}
}

func encodeScalarlike(buf *bytes.Buffer, v *udm.Value) error {
	s := v.String()
	switch v.Kind() {
	case udm.KindDate:
		s = v.AsDate().String()
	case udm.KindTime:
		s = v.AsTime().String()
	case udm.KindLocalDateTime:
		s = v.AsLocalDateTime().String()
	case udm.KindDateTime:
		s = v.AsDateTime().String()
	case udm.KindBinary:
		s = string(v.AsBinary())
	}
	return encodeJSONString(buf, s)
}

func encodeScalar(buf *bytes.Buffer, v *udm.Value) error {
	switch v.ScalarKind() {
	case udm.ScalarNull:
		buf.WriteString("null")
	case udm.ScalarBool:
		if v.AsBool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case udm.ScalarInt:
		fmt.Fprintf(buf, "%d", v.AsInt())
	case udm.ScalarFloat:
		fmt.Fprintf(buf, "%g", v.AsFloat())
	case udm.ScalarString:
		return encodeJSONString(buf, v.AsString())
	}
	return nil
}

// encodeJSONString ASCII-escapes non-printable and non-ASCII runes.
func encodeJSONString(buf *bytes.Buffer, s string) error {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 || r > 0x7E {
				if r > 0xFFFF {
					r1, r2 := utf16Surrogates(r)
					fmt.Fprintf(buf, `\u%04x\u%04x`, r1, r2)
				} else {
					fmt.Fprintf(buf, `\u%04x`, r)
				}
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
	return nil
}

func utf16Surrogates(r rune) (rune, rune) {
	r -= 0x10000
	return 0xD800 + (r >> 10), 0xDC00 + (r & 0x3FF)
}

func encodeArray(buf *bytes.Buffer, v *udm.Value, sortKeys, pretty bool, indent string, depth int) error {
	elems := v.AsArray()
	if len(elems) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if pretty {
			writeNewlineIndent(buf, indent, depth+1)
		}
		if err := encodeValue(buf, e, sortKeys, pretty, indent, depth+1); err != nil {
			return err
		}
	}
	if pretty {
		writeNewlineIndent(buf, indent, depth)
	}
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *bytes.Buffer, v *udm.Value, sortKeys, pretty bool, indent string, depth int) error {
	o := v.AsObject()
	keys := append([]string(nil), o.Keys()...)
	if sortKeys {
		sort.Strings(keys)
	}
	if len(keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if pretty {
			writeNewlineIndent(buf, indent, depth+1)
		}
		if err := encodeJSONString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if pretty {
			buf.WriteByte(' ')
		}
		fv, _ := o.Get(k)
		if err := encodeValue(buf, fv, sortKeys, pretty, indent, depth+1); err != nil {
			return err
		}
	}
	if pretty {
		writeNewlineIndent(buf, indent, depth)
	}
	buf.WriteByte('}')
	return nil
}

func writeNewlineIndent(buf *bytes.Buffer, indent string, depth int) {
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
}

// stripJSONExtensions performs a single pre-pass removing `//`/`/* */`
// comments and trailing commas before the strict decoder runs, the
// permissive-superset approach the `allowComments`/`allowTrailingCommas`
// options call for.
func stripJSONExtensions(data []byte, allowComments, allowTrailingCommas bool) []byte {
	var out []byte
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if allowComments && c == '/' && i+1 < len(data) {
			if data[i+1] == '/' {
				for i < len(data) && data[i] != '\n' {
					i++
				}
				out = append(out, '\n')
				continue
			}
			if data[i+1] == '*' {
				i += 2
				for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
					i++
				}
				i++
				continue
			}
		}
		if allowTrailingCommas && c == ',' {
			j := i + 1
			for j < len(data) {
				if isJSONSpace(data[j]) {
					j++
				} else if allowComments && j+1 < len(data) && data[j] == '/' && data[j+1] == '/' {
					for j < len(data) && data[j] != '\n' {
						j++
					}
				} else if allowComments && j+1 < len(data) && data[j] == '/' && data[j+1] == '*' {
					j += 2
					for j+1 < len(data) && !(data[j] == '*' && data[j+1] == '/') {
						j++
					}
					j += 2
				} else {
					break
				}
			}
			if j < len(data) && (data[j] == ']' || data[j] == '}') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
