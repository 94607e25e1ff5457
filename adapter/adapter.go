// Package adapter defines the bidirectional bytes⇄UDM conversion contract:
// each format sub-package implements Parse and Serialise for one wire
// format, preserving as much format-specific metadata as the UDM
// side-channels can hold. The functional-options configuration pattern
// follows arturoeanton/go-xml's xml.Option (xml/xml.go), generalised from
// one format's option set to a per-format map of recognised keys (already
// enforced earlier, at parse time, by parser.recognisedOptions).
package adapter

import "github.com/utlx/utlx/udm"

// Adapter is the contract every format package implements. Not every
// format supports both directions: XSD and JSON-Schema are parse-only and
// return a FormatSerialiseError from Serialise.
type Adapter interface {
	// Parse converts raw bytes in this adapter's format into a UDM value.
	Parse(data []byte, opts map[string]any) (*udm.Value, error)
	// Serialise converts a UDM value into raw bytes in this adapter's
	// format.
	Serialise(v *udm.Value, opts map[string]any) ([]byte, error)
}

// StripBOM removes a leading UTF-8 byte-order mark (EF BB BF), tolerated
// on input and never emitted on output, across every textual adapter.
func StripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// BoolOpt reads a bool-valued option, falling back to def when the key is
// absent or holds a different type.
func BoolOpt(opts map[string]any, key string, def bool) bool {
	if v, ok := opts[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// StringOpt reads a string-valued option, falling back to def when the
// key is absent or holds a different type.
func StringOpt(opts map[string]any, key string, def string) string {
	if v, ok := opts[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// IntOpt reads an int-valued option, accepting int/int64/float64 (the
// numeric kinds a caller or a parsed header literal might hand in), and
// falling back to def otherwise.
func IntOpt(opts map[string]any, key string, def int) int {
	if v, ok := opts[key]; ok {
		switch t := v.(type) {
		case int64:
			return int(t)
		case int:
			return t
		case float64:
			return int(t)
		}
	}
	return def
}
