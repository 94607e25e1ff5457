// Package engine exposes the four collaborator-facing contracts of the
// transformation pipeline: execute, parse, parseFormat and serialiseFormat.
// It is the only package that imports every adapter/* sub-package and the
// enhancer, wiring them to the pure parser/eval core — mirroring the way
// arturoeanton/go-xml's own CLI (xml/cli.go) is the one place that imports
// every xml/ feature and drives them end to end, while xml/query.go and
// friends stay format-library-agnostic.
package engine

import (
	"github.com/utlx/utlx/adapter"
	"github.com/utlx/utlx/adapter/csvadapter"
	"github.com/utlx/utlx/adapter/jschadapter"
	"github.com/utlx/utlx/adapter/jsonadapter"
	"github.com/utlx/utlx/adapter/xmladapter"
	"github.com/utlx/utlx/adapter/xsdadapter"
	"github.com/utlx/utlx/adapter/yamladapter"
	"github.com/utlx/utlx/enhancer"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/eval"
	"github.com/utlx/utlx/parser"
	"github.com/utlx/utlx/udm"
)

// adapters maps every format identifier the header grammar accepts
// (validFormats, minus "auto") to the adapter that implements it.
var adapters = map[string]adapter.Adapter{
	"json": jsonadapter.Adapter{},
	"xml":  xmladapter.Adapter{},
	"csv":  csvadapter.Adapter{},
	"yaml": yamladapter.Adapter{},
	"xsd":  xsdadapter.Adapter{},
	"jsch": jschadapter.Adapter{},
}

// Parse tokenizes and parses a whole script (header + body) into an AST,
// with no IO.
func Parse(source []byte) (*parser.Program, error) {
	return parser.Parse(string(source))
}

// ParseFormat decodes raw bytes into a UDM value for the given format. A
// format of "auto" sniffs the format from the bytes themselves (header
// grammar only allows "auto" on input, never output — parser.go already
// rejects it as an output format).
func ParseFormat(data []byte, format string, opts map[string]any) (*udm.Value, error) {
	if format == "auto" {
		detected := detectFormat(data)
		v, err := parseWith(detected, data, opts)
		if err != nil {
			return nil, err
		}
		mb := udm.NewMetadataBuilder()
		for k, raw := range v.Metadata().Entries() {
			mb.Set(k, raw)
		}
		mb.Set(udm.KeyDetectedFormat, detected)
		return v.WithMetadata(mb.Build()), nil
	}
	return parseWith(format, data, opts)
}

func parseWith(format string, data []byte, opts map[string]any) (*udm.Value, error) {
	a, ok := adapters[format]
	if !ok {
		return nil, errs.Newf(errs.KindHeaderError, "unknown input format %q", format)
	}
	return a.Parse(data, opts)
}

// SerialiseFormat renders a UDM value as bytes in the given format, the
// inverse of ParseFormat. "auto" is never a valid output format (enforced
// at the header-grammar level already).
func SerialiseFormat(v *udm.Value, format string, opts map[string]any) ([]byte, error) {
	a, ok := adapters[format]
	if !ok {
		return nil, errs.Newf(errs.KindHeaderError, "unknown output format %q", format)
	}
	return a.Serialise(v, opts)
}

// Execute runs a parsed program against already-parsed UDM inputs (via
// ParseFormat, matching the declared header) — Execute performs no IO and
// no format conversion of its own. Any eval error is passed through
// enhancer.Enhance first: an unenhanced error comes back completely
// unchanged, so Execute's return type and error semantics never depend on
// whether the enhancer recognised anything.
func Execute(prog *parser.Program, inputs map[string]*udm.Value, opts eval.Options) (*udm.Value, error) {
	out, err := eval.Run(prog, inputs, opts)
	if err == nil {
		return out, nil
	}
	fields := enhancer.CollectFields(inputs)
	if enhanced := enhancer.Enhance(err, fields); enhanced != nil {
		return nil, enhanced.AsEngineError()
	}
	return nil, err
}

// detectFormat sniffs a format identifier from raw bytes for an `auto`
// input declaration: JSON and XML are unambiguous from their first
// significant byte; between CSV and YAML — both plain text with no
// distinguishing leading character — a comma-bearing first line with no
// colon is treated as CSV, everything else as YAML (every CSV header row
// UTL-X actually receives has at least one comma; a YAML document with a
// bare top-level scalar or a single untyped column is rare enough in
// practice that forcing an explicit format declaration is the right
// trade-off over guessing wrong silently).
func detectFormat(data []byte) string {
	i := 0
	for i < len(data) && isSpace(data[i]) {
		i++
	}
	if i >= len(data) {
		return "json"
	}
	switch data[i] {
	case '{', '[':
		return "json"
	case '<':
		return "xml"
	}
	line := firstLine(data[i:])
	if containsByte(line, ',') && !containsByte(line, ':') {
		return "csv"
	}
	return "yaml"
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func firstLine(data []byte) []byte {
	for i, b := range data {
		if b == '\n' {
			return data[:i]
		}
	}
	return data
}

func containsByte(data []byte, target byte) bool {
	for _, b := range data {
		if b == target {
			return true
		}
	}
	return false
}
