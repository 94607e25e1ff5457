// Package jschadapter implements the JSON-Schema-as-data adapter:
// parse-only, exposing a schema document's own top-level keys
// directly (no wrapper to unwrap — a JSON Schema document is already
// its own root object), annotated with `schemaType: "jsch"` metadata.
// Grounded on google/jsonschema-go, the same library
// MacroPower-x/magicschema uses to validate/round-trip schema documents
// (helpers.go's `ToSubSchema`: `json.Unmarshal(b, &jsonschema.Schema{})`).
// This adapter reuses that exact validation step — decoding into a typed
// *jsonschema.Schema first catches malformed schema documents with a
// schema-aware error — then hands the original bytes to the JSON adapter
// for the actual order-preserving, int/float-exact UDM conversion, since
// a JSON Schema document is itself ordinary JSON.
package jschadapter

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/utlx/utlx/adapter/jsonadapter"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Adapter implements adapter.Adapter for JSON Schema. Serialise always
// fails: this format is never used as an output target.
type Adapter struct{}

// Parse decodes JSON Schema bytes into UDM, exposing the schema
// document's own top-level keys directly (trivially true for JSON: the
// schema document has no separate root wrapper beyond its own top-level
// object).
func (Adapter) Parse(data []byte, opts map[string]any) (*udm.Value, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, errs.Wrap(errs.KindFormatParseError, err, "invalid JSON Schema document")
	}

	v, err := (jsonadapter.Adapter{}).Parse(data, opts)
	if err != nil {
		return nil, err
	}
	if v.Kind() != udm.KindObject {
		return nil, errs.New(errs.KindFormatParseError, "JSON Schema document must be a JSON object")
	}

	mb := udm.NewMetadataBuilder().Set(udm.KeySchemaType, "jsch")
	return v.WithMetadata(mb.Build()), nil
}

// Serialise always fails: JSON Schema is an input-only format.
func (Adapter) Serialise(v *udm.Value, opts map[string]any) ([]byte, error) {
	return nil, errs.New(errs.KindFormatSerialiseError, "jsch is a parse-only format and cannot be used as an output target")
}
