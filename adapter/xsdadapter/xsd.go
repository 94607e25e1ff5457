// Package xsdadapter implements the XSD-as-data adapter: parse-only,
// reusing the XML adapter's own element-to-Object mapping (an XSD
// document is itself well-formed XML — its `<xs:schema>` root and
// children fall directly out of xmladapter's normal rules) and
// annotating the result with `schemaType: "xsd"` metadata so the
// top-level keys of the result are exactly the children of the schema
// root element.
package xsdadapter

import (
	"github.com/utlx/utlx/adapter/xmladapter"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Adapter implements adapter.Adapter for XSD. Serialise always fails:
// this format is never used as an output target.
type Adapter struct{}

// Parse decodes an XSD document the same way xmladapter does (the root
// `<xs:schema>` element's children become the result's top-level keys),
// then tags it as a schema document.
func (Adapter) Parse(data []byte, opts map[string]any) (*udm.Value, error) {
	v, err := (xmladapter.Adapter{}).Parse(data, opts)
	if err != nil {
		return nil, err
	}
	mb := udm.NewMetadataBuilder()
	for k, raw := range v.Metadata().Entries() {
		mb.Set(k, raw)
	}
	mb.Set(udm.KeySchemaType, "xsd")
	return v.WithMetadata(mb.Build()), nil
}

// Serialise always fails: XSD is an input-only format.
func (Adapter) Serialise(v *udm.Value, opts map[string]any) ([]byte, error) {
	return nil, errs.New(errs.KindFormatSerialiseError, "xsd is a parse-only format and cannot be used as an output target")
}
