package udm

// Metadata is the format-specific annotation side-channel attached to a
// Value: original encoding, namespace URIs, element-vs-text classification,
// schema kind, and similar adapter bookkeeping. Metadata is readable via
// a dedicated accessor and never participates in Equal, never appears as
// a synthetic "__metadata" key the way some XML-to-JSON converters do it.
type Metadata struct {
	entries map[string]any
}

var emptyMetadata = &Metadata{}

// NewMetadataBuilder returns an empty metadata builder.
func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{entries: make(map[string]any)}
}

type MetadataBuilder struct {
	entries map[string]any
}

func (b *MetadataBuilder) Set(key string, v any) *MetadataBuilder {
	b.entries[key] = v
	return b
}

func (b *MetadataBuilder) Build() *Metadata {
	if len(b.entries) == 0 {
		return emptyMetadata
	}
	m := &Metadata{entries: make(map[string]any, len(b.entries))}
	for k, v := range b.entries {
		m.entries[k] = v
	}
	return m
}

// Get returns a raw metadata entry and whether it was set.
func (m *Metadata) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.entries[key]
	return v, ok
}

// Entries returns a copy of every metadata key/value pair. Iteration
// order is unspecified: metadata is a lookup side-channel, never a
// serialisation-ordered structure the way Object is.
func (m *Metadata) Entries() map[string]any {
	out := make(map[string]any, len(m.entries))
	if m == nil {
		return out
	}
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Well-known metadata keys. KeyDetectedFormat is set by the engine and the
// rest by adapters, except KeyXMLNamespacePfx and KeyCSVColumnOrder, which
// are declared but not set anywhere.
const (
	KeyXMLEncoding       = "xml.encoding"
	KeyXMLNamespaceURI   = "xml.namespaceURI"
	KeyXMLNamespacePfx   = "xml.namespacePrefix"
	KeyXMLIsText         = "xml.isText"
	KeyXMLRootName       = "xml.rootName"
	KeySchemaType        = "schemaType" // "xsd" | "jsch"
	KeyCSVColumnOrder    = "csv.columnOrder"
	KeyDetectedFormat    = "detectedFormat"
)

// String returns a string metadata entry, or "" if absent/not a string.
func (m *Metadata) String(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
