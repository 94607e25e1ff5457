// Package csvadapter implements the CSV format adapter: headers:true maps
// to an Array of Objects in first-row column order, headers:false to an
// Array of Arrays, cells always strings. Built on encoding/csv (standard
// library) the same way arturoeanton/go-xml leans on encoding/xml for
// tokenising rather than hand-rolling a quoting state machine — no
// third-party CSV reader/writer appears anywhere in the example pack to
// prefer over it.
package csvadapter

import (
	"bytes"
	"encoding/csv"

	"github.com/utlx/utlx/adapter"
	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/udm"
)

// Adapter implements adapter.Adapter for CSV.
type Adapter struct{}

func runeOpt(opts map[string]any, key string, def rune) rune {
	if v, ok := opts[key].(string); ok && len(v) > 0 {
		return []rune(v)[0]
	}
	return def
}

// Parse reads CSV bytes into a UDM value.
func (Adapter) Parse(data []byte, opts map[string]any) (*udm.Value, error) {
	data = adapter.StripBOM(data)
	headers := adapter.BoolOpt(opts, "headers", true)
	delimiter := runeOpt(opts, "delimiter", ',')

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = false

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errs.Wrap(errs.KindFormatParseError, err, "invalid CSV input")
	}
	if len(rows) == 0 {
		return udm.Array(), nil
	}

	if !headers {
		var out []*udm.Value
		for _, row := range rows {
			var cells []*udm.Value
			for _, c := range row {
				cells = append(cells, udm.String(c))
			}
			out = append(out, udm.Array(cells...))
		}
		return udm.Array(out...), nil
	}

	cols := rows[0]
	var out []*udm.Value
	for _, row := range rows[1:] {
		b := udm.NewObjectBuilder()
		for i, col := range cols {
			if i < len(row) {
				b.Set(col, udm.String(row[i]))
			} else {
				b.Set(col, udm.String(""))
			}
		}
		out = append(out, udm.NewObject(b.Build()))
	}
	return udm.Array(out...), nil
}

// Serialise renders a UDM Array as CSV: an Array of Objects
// uses the union of keys in first-row order as the column header, with
// empty cells for rows missing a column; an Array of Arrays writes rows
// verbatim.
func (Adapter) Serialise(v *udm.Value, opts map[string]any) ([]byte, error) {
	if v.Kind() != udm.KindArray {
		return nil, errs.New(errs.KindFormatSerialiseError, "CSV output requires an Array value")
	}
	delimiter := runeOpt(opts, "delimiter", ',')
	includeBOM := adapter.BoolOpt(opts, "includeBOM", false)
	rows := v.AsArray()

	var buf bytes.Buffer
	if includeBOM {
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
	}
	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	if len(rows) == 0 {
		w.Flush()
		return buf.Bytes(), nil
	}

	if rows[0].Kind() == udm.KindArray {
		for _, row := range rows {
			if err := w.Write(scalarStrings(row.AsArray())); err != nil {
				return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not write CSV row")
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	}

	cols := unionColumns(rows)
	if err := w.Write(cols); err != nil {
		return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not write CSV header")
	}
	for _, row := range rows {
		if row.Kind() != udm.KindObject {
			return nil, errs.New(errs.KindFormatSerialiseError, "CSV rows must be uniformly Objects or uniformly Arrays")
		}
		record := make([]string, len(cols))
		for i, col := range cols {
			if cv, ok := row.AsObject().Get(col); ok {
				record[i] = udm.CanonicalString(cv)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.Wrap(errs.KindFormatSerialiseError, err, "could not flush CSV output")
	}
	return buf.Bytes(), nil
}

// unionColumns computes column order as the union of every row's keys in
// first-row order, appending any later row's novel keys in the order
// they first appear.
func unionColumns(rows []*udm.Value) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.Kind() != udm.KindObject {
			continue
		}
		for _, k := range row.AsObject().Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

func scalarStrings(vs []*udm.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = udm.CanonicalString(v)
	}
	return out
}
