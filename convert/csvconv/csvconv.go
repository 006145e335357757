// Package csvconv converts between [value.Value] trees and CSV bytes,
// for the practical subset spec.md's converter family targets: a
// top-level Array of uniform-keyed Objects, one CSV row per element and
// one column per key.
//
// Grounded on stdlib encoding/csv and
// [value.Flatten], which discovers each row's column names the same
// way the original C implementation's path-flattening pass does.
package csvconv

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// Encode renders v, which must be an Array of Objects sharing the same
// set of scalar keys, as a CSV document: the header row is the first
// element's keys in insertion order, and every subsequent row is
// written in that same column order. Returns [jsonerr.ConversionFailed]
// if v isn't such an array, or if a later element is missing a column
// the header declared.
func Encode(v *value.Value) ([]byte, error) {
	if v.Type() != value.Array {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "csvconv.Encode requires an array, got %s", v.Type())
	}

	rows, err := v.Elements()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if len(rows) == 0 {
		w.Flush()

		return buf.Bytes(), w.Error()
	}

	columns, err := columnNames(rows[0])
	if err != nil {
		return nil, err
	}

	if err := w.Write(columns); err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "writing CSV header: %v", err)
	}

	for i, row := range rows {
		record, err := csvRecord(row, columns)
		if err != nil {
			return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "row %d: %v", i, err)
		}

		if err := w.Write(record); err != nil {
			return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "writing CSV row %d: %v", i, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "flushing CSV: %v", err)
	}

	return buf.Bytes(), nil
}

func columnNames(row *value.Value) ([]string, error) {
	if row.Type() != value.Object {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "csvconv.Encode requires array elements to be objects, got %s", row.Type())
	}

	flat := value.Flatten(row)

	return flat.Keys()
}

func csvRecord(row *value.Value, columns []string) ([]string, error) {
	flat := value.Flatten(row)

	record := make([]string, len(columns))

	for i, col := range columns {
		cell, ok, err := flat.Get(col)
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "missing column %q", col)
		}

		text, err := cellText(cell)
		if err != nil {
			return nil, err
		}

		record[i] = text
	}

	return record, nil
}

func cellText(v *value.Value) (string, error) {
	switch v.Type() {
	case value.Null:
		return "", nil
	case value.Bool:
		b, _ := v.Bool()

		return strconv.FormatBool(b), nil
	case value.Number:
		n, _ := v.Number()

		return strconv.FormatFloat(n, 'g', -1, 64), nil
	case value.String:
		return v.StringValue()
	default:
		return "", jsonerr.NewNonPositional(jsonerr.ConversionFailed, "unsupported cell type %v", v.Type())
	}
}

// Decode parses a CSV document (with a header row) into an Array of
// Objects, one per data row, keyed by the header's column names.
// Columns are restored as Bool/Number/String via the same best-effort
// scalar inference xmlconv.Decode uses for element text.
func Decode(data []byte) (*value.Value, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "parsing CSV: %v", err)
	}

	if len(records) == 0 {
		return value.NewArray(), nil
	}

	header := records[0]
	out := value.NewArray()

	for _, record := range records[1:] {
		row := value.NewObject()

		for i, col := range header {
			var cell string
			if i < len(record) {
				cell = record[i]
			}

			if err := row.Set(col, scalarFromCell(cell)); err != nil {
				return nil, err
			}
		}

		if err := out.Append(row); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func scalarFromCell(s string) *value.Value {
	if s == "" {
		return value.NewNull()
	}

	if s == "true" || s == "false" {
		return value.NewBool(s == "true")
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if v, err := value.NewNumber(n); err == nil {
			return v
		}
	}

	v, err := value.NewString(strings.TrimSpace(s))
	if err != nil {
		return value.NewNull()
	}

	return v
}
