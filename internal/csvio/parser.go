// Package csvio parses, generates and renders the CSV surfaces of the lead
// importer: uploads, the downloadable template and exports.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one data line keyed by normalized header name. Values are raw,
// trimmed strings; typing and validation happen downstream.
type Row map[string]string

// ImportColumns is the recognized header set for uploads, in template order.
var ImportColumns = []string{
	"full_name", "email", "phone", "city", "property_type", "bhk", "purpose",
	"budget_min", "budget_max", "timeline", "source", "notes", "tags", "status",
}

// ParseRows reads delimited text into ordered row mappings. The first record
// is the header; its names are normalized (trimmed, lowercased, internal
// whitespace collapsed to underscores) so "Full Name" becomes "full_name".
// Rows shorter than the header get empty strings for the missing trailing
// fields. A header-only or empty input yields zero rows and no error; only
// input the tokenizer cannot read at all returns an error.
func ParseRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvio: read failed: %w", err)
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = NormalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = strings.TrimSpace(record[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NormalizeHeader maps a raw header cell to its canonical column name:
// "Full Name", "fullName" and "full_name" all normalize to "full_name".
// camelCase handling lets an exported file re-import without edits.
func NormalizeHeader(h string) string {
	h = strings.Join(strings.Fields(strings.TrimSpace(h)), "_")
	var b strings.Builder
	var prev rune
	for _, r := range h {
		if r >= 'A' && r <= 'Z' && (prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9') {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToLower(b.String())
}
