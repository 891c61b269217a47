// Package export renders a filtered record set as CSV or PDF.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"assetdesk/internal/listing"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Column maps a record field onto a table column.
type Column struct {
	Header string
	Field  string
}

// Document is the table handed to a Renderer.
type Document struct {
	Title       string
	Columns     []Column
	Rows        [][]string
	GeneratedAt time.Time
}

type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, doc Document) error
}

// RendererFor returns the renderer for format, case-insensitively.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return csvRenderer{}, nil
	case FormatPDF:
		return pdfRenderer{}, nil
	}
	return nil, &listing.ValidationError{Field: "format", Msg: fmt.Sprintf("must be %s or %s", FormatCSV, FormatPDF)}
}

// Build renders every item's columns in FieldString form. Unknown fields
// produce empty cells.
func Build[T listing.Record](title string, columns []Column, items []T, at time.Time) Document {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := item.FieldValue(col.Field); ok {
				row[i] = listing.FieldString(v)
			}
		}
		rows = append(rows, row)
	}
	return Document{Title: title, Columns: columns, Rows: rows, GeneratedAt: at}
}

// Headers returns the column headers in order.
func (d Document) Headers() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Header
	}
	return out
}

// FileName is "<slug>-<timestamp>.<ext>".
func FileName(kind string, r Renderer, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", kind, at.UTC().Format("20060102-150405"), r.Extension())
}
