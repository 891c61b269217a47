package export

import (
	"encoding/csv"
	"io"
)

type csvRenderer struct{}

func (csvRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (csvRenderer) Extension() string   { return FormatCSV }

func (csvRenderer) Render(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(doc.Headers()); err != nil {
		return err
	}
	if err := cw.WriteAll(doc.Rows); err != nil {
		return err
	}
	return cw.Error()
}
