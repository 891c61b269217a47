package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

type pdfRenderer struct{}

func (pdfRenderer) ContentType() string { return "application/pdf" }
func (pdfRenderer) Extension() string   { return FormatPDF }

// Render lays the rows out as a bordered table. More than five columns
// switch the page to landscape; cell text is cut to the column width.
func (pdfRenderer) Render(w io.Writer, doc Document) error {
	orientation := "P"
	if len(doc.Columns) > 5 {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	margin := 12.0
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*margin) / float64(max(len(doc.Columns), 1))

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(33, 37, 41)
		for _, h := range doc.Headers() {
			pdf.CellFormat(colWidth, 7, fit(pdf, tr(h), colWidth), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 8, tr(doc.Title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d rows, generated %s", len(doc.Rows), doc.GeneratedAt.UTC().Format("02-Jan-2006 15:04 MST")))
	pdf.Ln(9)
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range doc.Rows {
		if pdf.GetY()+6 > pageHeight-margin-6 {
			pdf.AddPage()
			header()
		}
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, fit(pdf, tr(cell), colWidth), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// fit shortens s until it fits within width, marking the cut with "..".
// s is already in the single-byte font encoding, so it is cut by byte.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"..") > limit {
		s = s[:len(s)-1]
	}
	return s + ".."
}
