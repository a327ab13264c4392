package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 297.0
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfCellMargin = 2.0
)

// PDFExporter renders datasets into a landscape A4 table. The header row is
// repeated on every page and cell text is clipped to its column.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	colWidth := (pdfPageWidth - 2*pdfMargin) / float64(len(data.Headers))
	pdf.SetHeaderFunc(func() {
		if title != "" && pdf.PageNo() == 1 {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
			pdf.Ln(3)
		}
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 8, fitText(pdf, header, colWidth), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 7)
		if !data.GeneratedAt.IsZero() {
			pdf.CellFormat(0, 5, "Generated "+data.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"), "", 0, "L", false, 0, "")
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "", 8)
	if len(data.Rows) == 0 {
		pdf.CellFormat(0, pdfRowHeight, "No records", "1", 1, "C", false, 0, "")
	}
	for _, row := range data.Rows {
		for _, value := range data.record(row) {
			pdf.CellFormat(colWidth, pdfRowHeight, fitText(pdf, value, colWidth), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fitText shortens value with a trailing ellipsis until it fits width using
// the current font.
func fitText(pdf *gofpdf.Fpdf, value string, width float64) string {
	limit := width - pdfCellMargin
	if pdf.GetStringWidth(value) <= limit {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(candidate) <= limit {
			return candidate
		}
	}
	return ""
}
