package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/wessamh/edara-actions/internal/model"
)

// ReceiptDocument is everything a payment receipt shows: the invoice
// after the payment was applied plus its full payment history.
type ReceiptDocument struct {
	Invoice  model.Invoice
	Unit     *model.Unit
	Payments []model.Payment
}

// ReceiptGenerator renders invoice payment receipts. A UTF-8 font file
// is needed for Arabic unit labels; without one the receipt falls back
// to the built-in Helvetica and Latin-only text.
type ReceiptGenerator struct {
	fontName string
	fontData []byte
}

func NewReceiptGenerator(fontPath string) (*ReceiptGenerator, error) {
	if fontPath == "" {
		return &ReceiptGenerator{fontName: "Helvetica"}, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read receipt font: %w", err)
	}
	return &ReceiptGenerator{fontName: "NotoSans", fontData: data}, nil
}

func (g *ReceiptGenerator) Receipt(doc ReceiptDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	if len(g.fontData) > 0 {
		pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
		pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)
	}

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Payment Receipt", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice %s (%s)", doc.Invoice.InvoiceNumber, doc.Invoice.Type), "", 1, "C", false, 0, "")
	if doc.Unit != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Unit: %s — %s", doc.Unit.BuildingName, doc.Unit.Label), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Balance", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice amount: %s", doc.Invoice.Amount.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total paid: %s", doc.Invoice.TotalPaid.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Remaining: %s", doc.Invoice.RemainingBalance.StringFixed(2)), "", 1, "L", false, 0, "")
	if doc.Invoice.IsPaid {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 6, "FULLY PAID", "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Payments", "", 1, "L", false, 0, "")

	headers := []string{"Date", "Amount"}
	colWidths := []float64{60, 40}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	for _, payment := range doc.Payments {
		drawTableRow(pdf, g.fontName, []string{
			formatReceiptDate(payment.CreatedAt),
			payment.Amount.StringFixed(2),
		}, colWidths, false)
	}

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s", formatReceiptDate(time.Now())), "", 1, "L", false, 0, "")
	signatureBlock(pdf, g.fontName, "Accountant")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureBlock(pdf *gofpdf.Fpdf, fontName, label string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: ______________________", label), "", 1, "L", false, 0, "")
}

func formatReceiptDate(t time.Time) string {
	if t.IsZero() {
		return strings.Repeat("-", 10)
	}
	return t.Format("2006-01-02 15:04")
}
