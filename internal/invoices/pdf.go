package invoices

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

// PDFBusinessInfo is the letterhead block on a rendered invoice.
type PDFBusinessInfo struct {
	BusinessName string
	Email        string
	Phone        string
	ClientName   string
}

// RenderPDF produces the customer-facing invoice document. Markup never
// appears: every line shows only the marked-up unit price and line total.
func RenderPDF(invoice *InvoiceDTO, info PDFBusinessInfo) ([]byte, error) {
	if invoice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(120, 10, info.BusinessName)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(60, 10, "INVOICE "+invoice.Number, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if info.Email != "" {
		pdf.CellFormat(0, 5, info.Email, "", 1, "L", false, 0, "")
	}
	if info.Phone != "" {
		pdf.CellFormat(0, 5, info.Phone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if info.ClientName != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 5, "Bill To", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, info.ClientName, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Issued: "+invoice.CreatedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	if invoice.DueDate != nil {
		pdf.CellFormat(0, 5, "Due: "+invoice.DueDate.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(80, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 8, "Unit", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range invoice.Items {
		pdf.CellFormat(80, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, trimFloat(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, item.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, dollars(item.UnitPriceCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, dollars(item.LineTotalCents), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	writeTotal := func(label string, cents int64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(125, 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, dollars(cents), "", 1, "R", false, 0, "")
	}

	writeTotal("Subtotal", invoice.SubtotalCents, false)
	if invoice.DiscountAmountCents > 0 {
		writeTotal("Discount", -invoice.DiscountAmountCents, false)
	}
	writeTotal("Tax", invoice.TaxCents, false)
	writeTotal("Total", invoice.TotalCents, true)
	if invoice.AmountPaidCents > 0 {
		writeTotal("Paid", invoice.AmountPaidCents, false)
		writeTotal("Balance Due", invoice.BalanceDueCents, true)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice pdf")
	}
	return buf.Bytes(), nil
}

func dollars(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}
	value := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if negative {
		return "-" + value
	}
	return value
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
