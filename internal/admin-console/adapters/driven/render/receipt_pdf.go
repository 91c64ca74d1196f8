package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/dto"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptPDF writes an A5 receipt. An inlined QR image is embedded; a QR that
// is only a link is printed as text.
func (r *Renderer) ReceiptPDF(w io.Writer, receipt dto.Receipt) error {
	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Receipt "+receipt.ReceiptNumber), false)
	pdf.AddPage()

	pdf.SetTextColor(2, 102, 94)
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 9, tr(receipt.CompanyName))
	pdf.Ln(9)

	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Payment receipt %s, issued %s", receipt.ReceiptNumber, receipt.IssuedAt.Format("2006-01-02 15:04 MST"))))
	pdf.Ln(10)

	pdf.SetTextColor(31, 41, 55)
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 10, tr(strings.TrimSpace(receipt.Currency+" "+receipt.Amount)))
	pdf.Ln(14)

	rows := [][2]string{
		{"Invoice", receipt.InvoiceNumber},
		{"Property", receipt.PropertyTitle},
		{"Owner", receipt.OwnerName},
		{"Payer", receipt.PayerName},
		{"Phone", receipt.PayerPhone},
		{"Account", receipt.AccountNumber},
		{"Method", receipt.Method},
		{"Reference", receipt.Reference},
		{"Status", receipt.Status},
		{"Paid on", receipt.PaidAt},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(35, 7, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetTextColor(31, 41, 55)
		pdf.CellFormat(0, 7, tr(row[1]), "", 1, "L", false, 0, "")
	}

	if err := embedQR(pdf, receipt.QR, tr); err != nil {
		r.mylog.Action("receipt_qr_failed").Debug("receipt pdf without qr image", "error", err.Error())
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}
	return nil
}

func embedQR(pdf *gofpdf.Fpdf, qr string, tr func(string) string) error {
	const prefix = "data:image/png;base64,"
	if qr == "" {
		return nil
	}
	if !strings.HasPrefix(qr, prefix) {
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(0, 4, tr("Verify: "+qr), "", "L", false)
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(qr, prefix))
	if err != nil {
		return fmt.Errorf("decode qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("receipt-qr", opts, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		pdf.ClearError()
		return fmt.Errorf("register qr: %w", err)
	}
	pageW, _ := pdf.GetPageSize()
	size := 35.0
	pdf.ImageOptions("receipt-qr", (pageW-size)/2, pdf.GetY()+8, size, size, false, opts, 0, "")
	return nil
}
