package ports

import (
	"io"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
)

type IReportRenderer interface {
	PrintHTML(w io.Writer, report dto.BookingReport, opts dto.PrintOptions) error
	XLSX(w io.Writer, report dto.BookingReport) error
}

type IReceiptRenderer interface {
	ReceiptHTML(w io.Writer, receipt dto.Receipt) error
	ReceiptPDF(w io.Writer, receipt dto.Receipt) error
}
