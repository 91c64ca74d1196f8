package handle

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/mylogger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	bookings  ports.IBookingsGateway
	renderer  ports.IReportRenderer
	company   string
	publicURL string
	mylog     mylogger.Logger
}

func NewReportHandler(mylog mylogger.Logger, bookings ports.IBookingsGateway, renderer ports.IReportRenderer, company, publicURL string) *ReportHandler {
	return &ReportHandler{
		bookings:  bookings,
		renderer:  renderer,
		company:   company,
		publicURL: publicURL,
		mylog:     mylog,
	}
}

// Print serves the printable bookings report for ?from=&to=.
func (h *ReportHandler) Print() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := h.build(w, r)
		if !ok {
			return
		}

		link := h.publicURL + "/reports/bookings/print?" + rangeQuery(report).Encode()
		var buf bytes.Buffer
		err := h.renderer.PrintHTML(&buf, report, dto.PrintOptions{
			CompanyName: h.company,
			LinkURL:     link,
			PrintDelay:  views.PrintDelay,
		})
		if err != nil {
			h.mylog.Action("report_print_failed").Error("failed to render report", err)
			JsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to render report"))
			return
		}
		writeDocument(w, "text/html; charset=utf-8", "", buf.Bytes())
	}
}

// XLSX serves the same report as a workbook download.
func (h *ReportHandler) XLSX() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := h.build(w, r)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := h.renderer.XLSX(&buf, report); err != nil {
			h.mylog.Action("report_xlsx_failed").Error("failed to render report workbook", err)
			JsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to render report"))
			return
		}
		q := rangeQuery(report)
		writeDocument(w, xlsxContentType, fmt.Sprintf("bookings-%s-%s.xlsx", q.Get("from"), q.Get("to")), buf.Bytes())
	}
}

func (h *ReportHandler) build(w http.ResponseWriter, r *http.Request) (dto.BookingReport, bool) {
	q := r.URL.Query()
	from, to, err := views.ParseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		JsonError(w, http.StatusBadRequest, err)
		return dto.BookingReport{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), ReportWaitTime)
	defer cancel()

	report, err := views.NewReportsView(h.bookings, nil, h.mylog).Build(ctx, from, to)
	if err != nil {
		JsonError(w, http.StatusBadRequest, err)
		return dto.BookingReport{}, false
	}
	return report, true
}

func rangeQuery(report dto.BookingReport) url.Values {
	q := url.Values{}
	q.Set("from", report.From.Format(time.DateOnly))
	q.Set("to", report.To.Format(time.DateOnly))
	return q
}
