package handle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/mylogger"
)

type PaymentHandler struct {
	payments ports.IPaymentsGateway
	renderer ports.IReceiptRenderer
	company  string
	mylog    mylogger.Logger
}

func NewPaymentHandler(mylog mylogger.Logger, payments ports.IPaymentsGateway, renderer ports.IReceiptRenderer, company string) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		renderer: renderer,
		company:  company,
		mylog:    mylog,
	}
}

// Receipt serves the receipt page of /payments/{id}/receipt.
func (h *PaymentHandler) Receipt() http.HandlerFunc {
	return h.receipt(false)
}

// ReceiptPDF serves /payments/{id}/receipt.pdf.
func (h *PaymentHandler) ReceiptPDF() http.HandlerFunc {
	return h.receipt(true)
}

func (h *PaymentHandler) receipt(pdf bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := apiclient.ParseID(r.PathValue("id"))
		if err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime)
		defer cancel()

		receipt, err := views.NewPaymentsView(h.payments, nil, nil, h.mylog).Receipt(ctx, id, h.company)
		if err != nil {
			JsonError(w, backendStatus(err), fmt.Errorf("failed to load payment %d: %s", id, apiclient.Message(err, "backend unavailable")))
			return
		}

		var buf bytes.Buffer
		if pdf {
			err = h.renderer.ReceiptPDF(&buf, receipt)
		} else {
			err = h.renderer.ReceiptHTML(&buf, receipt)
		}
		if err != nil {
			h.mylog.Action("receipt_render_failed").Error("failed to render receipt", err, "payment_id", id)
			JsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to render receipt"))
			return
		}

		if pdf {
			writeDocument(w, "application/pdf", fmt.Sprintf("receipt-%s.pdf", receipt.ReceiptNumber), buf.Bytes())
			return
		}
		writeDocument(w, "text/html; charset=utf-8", "", buf.Bytes())
	}
}

// ExportCSV streams the backend payments export. It accepts status, q and a
// comma separated ids list.
func (h *PaymentHandler) ExportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := r.URL.Query()
		q := url.Values{}

		status := model.PaymentTab(strings.ToLower(in.Get("status")))
		if status == "" {
			status = model.TabWaiting
		}
		if !status.Valid() {
			JsonError(w, http.StatusBadRequest, fmt.Errorf("status must be waiting or paid"))
			return
		}
		q.Set("status", string(status))

		if s := strings.TrimSpace(in.Get("q")); s != "" {
			q.Set("q", s)
		}
		if raw := in.Get("ids"); raw != "" {
			ids := strings.Split(raw, ",")
			for _, id := range ids {
				if _, err := apiclient.ParseID(id); err != nil {
					JsonError(w, http.StatusBadRequest, err)
					return
				}
			}
			q.Set("ids", raw)
		}

		ctx, cancel := context.WithTimeout(r.Context(), ReportWaitTime)
		defer cancel()

		body, err := h.payments.ExportCSV(ctx, q)
		if err != nil {
			h.mylog.Action("payments_export_failed").Error("failed to export payments", err)
			JsonError(w, backendStatus(err), fmt.Errorf("failed to export payments"))
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="payments-`+string(status)+`.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			h.mylog.Action("payments_export_interrupted").Warn("csv export stream interrupted", "error", err.Error())
		}
	}
}
