package views

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"

	"golang.org/x/sync/errgroup"
)

// markPaidParallelism bounds the concurrent mark-paid requests of one bulk action.
const markPaidParallelism = 8

// PaymentsView backs the owner invoice payments page.
type PaymentsView struct {
	gateway ports.IPaymentsGateway
	auth    ports.IAuth
	journal ports.IActionJournal
	mylog   mylogger.Logger

	List *ListState[model.InvoicePayment]

	mu         sync.Mutex
	tab        model.PaymentTab
	summary    model.PaymentSummary
	summaryErr error
	selected   map[int64]bool

	bulkBtn    busyFlag
	ReceiptErr actionError
}

func NewPaymentsView(gateway ports.IPaymentsGateway, auth ports.IAuth, journal ports.IActionJournal, mylog mylogger.Logger) *PaymentsView {
	mylog = mylog.With("view", "payments")
	v := &PaymentsView{
		gateway:  gateway,
		auth:     auth,
		journal:  journalOrNop(journal),
		mylog:    mylog,
		List:     NewListState("invoice_payments", gateway.ListPayments, auth, mylog),
		tab:      model.TabWaiting,
		selected: map[int64]bool{},
	}
	v.List.SetFilter("status", string(model.TabWaiting))
	return v
}

func (v *PaymentsView) Mount(ctx context.Context) error {
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	_ = v.LoadSummary(ctx)
	return v.List.Load(ctx)
}

func (v *PaymentsView) Tab() model.PaymentTab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tab
}

// SetTab switches between waiting and paid. The selection does not carry over.
func (v *PaymentsView) SetTab(ctx context.Context, tab model.PaymentTab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: tab %q", ErrInvalidFilter, tab)
	}
	v.mu.Lock()
	v.tab = tab
	v.selected = map[int64]bool{}
	v.mu.Unlock()

	v.List.SetFilter("status", string(tab))
	return v.List.Load(ctx)
}

func (v *PaymentsView) Search(ctx context.Context, q string) error {
	if !v.List.SetFilter("q", strings.TrimSpace(q)) {
		return nil
	}
	return v.List.Load(ctx)
}

// LoadSummary refreshes the waiting/paid counters.
func (v *PaymentsView) LoadSummary(ctx context.Context) error {
	s, err := v.gateway.Summary(ctx, url.Values{})
	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.mylog.Action("payments_summary_failed").Error("failed to load payment summary", err)
		v.summaryErr = err
		return err
	}
	v.summary = s
	v.summaryErr = nil
	return nil
}

func (v *PaymentsView) Summary() (model.PaymentSummary, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary, v.summaryErr
}

func (v *PaymentsView) Toggle(id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected[id] {
		delete(v.selected, id)
	} else {
		v.selected[id] = true
	}
}

// ToggleAll selects every loaded row, or clears them when all are selected
// already. Rows on other pages are never touched.
func (v *PaymentsView) ToggleAll() {
	rows := v.List.Visible()

	v.mu.Lock()
	defer v.mu.Unlock()

	all := len(rows) > 0
	for _, r := range rows {
		if !v.selected[r.ID] {
			all = false
			break
		}
	}
	for _, r := range rows {
		if all {
			delete(v.selected, r.ID)
		} else {
			v.selected[r.ID] = true
		}
	}
}

// Selected returns the selected ids in ascending order.
func (v *PaymentsView) Selected() []int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]int64, 0, len(v.selected))
	for id := range v.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BulkResult reports the outcome of a bulk mark-paid.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    map[int64]error
}

func (r BulkResult) String() string {
	return fmt.Sprintf("%d marked paid, %d failed", r.Succeeded, r.Failed)
}

// MarkPaid posts one mark-paid per selected id with the same reference. The list
// and summary are refreshed afterwards whatever the outcome; ids that succeeded
// leave the selection.
func (v *PaymentsView) MarkPaid(ctx context.Context, reference string) (BulkResult, error) {
	reference, err := ValidateReason(reference, 1)
	if err != nil {
		return BulkResult{}, err
	}
	ids := v.Selected()
	if len(ids) == 0 {
		return BulkResult{}, ErrNothingSelected
	}
	if !v.bulkBtn.acquire() {
		return BulkResult{}, ErrBusy
	}
	defer v.bulkBtn.release()

	var (
		mu  sync.Mutex
		res = BulkResult{Errors: map[int64]error{}}
		g   errgroup.Group
	)
	g.SetLimit(markPaidParallelism)
	for _, id := range ids {
		g.Go(func() error {
			err := v.gateway.MarkPaid(ctx, id, dto.MarkPaidRequest{Reference: reference})
			record(ctx, v.journal, v.mylog, model.JournalEntry{
				Action:   "payment.mark_paid",
				Entity:   "invoice_payment",
				EntityID: id,
				Reason:   reference,
			}, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				res.Errors[id] = err
				return nil
			}
			res.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	v.mu.Lock()
	for _, id := range ids {
		if res.Errors[id] == nil {
			delete(v.selected, id)
		}
	}
	v.mu.Unlock()

	v.mylog.Action("payments_mark_paid").Info("bulk mark paid finished",
		"succeeded", res.Succeeded, "failed", res.Failed)

	_ = v.List.Load(ctx)
	_ = v.LoadSummary(ctx)
	return res, nil
}

// ExportOptions picks which rows the CSV contains.
type ExportOptions struct {
	// SelectedOnly restricts the export to the current selection.
	SelectedOnly bool
}

// ExportCSV streams the backend CSV for the current tab and search into w.
func (v *PaymentsView) ExportCSV(ctx context.Context, w io.Writer, opts ExportOptions) error {
	q := url.Values{}
	q.Set("status", string(v.Tab()))
	if s := v.List.Filter("q"); s != "" {
		q.Set("q", s)
	}
	if opts.SelectedOnly {
		ids := v.Selected()
		if len(ids) == 0 {
			return ErrNothingSelected
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.FormatInt(id, 10)
		}
		q.Set("ids", strings.Join(parts, ","))
	}

	body, err := v.gateway.ExportCSV(ctx, q)
	if err != nil {
		v.mylog.Action("payments_export_failed").Error("failed to export payments", err)
		return err
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("copy csv export: %w", err)
	}
	return nil
}

// Receipt builds the masked receipt of a payment. A failure is kept as a
// dismissible error and is not retried.
func (v *PaymentsView) Receipt(ctx context.Context, id int64, companyName string) (dto.Receipt, error) {
	p, ok := v.loaded(id)
	if !ok {
		var err error
		if p, err = v.gateway.GetPayment(ctx, id); err != nil {
			v.mylog.Action("receipt_failed").Error("failed to load payment for receipt", err, "payment_id", id)
			v.ReceiptErr.set(err)
			return dto.Receipt{}, err
		}
	}

	r := dto.Receipt{
		CompanyName:   companyName,
		ReceiptNumber: p.ReceiptNumber,
		InvoiceNumber: p.InvoiceNumber,
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		PayerName:     p.PayerName,
		PayerPhone:    MaskPhone(p.PayerPhone),
		AccountNumber: MaskAccount(p.AccountNumber),
		Reference:     p.Reference,
		PaidAt:        model.FormatDate(p.PaidAt),
		IssuedAt:      time.Now().UTC(),
		QR:            v.receiptQR(ctx, id),
	}
	if r.ReceiptNumber == "" {
		r.ReceiptNumber = p.InvoiceNumber
	}
	if p.Property != nil {
		r.PropertyTitle = p.Property.Title
	}
	if p.Owner != nil {
		r.OwnerName = p.Owner.Name
	}
	v.ReceiptErr.set(nil)
	return r, nil
}

// DismissReceiptError hides the receipt error.
func (v *PaymentsView) DismissReceiptError() {
	v.ReceiptErr.set(nil)
}

// receiptQR inlines the QR image as a data URL, or falls back to its URL.
func (v *PaymentsView) receiptQR(ctx context.Context, id int64) string {
	data, contentType, err := v.gateway.ReceiptQR(ctx, id)
	if err != nil || len(data) == 0 {
		if err != nil {
			v.mylog.Action("receipt_qr_fallback").Warn("receipt qr unavailable, linking directly", "payment_id", id, "error", err.Error())
		}
		return v.gateway.ReceiptQRURL(id)
	}
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (v *PaymentsView) loaded(id int64) (model.InvoicePayment, bool) {
	for _, p := range v.List.Visible() {
		if p.ID == id {
			return p, true
		}
	}
	return model.InvoicePayment{}, false
}

func (v *PaymentsView) Busy() bool {
	return v.bulkBtn.Busy()
}
