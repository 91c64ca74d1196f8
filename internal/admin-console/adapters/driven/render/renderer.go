package render

import (
	"embed"
	"fmt"
	"io"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns reports and receipts into printable documents.
type Renderer struct {
	mylog    mylogger.Logger
	report   *pongo2.Template
	receipt  *pongo2.Template
	qrEncode func(string) ([]byte, error)
}

var (
	_ ports.IReportRenderer  = (*Renderer)(nil)
	_ ports.IReceiptRenderer = (*Renderer)(nil)
)

func New(mylog mylogger.Logger) (*Renderer, error) {
	report, err := loadTemplate("templates/report.html")
	if err != nil {
		return nil, err
	}
	receipt, err := loadTemplate("templates/receipt.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{
		mylog:    mylog.With("component", "render"),
		report:   report,
		receipt:  receipt,
		qrEncode: QRPNG,
	}, nil
}

func loadTemplate(name string) (*pongo2.Template, error) {
	src, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	tpl, err := pongo2.FromBytes(src)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl, nil
}

type reportSection struct {
	Title     string
	Error     string
	Total     int
	Chart     string
	Buckets   []dto.StatusBucket
	Columns   []string
	Rows      [][]string
	Truncated bool
}

// PrintHTML writes the printable report. Text is escaped by the template
// engine. A chart or QR code that cannot be produced is left out.
func (r *Renderer) PrintHTML(w io.Writer, report dto.BookingReport, opts dto.PrintOptions) error {
	sections := make([]reportSection, 0, len(report.Collections))
	for _, c := range report.Collections {
		s := reportSection{Title: c.Title, Total: c.Total(), Columns: c.Columns, Truncated: c.Truncated}
		if c.Err != nil {
			s.Error = c.Err.Error()
			sections = append(sections, s)
			continue
		}
		s.Buckets = c.Buckets()
		if png, err := StatusChartPNG(c.Title+" by status", s.Buckets); err != nil {
			r.mylog.Action("chart_failed").Warn("chart omitted", "collection", c.Key, "error", err.Error())
		} else {
			s.Chart = PNGDataURL(png)
		}
		s.Rows = make([][]string, len(c.Rows))
		for i, row := range c.Rows {
			s.Rows[i] = row.RowCells()
		}
		sections = append(sections, s)
	}

	var qr string
	if opts.LinkURL != "" {
		if png, err := r.qrEncode(opts.LinkURL); err != nil {
			r.mylog.Action("report_qr_failed").Debug("report printed without qr", "error", err.Error())
		} else {
			qr = PNGDataURL(png)
		}
	}

	delay := opts.PrintDelay
	if delay < 0 {
		delay = 0
	}
	company := opts.CompanyName
	if company == "" {
		company = "NoLSAF"
	}

	err := r.report.ExecuteWriter(pongo2.Context{
		"company":        company,
		"from":           report.From.Format(time.DateOnly),
		"to":             report.To.Format(time.DateOnly),
		"generated":      report.GeneratedAt.Format("2006-01-02 15:04 MST"),
		"grand_total":    report.GrandTotal(),
		"collections":    sections,
		"qr":             qr,
		"print_delay_ms": delay.Milliseconds(),
	}, w)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// ReceiptHTML writes the receipt page.
func (r *Renderer) ReceiptHTML(w io.Writer, receipt dto.Receipt) error {
	err := r.receipt.ExecuteWriter(pongo2.Context{
		"r":      receipt,
		"issued": receipt.IssuedAt.Format("2006-01-02 15:04 MST"),
	}, w)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}
