package views

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"

	"golang.org/x/sync/errgroup"
)

const (
	ReportPageSize = 100
	ReportItemCap  = 20000
	// PrintDelay lets charts settle before the print dialog opens.
	PrintDelay = 600 * time.Millisecond
)

// ReportsView aggregates bookings across the three collections for a date range.
type ReportsView struct {
	gateway ports.IBookingsGateway
	auth    ports.IAuth
	mylog   mylogger.Logger
	now     func() time.Time
}

func NewReportsView(gateway ports.IBookingsGateway, auth ports.IAuth, mylog mylogger.Logger) *ReportsView {
	return &ReportsView{
		gateway: gateway,
		auth:    auth,
		mylog:   mylog.With("view", "reports"),
		now:     time.Now,
	}
}

// ParseRange reads two YYYY-MM-DD days as an inclusive UTC range.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	f, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q", ErrInvalidRange, from)
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q", ErrInvalidRange, to)
	}
	if t.Before(f) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", ErrInvalidRange)
	}
	return f, t, nil
}

// Build fetches all three collections concurrently. A collection that fails
// keeps its error and contributes no rows; the others still aggregate.
func (v *ReportsView) Build(ctx context.Context, from, to time.Time) (dto.BookingReport, error) {
	if to.Before(from) {
		return dto.BookingReport{}, ErrInvalidRange
	}
	if v.auth != nil {
		v.auth.ApplyAuth()
	}

	base := url.Values{}
	base.Set("from", from.UTC().Format(time.DateOnly))
	base.Set("to", to.UTC().Format(time.DateOnly))

	report := dto.BookingReport{
		From:        from.UTC(),
		To:          to.UTC(),
		GeneratedAt: v.now().UTC(),
		Collections: []dto.CollectionReport{
			{Key: dto.CollectionOwnerBookings, Title: "Owner bookings", Columns: model.OwnerBookingColumns},
			{Key: dto.CollectionGroupStays, Title: "Group stays", Columns: model.GroupStayColumns},
			{Key: dto.CollectionPlanWithUs, Title: "Plan with us", Columns: model.PlanRequestColumns},
		},
	}

	fetchers := []func(context.Context, url.Values) ([]model.ReportRow, bool, error){
		rowsOf(v.gateway.ListOwnerBookings),
		rowsOf(v.gateway.ListGroupStayBookings),
		rowsOf(v.gateway.ListPlanRequests),
	}

	var g errgroup.Group
	for i := range fetchers {
		g.Go(func() error {
			c := &report.Collections[i]
			rows, truncated, err := fetchers[i](ctx, base)
			if err != nil {
				v.mylog.Action("report_collection_failed").Error("failed to load report collection", err, "collection", c.Key)
				c.Err = err
				return nil
			}
			c.Rows = rows
			c.Truncated = truncated
			return nil
		})
	}
	_ = g.Wait()

	v.mylog.Action("report_built").Info("booking report built",
		"from", base.Get("from"), "to", base.Get("to"), "records", report.GrandTotal())
	return report, nil
}

// rowsOf pages a typed list endpoint until the reported total or
// ReportItemCap is reached. It reports whether the cap cut the result short.
func rowsOf[T model.ReportRow](list func(context.Context, url.Values) (dto.Page[T], error)) func(context.Context, url.Values) ([]model.ReportRow, bool, error) {
	return func(ctx context.Context, base url.Values) ([]model.ReportRow, bool, error) {
		var rows []model.ReportRow
		for page := 1; ; page++ {
			q := url.Values{}
			for k, vs := range base {
				q[k] = append([]string(nil), vs...)
			}
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(ReportPageSize))

			res, err := list(ctx, q)
			if err != nil {
				return nil, false, err
			}
			for _, item := range res.Items {
				rows = append(rows, item)
			}

			if len(rows) >= ReportItemCap {
				return rows[:ReportItemCap], res.Total > ReportItemCap || len(rows) > ReportItemCap, nil
			}
			if len(res.Items) == 0 || len(rows) >= res.Total {
				return rows, false, nil
			}
		}
	}
}
