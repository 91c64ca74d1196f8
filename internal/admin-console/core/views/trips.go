package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"

	"github.com/shopspring/decimal"
)

// EmptyTrips is shown in place of the table and the histogram when nothing matches.
const EmptyTrips = "No trips found"

// TripsView backs the driver trips page.
type TripsView struct {
	gateway ports.ITripsGateway
	auth    ports.IAuth
	journal ports.IActionJournal
	mylog   mylogger.Logger

	List   *ListState[model.TripRow]
	Detail *Detail[model.TripDetailsResponse]

	sortMu sync.Mutex
	sort   SortState

	actionBtn busyFlag
	ActionErr actionError
}

func NewTripsView(gateway ports.ITripsGateway, auth ports.IAuth, journal ports.IActionJournal, mylog mylogger.Logger) *TripsView {
	mylog = mylog.With("view", "trips")
	return &TripsView{
		gateway: gateway,
		auth:    auth,
		journal: journalOrNop(journal),
		mylog:   mylog,
		List:    NewListState("driver_trips", gateway.ListTrips, auth, mylog),
		Detail:  NewDetail(gateway.GetTrip, mylog),
	}
}

func (v *TripsView) Mount(ctx context.Context) error {
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	return v.List.Load(ctx)
}

func (v *TripsView) SetStatus(ctx context.Context, status string) error {
	status, err := tripStatusFilter(status)
	if err != nil {
		return err
	}
	return v.apply(ctx, map[string]string{"status": status})
}

func (v *TripsView) Search(ctx context.Context, q string) error {
	return v.apply(ctx, map[string]string{"q": strings.TrimSpace(q)})
}

// SetDateRange filters by scheduled day, both ends inclusive and optional.
func (v *TripsView) SetDateRange(ctx context.Context, from, to string) error {
	from, to, err := dateRangeFilter(from, to)
	if err != nil {
		return err
	}
	return v.apply(ctx, map[string]string{"from": from, "to": to})
}

// SetAmountRange filters by trip amount; empty bounds are open.
func (v *TripsView) SetAmountRange(ctx context.Context, min, max string) error {
	min, max, err := amountRangeFilter(min, max)
	if err != nil {
		return err
	}
	return v.apply(ctx, map[string]string{"minAmount": min, "maxAmount": max})
}

// TripFilters is the whole filter bar of the trips page.
type TripFilters struct {
	Status    string
	Q         string
	From      string
	To        string
	MinAmount string
	MaxAmount string
}

// Apply validates every filter, installs them and loads once. Nothing is
// changed when one of them is invalid.
func (v *TripsView) Apply(ctx context.Context, f TripFilters) error {
	status, err := tripStatusFilter(f.Status)
	if err != nil {
		return err
	}
	from, to, err := dateRangeFilter(f.From, f.To)
	if err != nil {
		return err
	}
	min, max, err := amountRangeFilter(f.MinAmount, f.MaxAmount)
	if err != nil {
		return err
	}
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	for k, val := range map[string]string{
		"status":    status,
		"q":         strings.TrimSpace(f.Q),
		"from":      from,
		"to":        to,
		"minAmount": min,
		"maxAmount": max,
	} {
		v.List.SetFilter(k, val)
	}
	return v.List.Load(ctx)
}

func tripStatusFilter(status string) (string, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !model.TripStatus(status).Valid() {
		return "", fmt.Errorf("%w: status %q", ErrInvalidFilter, status)
	}
	return status, nil
}

func dateRangeFilter(from, to string) (string, string, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	var fromDay, toDay time.Time
	var err error
	if from != "" {
		if fromDay, err = time.Parse(time.DateOnly, from); err != nil {
			return "", "", fmt.Errorf("%w: from %q", ErrInvalidFilter, from)
		}
	}
	if to != "" {
		if toDay, err = time.Parse(time.DateOnly, to); err != nil {
			return "", "", fmt.Errorf("%w: to %q", ErrInvalidFilter, to)
		}
	}
	if from != "" && to != "" && toDay.Before(fromDay) {
		return "", "", ErrInvalidRange
	}
	return from, to, nil
}

func amountRangeFilter(min, max string) (string, string, error) {
	min, max = strings.TrimSpace(min), strings.TrimSpace(max)
	var lo, hi decimal.Decimal
	var err error
	if min != "" {
		if lo, err = decimal.NewFromString(min); err != nil {
			return "", "", fmt.Errorf("%w: minAmount %q", ErrInvalidFilter, min)
		}
	}
	if max != "" {
		if hi, err = decimal.NewFromString(max); err != nil {
			return "", "", fmt.Errorf("%w: maxAmount %q", ErrInvalidFilter, max)
		}
	}
	if min != "" && max != "" && hi.LessThan(lo) {
		return "", "", fmt.Errorf("%w: maxAmount below minAmount", ErrInvalidFilter)
	}
	return min, max, nil
}

func (v *TripsView) apply(ctx context.Context, filters map[string]string) error {
	changed := false
	for k, val := range filters {
		if v.List.SetFilter(k, val) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return v.List.Load(ctx)
}

// ToggleSort cycles the sort of column and returns the new state.
func (v *TripsView) ToggleSort(column string) SortState {
	v.sortMu.Lock()
	defer v.sortMu.Unlock()
	v.sort = v.sort.Toggle(column)
	return v.sort
}

func (v *TripsView) Sort() SortState {
	v.sortMu.Lock()
	defer v.sortMu.Unlock()
	return v.sort
}

// Rows is the visible page in the current sort order.
func (v *TripsView) Rows() []model.TripRow {
	return SortTrips(v.List.Visible(), v.Sort())
}

// StatusCount is one bar of the status histogram.
type StatusCount struct {
	Status model.TripStatus
	Count  int
}

// Histogram counts the loaded rows per status in lifecycle order, skipping
// statuses with no rows. It is empty when no rows are loaded.
func (v *TripsView) Histogram() []StatusCount {
	return TripHistogram(v.List.Visible())
}

func TripHistogram(rows []model.TripRow) []StatusCount {
	counts := map[model.TripStatus]int{}
	for _, r := range rows {
		counts[r.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for _, s := range model.TripStatuses {
		if n := counts[s]; n > 0 {
			out = append(out, StatusCount{Status: s, Count: n})
			delete(counts, s)
		}
	}
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	return out
}

// Empty reports whether the table shows the "No trips found" state.
func (v *TripsView) Empty() bool {
	return len(v.List.Visible()) == 0 && v.List.Err() == nil
}

func (v *TripsView) ViewDetails(ctx context.Context, rawID string) error {
	return v.Detail.Open(ctx, rawID)
}

func (v *TripsView) Assign(ctx context.Context, id, driverID int64, reason string) error {
	if driverID <= 0 {
		return fmt.Errorf("%w: driver id", ErrInvalidFilter)
	}
	reason, err := ValidateReason(reason, 1)
	if err != nil {
		return err
	}
	return v.act(ctx, "trip.assign", id, reason, func() error {
		return v.gateway.AssignTrip(ctx, id, dto.AssignTripRequest{DriverID: driverID, Reason: reason})
	})
}

func (v *TripsView) Unassign(ctx context.Context, id int64, reason string) error {
	reason, err := ValidateReason(reason, 1)
	if err != nil {
		return err
	}
	return v.act(ctx, "trip.unassign", id, reason, func() error {
		return v.gateway.UnassignTrip(ctx, id, dto.ReasonRequest{Reason: reason})
	})
}

// Cancel needs a reason of at least MinCancelReason characters.
func (v *TripsView) Cancel(ctx context.Context, id int64, reason string) error {
	reason, err := ValidateReason(reason, MinCancelReason)
	if err != nil {
		return err
	}
	return v.act(ctx, "trip.cancel", id, reason, func() error {
		return v.gateway.CancelTrip(ctx, id, dto.ReasonRequest{Reason: reason})
	})
}

// act runs one modal action. On failure the error stays inline and the modal
// stays open; on success the list and the open detail are refetched.
func (v *TripsView) act(ctx context.Context, action string, id int64, reason string, call func() error) error {
	if !v.actionBtn.acquire() {
		return ErrBusy
	}
	defer v.actionBtn.release()

	err := call()
	record(ctx, v.journal, v.mylog, model.JournalEntry{
		Action:   action,
		Entity:   "trip",
		EntityID: id,
		Reason:   reason,
	}, err)
	if err != nil {
		v.mylog.Action("trip_action_failed").Error("trip action failed", err, "trip_id", id, "action", action)
		v.ActionErr.set(err)
		return err
	}

	v.ActionErr.set(nil)
	v.mylog.Action("trip_action_succeeded").Info("trip action applied", "trip_id", id, "action", action)
	_ = v.List.Load(ctx)
	_ = v.Detail.Refresh(ctx, id)
	return nil
}

func (v *TripsView) Busy() bool {
	return v.actionBtn.Busy()
}
