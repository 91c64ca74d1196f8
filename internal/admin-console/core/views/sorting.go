package views

import (
	"sort"
	"strconv"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// Trip table columns that can be sorted.
const (
	ColTripID    = "id"
	ColTripCode  = "tripCode"
	ColDriver    = "driver"
	ColPassenger = "passenger"
	ColPickup    = "pickup"
	ColDropoff   = "dropoff"
	ColScheduled = "scheduledAt"
	ColAmount    = "amount"
	ColStatus    = "status"
	ColCreated   = "createdAt"
)

var tripColumns = map[string]bool{
	ColTripID: true, ColTripCode: true, ColDriver: true, ColPassenger: true, ColPickup: true,
	ColDropoff: true, ColScheduled: true, ColAmount: true, ColStatus: true, ColCreated: true,
}

// SortState is a per-table sort key. Clicking the active column cycles
// asc, desc, none; clicking another column starts at asc.
type SortState struct {
	Column string
	Dir    SortDir
}

func (s SortState) Toggle(column string) SortState {
	if column != s.Column || s.Dir == SortNone {
		return SortState{Column: column, Dir: SortAsc}
	}
	if s.Dir == SortAsc {
		return SortState{Column: column, Dir: SortDesc}
	}
	return SortState{}
}

// SortTrips returns a sorted copy of rows. The sort is stable. Strings compare
// with a numeric-aware collation, so TRP-2 precedes TRP-10. Trips without a
// driver stay after assigned ones whichever way the driver column is sorted.
func SortTrips(rows []model.TripRow, s SortState) []model.TripRow {
	out := make([]model.TripRow, len(rows))
	copy(out, rows)
	if s.Dir == SortNone || !tripColumns[s.Column] {
		return out
	}

	col := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	sign := 1
	if s.Dir == SortDesc {
		sign = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if s.Column == ColDriver {
			aNone, bNone := a.Driver == nil, b.Driver == nil
			if aNone != bNone {
				return bNone
			}
			if aNone {
				return false
			}
		}
		return sign*compareTrips(col, a, b, s.Column) < 0
	})
	return out
}

func compareTrips(col *collate.Collator, a, b model.TripRow, column string) int {
	switch column {
	case ColTripID:
		return compareInt(a.ID, b.ID)
	case ColTripCode:
		return col.CompareString(a.TripCode, b.TripCode)
	case ColDriver:
		return col.CompareString(a.DriverName(), b.DriverName())
	case ColPassenger:
		return col.CompareString(personName(a.Passenger), personName(b.Passenger))
	case ColPickup:
		return col.CompareString(a.PickupLocation, b.PickupLocation)
	case ColDropoff:
		return col.CompareString(a.DropoffLocation, b.DropoffLocation)
	case ColScheduled:
		return compareInt(unixOrZero(a.ScheduledAt), unixOrZero(b.ScheduledAt))
	case ColAmount:
		return a.Amount.Cmp(b.Amount)
	case ColStatus:
		return col.CompareString(string(a.Status), string(b.Status))
	case ColCreated:
		return compareInt(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func personName(p *model.PersonRef) string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return strconv.FormatInt(p.ID, 10)
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}
