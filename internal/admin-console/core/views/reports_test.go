package views

import (
	"context"
	"testing"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, 30, int(to.Sub(from).Hours()/24))

	_, _, err = ParseRange("2024-05-31", "2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, _, err = ParseRange("yesterday", "2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ParseRange("2024-05-01", "2024-05-01")
	assert.NoError(t, err, "a single day is a valid range")
}

func TestReportTolerantOfOneFailedCollection(t *testing.T) {
	gw := &fakeBookings{
		owner: []model.OwnerBooking{
			{ID: 1, Status: "CONFIRMED"},
			{ID: 2, Status: "CONFIRMED"},
			{ID: 3, Status: "CANCELLED"},
		},
		groupErr: errBackend,
		plans:    []model.PlanRequest{{ID: 9, Status: "NEW"}},
	}
	v := NewReportsView(gw, nil, testLogger())
	from, to, _ := ParseRange("2024-05-01", "2024-05-31")

	report, err := v.Build(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, report.Collections, 3)

	owner, groups, plans := report.Collections[0], report.Collections[1], report.Collections[2]
	assert.NoError(t, owner.Err)
	assert.Equal(t, 3, owner.Total())
	assert.Equal(t, []dto.StatusBucket{
		{Status: "CONFIRMED", Count: 2, Percent: 67},
		{Status: "CANCELLED", Count: 1, Percent: 33},
	}, owner.Buckets())

	assert.ErrorIs(t, groups.Err, errBackend)
	assert.Zero(t, groups.Total())

	assert.Equal(t, 1, plans.Total())
	assert.Equal(t, 4, report.GrandTotal())
}

func TestReportPagingStopsAtCap(t *testing.T) {
	rows := make([]model.OwnerBooking, ReportItemCap+50)
	for i := range rows {
		rows[i] = model.OwnerBooking{ID: int64(i + 1), Status: "CONFIRMED"}
	}
	gw := &fakeBookings{owner: rows}
	v := NewReportsView(gw, nil, testLogger())
	from, to, _ := ParseRange("2024-01-01", "2024-12-31")

	report, err := v.Build(context.Background(), from, to)
	require.NoError(t, err)

	owner := report.Collections[0]
	assert.Equal(t, ReportItemCap, owner.Total())
	assert.True(t, owner.Truncated)
	assert.Equal(t, ReportItemCap/ReportPageSize, gw.ownerCalls)
}

func TestReportPagingStopsAtTotal(t *testing.T) {
	rows := make([]model.OwnerBooking, 250)
	gw := &fakeBookings{owner: rows}
	v := NewReportsView(gw, nil, testLogger())
	from, to, _ := ParseRange("2024-01-01", "2024-01-31")

	report, err := v.Build(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, 250, report.Collections[0].Total())
	assert.False(t, report.Collections[0].Truncated)
	assert.Equal(t, 3, gw.ownerCalls)
}

func TestPercentIsClamped(t *testing.T) {
	assert.Equal(t, 0, dto.Percent(3, 0))
	assert.Equal(t, 100, dto.Percent(5, 3))
	assert.Equal(t, 0, dto.Percent(-2, 3))
	assert.Equal(t, 33, dto.Percent(1, 3))
}
