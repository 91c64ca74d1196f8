package views

import (
	"context"
	"strings"
	"testing"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripsCanceledFilterEmptyState(t *testing.T) {
	ctx := context.Background()
	gw := &fakeTrips{page: pageOf([]model.TripRow{{ID: 1, Status: model.TripPending}}, 1)}
	v := NewTripsView(gw, nil, nil, testLogger())
	require.NoError(t, v.Mount(ctx))
	assert.False(t, v.Empty())

	gw.page = dto.Page[model.TripRow]{}
	require.NoError(t, v.SetStatus(ctx, "CANCELED"))

	q := gw.Last()
	assert.Equal(t, "CANCELED", q.Get("status"))
	assert.Equal(t, "1", q.Get("page"))
	assert.True(t, v.Empty())
	assert.Empty(t, v.Histogram())
}

func TestTripsFilterValidation(t *testing.T) {
	ctx := context.Background()
	gw := &fakeTrips{}
	v := NewTripsView(gw, nil, nil, testLogger())

	assert.ErrorIs(t, v.SetStatus(ctx, "LOST"), ErrInvalidFilter)
	assert.ErrorIs(t, v.SetDateRange(ctx, "2024-05-10", "2024-05-01"), ErrInvalidRange)
	assert.ErrorIs(t, v.SetAmountRange(ctx, "abc", ""), ErrInvalidFilter)
	assert.Zero(t, gw.Len())

	require.NoError(t, v.SetAmountRange(ctx, "1000", "25000.50"))
	assert.Equal(t, "1000", gw.Last().Get("minAmount"))
	assert.Equal(t, "25000.50", gw.Last().Get("maxAmount"))
}

func TestTripCancelReasonLength(t *testing.T) {
	ctx := context.Background()
	gw := &fakeTrips{details: map[int64]model.TripDetailsResponse{3: {TripRow: model.TripRow{ID: 3}}}}
	journal := &fakeJournal{}
	v := NewTripsView(gw, nil, journal, testLogger())
	require.NoError(t, v.ViewDetails(ctx, "3"))

	err := v.Cancel(ctx, 3, strings.Repeat("x", MinCancelReason-1))
	assert.ErrorIs(t, err, ErrReasonTooShort)
	assert.Empty(t, gw.cancels)

	require.NoError(t, v.Cancel(ctx, 3, strings.Repeat("x", MinCancelReason)))
	require.Len(t, gw.cancels, 1)
	assert.Equal(t, 1, gw.Len(), "list is refetched")
	assert.Equal(t, 2, gw.getCalls, "open detail is refetched")
	assert.Equal(t, "trip.cancel", journal.Entries()[0].Action)
}

func TestTripActionFailureKeepsModalOpen(t *testing.T) {
	ctx := context.Background()
	gw := &fakeTrips{
		details:   map[int64]model.TripDetailsResponse{3: {TripRow: model.TripRow{ID: 3}}},
		actionErr: errBackend,
	}
	v := NewTripsView(gw, nil, nil, testLogger())
	require.NoError(t, v.ViewDetails(ctx, "3"))

	require.ErrorIs(t, v.Unassign(ctx, 3, "driver sick"), errBackend)
	assert.True(t, v.Detail.IsOpen())
	assert.ErrorIs(t, v.ActionErr.Get(), errBackend)
	assert.Zero(t, gw.Len(), "no refetch after a failure")

	assert.ErrorIs(t, v.Assign(ctx, 3, 0, "reason"), ErrInvalidFilter)
	assert.ErrorIs(t, v.Assign(ctx, 3, 8, ""), ErrReasonRequired)
}

func TestTripActionRejectsDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	gw := &fakeTrips{block: make(chan struct{})}
	v := NewTripsView(gw, nil, nil, testLogger())
	reason := strings.Repeat("r", MinCancelReason)

	done := make(chan error, 1)
	go func() { done <- v.Cancel(ctx, 1, reason) }()
	require.Eventually(t, v.Busy, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, v.Cancel(ctx, 1, reason), ErrBusy)
	close(gw.block)
	require.NoError(t, <-done)
	assert.False(t, v.Busy())
}

func TestTripHistogram(t *testing.T) {
	rows := []model.TripRow{
		{Status: model.TripCompleted},
		{Status: model.TripPending},
		{Status: model.TripCompleted},
		{Status: model.TripCanceled},
	}
	assert.Equal(t, []StatusCount{
		{Status: model.TripPending, Count: 1},
		{Status: model.TripCompleted, Count: 2},
		{Status: model.TripCanceled, Count: 1},
	}, TripHistogram(rows))
}

func TestTripsApplyLoadsOnce(t *testing.T) {
	ctx := context.Background()
	gw := &fakeTrips{}
	v := NewTripsView(gw, nil, nil, testLogger())

	err := v.Apply(ctx, TripFilters{Status: "canceled", From: "2024-05-10", To: "2024-05-01"})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, gw.Len())

	require.NoError(t, v.Apply(ctx, TripFilters{Status: "in_transit", Q: " kariakoo ", From: "2024-05-01", To: "2024-05-10", MinAmount: "500"}))
	require.Equal(t, 1, gw.Len())
	q := gw.Last()
	assert.Equal(t, "IN_TRANSIT", q.Get("status"))
	assert.Equal(t, "kariakoo", q.Get("q"))
	assert.Equal(t, "2024-05-01", q.Get("from"))
	assert.Equal(t, "500", q.Get("minAmount"))
	assert.False(t, q.Has("maxAmount"))
}
