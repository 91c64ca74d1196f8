package views

import (
	"context"
	"testing"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agents(n int) []model.Agent {
	out := make([]model.Agent, n)
	for i := range out {
		out[i] = model.Agent{ID: int64(i + 1), Status: model.AgentActive}
	}
	return out
}

func TestListState(t *testing.T) {
	ctx := context.Background()

	t.Run("filter change resets page", func(t *testing.T) {
		gw := &fakeAgents{page: pageOf(agents(30), 100)}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))

		assert.Equal(t, 3, l.SetPage(3))
		assert.True(t, l.SetFilter("status", "ACTIVE"))
		assert.Equal(t, 1, l.Page())
		assert.False(t, l.SetFilter("status", "ACTIVE"), "same value is not a change")
	})

	t.Run("page is clamped", func(t *testing.T) {
		gw := &fakeAgents{page: pageOf(agents(30), 61)}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))

		assert.Equal(t, 3, l.PageCount())
		assert.Equal(t, 3, l.SetPage(10))
		assert.Equal(t, 1, l.SetPage(0))
		assert.Equal(t, 1, l.SetPage(-4))
	})

	t.Run("smaller total pulls page back in range", func(t *testing.T) {
		gw := &fakeAgents{page: pageOf(agents(30), 100)}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))
		require.Equal(t, 4, l.SetPage(4))

		gw.page = pageOf(agents(10), 10)
		require.NoError(t, l.Load(ctx))
		assert.Equal(t, 1, l.PageCount())
		assert.Equal(t, 1, l.Page())
	})

	t.Run("failed load pulls page back in range", func(t *testing.T) {
		gw := &fakeAgents{page: pageOf(agents(30), 100)}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))
		require.Equal(t, 4, l.SetPage(4))

		gw.listErr = errBackend
		require.ErrorIs(t, l.Load(ctx), errBackend)
		assert.Equal(t, 1, l.PageCount())
		assert.Equal(t, 1, l.Page())
	})

	t.Run("empty list has one page", func(t *testing.T) {
		gw := &fakeAgents{}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))

		assert.Equal(t, 1, l.PageCount())
		assert.Equal(t, 1, l.SetPage(5))
	})

	t.Run("visible never exceeds page size", func(t *testing.T) {
		gw := &fakeAgents{page: pageOf(agents(45), 45)}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))

		assert.Len(t, l.Visible(), PageSize)
	})

	t.Run("failure clears rows and keeps a dismissible error", func(t *testing.T) {
		gw := &fakeAgents{page: pageOf(agents(5), 5)}
		l := NewListState("agents", gw.ListAgents, nil, testLogger())
		require.NoError(t, l.Load(ctx))
		require.Len(t, l.Visible(), 5)

		gw.listErr = errBackend
		err := l.Load(ctx)
		require.ErrorIs(t, err, errBackend)
		assert.Empty(t, l.Visible())
		assert.Zero(t, l.Total())
		assert.ErrorIs(t, l.Err(), errBackend)

		l.DismissError()
		assert.NoError(t, l.Err())

		gw.listErr = nil
		require.NoError(t, l.Retry(ctx))
		assert.Len(t, l.Visible(), 5)
	})

	t.Run("query omits empty filters", func(t *testing.T) {
		gw := &fakeAgents{}
		auth := &fakeAuth{}
		l := NewListState("agents", gw.ListAgents, auth, testLogger())
		l.SetFilter("q", "")
		l.SetFilter("status", "ACTIVE")
		require.NoError(t, l.Load(ctx))

		q := gw.Last()
		assert.False(t, q.Has("q"))
		assert.Equal(t, "ACTIVE", q.Get("status"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "30", q.Get("pageSize"))
		assert.Equal(t, 1, auth.Calls(), "auth is applied before every load")
	})
}

func TestValidateReason(t *testing.T) {
	_, err := ValidateReason("   ", 1)
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = ValidateReason("short", 10)
	assert.ErrorIs(t, err, ErrReasonTooShort)

	r, err := ValidateReason("  exactly ten ", 11)
	require.NoError(t, err)
	assert.Equal(t, "exactly ten", r)
}

func TestDebouncerRunsOnlyLast(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	ran := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		d.Trigger(func() { ran <- i })
	}

	assert.Equal(t, 3, <-ran)
	d.Stop()
	assert.Empty(t, ran)
}
