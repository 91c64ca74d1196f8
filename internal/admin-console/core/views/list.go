package views

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"
)

// PageSize is fixed for every admin list.
const PageSize = 30

type Fetcher[T any] func(ctx context.Context, query url.Values) (dto.Page[T], error)

// ListState is the state behind one paginated table: filters, page, the rows of
// the last response and the dismissible error banner.
type ListState[T any] struct {
	name  string
	fetch Fetcher[T]
	auth  ports.IAuth
	mylog mylogger.Logger

	mu      sync.Mutex
	filters map[string]string
	page    int
	items   []T
	total   int
	err     error
	loading bool
}

func NewListState[T any](name string, fetch func(ctx context.Context, query url.Values) (dto.Page[T], error), auth ports.IAuth, mylog mylogger.Logger) *ListState[T] {
	return &ListState[T]{
		name:    name,
		fetch:   fetch,
		auth:    auth,
		mylog:   mylog.With("list", name),
		filters: map[string]string{},
		page:    1,
	}
}

// SetFilter changes one filter and resets the page to 1. It reports whether the
// value actually changed.
func (l *ListState[T]) SetFilter(key, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.filters[key] == value {
		return false
	}
	if value == "" {
		delete(l.filters, key)
	} else {
		l.filters[key] = value
	}
	l.page = 1
	return true
}

func (l *ListState[T]) Filter(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters[key]
}

// ClearFilters drops every filter and resets the page.
func (l *ListState[T]) ClearFilters() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filters = map[string]string{}
	l.page = 1
}

// Query builds the request parameters, omitting empty filters.
func (l *ListState[T]) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queryLocked()
}

func (l *ListState[T]) queryLocked() url.Values {
	q := url.Values{}
	keys := make([]string, 0, len(l.filters))
	for k := range l.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := l.filters[k]; v != "" {
			q.Set(k, v)
		}
	}
	q.Set("page", strconv.Itoa(l.page))
	q.Set("pageSize", strconv.Itoa(PageSize))
	return q
}

// Load fetches the current page. On failure the rows are cleared, the total is
// zeroed and the error is kept for the banner; it is also returned.
func (l *ListState[T]) Load(ctx context.Context) error {
	if l.auth != nil {
		l.auth.ApplyAuth()
	}

	l.mu.Lock()
	query := l.queryLocked()
	l.loading = true
	l.mu.Unlock()

	res, err := l.fetch(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false

	if err != nil {
		l.mylog.Action("list_load_failed").Error("failed to load list", err, "query", query.Encode())
		l.items = nil
		l.total = 0
		l.clampPageLocked()
		l.err = err
		return err
	}

	l.items = res.Items
	l.total = res.Total
	if l.total < len(res.Items) {
		l.total = len(res.Items)
	}
	l.clampPageLocked()
	l.err = nil
	l.mylog.Action("list_loaded").Debug("list loaded", "count", len(res.Items), "total", res.Total)
	return nil
}

// Retry repeats the last load.
func (l *ListState[T]) Retry(ctx context.Context) error {
	return l.Load(ctx)
}

// SetPage moves to p, clamped to [1, PageCount()], and returns the page in effect.
func (l *ListState[T]) SetPage(p int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	last := pageCount(l.total)
	switch {
	case p < 1:
		p = 1
	case p > last:
		p = last
	}
	l.page = p
	return p
}

// clampPageLocked keeps page within [1, pageCount(total)] after total changes.
func (l *ListState[T]) clampPageLocked() {
	if last := pageCount(l.total); l.page > last {
		l.page = last
	}
	if l.page < 1 {
		l.page = 1
	}
}

func (l *ListState[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *ListState[T]) PageCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return pageCount(l.total)
}

func pageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// Visible returns the rows to render, never more than PageSize.
func (l *ListState[T]) Visible() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.items)
	if n > PageSize {
		n = PageSize
	}
	out := make([]T, n)
	copy(out, l.items[:n])
	return out
}

func (l *ListState[T]) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

func (l *ListState[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// DismissError hides the banner without reloading.
func (l *ListState[T]) DismissError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = nil
}

func (l *ListState[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
