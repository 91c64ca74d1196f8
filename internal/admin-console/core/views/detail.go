package views

import (
	"context"
	"sync"

	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/mylogger"
)

// Detail is the state of a single-entity modal.
type Detail[T any] struct {
	fetch func(ctx context.Context, id int64) (T, error)
	mylog mylogger.Logger

	mu      sync.Mutex
	open    bool
	id      int64
	item    T
	err     error
	loading bool
}

func NewDetail[T any](fetch func(ctx context.Context, id int64) (T, error), mylog mylogger.Logger) *Detail[T] {
	return &Detail[T]{fetch: fetch, mylog: mylog}
}

// Open validates rawID and fetches the entity. An invalid id never reaches the
// backend. A failed fetch leaves the modal open with an error and a retry.
func (d *Detail[T]) Open(ctx context.Context, rawID string) error {
	id, err := apiclient.ParseID(rawID)
	if err != nil {
		return err
	}
	return d.OpenID(ctx, id)
}

func (d *Detail[T]) OpenID(ctx context.Context, id int64) error {
	if id <= 0 {
		return apiclient.ErrInvalidID
	}

	d.mu.Lock()
	d.open = true
	d.id = id
	d.loading = true
	d.err = nil
	d.mu.Unlock()

	item, err := d.fetch(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if d.id != id {
		// another entity was opened meanwhile
		return err
	}
	if err != nil {
		d.mylog.Action("detail_load_failed").Error("failed to load details", err, "id", id)
		var zero T
		d.item = zero
		d.err = err
		return err
	}
	d.item = item
	return nil
}

// Retry reloads the open entity.
func (d *Detail[T]) Retry(ctx context.Context) error {
	d.mu.Lock()
	id := d.id
	d.mu.Unlock()
	return d.OpenID(ctx, id)
}

// Refresh reloads only if the modal is open on id.
func (d *Detail[T]) Refresh(ctx context.Context, id int64) error {
	d.mu.Lock()
	active := d.open && d.id == id
	d.mu.Unlock()
	if !active {
		return nil
	}
	return d.OpenID(ctx, id)
}

func (d *Detail[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	d.open = false
	d.id = 0
	d.item = zero
	d.err = nil
}

func (d *Detail[T]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Detail[T]) ID() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

func (d *Detail[T]) Item() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.item
}

func (d *Detail[T]) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
