package ports

import (
	"context"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
)

// IEventSubscriber delivers live admin events until ctx is done or the
// connection drops.
type IEventSubscriber interface {
	Subscribe(ctx context.Context, handler func(dto.Event)) error
	Close() error
}
