package ports

import (
	"context"

	"nolsaf-admin/internal/admin-console/core/domain/model"
)

type IActionJournal interface {
	Record(ctx context.Context, entry model.JournalEntry) error
}

type IDB interface {
	IsAlive() error
	Close() error
}

// IJournalReader lists recorded actions, newest first.
type IJournalReader interface {
	Recent(ctx context.Context, limit int) ([]model.JournalEntry, error)
}
