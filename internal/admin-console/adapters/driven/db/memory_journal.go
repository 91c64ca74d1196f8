package db

import (
	"context"
	"sync"

	"nolsaf-admin/internal/admin-console/core/domain/model"
)

// MemoryJournal keeps entries in process. It backs the journal when no
// database is configured, so the recent-actions listing still works within
// one session.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []model.JournalEntry
	limit   int
}

func NewMemoryJournal(limit int) *MemoryJournal {
	return &MemoryJournal{limit: limit}
}

func (m *MemoryJournal) Record(_ context.Context, e model.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = m.entries[len(m.entries)-m.limit:]
	}
	return nil
}

func (m *MemoryJournal) Recent(_ context.Context, limit int) ([]model.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]model.JournalEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
