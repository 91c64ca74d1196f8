package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"
)

// MinCancelReason is the shortest reason accepted for cancelling a trip.
const MinCancelReason = 40

// ValidateReason trims reason and checks it has at least min characters
// (min <= 1 means "not empty").
func ValidateReason(reason string, min int) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", ErrReasonRequired
	}
	if n := utf8.RuneCountInString(reason); n < min {
		return "", fmt.Errorf("%w: %d of %d characters", ErrReasonTooShort, n, min)
	}
	return reason, nil
}

// busyFlag disables a control while its request is in flight.
type busyFlag struct {
	mu   sync.Mutex
	busy bool
}

func (b *busyFlag) acquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy {
		return false
	}
	b.busy = true
	return true
}

func (b *busyFlag) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
}

func (b *busyFlag) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// actionError is the inline error of a modal action, kept until dismissed.
type actionError struct {
	mu  sync.Mutex
	err error
}

func (a *actionError) set(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *actionError) Get() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, model.JournalEntry) error { return nil }

func journalOrNop(j ports.IActionJournal) ports.IActionJournal {
	if j == nil {
		return nopJournal{}
	}
	return j
}

// record writes entry to the journal. A journal failure is logged and swallowed.
func record(ctx context.Context, journal ports.IActionJournal, mylog mylogger.Logger, entry model.JournalEntry, actionErr error) {
	entry.Outcome = model.OutcomeSucceeded
	if actionErr != nil {
		entry.Outcome = model.OutcomeFailed
		entry.Detail = actionErr.Error()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	if err := journal.Record(ctx, entry); err != nil {
		mylog.Action("journal_write_failed").Warn("failed to record admin action", "action", entry.Action, "error", err.Error())
	}
}
