package views

import (
	"sync"
	"time"
)

// ToastTTL is how long a live notification stays visible.
const ToastTTL = 5 * time.Second

// Toast is a single auto-dismissing notification slot.
type Toast struct {
	mu       sync.Mutex
	text     string
	visible  bool
	timer    *time.Timer
	gen      uint64
	onChange func(text string, visible bool)
}

// OnChange registers a callback fired when the toast appears or disappears.
func (t *Toast) OnChange(fn func(text string, visible bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Show replaces the current toast and schedules its dismissal after ttl.
func (t *Toast) Show(text string, ttl time.Duration) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.text = text
	t.visible = true
	t.timer = time.AfterFunc(ttl, func() { t.dismiss(gen) })
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(text, true)
	}
}

func (t *Toast) Dismiss() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.dismiss(gen)
}

// dismiss hides the toast shown as generation gen. A timer that fired while a
// newer Show held the lock finds a different generation and does nothing.
func (t *Toast) dismiss(gen uint64) {
	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	wasVisible := t.visible
	text := t.text
	t.visible = false
	t.text = ""
	cb := t.onChange
	t.mu.Unlock()

	if wasVisible && cb != nil {
		cb(text, false)
	}
}

func (t *Toast) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text, t.visible
}
