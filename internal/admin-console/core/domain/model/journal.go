package model

import "time"

// JournalEntry records one state-changing admin action.
type JournalEntry struct {
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID int64     `json:"entityId"`
	Reason   string    `json:"reason,omitempty"`
	Outcome  string    `json:"outcome"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)
