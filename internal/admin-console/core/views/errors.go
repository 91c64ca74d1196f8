package views

import "errors"

var (
	ErrBusy            = errors.New("another request for this action is still in flight")
	ErrReasonRequired  = errors.New("a reason is required")
	ErrReasonTooShort  = errors.New("reason is too short")
	ErrInvalidFilter   = errors.New("invalid filter value")
	ErrNothingSelected = errors.New("no rows selected")
	ErrInvalidRange    = errors.New("invalid date range")
)
