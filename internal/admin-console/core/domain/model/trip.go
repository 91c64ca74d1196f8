package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TripStatus string

const (
	TripPending            TripStatus = "PENDING"
	TripAssigned           TripStatus = "ASSIGNED"
	TripAccepted           TripStatus = "ACCEPTED"
	TripConfirmed          TripStatus = "CONFIRMED"
	TripArrivedPickup      TripStatus = "ARRIVED_PICKUP"
	TripPickedUp           TripStatus = "PICKED_UP"
	TripInTransit          TripStatus = "IN_TRANSIT"
	TripInProgress         TripStatus = "IN_PROGRESS"
	TripArrivedDestination TripStatus = "ARRIVED_DESTINATION"
	TripDroppedOff         TripStatus = "DROPPED_OFF"
	TripCompleted          TripStatus = "COMPLETED"
	TripCanceled           TripStatus = "CANCELED"
)

// TripStatuses lists every status in lifecycle order.
var TripStatuses = []TripStatus{
	TripPending,
	TripAssigned,
	TripAccepted,
	TripConfirmed,
	TripArrivedPickup,
	TripPickedUp,
	TripInTransit,
	TripInProgress,
	TripArrivedDestination,
	TripDroppedOff,
	TripCompleted,
	TripCanceled,
}

func (s TripStatus) Valid() bool {
	for _, v := range TripStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Icon is the short status marker used in tables.
func (s TripStatus) Icon() string {
	switch s {
	case TripPending:
		return "…"
	case TripAssigned, TripAccepted, TripConfirmed:
		return "•"
	case TripArrivedPickup, TripPickedUp, TripInTransit, TripInProgress, TripArrivedDestination:
		return "→"
	case TripDroppedOff, TripCompleted:
		return "✓"
	case TripCanceled:
		return "✗"
	}
	return "?"
}

type TripRow struct {
	ID              int64           `json:"id"`
	TripCode        string          `json:"tripCode"`
	Driver          *PersonRef      `json:"driver,omitempty"`
	Passenger       *PersonRef      `json:"passenger,omitempty"`
	PickupLocation  string          `json:"pickupLocation"`
	DropoffLocation string          `json:"dropoffLocation"`
	ScheduledAt     *time.Time      `json:"scheduledAt,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          TripStatus      `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (t TripRow) DriverName() string {
	if t.Driver == nil {
		return ""
	}
	return t.Driver.Name
}

type TripDetailsResponse struct {
	TripRow
	Notes            string            `json:"notes"`
	AssignmentAudits []AssignmentAudit `json:"assignmentAudits"`
}

type AssignmentAudit struct {
	ID               int64     `json:"id"`
	Action           string    `json:"action"`
	Reason           string    `json:"reason"`
	AdminName        string    `json:"adminName"`
	PreviousDriverID *int64    `json:"previousDriverId,omitempty"`
	NewDriverID      *int64    `json:"newDriverId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
