package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is a record that can be counted by status and printed in a table.
type ReportRow interface {
	RowStatus() string
	RowCells() []string
}

type OwnerBooking struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	GuestName     string          `json:"guestName"`
	PropertyTitle string          `json:"propertyTitle"`
	CheckIn       *time.Time      `json:"checkIn,omitempty"`
	CheckOut      *time.Time      `json:"checkOut,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

var OwnerBookingColumns = []string{"ID", "Code", "Guest", "Property", "Check-in", "Check-out", "Amount", "Status"}

func (b OwnerBooking) RowStatus() string { return b.Status }

func (b OwnerBooking) RowCells() []string {
	return []string{
		fmt.Sprint(b.ID),
		b.Code,
		b.GuestName,
		b.PropertyTitle,
		FormatDate(b.CheckIn),
		FormatDate(b.CheckOut),
		b.TotalAmount.StringFixed(2),
		b.Status,
	}
}

type GroupStayBooking struct {
	ID          int64      `json:"id"`
	GroupType   string     `json:"groupType"`
	Destination string     `json:"toRegion"`
	Headcount   int        `json:"headcount"`
	LeaderName  string     `json:"leaderName"`
	CheckIn     *time.Time `json:"checkIn,omitempty"`
	CheckOut    *time.Time `json:"checkOut,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

var GroupStayColumns = []string{"ID", "Group", "Destination", "Headcount", "Leader", "Check-in", "Check-out", "Status"}

func (b GroupStayBooking) RowStatus() string { return b.Status }

func (b GroupStayBooking) RowCells() []string {
	return []string{
		fmt.Sprint(b.ID),
		b.GroupType,
		b.Destination,
		fmt.Sprint(b.Headcount),
		b.LeaderName,
		FormatDate(b.CheckIn),
		FormatDate(b.CheckOut),
		b.Status,
	}
}

type PlanRequest struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	Role        string    `json:"role"`
	TripType    string    `json:"tripType"`
	Destination string    `json:"destinations"`
	Budget      string    `json:"budget"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

var PlanRequestColumns = []string{"ID", "Name", "Role", "Trip type", "Destination", "Budget", "Status", "Created"}

func (p PlanRequest) RowStatus() string { return p.Status }

func (p PlanRequest) RowCells() []string {
	return []string{
		fmt.Sprint(p.ID),
		p.FullName,
		p.Role,
		p.TripType,
		p.Destination,
		p.Budget,
		p.Status,
		FormatDate(&p.CreatedAt),
	}
}

// FormatDate renders a nullable timestamp as a UTC day.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}
