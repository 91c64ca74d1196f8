package model

import "time"

type PassengerRow struct {
	ID             int64       `json:"id"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Nationality    string      `json:"nationality"`
	Gender         string      `json:"gender"`
	Age            *int        `json:"age,omitempty"`
	SequenceNumber int         `json:"sequenceNumber"`
	Booking        *BookingRef `json:"booking,omitempty"`
}

func (p PassengerRow) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// BookingRef is a weak reference to the group-stay booking a passenger belongs to.
type BookingRef struct {
	ID          int64      `json:"id"`
	GroupType   string     `json:"groupType"`
	Destination string     `json:"toRegion"`
	CheckIn     *time.Time `json:"checkIn,omitempty"`
	CheckOut    *time.Time `json:"checkOut,omitempty"`
	Status      string     `json:"status"`
}
