package dto

import "encoding/json"

const (
	EventJoinAdminRoom      = "join-admin-room"
	EventNewDriverMessage   = "new-driver-level-message"
	EventDriverMessageReply = "driver-level-message-responded"
)

// Event is the frame exchanged on the live admin channel.
type Event struct {
	Type  string          `json:"type"`
	Token string          `json:"token,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type NewDriverMessageEvent struct {
	MessageID  int64  `json:"messageId"`
	DriverID   int64  `json:"driverId"`
	DriverName string `json:"driverName"`
	Subject    string `json:"subject"`
}
