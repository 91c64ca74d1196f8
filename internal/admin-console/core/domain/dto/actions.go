package dto

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type AssignTripRequest struct {
	DriverID int64  `json:"driverId"`
	Reason   string `json:"reason"`
}

type RespondMessageRequest struct {
	Response string `json:"response"`
}

type ResolveMessageRequest struct {
	Note string `json:"note,omitempty"`
}

type MarkPaidRequest struct {
	Reference string `json:"paymentRef"`
}

type AgentStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type SendOTPRequest struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type ActionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
