package api

import "fmt"

const (
	pathAgents          = "/api/admin/agents"
	pathDriverLevels    = "/api/admin/drivers/levels"
	pathLevelMessages   = "/api/admin/drivers/level-messages"
	pathDriverTrips     = "/api/admin/drivers/trips"
	pathPassengers      = "/api/admin/group-stays/passengers"
	pathOwnerBookings   = "/api/admin/bookings"
	pathGroupStays      = "/api/admin/group-stays/bookings"
	pathPlanRequests    = "/api/admin/plan-with-us/requests"
	pathPayments        = "/api/admin/payments"
	pathPaymentsSummary = "/api/admin/payments/summary"
	pathPaymentsCSV     = "/api/admin/payments/export.csv"
	pathSendOTP         = "/api/auth/send-otp"
	pathVerifyOTP       = "/api/auth/verify-otp"
	pathOnboarding      = "/api/account/onboarding/profile"
)

func item(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}

func action(base string, id int64, name string) string {
	return fmt.Sprintf("%s/%d/%s", base, id, name)
}
