package ports

import (
	"context"
	"io"
	"net/url"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
)

// IAuth installs the session token on the shared client.
type IAuth interface {
	ApplyAuth() bool
}

type IAgentsGateway interface {
	ListAgents(ctx context.Context, query url.Values) (dto.Page[model.Agent], error)
	GetAgent(ctx context.Context, id int64) (model.Agent, error)
	UpdateAgentStatus(ctx context.Context, id int64, req dto.AgentStatusRequest) error
}

type IDriverLevelsGateway interface {
	ListDrivers(ctx context.Context, query url.Values) (dto.Page[model.DriverWithLevel], error)
	GetDriver(ctx context.Context, id int64) (model.DriverWithLevel, error)
	ListMessages(ctx context.Context, query url.Values) (dto.Page[model.DriverLevelMessage], error)
	RespondMessage(ctx context.Context, id int64, req dto.RespondMessageRequest) error
	ResolveMessage(ctx context.Context, id int64, req dto.ResolveMessageRequest) error
}

type ITripsGateway interface {
	ListTrips(ctx context.Context, query url.Values) (dto.Page[model.TripRow], error)
	GetTrip(ctx context.Context, id int64) (model.TripDetailsResponse, error)
	AssignTrip(ctx context.Context, id int64, req dto.AssignTripRequest) error
	UnassignTrip(ctx context.Context, id int64, req dto.ReasonRequest) error
	CancelTrip(ctx context.Context, id int64, req dto.ReasonRequest) error
}

type IPassengersGateway interface {
	ListPassengers(ctx context.Context, query url.Values) (dto.Page[model.PassengerRow], error)
}

type IBookingsGateway interface {
	ListOwnerBookings(ctx context.Context, query url.Values) (dto.Page[model.OwnerBooking], error)
	ListGroupStayBookings(ctx context.Context, query url.Values) (dto.Page[model.GroupStayBooking], error)
	ListPlanRequests(ctx context.Context, query url.Values) (dto.Page[model.PlanRequest], error)
}

type IPaymentsGateway interface {
	ListPayments(ctx context.Context, query url.Values) (dto.Page[model.InvoicePayment], error)
	GetPayment(ctx context.Context, id int64) (model.InvoicePayment, error)
	Summary(ctx context.Context, query url.Values) (model.PaymentSummary, error)
	MarkPaid(ctx context.Context, id int64, req dto.MarkPaidRequest) error
	ExportCSV(ctx context.Context, query url.Values) (io.ReadCloser, error)
	ReceiptQR(ctx context.Context, id int64) ([]byte, string, error)
	ReceiptQRURL(id int64) string
}

type IOnboardingGateway interface {
	SendOTP(ctx context.Context, req dto.SendOTPRequest) error
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) error
	SubmitProfile(ctx context.Context, fields map[string]string, files []dto.Upload) (dto.ProfileResponse, error)
}
