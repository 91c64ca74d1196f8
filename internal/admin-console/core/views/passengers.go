package views

import (
	"context"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"
)

// PassengerFilters mirrors the passengers filter form. Nothing is sent until
// Submit.
type PassengerFilters struct {
	Q             string
	BookingStatus string
	GroupType     string
	Nationality   string
	Gender        string
}

type PassengersView struct {
	auth ports.IAuth
	List *ListState[model.PassengerRow]
}

func NewPassengersView(gateway ports.IPassengersGateway, auth ports.IAuth, mylog mylogger.Logger) *PassengersView {
	return &PassengersView{
		auth: auth,
		List: NewListState("group_stay_passengers", gateway.ListPassengers, auth, mylog.With("view", "passengers")),
	}
}

func (v *PassengersView) Mount(ctx context.Context) error {
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	return v.List.Load(ctx)
}

// Submit applies the whole form and reloads.
func (v *PassengersView) Submit(ctx context.Context, f PassengerFilters) error {
	v.List.SetFilter("q", strings.TrimSpace(f.Q))
	v.List.SetFilter("bookingStatus", strings.ToUpper(strings.TrimSpace(f.BookingStatus)))
	v.List.SetFilter("groupType", strings.TrimSpace(f.GroupType))
	v.List.SetFilter("nationality", strings.TrimSpace(f.Nationality))
	v.List.SetFilter("gender", strings.TrimSpace(f.Gender))
	v.List.SetPage(1)
	return v.List.Load(ctx)
}
