package api

import (
	"context"
	"net/url"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
)

type BookingsGateway struct {
	client *apiclient.Client
}

var (
	_ ports.IBookingsGateway   = (*BookingsGateway)(nil)
	_ ports.IPassengersGateway = (*BookingsGateway)(nil)
)

func NewBookingsGateway(client *apiclient.Client) *BookingsGateway {
	return &BookingsGateway{client: client}
}

func (g *BookingsGateway) ListPassengers(ctx context.Context, query url.Values) (dto.Page[model.PassengerRow], error) {
	return list[model.PassengerRow](ctx, g.client, pathPassengers, query)
}

func (g *BookingsGateway) ListOwnerBookings(ctx context.Context, query url.Values) (dto.Page[model.OwnerBooking], error) {
	return list[model.OwnerBooking](ctx, g.client, pathOwnerBookings, query)
}

func (g *BookingsGateway) ListGroupStayBookings(ctx context.Context, query url.Values) (dto.Page[model.GroupStayBooking], error) {
	return list[model.GroupStayBooking](ctx, g.client, pathGroupStays, query)
}

func (g *BookingsGateway) ListPlanRequests(ctx context.Context, query url.Values) (dto.Page[model.PlanRequest], error) {
	return list[model.PlanRequest](ctx, g.client, pathPlanRequests, query)
}

func list[T any](ctx context.Context, client *apiclient.Client, path string, query url.Values) (dto.Page[T], error) {
	var page dto.Page[T]
	err := client.GetJSON(ctx, path, query, &page)
	return page, err
}
