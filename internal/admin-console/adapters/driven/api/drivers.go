package api

import (
	"context"
	"net/url"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
)

type DriverLevelsGateway struct {
	client *apiclient.Client
}

var _ ports.IDriverLevelsGateway = (*DriverLevelsGateway)(nil)

func NewDriverLevelsGateway(client *apiclient.Client) *DriverLevelsGateway {
	return &DriverLevelsGateway{client: client}
}

func (g *DriverLevelsGateway) ListDrivers(ctx context.Context, query url.Values) (dto.Page[model.DriverWithLevel], error) {
	var page dto.Page[model.DriverWithLevel]
	err := g.client.GetJSON(ctx, pathDriverLevels, query, &page)
	return page, err
}

func (g *DriverLevelsGateway) GetDriver(ctx context.Context, id int64) (model.DriverWithLevel, error) {
	var d model.DriverWithLevel
	err := g.client.GetJSON(ctx, item(pathDriverLevels, id), nil, &d)
	return d, err
}

func (g *DriverLevelsGateway) ListMessages(ctx context.Context, query url.Values) (dto.Page[model.DriverLevelMessage], error) {
	var page dto.Page[model.DriverLevelMessage]
	err := g.client.GetJSON(ctx, pathLevelMessages, query, &page)
	return page, err
}

func (g *DriverLevelsGateway) RespondMessage(ctx context.Context, id int64, req dto.RespondMessageRequest) error {
	return g.client.PostJSON(ctx, action(pathLevelMessages, id, "respond"), req, nil)
}

func (g *DriverLevelsGateway) ResolveMessage(ctx context.Context, id int64, req dto.ResolveMessageRequest) error {
	return g.client.PostJSON(ctx, action(pathLevelMessages, id, "resolve"), req, nil)
}

type TripsGateway struct {
	client *apiclient.Client
}

var _ ports.ITripsGateway = (*TripsGateway)(nil)

func NewTripsGateway(client *apiclient.Client) *TripsGateway {
	return &TripsGateway{client: client}
}

func (g *TripsGateway) ListTrips(ctx context.Context, query url.Values) (dto.Page[model.TripRow], error) {
	var page dto.Page[model.TripRow]
	err := g.client.GetJSON(ctx, pathDriverTrips, query, &page)
	return page, err
}

func (g *TripsGateway) GetTrip(ctx context.Context, id int64) (model.TripDetailsResponse, error) {
	var trip model.TripDetailsResponse
	err := g.client.GetJSON(ctx, item(pathDriverTrips, id), nil, &trip)
	return trip, err
}

func (g *TripsGateway) AssignTrip(ctx context.Context, id int64, req dto.AssignTripRequest) error {
	return g.client.PostJSON(ctx, action(pathDriverTrips, id, "assign"), req, nil)
}

func (g *TripsGateway) UnassignTrip(ctx context.Context, id int64, req dto.ReasonRequest) error {
	return g.client.PostJSON(ctx, action(pathDriverTrips, id, "unassign"), req, nil)
}

func (g *TripsGateway) CancelTrip(ctx context.Context, id int64, req dto.ReasonRequest) error {
	return g.client.PostJSON(ctx, action(pathDriverTrips, id, "cancel"), req, nil)
}
