package api

import (
	"context"
	"net/url"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
)

type AgentsGateway struct {
	client *apiclient.Client
}

var _ ports.IAgentsGateway = (*AgentsGateway)(nil)

func NewAgentsGateway(client *apiclient.Client) *AgentsGateway {
	return &AgentsGateway{client: client}
}

func (g *AgentsGateway) ListAgents(ctx context.Context, query url.Values) (dto.Page[model.Agent], error) {
	var page dto.Page[model.Agent]
	err := g.client.GetJSON(ctx, pathAgents, query, &page)
	return page, err
}

func (g *AgentsGateway) GetAgent(ctx context.Context, id int64) (model.Agent, error) {
	var agent model.Agent
	err := g.client.GetJSON(ctx, item(pathAgents, id), nil, &agent)
	return agent, err
}

func (g *AgentsGateway) UpdateAgentStatus(ctx context.Context, id int64, req dto.AgentStatusRequest) error {
	return g.client.PostJSON(ctx, action(pathAgents, id, "status"), req, nil)
}
