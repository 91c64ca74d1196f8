package api

import (
	"context"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
)

type OnboardingGateway struct {
	client *apiclient.Client
}

var _ ports.IOnboardingGateway = (*OnboardingGateway)(nil)

func NewOnboardingGateway(client *apiclient.Client) *OnboardingGateway {
	return &OnboardingGateway{client: client}
}

func (g *OnboardingGateway) SendOTP(ctx context.Context, req dto.SendOTPRequest) error {
	return g.client.PostJSON(ctx, pathSendOTP, req, nil)
}

func (g *OnboardingGateway) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) error {
	return g.client.PostJSON(ctx, pathVerifyOTP, req, nil)
}

func (g *OnboardingGateway) SubmitProfile(ctx context.Context, fields map[string]string, files []dto.Upload) (dto.ProfileResponse, error) {
	parts := make([]apiclient.FilePart, 0, len(files))
	for _, f := range files {
		parts = append(parts, apiclient.FilePart{Field: f.Field, Filename: f.Filename, Data: f.Data})
	}

	var resp dto.ProfileResponse
	err := g.client.PostMultipart(ctx, pathOnboarding, fields, parts, &resp)
	return resp, err
}
