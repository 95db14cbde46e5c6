// Package remote holds the repositories backed by the Skill Tracker REST API.
// Each repository is bound to one workspace's gateway, so every call carries
// that workspace's credential.
package remote

import (
	"context"

	"skilltracker-console/internal/domain/auth"
	"skilltracker-console/internal/gateway"
)

type AuthRepository struct {
	api gateway.Requester
}

func NewAuthRepository(api gateway.Requester) *AuthRepository {
	return &AuthRepository{api: api}
}

func (r *AuthRepository) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	if err := r.api.Post(ctx, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register returns the server's confirmation text.
func (r *AuthRepository) Register(ctx context.Context, req auth.RegisterRequest) (string, error) {
	var confirmation string
	if err := r.api.Post(ctx, "/auth/register", nil, req, &confirmation); err != nil {
		return "", err
	}
	return confirmation, nil
}
