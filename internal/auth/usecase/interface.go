package usecase

import (
	"context"

	authdomain "pairdle-backend/internal/auth/domain"
	authdto "pairdle-backend/internal/auth/dto"
)

// AuthUsecase defines the account-facing operations this service exposes.
// Account creation, deletion and partner linking live in an external
// collaborator and are deliberately absent.
type AuthUsecase interface {
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*authdomain.Profile, error)

	RegisterPushSubscription(ctx context.Context, userID string, req *authdto.SubscribeRequest) error
	UnregisterPushSubscription(ctx context.Context, userID, subscriptionID string) error
}
