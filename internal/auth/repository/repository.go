package repository

import (
	"context"

	authdomain "pairdle-backend/internal/auth/domain"
)

// ProfileRepository defines the interface for account data access
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*authdomain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*authdomain.Profile, error)
	UpdateTimezone(ctx context.Context, id, timezone string) error

	// FindPartnered returns every profile with a linked partner; the
	// reminder sweep only cares about linked pairs.
	FindPartnered(ctx context.Context) ([]*authdomain.Profile, error)

	SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// PushSubscriptionRepository defines the interface for device registrations
type PushSubscriptionRepository interface {
	Save(ctx context.Context, sub *authdomain.PushSubscription) error
	FindByUserID(ctx context.Context, userID string) ([]authdomain.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	DeleteByID(ctx context.Context, userID, id string) error
}
