package usecase

import (
	"context"
	"errors"
	"time"

	authdomain "pairdle-backend/internal/auth/domain"
	authdto "pairdle-backend/internal/auth/dto"
	"pairdle-backend/internal/auth/repository"
	"pairdle-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	profileRepo repository.ProfileRepository
	subRepo     repository.PushSubscriptionRepository
	config      *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(profileRepo repository.ProfileRepository, subRepo repository.PushSubscriptionRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		profileRepo: profileRepo,
		subRepo:     subRepo,
		config:      cfg,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	profile, err := u.profileRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("invalid email or password")
	}
	if !repository.CheckPasswordHash(req.Password, profile.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.generateTokens(ctx, profile)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	stored, err := u.profileRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	profile, err := u.profileRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("user not found")
	}

	return u.generateTokens(ctx, profile)
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	return u.profileRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Profile, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	profile, err := u.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("user not found")
	}
	return profile, nil
}

func (u *authUsecase) RegisterPushSubscription(ctx context.Context, userID string, req *authdto.SubscribeRequest) error {
	sub := &authdomain.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.P256dh,
		Auth:     req.Auth,
	}
	if err := u.subRepo.Save(ctx, sub); err != nil {
		return err
	}

	// The device's resolved timezone drives the 8 PM reminder sweep.
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err == nil {
			return u.profileRepo.UpdateTimezone(ctx, userID, req.Timezone)
		}
	}
	return nil
}

func (u *authUsecase) UnregisterPushSubscription(ctx context.Context, userID, subscriptionID string) error {
	return u.subRepo.DeleteByID(ctx, userID, subscriptionID)
}

func (u *authUsecase) generateTokens(ctx context.Context, profile *authdomain.Profile) (*authdto.TokenResponse, error) {
	accessToken, err := u.signToken(jwt.MapClaims{
		"user_id": profile.ID,
		"email":   profile.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.signToken(jwt.MapClaims{
		"user_id":  profile.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := u.profileRepo.SaveRefreshToken(ctx, &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    profile.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         profile,
	}, nil
}

func (u *authUsecase) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}
