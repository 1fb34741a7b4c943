package dto

import authdomain "pairdle-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         *authdomain.Profile `json:"user"`
}

// SubscribeRequest is the device registration payload: the opaque delivery
// address plus the base64 VAPID keys, and the device's resolved timezone.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256dh   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
	Timezone string `json:"timezone"`
}
