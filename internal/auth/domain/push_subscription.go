package domain

import "time"

// PushSubscription is one registered Web Push endpoint for one account.
// Each endpoint maps to exactly one browser instance; once the delivery
// provider reports it gone it is deleted and never retried.
type PushSubscription struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dh    string    `json:"p256dh" gorm:"not null"` // base64 encryption key
	Auth      string    `json:"auth" gorm:"not null"`   // base64 auth secret
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
