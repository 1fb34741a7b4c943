package domain

import "time"

// Profile is one account. Partner linking, registration and deletion are
// handled by an external collaborator; this service consumes the result.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	PartnerID *string   `json:"partner_id,omitempty" gorm:"index"`
	Timezone  string    `json:"timezone"` // IANA name, e.g. "Europe/Berlin"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
