package repository

import (
	"context"
	"time"

	authdomain "pairdle-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pushSubscriptionRepository implements PushSubscriptionRepository interface
type pushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPushSubscriptionRepository creates a new instance of pushSubscriptionRepository
func NewPushSubscriptionRepository(db *gorm.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepository{db: db}
}

// Save registers a device endpoint for a user (atomic upsert on endpoint)
func (r *pushSubscriptionRepository) Save(ctx context.Context, sub *authdomain.PushSubscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth", "updated_at"}),
	}).Create(sub).Error
}

func (r *pushSubscriptionRepository) FindByUserID(ctx context.Context, userID string) ([]authdomain.PushSubscription, error) {
	var subs []authdomain.PushSubscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *pushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&authdomain.PushSubscription{}).Error
}

func (r *pushSubscriptionRepository) DeleteByID(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&authdomain.PushSubscription{}).Error
}
