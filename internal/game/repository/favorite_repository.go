package repository

import (
	"context"
	"time"

	"pairdle-backend/internal/game/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormFavoriteRepository implements FavoriteRepository using GORM
type gormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM-based FavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// Add favorites a puzzle, ignoring duplicates (already-favorited is fine)
func (r *gormFavoriteRepository) Add(ctx context.Context, userID, puzzleID string) error {
	favorite := &domain.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		PuzzleID:  puzzleID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "puzzle_id"}},
		DoNothing: true,
	}).Create(favorite).Error
}

func (r *gormFavoriteRepository) Remove(ctx context.Context, userID, puzzleID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).
		Delete(&domain.Favorite{}).Error
}

func (r *gormFavoriteRepository) ListPuzzles(ctx context.Context, userID string) ([]*domain.Puzzle, error) {
	var puzzles []*domain.Puzzle
	err := r.db.WithContext(ctx).Model(&domain.Puzzle{}).
		Joins("JOIN favorites ON favorites.puzzle_id = puzzles.id").
		Where("favorites.user_id = ?", userID).
		Order("puzzles.date DESC").
		Find(&puzzles).Error
	return puzzles, err
}
