package repository

import (
	"context"
	"errors"
	"time"

	"pairdle-backend/internal/game/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormPuzzleRepository implements PuzzleRepository using GORM
type gormPuzzleRepository struct {
	db *gorm.DB
}

// NewGormPuzzleRepository creates a new GORM-based PuzzleRepository
func NewGormPuzzleRepository(db *gorm.DB) PuzzleRepository {
	return &gormPuzzleRepository{db: db}
}

func (r *gormPuzzleRepository) Create(ctx context.Context, puzzle *domain.Puzzle) error {
	if puzzle.ID == "" {
		puzzle.ID = uuid.New().String()
	}
	if puzzle.Guesses == nil {
		puzzle.Guesses = domain.GuessList{}
	}
	puzzle.CreatedAt = time.Now()
	puzzle.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(puzzle).Error
}

func (r *gormPuzzleRepository) FindByID(ctx context.Context, id string) (*domain.Puzzle, error) {
	var puzzle domain.Puzzle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&puzzle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &puzzle, nil
}

func (r *gormPuzzleRepository) FindByDateSolver(ctx context.Context, date, solverID string) (*domain.Puzzle, error) {
	return r.findOne(ctx, "date = ? AND solver_id = ?", date, solverID)
}

func (r *gormPuzzleRepository) FindByDateSetter(ctx context.Context, date, setterID string) (*domain.Puzzle, error) {
	return r.findOne(ctx, "date = ? AND setter_id = ?", date, setterID)
}

func (r *gormPuzzleRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Puzzle, error) {
	var puzzle domain.Puzzle
	err := r.db.WithContext(ctx).Where(query, args...).First(&puzzle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &puzzle, nil
}

func (r *gormPuzzleRepository) ExistsForSetter(ctx context.Context, date, setterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Puzzle{}).
		Where("date = ? AND setter_id = ?", date, setterID).
		Count(&count).Error
	return count > 0, err
}

func (r *gormPuzzleRepository) UpdateProgress(ctx context.Context, id string, guesses domain.GuessList, solved bool) error {
	return r.db.WithContext(ctx).Model(&domain.Puzzle{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"guesses":    guesses,
			"is_solved":  solved,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormPuzzleRepository) RequestMessage(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "message_requested")
}

func (r *gormPuzzleRepository) RevealMessage(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "message_revealed")
}

func (r *gormPuzzleRepository) MarkMessageViewed(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "message_viewed")
}

// setFlag flips a one-way boolean. The WHERE guard on the current value
// makes racing duplicate writes converge on the same row state.
func (r *gormPuzzleRepository) setFlag(ctx context.Context, id, column string) error {
	return r.db.WithContext(ctx).Model(&domain.Puzzle{}).
		Where("id = ? AND "+column+" = ?", id, false).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": time.Now(),
		}).Error
}
