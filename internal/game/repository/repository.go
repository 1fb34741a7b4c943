package repository

import (
	"context"

	"pairdle-backend/internal/game/domain"
)

// PuzzleRepository defines data access for puzzles
type PuzzleRepository interface {
	// Create inserts a new puzzle; fails on a duplicate (setter, date) pair
	Create(ctx context.Context, puzzle *domain.Puzzle) error

	// FindByID returns nil, nil when the puzzle does not exist
	FindByID(ctx context.Context, id string) (*domain.Puzzle, error)

	// FindByDateSolver returns the puzzle a user must solve on a date
	FindByDateSolver(ctx context.Context, date, solverID string) (*domain.Puzzle, error)

	// FindByDateSetter returns the puzzle a user set on a date
	FindByDateSetter(ctx context.Context, date, setterID string) (*domain.Puzzle, error)

	// ExistsForSetter reports whether the user already set a puzzle for the date
	ExistsForSetter(ctx context.Context, date, setterID string) (bool, error)

	// UpdateProgress persists an accepted guess append and the solved flag
	UpdateProgress(ctx context.Context, id string, guesses domain.GuessList, solved bool) error

	// The three message-flag writes are guarded on the current column value
	// so concurrent duplicates collapse into one effective transition.
	RequestMessage(ctx context.Context, id string) error
	RevealMessage(ctx context.Context, id string) error
	MarkMessageViewed(ctx context.Context, id string) error
}

// FavoriteRepository defines data access for favorited puzzles
type FavoriteRepository interface {
	Add(ctx context.Context, userID, puzzleID string) error
	Remove(ctx context.Context, userID, puzzleID string) error
	ListPuzzles(ctx context.Context, userID string) ([]*domain.Puzzle, error)
}
