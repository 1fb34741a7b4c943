package usecase

import (
	"context"
	"errors"

	authdomain "pairdle-backend/internal/auth/domain"
	gamedto "pairdle-backend/internal/game/dto"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrNotYours       = errors.New("not your puzzle")
	ErrNoPartner      = errors.New("no linked partner")
	ErrAlreadySet     = errors.New("puzzle already set for this date")
)

// PuzzleUsecase defines the game-facing operations
type PuzzleUsecase interface {
	// CreatePuzzle locks in today's word for the caller's partner
	CreatePuzzle(ctx context.Context, setter *authdomain.Profile, req *gamedto.CreatePuzzleRequest) (*gamedto.PuzzleView, error)

	// GetPuzzle returns the caller's view for a date; role "sent" selects
	// the puzzle they set, anything else the puzzle they must solve.
	GetPuzzle(ctx context.Context, caller *authdomain.Profile, date, role string) (*gamedto.PuzzleView, error)

	// SubmitGuess evaluates and persists one guess. Precondition failures
	// come back as Accepted=false with no write, never as an error.
	SubmitGuess(ctx context.Context, userID, puzzleID, letters string) (*gamedto.GuessResponse, error)

	// Message unlock sub-flow: solver requests, setter grants, the
	// solver's client marks viewed on first render.
	RequestMessage(ctx context.Context, userID, puzzleID string) error
	RevealMessage(ctx context.Context, userID, puzzleID string) error
	MarkMessageViewed(ctx context.Context, userID, puzzleID string) error

	SetFavorite(ctx context.Context, userID, puzzleID string, favored bool) error
	ListFavorites(ctx context.Context, userID string) (*gamedto.FavoritesResponse, error)
}
