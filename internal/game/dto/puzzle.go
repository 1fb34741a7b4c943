package dto

import (
	"pairdle-backend/internal/game/domain"
	"pairdle-backend/internal/game/scorer"
)

type CreatePuzzleRequest struct {
	Word          string `json:"word" binding:"required"`
	Hint          string `json:"hint"`
	SecretMessage string `json:"secret_message" binding:"required"`
	Date          string `json:"date"` // YYYY-MM-DD, defaults to today
}

type GuessRequest struct {
	Letters string `json:"letters" binding:"required"`
}

// PuzzleView is a puzzle as one side is allowed to see it. The target word
// and secret message are redacted for the solver until the rules release
// them.
type PuzzleView struct {
	ID            string                      `json:"id"`
	Date          string                      `json:"date"`
	SetterID      string                      `json:"setter_id"`
	SolverID      string                      `json:"solver_id"`
	TargetWord    string                      `json:"target_word,omitempty"`
	Hint          string                      `json:"hint,omitempty"`
	SecretMessage string                      `json:"secret_message,omitempty"`
	Guesses       []string                    `json:"guesses"`
	Verdicts      [][]scorer.Verdict          `json:"verdicts"`
	Keyboard      map[string]scorer.KeyStatus `json:"keyboard"`
	State         domain.GameState            `json:"state"`
	IsSolved      bool                        `json:"is_solved"`

	MessageRequested bool `json:"message_requested"`
	MessageRevealed  bool `json:"message_revealed"`
	MessageViewed    bool `json:"message_viewed"`
}

type GuessResponse struct {
	Accepted bool             `json:"accepted"`
	State    domain.GameState `json:"state"`
	Verdicts []scorer.Verdict `json:"verdicts,omitempty"`
	Puzzle   *PuzzleView      `json:"puzzle"`
}

type FavoritesResponse struct {
	Received []*PuzzleView `json:"received"`
	Sent     []*PuzzleView `json:"sent"`
}
