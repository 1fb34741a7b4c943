// Package engine owns the puzzle state machine: guess submission and the
// one-way secret-message unlock flow. It mutates the in-memory puzzle only;
// persisting an accepted transition is the caller's job. Every precondition
// violation is a silent no-op rather than an error, so stale or duplicate
// UI events can never corrupt a puzzle.
package engine

import (
	"pairdle-backend/internal/game/domain"
	"pairdle-backend/internal/game/scorer"
)

// SubmitResult describes the outcome of one guess submission
type SubmitResult struct {
	// Accepted is false when a precondition failed and nothing changed.
	Accepted bool             `json:"accepted"`
	Guesses  []string         `json:"guesses"`
	State    domain.GameState `json:"state"`
	Verdicts []scorer.Verdict `json:"verdicts,omitempty"`
}

// SubmitGuess appends letters to the puzzle's guess list and advances the
// game state. Preconditions: the game is still playing, the guess list has
// room, and letters is a valid 5-letter uppercase word. The win check runs
// before the loss check, so a matching sixth guess wins.
func SubmitGuess(p *domain.Puzzle, letters string) SubmitResult {
	rejected := SubmitResult{
		Accepted: false,
		Guesses:  p.Guesses,
		State:    p.State(),
	}

	if p.Terminal() || len(p.Guesses) >= domain.MaxGuesses {
		return rejected
	}

	verdicts, err := scorer.Score(letters, p.TargetWord)
	if err != nil {
		return rejected
	}

	p.Guesses = append(p.Guesses, letters)
	if letters == p.TargetWord {
		p.IsSolved = true
	}

	return SubmitResult{
		Accepted: true,
		Guesses:  p.Guesses,
		State:    p.State(),
		Verdicts: verdicts,
	}
}

// RequestUnlock records the solver asking for the secret message after a
// loss. Returns true when the flag flipped; repeated requests are no-ops.
func RequestUnlock(p *domain.Puzzle) bool {
	if p.State() != domain.StateLost || p.MessageRequested {
		return false
	}
	p.MessageRequested = true
	return true
}

// GrantUnlock reveals the secret message. The setter may reveal proactively,
// so this does not require a prior request. Idempotent.
func GrantUnlock(p *domain.Puzzle) bool {
	if p.MessageRevealed {
		return false
	}
	p.MessageRevealed = true
	return true
}

// MarkViewed records the solver's first render of a revealed message.
// Guarded on the current flag so re-renders never issue another write.
func MarkViewed(p *domain.Puzzle) bool {
	if p.State() != domain.StateLost || !p.MessageRevealed || p.MessageViewed {
		return false
	}
	p.MessageViewed = true
	return true
}
