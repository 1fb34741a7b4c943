package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// MaxGuesses bounds the guess list; the sixth miss loses the game.
const MaxGuesses = 6

// WordLength is fixed for every target and guess.
const WordLength = 5

// GameState is derived from the guess list and is_solved flag
type GameState string

const (
	StatePlaying GameState = "playing"
	StateWon     GameState = "won"
	StateLost    GameState = "lost"
)

// GuessList is an append-only sequence of uppercase 5-letter guesses,
// stored as a JSON text column.
type GuessList []string

func (g GuessList) Value() (driver.Value, error) {
	if g == nil {
		g = GuessList{}
	}
	return json.Marshal(g)
}

func (g *GuessList) Scan(value interface{}) error {
	if value == nil {
		*g = GuessList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return errors.New("unsupported guess list column type")
	}
}

// Puzzle is the unit of play for one calendar day between two linked
// accounts. target_word and secret_message are set once at creation and
// never edited; guesses only ever grow; the three message flags only ever
// flip false to true.
type Puzzle struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Date          string    `json:"date" gorm:"uniqueIndex:idx_puzzles_pair_date;not null"` // YYYY-MM-DD in the pair's local day
	SetterID      string    `json:"setter_id" gorm:"uniqueIndex:idx_puzzles_pair_date;index;not null"`
	SolverID      string    `json:"solver_id" gorm:"index;not null"`
	TargetWord    string    `json:"target_word,omitempty" gorm:"not null"`
	Hint          string    `json:"hint,omitempty"`
	SecretMessage string    `json:"secret_message,omitempty"`
	Guesses       GuessList `json:"guesses" gorm:"type:text"`
	IsSolved      bool      `json:"is_solved" gorm:"default:false"`

	// One-way unlock sub-flow, valid only after a loss:
	// Locked -> Requested (solver) -> Revealed (setter) -> Viewed (solver).
	MessageRequested bool `json:"message_requested" gorm:"default:false"`
	MessageRevealed  bool `json:"message_revealed" gorm:"default:false"`
	MessageViewed    bool `json:"message_viewed" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State derives the game progress from the stored fields.
func (p *Puzzle) State() GameState {
	if p.IsSolved {
		return StateWon
	}
	if len(p.Guesses) >= MaxGuesses {
		return StateLost
	}
	return StatePlaying
}

// Terminal reports whether no further guesses are accepted.
func (p *Puzzle) Terminal() bool {
	return p.State() != StatePlaying
}

// Favorite marks a finished puzzle a user wants to keep
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_favorites_user_puzzle;not null"`
	PuzzleID  string    `json:"puzzle_id" gorm:"uniqueIndex:idx_favorites_user_puzzle;not null"`
	CreatedAt time.Time `json:"created_at"`
}
