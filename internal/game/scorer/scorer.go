package scorer

import (
	"errors"

	"pairdle-backend/internal/game/domain"
)

// Verdict is the per-letter scoring outcome for one guess position
type Verdict string

const (
	VerdictExact   Verdict = "exact"   // right letter, right position
	VerdictPresent Verdict = "present" // right letter, wrong position
	VerdictAbsent  Verdict = "absent"  // letter not (or no longer) in the target
)

// ErrInvalidWord rejects inputs that are not exactly five uppercase letters.
var ErrInvalidWord = errors.New("word must be exactly 5 uppercase letters")

// consumed marks a target slot that already matched a guess letter, so a
// duplicate letter in the guess cannot claim it again.
const consumed = 0

// ValidWord reports whether w is exactly five uppercase ASCII letters.
func ValidWord(w string) bool {
	if len(w) != domain.WordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// Score evaluates guess against target letter by letter.
//
// Two passes: exact matches first, each removing its target slot from the
// pool, then present/absent against whatever remains. A single pass would
// double-count duplicate guess letters that exist only once in the target.
func Score(guess, target string) ([]Verdict, error) {
	if !ValidWord(guess) || !ValidWord(target) {
		return nil, ErrInvalidWord
	}

	pool := []byte(target)
	verdicts := make([]Verdict, domain.WordLength)

	for i := 0; i < domain.WordLength; i++ {
		if guess[i] == target[i] {
			verdicts[i] = VerdictExact
			pool[i] = consumed
		}
	}

	for i := 0; i < domain.WordLength; i++ {
		if verdicts[i] == VerdictExact {
			continue
		}
		verdicts[i] = VerdictAbsent
		for j := 0; j < domain.WordLength; j++ {
			if pool[j] == guess[i] {
				verdicts[i] = VerdictPresent
				pool[j] = consumed
				break
			}
		}
	}

	return verdicts, nil
}

// ScoreAll scores every submitted guess. Malformed stored guesses score as
// nil rows rather than failing the whole history.
func ScoreAll(guesses []string, target string) [][]Verdict {
	rows := make([][]Verdict, 0, len(guesses))
	for _, g := range guesses {
		row, err := Score(g, target)
		if err != nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
