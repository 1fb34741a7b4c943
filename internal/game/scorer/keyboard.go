package scorer

import (
	"strings"

	"pairdle-backend/internal/game/domain"
)

// KeyStatus is the aggregated keyboard hint for one letter
type KeyStatus string

const (
	KeyExact   KeyStatus = "exact"
	KeyPresent KeyStatus = "present"
	KeyAbsent  KeyStatus = "absent"
	KeyUnseen  KeyStatus = "unseen"
)

// KeyboardStatus aggregates one letter's hint across the full guess history.
// Dominance order: exact beats present beats absent beats unseen, so a key
// never downgrades as more guesses come in.
func KeyboardStatus(letter byte, guesses []string, target string) KeyStatus {
	status := KeyUnseen
	inTarget := strings.IndexByte(target, letter) >= 0

	for _, guess := range guesses {
		for i := 0; i < len(guess) && i < domain.WordLength; i++ {
			if guess[i] != letter {
				continue
			}
			if i < len(target) && target[i] == letter {
				return KeyExact
			}
			if inTarget {
				status = KeyPresent
			} else {
				status = KeyAbsent
			}
		}
	}

	return status
}

// KeyboardStatuses returns the hint for every letter that appears in any
// guess; untouched keys are omitted (unseen).
func KeyboardStatuses(guesses []string, target string) map[string]KeyStatus {
	statuses := make(map[string]KeyStatus)
	for letter := byte('A'); letter <= 'Z'; letter++ {
		if status := KeyboardStatus(letter, guesses, target); status != KeyUnseen {
			statuses[string(letter)] = status
		}
	}
	return statuses
}
