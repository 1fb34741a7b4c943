package scorer

import "testing"

func TestKeyboardStatusDominance(t *testing.T) {
	target := "BRAVE"
	guesses := []string{"RADIO", "BRAIN"}

	// R was present in RADIO, then exact in BRAIN: exact wins and sticks.
	if got := KeyboardStatus('R', guesses, target); got != KeyExact {
		t.Fatalf("R: got %s, want exact", got)
	}
	// A scored somewhere in the word both times but never in place.
	if got := KeyboardStatus('A', []string{"RADIO"}, target); got != KeyPresent {
		t.Fatalf("A: got %s, want present", got)
	}
	if got := KeyboardStatus('D', guesses, target); got != KeyAbsent {
		t.Fatalf("D: got %s, want absent", got)
	}
	if got := KeyboardStatus('Z', guesses, target); got != KeyUnseen {
		t.Fatalf("Z: got %s, want unseen", got)
	}
}

func TestKeyboardStatusNeverDowngrades(t *testing.T) {
	target := "BRAVE"

	// B exact in guess one, then out-of-place in guess two.
	guesses := []string{"BONUS", "ABBEY"}
	if got := KeyboardStatus('B', guesses, target); got != KeyExact {
		t.Fatalf("B: got %s, want exact after earlier exact hit", got)
	}

	// Same history in the opposite order must aggregate identically.
	reversed := []string{"ABBEY", "BONUS"}
	if got := KeyboardStatus('B', reversed, target); got != KeyExact {
		t.Fatalf("B reversed: got %s, want exact", got)
	}
}

func TestKeyboardStatuses(t *testing.T) {
	statuses := KeyboardStatuses([]string{"CRANE"}, "BRAVE")

	want := map[string]KeyStatus{
		"C": KeyAbsent,
		"R": KeyExact,
		"A": KeyExact,
		"N": KeyAbsent,
		"E": KeyExact,
	}
	if len(statuses) != len(want) {
		t.Fatalf("got %d statuses, want %d: %v", len(statuses), len(want), statuses)
	}
	for letter, status := range want {
		if statuses[letter] != status {
			t.Errorf("%s: got %s, want %s", letter, statuses[letter], status)
		}
	}
}
