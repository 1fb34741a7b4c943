package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"pairdle-backend/internal/game/domain"
	"pairdle-backend/internal/game/engine"
)

// authoritativeStore fakes the durable row both clients fetch from
type authoritativeStore struct {
	mu     sync.Mutex
	puzzle domain.Puzzle
}

func (s *authoritativeStore) set(p domain.Puzzle) {
	s.mu.Lock()
	s.puzzle = p
	s.mu.Unlock()
}

func (s *authoritativeStore) fetch(ctx context.Context) (*domain.Puzzle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.puzzle
	return &p, nil
}

func basePuzzle() domain.Puzzle {
	return domain.Puzzle{
		ID:         "p1",
		Date:       "2026-08-27",
		SetterID:   "setter-1",
		SolverID:   "solver-1",
		TargetWord: "BRAVE",
		Guesses:    domain.GuessList{},
	}
}

func TestReconcilerOptimisticThenAuthoritative(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFeed()
	store := &authoritativeStore{puzzle: basePuzzle()}

	updates := make(chan domain.Puzzle, 8)
	r := NewReconciler(basePuzzle(), store.fetch, func(p domain.Puzzle) {
		updates <- p
	})
	defer r.Close()

	if err := r.Watch(ctx, f, "puzzles", Filter{Column: "solver_id", Value: "solver-1"}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Solver submits a guess: local view advances before any write lands.
	snapshot, applied := r.ApplyLocal(func(p *domain.Puzzle) bool {
		return engine.SubmitGuess(p, "CRANE").Accepted
	})
	if !applied || len(snapshot.Guesses) != 1 {
		t.Fatalf("optimistic apply failed: applied=%v guesses=%d", applied, len(snapshot.Guesses))
	}

	// The durable write commits and the change feed announces it.
	committed := basePuzzle()
	committed.Guesses = domain.GuessList{"CRANE"}
	store.set(committed)
	if err := f.Publish(ctx, RecordChange{
		Table:    "puzzles",
		Event:    EventUpdate,
		RecordID: "p1",
		Fields:   map[string]string{"solver_id": "solver-1"},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case merged := <-updates:
		if len(merged.Guesses) != 1 || merged.Guesses[0] != "CRANE" {
			t.Fatalf("merged view wrong: %+v", merged.Guesses)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reconciliation")
	}
}

func TestReconcilerStaleEventKeepsOptimisticGuess(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFeed()

	// Authoritative store still shows an empty puzzle: the solver's write
	// has not landed yet when a stale event arrives.
	store := &authoritativeStore{puzzle: basePuzzle()}

	updates := make(chan domain.Puzzle, 8)
	r := NewReconciler(basePuzzle(), store.fetch, func(p domain.Puzzle) {
		updates <- p
	})
	defer r.Close()

	if err := r.Watch(ctx, f, "puzzles", Filter{}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	r.ApplyLocal(func(p *domain.Puzzle) bool {
		return engine.SubmitGuess(p, "CRANE").Accepted
	})

	if err := f.Publish(ctx, RecordChange{Table: "puzzles", Event: EventUpdate, RecordID: "p1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case merged := <-updates:
		if len(merged.Guesses) != 1 {
			t.Fatalf("stale refetch must not roll back the optimistic guess: %+v", merged.Guesses)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reconciliation")
	}
}

func TestReconcilerSeesPartnerMutation(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFeed()
	store := &authoritativeStore{puzzle: basePuzzle()}

	updates := make(chan domain.Puzzle, 8)
	r := NewReconciler(basePuzzle(), store.fetch, func(p domain.Puzzle) {
		updates <- p
	})
	defer r.Close()

	if err := r.Watch(ctx, f, "puzzles", Filter{Column: "solver_id", Value: "solver-1"}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	// The setter reveals the message on their device.
	revealed := basePuzzle()
	revealed.MessageRevealed = true
	store.set(revealed)
	if err := f.Publish(ctx, RecordChange{
		Table:    "puzzles",
		Event:    EventUpdate,
		RecordID: "p1",
		Fields:   map[string]string{"solver_id": "solver-1"},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case merged := <-updates:
		if !merged.MessageRevealed {
			t.Fatal("solver view must pick up the setter's reveal")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reconciliation")
	}
}

func TestReconcilerIgnoresOtherRecords(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFeed()
	store := &authoritativeStore{puzzle: basePuzzle()}

	updates := make(chan domain.Puzzle, 8)
	r := NewReconciler(basePuzzle(), store.fetch, func(p domain.Puzzle) {
		updates <- p
	})
	defer r.Close()

	if err := r.Watch(ctx, f, "puzzles", Filter{}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := f.Publish(ctx, RecordChange{Table: "puzzles", Event: EventUpdate, RecordID: "someone-elses"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-updates:
		t.Fatal("event for another record must not trigger a merge")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMergeRules(t *testing.T) {
	local := basePuzzle()
	local.Guesses = domain.GuessList{"CRANE", "BRAVE"}
	local.IsSolved = true

	authoritative := basePuzzle()
	authoritative.Guesses = domain.GuessList{"CRANE"}
	authoritative.MessageRevealed = true

	merged := Merge(local, authoritative)

	if len(merged.Guesses) != 2 {
		t.Fatalf("longer guess list must win, got %d", len(merged.Guesses))
	}
	if !merged.IsSolved {
		t.Fatal("solved flag must not regress")
	}
	if !merged.MessageRevealed {
		t.Fatal("authoritative reveal must carry over")
	}
	if merged.TargetWord != authoritative.TargetWord || merged.ID != "p1" {
		t.Fatal("immutable fields come from the authoritative row")
	}
}

func TestReconcilerCloseTearsDownSubscription(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFeed()
	store := &authoritativeStore{puzzle: basePuzzle()}

	r := NewReconciler(basePuzzle(), store.fetch, nil)
	if err := r.Watch(ctx, f, "puzzles", Filter{}); err != nil {
		t.Fatalf("watch: %v", err)
	}
	r.Close()
	r.Close() // idempotent

	f.mu.Lock()
	remaining := len(f.subscribers)
	f.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("subscription leaked: %d still registered", remaining)
	}
}
