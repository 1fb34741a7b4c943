package feed

import (
	"context"
	"log"
	"sync"

	"pairdle-backend/internal/game/domain"
)

// FetchFunc loads the authoritative puzzle row
type FetchFunc func(ctx context.Context) (*domain.Puzzle, error)

// Reconciler keeps one client's view of a shared puzzle consistent.
// Local mutations apply immediately (optimistic); every change-feed event
// triggers an authoritative refetch which is merged over the local view.
// One reconciler watches one puzzle for one screen lifetime: Close it on
// navigation away.
type Reconciler struct {
	mu       sync.RWMutex
	current  domain.Puzzle
	fetch    FetchFunc
	onUpdate func(domain.Puzzle)

	sub  *Subscription
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewReconciler starts from an already-fetched puzzle snapshot. onUpdate,
// if non-nil, fires after every merge that the watcher applies.
func NewReconciler(initial domain.Puzzle, fetch FetchFunc, onUpdate func(domain.Puzzle)) *Reconciler {
	return &Reconciler{
		current:  initial,
		fetch:    fetch,
		onUpdate: onUpdate,
		done:     make(chan struct{}),
	}
}

// Watch subscribes to the feed and reconciles until Close is called
func (r *Reconciler) Watch(ctx context.Context, f Feed, table string, filter Filter) error {
	sub, err := f.Subscribe(ctx, table, filter)
	if err != nil {
		return err
	}
	r.sub = sub

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.done:
				return
			case change, ok := <-sub.C:
				if !ok {
					return
				}
				r.handleChange(ctx, change)
			}
		}
	}()
	return nil
}

func (r *Reconciler) handleChange(ctx context.Context, change RecordChange) {
	if change.RecordID != "" && change.RecordID != r.Snapshot().ID {
		return
	}

	authoritative, err := r.fetch(ctx)
	if err != nil {
		// Background reconciliation never rolls the view back; the next
		// at-least-once delivery gets another chance.
		log.Printf("[Reconciler] Refetch failed, keeping optimistic view: %v", err)
		return
	}
	if authoritative == nil {
		return
	}

	r.mu.Lock()
	r.current = Merge(r.current, *authoritative)
	merged := r.current
	r.mu.Unlock()

	if r.onUpdate != nil {
		r.onUpdate(merged)
	}
}

// ApplyLocal runs an optimistic mutation against the local view. The mutate
// function returns false to signal a rejected precondition, in which case
// nothing changes and no write should be issued.
func (r *Reconciler) ApplyLocal(mutate func(*domain.Puzzle) bool) (domain.Puzzle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	working := r.current
	if !mutate(&working) {
		return r.current, false
	}
	r.current = working
	return r.current, true
}

// Snapshot returns the client's current view of the puzzle
func (r *Reconciler) Snapshot() domain.Puzzle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Close tears down the feed subscription and stops the watcher
func (r *Reconciler) Close() {
	r.once.Do(func() {
		close(r.done)
		if r.sub != nil {
			r.sub.Close()
		}
	})
	r.wg.Wait()
}

// Merge resolves a locally-optimistic view against the authoritative row.
// Authoritative state wins, with one monotonic carve-out per field class so
// a stale refetch can never un-apply an optimistic mutation:
//   - identity and immutable fields always come from the authoritative row
//   - the longer guess list wins (guesses are append-only)
//   - one-way booleans only ever flip false to true
func Merge(local, authoritative domain.Puzzle) domain.Puzzle {
	merged := authoritative

	if len(local.Guesses) > len(authoritative.Guesses) {
		merged.Guesses = local.Guesses
	}
	merged.IsSolved = authoritative.IsSolved || local.IsSolved
	merged.MessageRequested = authoritative.MessageRequested || local.MessageRequested
	merged.MessageRevealed = authoritative.MessageRevealed || local.MessageRevealed
	merged.MessageViewed = authoritative.MessageViewed || local.MessageViewed

	return merged
}
