package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	authdomain "pairdle-backend/internal/auth/domain"
	"pairdle-backend/internal/game/domain"
)

// fakeProfileRepo serves the partnered-profile query; the rest of the
// interface is unused by the sweep.
type fakeProfileRepo struct {
	profiles []*authdomain.Profile
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id string) (*authdomain.Profile, error) {
	return nil, nil
}
func (r *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*authdomain.Profile, error) {
	return nil, nil
}
func (r *fakeProfileRepo) UpdateTimezone(ctx context.Context, id, timezone string) error { return nil }
func (r *fakeProfileRepo) FindPartnered(ctx context.Context) ([]*authdomain.Profile, error) {
	return r.profiles, nil
}
func (r *fakeProfileRepo) SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error {
	return nil
}
func (r *fakeProfileRepo) FindRefreshToken(ctx context.Context, token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (r *fakeProfileRepo) DeleteRefreshToken(ctx context.Context, token string) error { return nil }

// fakePuzzleRepo backs the sweep's two condition queries
type fakePuzzleRepo struct {
	mu      sync.Mutex
	puzzles []*domain.Puzzle
}

func (r *fakePuzzleRepo) Create(ctx context.Context, p *domain.Puzzle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puzzles = append(r.puzzles, p)
	return nil
}

func (r *fakePuzzleRepo) FindByID(ctx context.Context, id string) (*domain.Puzzle, error) {
	return nil, nil
}

func (r *fakePuzzleRepo) FindByDateSolver(ctx context.Context, date, solverID string) (*domain.Puzzle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.puzzles {
		if p.Date == date && p.SolverID == solverID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePuzzleRepo) FindByDateSetter(ctx context.Context, date, setterID string) (*domain.Puzzle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.puzzles {
		if p.Date == date && p.SetterID == setterID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePuzzleRepo) ExistsForSetter(ctx context.Context, date, setterID string) (bool, error) {
	p, _ := r.FindByDateSetter(ctx, date, setterID)
	return p != nil, nil
}

func (r *fakePuzzleRepo) UpdateProgress(ctx context.Context, id string, guesses domain.GuessList, solved bool) error {
	return nil
}
func (r *fakePuzzleRepo) RequestMessage(ctx context.Context, id string) error    { return nil }
func (r *fakePuzzleRepo) RevealMessage(ctx context.Context, id string) error     { return nil }
func (r *fakePuzzleRepo) MarkMessageViewed(ctx context.Context, id string) error { return nil }

// recordingNotifier captures every (user, title) pair delivered
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) NotifyUser(ctx context.Context, userID, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID+"|"+title)
	return nil
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = nil
}

func (n *recordingNotifier) countFor(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, call := range n.calls {
		if len(call) >= len(userID) && call[:len(userID)] == userID {
			count++
		}
	}
	return count
}

func partner(id string) *string { return &id }

// eightPMUTC is an instant where UTC profiles are inside the reminder hour
var eightPMUTC = time.Date(2026, 8, 27, 20, 30, 0, 0, time.UTC)

func TestSweepRemindsSetterWithoutPuzzle(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: []*authdomain.Profile{
		{ID: "alice", PartnerID: partner("bob"), Timezone: "UTC"},
	}}
	puzzles := &fakePuzzleRepo{}
	notifier := &recordingNotifier{}

	s := NewReminderScheduler(profiles, puzzles, notifier, time.Hour)
	s.SweepAt(context.Background(), eightPMUTC)

	if got := notifier.countFor("alice"); got != 1 {
		t.Fatalf("alice reminded %d times, want 1", got)
	}
}

func TestSweepNaturalIdempotence(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: []*authdomain.Profile{
		{ID: "alice", PartnerID: partner("bob"), Timezone: "UTC"},
	}}
	puzzles := &fakePuzzleRepo{}
	notifier := &recordingNotifier{}

	s := NewReminderScheduler(profiles, puzzles, notifier, time.Hour)
	s.SweepAt(context.Background(), eightPMUTC)
	notifier.reset()

	// Alice sets the puzzle between sweeps; the rerun must skip her.
	puzzles.Create(context.Background(), &domain.Puzzle{
		ID:       "p1",
		Date:     "2026-08-27",
		SetterID: "alice",
		SolverID: "bob",
		IsSolved: true,
	})
	s.SweepAt(context.Background(), eightPMUTC)

	if got := notifier.countFor("alice"); got != 0 {
		t.Fatalf("alice re-notified after setting the puzzle: %d calls", got)
	}
}

func TestSweepRemindsSolverOfOpenPuzzle(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: []*authdomain.Profile{
		{ID: "bob", PartnerID: partner("alice"), Timezone: "UTC"},
	}}
	puzzles := &fakePuzzleRepo{puzzles: []*domain.Puzzle{
		{ID: "p1", Date: "2026-08-27", SetterID: "alice", SolverID: "bob", Guesses: domain.GuessList{"CRANE"}},
		// bob also set his partner's puzzle already: no setter reminder.
		{ID: "p2", Date: "2026-08-27", SetterID: "bob", SolverID: "alice", IsSolved: true},
	}}
	notifier := &recordingNotifier{}

	s := NewReminderScheduler(profiles, puzzles, notifier, time.Hour)
	s.SweepAt(context.Background(), eightPMUTC)

	if got := notifier.countFor("bob"); got != 1 {
		t.Fatalf("bob reminded %d times, want exactly the solve reminder", got)
	}
}

func TestSweepSkipsSolvedAndExhaustedPuzzles(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: []*authdomain.Profile{
		{ID: "bob", PartnerID: partner("alice"), Timezone: "UTC"},
		{ID: "carol", PartnerID: partner("dave"), Timezone: "UTC"},
	}}
	puzzles := &fakePuzzleRepo{puzzles: []*domain.Puzzle{
		{ID: "p1", Date: "2026-08-27", SetterID: "bob", SolverID: "alice"},
		{ID: "p2", Date: "2026-08-27", SetterID: "alice", SolverID: "bob", IsSolved: true},
		{ID: "p3", Date: "2026-08-27", SetterID: "carol", SolverID: "dave"},
		{ID: "p4", Date: "2026-08-27", SetterID: "dave", SolverID: "carol",
			Guesses: domain.GuessList{"AAAAA", "BBBBB", "CCCCC", "DDDDD", "FFFFF", "GGGGG"}},
	}}
	notifier := &recordingNotifier{}

	s := NewReminderScheduler(profiles, puzzles, notifier, time.Hour)
	s.SweepAt(context.Background(), eightPMUTC)

	if got := notifier.countFor("bob"); got != 0 {
		t.Fatalf("bob's puzzle is solved, got %d reminders", got)
	}
	if got := notifier.countFor("carol"); got != 0 {
		t.Fatalf("carol's puzzle is out of guesses, got %d reminders", got)
	}
}

func TestSweepRespectsLocalHour(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: []*authdomain.Profile{
		{ID: "alice", PartnerID: partner("bob"), Timezone: "UTC"},
		// 20:30 UTC is early afternoon in New York: not reminder time yet.
		{ID: "carol", PartnerID: partner("dave"), Timezone: "America/New_York"},
	}}
	puzzles := &fakePuzzleRepo{}
	notifier := &recordingNotifier{}

	s := NewReminderScheduler(profiles, puzzles, notifier, time.Hour)
	s.SweepAt(context.Background(), eightPMUTC)

	if got := notifier.countFor("alice"); got != 1 {
		t.Fatalf("alice (UTC) reminded %d times, want 1", got)
	}
	if got := notifier.countFor("carol"); got != 0 {
		t.Fatalf("carol (EDT) must not be reminded at her 16:30, got %d", got)
	}
}
