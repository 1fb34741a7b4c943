package notification

import (
	"context"
	"log"
	"time"

	authrepo "pairdle-backend/internal/auth/repository"
	"pairdle-backend/internal/game/domain"
	gamerepo "pairdle-backend/internal/game/repository"
)

// reminderHour is 8 PM in each profile's local timezone
const reminderHour = 20

// Notifier is the fan-out entry point the sweep delivers through
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, body string) error
}

// ReminderScheduler periodically nudges partners who have not yet set or
// solved today's puzzle. Idempotence is natural: both conditions are
// re-evaluated at query time, so anyone who acted since the last sweep
// simply no longer matches.
type ReminderScheduler struct {
	profileRepo authrepo.ProfileRepository
	puzzleRepo  gamerepo.PuzzleRepository
	notifier    Notifier
	interval    time.Duration
	stopChan    chan struct{}
}

// NewReminderScheduler creates a new scheduler
func NewReminderScheduler(
	profileRepo authrepo.ProfileRepository,
	puzzleRepo gamerepo.PuzzleRepository,
	notifier Notifier,
	interval time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		profileRepo: profileRepo,
		puzzleRepo:  puzzleRepo,
		notifier:    notifier,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *ReminderScheduler) Start() {
	log.Printf("[ReminderSweep] Starting reminder scheduler (interval: %s)", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.SweepAt(context.Background(), time.Now())
			case <-s.stopChan:
				log.Println("[ReminderSweep] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *ReminderScheduler) Stop() {
	close(s.stopChan)
}

// SweepAt runs one reminder pass as of the given instant
func (s *ReminderScheduler) SweepAt(ctx context.Context, now time.Time) {
	profiles, err := s.profileRepo.FindPartnered(ctx)
	if err != nil {
		log.Printf("[ReminderSweep] Error loading partnered profiles: %v", err)
		return
	}

	for _, profile := range profiles {
		loc := time.UTC
		if profile.Timezone != "" {
			if parsed, err := time.LoadLocation(profile.Timezone); err == nil {
				loc = parsed
			}
		}

		localNow := now.In(loc)
		if localNow.Hour() != reminderHour {
			continue
		}
		date := localNow.Format("2006-01-02")

		s.remindSetter(ctx, profile.ID, date)
		s.remindSolver(ctx, profile.ID, date)
	}
}

// remindSetter nudges a user who has not locked in today's puzzle
func (s *ReminderScheduler) remindSetter(ctx context.Context, userID, date string) {
	exists, err := s.puzzleRepo.ExistsForSetter(ctx, date, userID)
	if err != nil {
		log.Printf("[ReminderSweep] Error checking setter %s: %v", userID, err)
		return
	}
	if exists {
		return
	}

	if err := s.notifier.NotifyUser(ctx, userID,
		"Daily Puzzle Reminder ⏰",
		"It's 8 PM! Don't forget to set a puzzle for your partner!",
	); err != nil {
		log.Printf("[ReminderSweep] Error notifying setter %s: %v", userID, err)
	}
}

// remindSolver nudges a user whose puzzle is still winnable and unsolved
func (s *ReminderScheduler) remindSolver(ctx context.Context, userID, date string) {
	puzzle, err := s.puzzleRepo.FindByDateSolver(ctx, date, userID)
	if err != nil {
		log.Printf("[ReminderSweep] Error checking solver %s: %v", userID, err)
		return
	}
	if puzzle == nil || puzzle.IsSolved || len(puzzle.Guesses) >= domain.MaxGuesses {
		return
	}

	if err := s.notifier.NotifyUser(ctx, userID,
		"Your puzzle is waiting 🧩",
		"Your partner's word for today is still unsolved!",
	); err != nil {
		log.Printf("[ReminderSweep] Error notifying solver %s: %v", userID, err)
	}
}
