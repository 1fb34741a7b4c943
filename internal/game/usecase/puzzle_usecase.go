package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	authdomain "pairdle-backend/internal/auth/domain"
	"pairdle-backend/internal/feed"
	"pairdle-backend/internal/game/domain"
	gamedto "pairdle-backend/internal/game/dto"
	"pairdle-backend/internal/game/engine"
	"pairdle-backend/internal/game/repository"
	"pairdle-backend/internal/game/scorer"
	"pairdle-backend/internal/notification"
)

// puzzleUsecase implements PuzzleUsecase
type puzzleUsecase struct {
	puzzleRepo   repository.PuzzleRepository
	favoriteRepo repository.FavoriteRepository
	changeFeed   feed.Feed
	notifier     notification.Notifier

	// Foreground durable writes fail closed after this deadline so the UI
	// can surface a retry prompt instead of hanging.
	writeTimeout time.Duration
}

// NewPuzzleUsecase creates a new instance of puzzleUsecase
func NewPuzzleUsecase(
	puzzleRepo repository.PuzzleRepository,
	favoriteRepo repository.FavoriteRepository,
	changeFeed feed.Feed,
	notifier notification.Notifier,
	writeTimeout time.Duration,
) PuzzleUsecase {
	return &puzzleUsecase{
		puzzleRepo:   puzzleRepo,
		favoriteRepo: favoriteRepo,
		changeFeed:   changeFeed,
		notifier:     notifier,
		writeTimeout: writeTimeout,
	}
}

func (u *puzzleUsecase) CreatePuzzle(ctx context.Context, setter *authdomain.Profile, req *gamedto.CreatePuzzleRequest) (*gamedto.PuzzleView, error) {
	if setter.PartnerID == nil || *setter.PartnerID == "" {
		return nil, ErrNoPartner
	}

	word := strings.ToUpper(strings.TrimSpace(req.Word))
	if !scorer.ValidWord(word) {
		return nil, scorer.ErrInvalidWord
	}

	date := req.Date
	if date == "" {
		date = localToday(setter.Timezone)
	}

	writeCtx, cancel := context.WithTimeout(ctx, u.writeTimeout)
	defer cancel()

	exists, err := u.puzzleRepo.ExistsForSetter(writeCtx, date, setter.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySet
	}

	puzzle := &domain.Puzzle{
		Date:          date,
		SetterID:      setter.ID,
		SolverID:      *setter.PartnerID,
		TargetWord:    word,
		Hint:          strings.TrimSpace(req.Hint),
		SecretMessage: req.SecretMessage,
		Guesses:       domain.GuessList{},
	}
	if err := u.puzzleRepo.Create(writeCtx, puzzle); err != nil {
		return nil, err
	}

	u.publish(puzzle, feed.EventInsert)

	// New-puzzle trigger: tell the solver's devices, fire-and-forget.
	go func(solverID string) {
		notifyCtx, cancel := context.WithTimeout(context.Background(), u.writeTimeout)
		defer cancel()
		if err := u.notifier.NotifyUser(notifyCtx, solverID,
			"New Puzzle! 💌",
			"Your partner sent you a puzzle to solve!",
		); err != nil {
			log.Printf("[Puzzle] New-puzzle notification failed for %s: %v", solverID, err)
		}
	}(puzzle.SolverID)

	return setterView(puzzle), nil
}

func (u *puzzleUsecase) GetPuzzle(ctx context.Context, caller *authdomain.Profile, date, role string) (*gamedto.PuzzleView, error) {
	if date == "" {
		date = localToday(caller.Timezone)
	}

	if role == "sent" {
		puzzle, err := u.puzzleRepo.FindByDateSetter(ctx, date, caller.ID)
		if err != nil {
			return nil, err
		}
		if puzzle == nil {
			return nil, ErrPuzzleNotFound
		}
		return setterView(puzzle), nil
	}

	puzzle, err := u.puzzleRepo.FindByDateSolver(ctx, date, caller.ID)
	if err != nil {
		return nil, err
	}
	if puzzle == nil {
		return nil, ErrPuzzleNotFound
	}
	return solverView(puzzle), nil
}

func (u *puzzleUsecase) SubmitGuess(ctx context.Context, userID, puzzleID, letters string) (*gamedto.GuessResponse, error) {
	puzzle, err := u.puzzleRepo.FindByID(ctx, puzzleID)
	if err != nil {
		return nil, err
	}
	if puzzle == nil {
		return nil, ErrPuzzleNotFound
	}
	if puzzle.SolverID != userID {
		return nil, ErrNotYours
	}

	result := engine.SubmitGuess(puzzle, strings.ToUpper(strings.TrimSpace(letters)))
	if !result.Accepted {
		// Precondition violation: no write, report the unchanged state.
		return &gamedto.GuessResponse{
			Accepted: false,
			State:    result.State,
			Puzzle:   solverView(puzzle),
		}, nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, u.writeTimeout)
	defer cancel()
	if err := u.puzzleRepo.UpdateProgress(writeCtx, puzzle.ID, puzzle.Guesses, puzzle.IsSolved); err != nil {
		return nil, err
	}

	u.publish(puzzle, feed.EventUpdate)

	return &gamedto.GuessResponse{
		Accepted: true,
		State:    result.State,
		Verdicts: result.Verdicts,
		Puzzle:   solverView(puzzle),
	}, nil
}

func (u *puzzleUsecase) RequestMessage(ctx context.Context, userID, puzzleID string) error {
	return u.flipFlag(ctx, userID, puzzleID, flagRequest)
}

func (u *puzzleUsecase) RevealMessage(ctx context.Context, userID, puzzleID string) error {
	return u.flipFlag(ctx, userID, puzzleID, flagReveal)
}

func (u *puzzleUsecase) MarkMessageViewed(ctx context.Context, userID, puzzleID string) error {
	return u.flipFlag(ctx, userID, puzzleID, flagViewed)
}

type messageFlag int

const (
	flagRequest messageFlag = iota
	flagReveal
	flagViewed
)

func (u *puzzleUsecase) flipFlag(ctx context.Context, userID, puzzleID string, flag messageFlag) error {
	puzzle, err := u.puzzleRepo.FindByID(ctx, puzzleID)
	if err != nil {
		return err
	}
	if puzzle == nil {
		return ErrPuzzleNotFound
	}

	// Request and viewed belong to the solver, reveal to the setter.
	var changed bool
	var write func(context.Context, string) error
	switch flag {
	case flagRequest:
		if puzzle.SolverID != userID {
			return ErrNotYours
		}
		changed = engine.RequestUnlock(puzzle)
		write = u.puzzleRepo.RequestMessage
	case flagReveal:
		if puzzle.SetterID != userID {
			return ErrNotYours
		}
		changed = engine.GrantUnlock(puzzle)
		write = u.puzzleRepo.RevealMessage
	case flagViewed:
		if puzzle.SolverID != userID {
			return ErrNotYours
		}
		changed = engine.MarkViewed(puzzle)
		write = u.puzzleRepo.MarkMessageViewed
	}

	// Idempotent no-op: the flag is already where the caller wants it.
	if !changed {
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, u.writeTimeout)
	defer cancel()
	if err := write(writeCtx, puzzle.ID); err != nil {
		return err
	}

	u.publish(puzzle, feed.EventUpdate)
	return nil
}

func (u *puzzleUsecase) SetFavorite(ctx context.Context, userID, puzzleID string, favored bool) error {
	puzzle, err := u.puzzleRepo.FindByID(ctx, puzzleID)
	if err != nil {
		return err
	}
	if puzzle == nil {
		return ErrPuzzleNotFound
	}
	if puzzle.SetterID != userID && puzzle.SolverID != userID {
		return ErrNotYours
	}

	if favored {
		return u.favoriteRepo.Add(ctx, userID, puzzle.ID)
	}
	return u.favoriteRepo.Remove(ctx, userID, puzzle.ID)
}

func (u *puzzleUsecase) ListFavorites(ctx context.Context, userID string) (*gamedto.FavoritesResponse, error) {
	puzzles, err := u.favoriteRepo.ListPuzzles(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &gamedto.FavoritesResponse{
		Received: []*gamedto.PuzzleView{},
		Sent:     []*gamedto.PuzzleView{},
	}
	for _, puzzle := range puzzles {
		if puzzle.SolverID == userID {
			resp.Received = append(resp.Received, solverView(puzzle))
		} else {
			resp.Sent = append(resp.Sent, setterView(puzzle))
		}
	}
	return resp, nil
}

// publish announces a row mutation on the change feed. Feed trouble never
// fails the foreground write; the next event corrects the views.
func (u *puzzleUsecase) publish(puzzle *domain.Puzzle, event string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := u.changeFeed.Publish(ctx, feed.RecordChange{
		Table:    "puzzles",
		Event:    event,
		RecordID: puzzle.ID,
		Fields: map[string]string{
			"setter_id": puzzle.SetterID,
			"solver_id": puzzle.SolverID,
		},
	}); err != nil {
		log.Printf("[Puzzle] Feed publish failed for %s: %v", puzzle.ID, err)
	}
}

func localToday(timezone string) string {
	loc := time.UTC
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}
	return time.Now().In(loc).Format("2006-01-02")
}

// setterView shows everything: the setter chose the word and message
func setterView(p *domain.Puzzle) *gamedto.PuzzleView {
	view := baseView(p)
	view.TargetWord = p.TargetWord
	view.SecretMessage = p.SecretMessage
	return view
}

// solverView redacts the target until the game ends and the secret message
// until it is won or revealed after a loss.
func solverView(p *domain.Puzzle) *gamedto.PuzzleView {
	view := baseView(p)
	if p.Terminal() {
		view.TargetWord = p.TargetWord
	}
	switch {
	case p.State() == domain.StateWon:
		view.SecretMessage = p.SecretMessage
	case p.State() == domain.StateLost && p.MessageRevealed:
		view.SecretMessage = p.SecretMessage
	}
	return view
}

func baseView(p *domain.Puzzle) *gamedto.PuzzleView {
	return &gamedto.PuzzleView{
		ID:               p.ID,
		Date:             p.Date,
		SetterID:         p.SetterID,
		SolverID:         p.SolverID,
		Hint:             p.Hint,
		Guesses:          p.Guesses,
		Verdicts:         scorer.ScoreAll(p.Guesses, p.TargetWord),
		Keyboard:         scorer.KeyboardStatuses(p.Guesses, p.TargetWord),
		State:            p.State(),
		IsSolved:         p.IsSolved,
		MessageRequested: p.MessageRequested,
		MessageRevealed:  p.MessageRevealed,
		MessageViewed:    p.MessageViewed,
	}
}
