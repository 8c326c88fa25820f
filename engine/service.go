package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rankboard/core"
	"rankboard/leaderboard"
)

// Option configures a RankService.
type Option func(*RankService)

// WithLogger sets the service logger (defaults to slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *RankService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets the sink for operation timings.
func WithObserver(o Observer) Option {
	return func(s *RankService) {
		if o != nil {
			s.observer = o
		}
	}
}

// RankService wires a board, an event bus and an observer into one API.
// Every call holds the service lock for its whole duration, which gives the
// board the exclusive access it expects.
type RankService struct {
	mu       sync.Mutex
	board    *leaderboard.Board
	bus      *EventBus
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

func NewRankService(board *leaderboard.Board, bus *EventBus, opts ...Option) *RankService {
	if board == nil || bus == nil {
		panic("NewRankService requires non-nil board and bus")
	}
	s := &RankService{
		board:    board,
		bus:      bus,
		observer: nopObserver{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe convenience method.
func (s *RankService) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

func (s *RankService) Publish(ctx context.Context, ev core.Event) {
	s.bus.Publish(ctx, ev)
}

// Load replaces the board with the roster from src, keeping its order.
// The board is not sorted; call Sort afterwards.
func (s *RankService) Load(ctx context.Context, src Source) error {
	if src == nil {
		return errors.New("nil roster source")
	}
	records, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.board.Reset(records)
	s.mu.Unlock()

	s.logger.Info("roster loaded", "records", len(records))
	s.bus.Publish(ctx, core.NewRosterLoaded(len(records)))
	return nil
}

// Sort fully re-sorts the board and reports how long it took.
func (s *RankService) Sort(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	start := s.now()
	s.board.Sort()
	took := s.now().Sub(start)
	size := s.board.Len()
	s.mu.Unlock()

	s.observer.ObserveSort(size, took)
	s.logger.Debug("board sorted", "records", size, "took", took)
	s.bus.Publish(ctx, core.NewBoardSorted(size, took))
	return took, nil
}

// UpdateScore assigns a new score to name and repositions it. It returns an
// error wrapping core.ErrNotFound when the name is not on the board.
func (s *RankService) UpdateScore(ctx context.Context, name string, score int64) (leaderboard.Move, error) {
	if err := ctx.Err(); err != nil {
		return leaderboard.Move{}, err
	}
	s.mu.Lock()
	start := s.now()
	m, err := s.board.Update(name, score)
	took := s.now().Sub(start)
	s.mu.Unlock()

	if err != nil {
		s.observer.ObserveUpdate(OutcomeNotFound, took)
		if errors.Is(err, core.ErrNotFound) {
			s.logger.Warn("score update for unknown record", "name", name)
		}
		return leaderboard.Move{}, err
	}

	s.observer.ObserveUpdate(OutcomeOK, took)
	s.logger.Debug("score updated",
		"name", m.Name,
		"old_score", m.OldScore,
		"new_score", m.NewScore,
		"from", m.From,
		"to", m.To,
		"took", took)
	s.bus.Publish(ctx, core.NewScoreUpdated(m.Name, m.OldScore, m.NewScore, m.From, m.To, took))
	return m, nil
}

// Standings returns up to limit leading standings; limit <= 0 means all.
func (s *RankService) Standings(ctx context.Context, limit int) ([]leaderboard.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		return s.board.Entries(), nil
	}
	return s.board.TopN(limit), nil
}

// Lookup returns the current standing for name.
func (s *RankService) Lookup(ctx context.Context, name string) (leaderboard.Standing, error) {
	if err := ctx.Err(); err != nil {
		return leaderboard.Standing{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.board.Get(name)
	if !ok {
		return leaderboard.Standing{}, core.NotFound(name)
	}
	return st, nil
}

// Size reports how many records are on the board.
func (s *RankService) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Len()
}

func (s *RankService) Close() { s.bus.Close() }
