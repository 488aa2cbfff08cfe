package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

const (
	resetRestart = "restart"
	resetNewGame = "new_game"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, state entity.State) error
	GetByID(ctx context.Context, id string) (entity.State, error)
	DeleteByID(ctx context.Context, id string) error
}

type cueDispatcher interface {
	Dispatch(ctx context.Context, events []entity.Event)
}

type gameMetrics interface {
	MoveApplied()
	MoveRejected()
	GameFinished(status string)
	Reset(kind string)
	SessionCreated()
}

// SessionService runs one engine per session. Calls for the same session are serialised.
type SessionService struct {
	logger       *slog.Logger
	sessionRepo  sessionRepo
	cues         cueDispatcher
	metrics      gameMetrics
	presentation config.Presentation

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionService(
	logger *slog.Logger,
	sessionRepo sessionRepo,
	cues cueDispatcher,
	metrics gameMetrics,
	presentation config.Presentation,
) *SessionService {
	return &SessionService{
		logger:       logger.With("component", "session_service"),
		sessionRepo:  sessionRepo,
		cues:         cues,
		metrics:      metrics,
		presentation: presentation,
		locks:        make(map[string]*sync.Mutex),
	}
}

func (that *SessionService) Create(ctx context.Context) (entity.State, error) {
	first, second := that.presentation.Profiles()
	engine := tictactoe.NewEngine(pkg.GenerateSessionID(), first, second)
	state := engine.State()

	if err := that.sessionRepo.CreateOrUpdate(ctx, state); err != nil {
		return entity.State{}, fmt.Errorf("failed to create session: %w", err)
	}

	that.metrics.SessionCreated()
	that.logger.Info("session created", "session", state.ID)

	return state, nil
}

func (that *SessionService) State(ctx context.Context, id string) (entity.State, error) {
	state, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return entity.State{}, fmt.Errorf("failed to get session: %w", err)
	}

	return state, nil
}

// Move applies a move for whoever holds the turn. A rejected move is not an error.
func (that *SessionService) Move(ctx context.Context, id string, cell int) (tictactoe.MoveResult, entity.State, error) {
	log := that.logger.With("method", "Move", "session", id, "cell", cell)

	var result tictactoe.MoveResult

	state, err := that.withEngine(ctx, id, func(engine *tictactoe.Engine) (bool, []entity.Event, error) {
		result = engine.AttemptMove(cell)
		return result.Applied, result.Events(), nil
	})
	if err != nil {
		return tictactoe.MoveResult{}, entity.State{}, err
	}

	if !result.Applied {
		that.metrics.MoveRejected()
		log.Debug("move rejected", "reason", result.Rejection)

		return result, state, nil
	}

	that.metrics.MoveApplied()
	if result.OutcomeChanged {
		that.metrics.GameFinished(string(result.Outcome.Status))
		log.Info("game finished", "status", result.Outcome.Status, "winner", result.Outcome.Winner)
	}

	return result, state, nil
}

// Restart clears the board and keeps the scores.
func (that *SessionService) Restart(ctx context.Context, id string) (entity.State, error) {
	state, err := that.withEngine(ctx, id, func(engine *tictactoe.Engine) (bool, []entity.Event, error) {
		engine.Restart()
		return true, []entity.Event{{Kind: entity.EventRestart}}, nil
	})
	if err != nil {
		return entity.State{}, err
	}

	that.metrics.Reset(resetRestart)

	return state, nil
}

// NewGame clears the board and both scores.
func (that *SessionService) NewGame(ctx context.Context, id string) (entity.State, error) {
	state, err := that.withEngine(ctx, id, func(engine *tictactoe.Engine) (bool, []entity.Event, error) {
		engine.NewGame()
		return true, []entity.Event{{Kind: entity.EventNewGame}}, nil
	})
	if err != nil {
		return entity.State{}, err
	}

	that.metrics.Reset(resetNewGame)

	return state, nil
}

func (that *SessionService) UpdateProfile(ctx context.Context, id string, mark entity.Mark, profile entity.Profile) (entity.State, error) {
	if profile.Avatar != "" && !that.presentation.HasAvatar(profile.Avatar) {
		return entity.State{}, fmt.Errorf("%w: %s", apperror.ErrUnknownAvatar, profile.Avatar)
	}

	state, err := that.withEngine(ctx, id, func(engine *tictactoe.Engine) (bool, []entity.Event, error) {
		if err := engine.SetProfile(mark, profile); err != nil {
			return false, nil, fmt.Errorf("failed to update profile: %w", err)
		}

		return true, nil, nil
	})
	if err != nil {
		return entity.State{}, err
	}

	return state, nil
}

func (that *SessionService) Delete(ctx context.Context, id string) error {
	lock := that.lock(id)
	defer lock.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.forget(id)
	that.logger.Info("session deleted", "session", id)

	return nil
}

// withEngine loads the session, runs fn on it and saves the result when fn reports a change.
// The events fn returns are dispatched while the session is still locked, so cues follow move order.
func (that *SessionService) withEngine(
	ctx context.Context,
	id string,
	fn func(engine *tictactoe.Engine) (bool, []entity.Event, error),
) (entity.State, error) {
	lock := that.lock(id)
	defer lock.Unlock()

	stored, err := that.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.forget(id)
	}

	if err != nil {
		return entity.State{}, fmt.Errorf("failed to get session: %w", err)
	}

	engine := tictactoe.Restore(stored)

	changed, events, err := fn(engine)
	if err != nil {
		return entity.State{}, err
	}

	state := engine.State()
	if !changed {
		return state, nil
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, state); err != nil {
		return entity.State{}, fmt.Errorf("failed to update session: %w", err)
	}

	that.cues.Dispatch(ctx, events)

	return state, nil
}

func (that *SessionService) lock(id string) *sync.Mutex {
	that.mu.Lock()
	lock, ok := that.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[id] = lock
	}
	that.mu.Unlock()

	lock.Lock()

	return lock
}

func (that *SessionService) forget(id string) {
	that.mu.Lock()
	delete(that.locks, id)
	that.mu.Unlock()
}
