package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]entity.State
}

// NewMemorySessionRepository keeps sessions for the lifetime of the process.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		sessions: make(map[string]entity.State),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, state entity.State) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[state.ID] = state.Clone()

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (entity.State, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	state, ok := that.sessions[id]
	if !ok {
		return entity.State{}, apperror.ErrSessionNotFound
	}

	return state.Clone(), nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}
