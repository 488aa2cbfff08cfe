package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wonState(id string) entity.State {
	return entity.State{
		ID: id,
		Board: entity.Board{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		},
		Turn:    entity.PlayerX,
		Outcome: entity.Outcome{Status: entity.StatusWon, Winner: entity.PlayerX, Line: []int{0, 1, 2}},
		Players: [2]entity.Player{
			{Mark: entity.PlayerX, Name: "Player 1", Avatar: "person.circle.fill", Color: "red", Score: 1},
			{Mark: entity.PlayerO, Name: "Player 2", Avatar: "person.circle", Color: "green"},
		},
		Moves: 5,
	}
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, time.Hour)

	// Given: a finished session
	state := wonState("123")

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, state)

	// Then: no error should be returned, and the key carries the TTL
	require.NoError(t, err)
	assert.True(t, st.Redis.Exists("session:123"))
	assert.Equal(t, time.Hour, st.Redis.TTL("session:123"))
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Hour)

		// Given: a stored session
		state := wonState("123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, state))

		// When: GetByID is called with existing ID
		retrieved, err := sessionRepo.GetByID(ctx, state.ID)

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		require.Equal(t, state, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Hour)

		// When: GetByID is called with non-existent ID
		retrieved, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Empty(t, retrieved.ID)
	})

	t.Run("GetByID_Expired", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// Given: a session whose TTL has passed
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, wonState("123")))
		st.Redis.FastForward(2 * time.Minute)

		// When: GetByID is called
		_, err := sessionRepo.GetByID(ctx, "123")

		// Then: the session is gone
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Hour)

		// Given: a stored session
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, wonState("123")))

		// When: DeleteByID is called with existing ID
		err := sessionRepo.DeleteByID(ctx, "123")

		// Then: no error should be returned and the session is gone
		require.NoError(t, err)

		_, err = sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Hour)

		// When: DeleteByID is called with non-existent ID
		err := sessionRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
