package cue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (that *recordingSink) Play(_ context.Context, name string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.names = append(that.names, name)

	return that.err
}

func (that *recordingSink) played() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.names...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("Sound disabled plays nothing", func(t *testing.T) {
		// Given: a dispatcher with sound off
		sink := &recordingSink{}
		dispatcher := NewDispatcher(discardLogger(), sink, Options{Enabled: false})
		defer dispatcher.Close()

		// When: dispatching a move
		dispatcher.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventMove}, {Kind: entity.EventWin}})

		// Then: no cue is played
		assert.Empty(t, sink.played())
	})

	t.Run("Winning move plays tap then win", func(t *testing.T) {
		sink := &recordingSink{}
		dispatcher := NewDispatcher(discardLogger(), sink, Options{Enabled: true, SwitchDelay: time.Hour})
		defer dispatcher.Close()

		dispatcher.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventMove}, {Kind: entity.EventWin}})

		assert.Equal(t, []string{Tap, Win}, sink.played())
	})

	t.Run("Switch cue is delayed", func(t *testing.T) {
		// Given: a dispatcher with a short switch delay
		sink := &recordingSink{}
		dispatcher := NewDispatcher(discardLogger(), sink, Options{Enabled: true, SwitchDelay: 10 * time.Millisecond})
		defer dispatcher.Close()

		// When: dispatching a move that switches turns
		dispatcher.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventMove}, {Kind: entity.EventTurn}})

		// Then: tap plays right away and switch follows
		assert.Equal(t, []string{Tap}, sink.played())
		assert.Eventually(t, func() bool {
			return len(sink.played()) == 2
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{Tap, Switch}, sink.played())
	})

	t.Run("Close cancels pending cues", func(t *testing.T) {
		sink := &recordingSink{}
		dispatcher := NewDispatcher(discardLogger(), sink, Options{Enabled: true, SwitchDelay: 20 * time.Millisecond})

		dispatcher.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventTurn}})
		dispatcher.Close()
		dispatcher.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventTurn}})

		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, sink.played())
	})

	t.Run("Sink errors do not stop later cues", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("no speaker")}
		dispatcher := NewDispatcher(discardLogger(), sink, Options{Enabled: true})
		defer dispatcher.Close()

		dispatcher.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventNewGame}})

		assert.Equal(t, []string{Reset, NewGame}, sink.played())
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{Tap}, Names(entity.EventMove))
	assert.Equal(t, []string{Switch}, Names(entity.EventTurn))
	assert.Equal(t, []string{Draw}, Names(entity.EventDraw))
	assert.Equal(t, []string{Reset}, Names(entity.EventRestart))
	assert.Equal(t, []string{Reset, NewGame}, Names(entity.EventNewGame))
	assert.Nil(t, Names("unknown"))
}

type countingBell struct {
	rings int
	err   error
}

func (that *countingBell) Beep() error {
	that.rings++

	return that.err
}

func TestBellSink(t *testing.T) {
	t.Run("Rings once per cue", func(t *testing.T) {
		bell := &countingBell{}
		sink := NewBellSink(discardLogger(), bell)

		require.NoError(t, sink.Play(context.Background(), Win))
		require.NoError(t, sink.Play(context.Background(), Tap))

		assert.Equal(t, 2, bell.rings)
	})

	t.Run("Reports bell failures", func(t *testing.T) {
		bell := &countingBell{err: errors.New("no tty")}
		sink := NewBellSink(discardLogger(), bell)

		err := sink.Play(context.Background(), Draw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "draw")
	})
}
