// Package cue turns game events into named sound cues.
package cue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	Tap     = "tap"
	Switch  = "switch"
	Win     = "win"
	Draw    = "draw"
	Reset   = "reset"
	NewGame = "newgame"
)

// Sink plays a cue. Playback itself lives outside the game.
type Sink interface {
	Play(ctx context.Context, name string) error
}

type Options struct {
	Enabled     bool
	SwitchDelay time.Duration
}

type Dispatcher struct {
	logger  *slog.Logger
	sink    Sink
	options Options

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	closed  bool
}

func NewDispatcher(logger *slog.Logger, sink Sink, options Options) *Dispatcher {
	return &Dispatcher{
		logger:  logger.With("component", "cue"),
		sink:    sink,
		options: options,
		pending: make(map[*time.Timer]struct{}),
	}
}

// Dispatch plays the cues for events in order. The switch cue is delayed.
func (that *Dispatcher) Dispatch(ctx context.Context, events []entity.Event) {
	if !that.options.Enabled {
		return
	}

	for _, event := range events {
		for _, name := range Names(event.Kind) {
			if name == Switch && that.options.SwitchDelay > 0 {
				that.playLater(name)
				continue
			}

			that.play(ctx, name)
		}
	}
}

// Close cancels cues that have not fired yet.
func (that *Dispatcher) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true
	for timer := range that.pending {
		timer.Stop()
	}
	clear(that.pending)
}

// Names maps an event kind to the cues it triggers.
func Names(kind entity.EventKind) []string {
	switch kind {
	case entity.EventMove:
		return []string{Tap}
	case entity.EventTurn:
		return []string{Switch}
	case entity.EventWin:
		return []string{Win}
	case entity.EventDraw:
		return []string{Draw}
	case entity.EventRestart:
		return []string{Reset}
	case entity.EventNewGame:
		return []string{Reset, NewGame}
	default:
		return nil
	}
}

func (that *Dispatcher) play(ctx context.Context, name string) {
	if err := that.sink.Play(ctx, name); err != nil {
		that.logger.Warn("failed to play cue", "cue", name, "error", err)
	}
}

func (that *Dispatcher) playLater(name string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(that.options.SwitchDelay, func() {
		that.mu.Lock()
		delete(that.pending, timer)
		that.mu.Unlock()

		that.play(context.Background(), name)
	})
	that.pending[timer] = struct{}{}
}

// LogSink records cues in the structured log.
type LogSink struct {
	Logger *slog.Logger
}

func (that LogSink) Play(_ context.Context, name string) error {
	that.Logger.Debug("cue", "name", name)

	return nil
}

type beeper interface {
	Beep() error
}

// BellSink rings the terminal bell for every cue.
type BellSink struct {
	logger *slog.Logger
	screen beeper
}

func NewBellSink(logger *slog.Logger, screen beeper) *BellSink {
	return &BellSink{logger: logger, screen: screen}
}

func (that *BellSink) Play(_ context.Context, name string) error {
	if err := that.screen.Beep(); err != nil {
		return fmt.Errorf("failed to ring bell for %s: %w", name, err)
	}

	that.logger.Debug("cue", "name", name)

	return nil
}
