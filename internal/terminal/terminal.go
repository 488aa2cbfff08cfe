// Package terminal runs a two-player game on a shared keyboard.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

const (
	keyRestart = 'r'
	keyNewGame = 'n'
	keyQuit    = 'q'
)

const boardSide = 3

type cueDispatcher interface {
	Dispatch(ctx context.Context, events []entity.Event)
}

type Options struct {
	ZeroBased    bool
	Presentation config.Presentation
}

type Game struct {
	logger  *slog.Logger
	engine  *tictactoe.Engine
	cues    cueDispatcher
	options Options

	app     *tview.Application
	board   *tview.Table
	score   *tview.TextView
	status  *tview.TextView
	message *tview.TextView

	ready     chan struct{}
	readyOnce sync.Once
}

func New(logger *slog.Logger, cues cueDispatcher, options Options) *Game {
	first, second := options.Presentation.Profiles()

	game := &Game{
		logger:  logger.With("component", "terminal"),
		engine:  tictactoe.NewEngine("local", first, second),
		cues:    cues,
		options: options,
		app:     tview.NewApplication(),
		board:   tview.NewTable(),
		score:   tview.NewTextView().SetTextAlign(tview.AlignCenter),
		status:  tview.NewTextView().SetTextAlign(tview.AlignCenter),
		message: tview.NewTextView().SetTextAlign(tview.AlignCenter),
		ready:   make(chan struct{}),
	}

	game.board.SetBorders(true).SetSelectable(true, true)
	game.board.SetSelectedFunc(game.selectCell)

	hint := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText(game.hintText())

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(game.score, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(game.board, 4*boardSide+1, 0, true).
			AddItem(nil, 0, 1, false), 2*boardSide+1, 0, true).
		AddItem(game.status, 1, 0, false).
		AddItem(game.message, 1, 0, false).
		AddItem(hint, 2, 0, false)

	game.app.SetRoot(layout, true).SetFocus(game.board)
	game.app.SetInputCapture(game.handleKey)
	game.app.SetAfterDrawFunc(func(tcell.Screen) {
		game.readyOnce.Do(func() { close(game.ready) })
	})

	game.render()

	return game
}

// Run shows the board on screen until a player quits or ctx is done.
// A nil screen opens the controlling terminal.
func (that *Game) Run(ctx context.Context, screen tcell.Screen) error {
	if ctx.Err() != nil {
		return nil
	}

	if screen != nil {
		that.app.SetScreen(screen)
	}

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-that.ready:
		case <-stopped:
			return
		}

		select {
		case <-ctx.Done():
			that.logger.Debug("context canceled, closing the board")
			that.app.Stop()
		case <-stopped:
		}
	}()

	if err := that.app.Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	return nil
}

// State exposes the current snapshot. Not safe while Run is active.
func (that *Game) State() entity.State {
	return that.engine.State()
}

// handleKey consumes the game keys and lets the rest through to the board and tview.
func (that *Game) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}

	switch r := event.Rune(); {
	case r == keyQuit:
		that.app.Stop()
	case r == keyRestart:
		that.engine.Restart()
		that.cues.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventRestart}})
		that.message.SetText("")
		that.render()
	case r == keyNewGame:
		that.engine.NewGame()
		that.cues.Dispatch(context.Background(), []entity.Event{{Kind: entity.EventNewGame}})
		that.message.SetText("")
		that.render()
	case r >= '0' && r <= '9':
		that.play(that.cellForDigit(int(r - '0')))
	default:
		return event
	}

	return nil
}

func (that *Game) selectCell(row, col int) {
	that.play(row*boardSide + col)
}

func (that *Game) play(cell int) {
	result := that.engine.AttemptMove(cell)
	if !result.Applied {
		that.logger.Debug("move rejected", "cell", cell, "reason", result.Rejection)
		that.message.SetText(fmt.Sprintf("Move not allowed: %s", result.Rejection))
		return
	}

	that.cues.Dispatch(context.Background(), result.Events())
	that.message.SetText("")
	that.render()
}

func (that *Game) cellForDigit(digit int) int {
	if that.options.ZeroBased {
		return digit
	}

	return digit - 1
}

func (that *Game) render() {
	state := that.engine.State()

	x, _ := state.Player(entity.PlayerX)
	o, _ := state.Player(entity.PlayerO)
	that.score.SetText(fmt.Sprintf("%s (X) %d : %d %s (O)", x.Name, x.Score, o.Score, o.Name))

	highlighted := make(map[int]bool, len(state.Outcome.Line))
	if that.options.Presentation.AnimationEnabled {
		for _, index := range state.Outcome.Line {
			highlighted[index] = true
		}
	}

	for index, mark := range state.Board {
		cell := tview.NewTableCell(that.cellLabel(mark, index)).
			SetAlign(tview.AlignCenter).
			SetExpansion(1)

		if player, ok := state.Player(mark); ok {
			cell.SetTextColor(tcell.GetColor(player.Color))
		} else {
			cell.SetTextColor(tcell.ColorGray)
		}

		if highlighted[index] {
			cell.SetBackgroundColor(tcell.ColorYellow)
		}

		that.board.SetCell(index/boardSide, index%boardSide, cell)
	}

	that.status.SetText(statusLine(state))
}

func (that *Game) cellLabel(mark entity.Mark, index int) string {
	if mark != entity.EmptyCell {
		return string(mark)
	}

	return fmt.Sprintf("%d", that.digitForCell(index))
}

func (that *Game) digitForCell(index int) int {
	if that.options.ZeroBased {
		return index
	}

	return index + 1
}

func (that *Game) hintText() string {
	sound := "off"
	if that.options.Presentation.SoundEnabled {
		sound = "on"
	}

	return fmt.Sprintf("%d-%d or arrows+enter place · %c restart · %c new game · %c quit\nsound %s",
		that.digitForCell(0), that.digitForCell(entity.BoardSize-1), keyRestart, keyNewGame, keyQuit, sound)
}

func statusLine(state entity.State) string {
	switch state.Outcome.Status {
	case entity.StatusWon:
		winner, _ := state.Player(state.Outcome.Winner)
		return fmt.Sprintf("%s Wins! 🎉 Congratulations! 🎉", winner.Name)
	case entity.StatusDraw:
		return "It's a Draw!"
	default:
		player, _ := state.Player(state.Turn)
		return fmt.Sprintf("%s's Turn", player.Name)
	}
}
