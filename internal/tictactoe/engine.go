package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrGameFinished = errors.New("game is already finished")
	ErrUnknownMark  = errors.New("unknown player mark")
)

// MoveResult describes what AttemptMove did. A rejected move leaves the engine
// untouched; Rejection only says why.
type MoveResult struct {
	Applied        bool           `json:"applied"`
	Cell           int            `json:"cell"`
	Mark           entity.Mark    `json:"mark,omitempty"`
	Outcome        entity.Outcome `json:"outcome"`
	NextTurn       entity.Mark    `json:"next_turn"`
	OutcomeChanged bool           `json:"outcome_changed"`
	TurnChanged    bool           `json:"turn_changed"`
	Rejection      error          `json:"-"`
}

// Events lists what the presentation layer should react to, in order.
func (that MoveResult) Events() []entity.Event {
	if !that.Applied {
		return nil
	}

	events := []entity.Event{{Kind: entity.EventMove, Mark: that.Mark, Cell: that.Cell}}

	switch {
	case that.OutcomeChanged && that.Outcome.Status == entity.StatusWon:
		events = append(events, entity.Event{Kind: entity.EventWin, Mark: that.Outcome.Winner, Cell: that.Cell})
	case that.OutcomeChanged && that.Outcome.Status == entity.StatusDraw:
		events = append(events, entity.Event{Kind: entity.EventDraw, Cell: that.Cell})
	case that.TurnChanged:
		events = append(events, entity.Event{Kind: entity.EventTurn, Mark: that.NextTurn, Cell: that.Cell})
	}

	return events
}

// Engine owns one board, the turn pointer, the outcome and both scores.
// It is not safe for concurrent use.
type Engine struct {
	id      string
	board   entity.Board
	turn    entity.Mark
	outcome entity.Outcome
	players [2]entity.Player
	moves   int
}

func NewEngine(id string, first, second entity.Profile) *Engine {
	engine := &Engine{
		id: id,
		players: [2]entity.Player{
			entity.NewPlayer(entity.PlayerX, first),
			entity.NewPlayer(entity.PlayerO, second),
		},
	}
	engine.Restart()

	return engine
}

// Restore rebuilds an engine from a snapshot previously returned by State.
func Restore(state entity.State) *Engine {
	state = state.Clone()

	engine := &Engine{
		id:      state.ID,
		board:   state.Board,
		turn:    state.Turn,
		outcome: state.Outcome,
		players: state.Players,
		moves:   state.Moves,
	}

	if engine.turn == entity.EmptyCell {
		engine.turn = entity.PlayerX
	}

	if engine.outcome.Status == "" {
		engine.outcome = entity.InProgress()
	}

	return engine
}

func (that *Engine) AttemptMove(cell int) MoveResult {
	result := MoveResult{
		Cell:     cell,
		Outcome:  that.outcome.Clone(),
		NextTurn: that.turn,
	}

	if rejection := that.validateMove(cell); rejection != nil {
		result.Rejection = rejection
		return result
	}

	mark := that.turn
	that.board[cell] = mark
	that.moves++

	that.updateOutcome()

	if that.outcome.IsOngoing() {
		that.turn = mark.Opponent()
	}

	result.Applied = true
	result.Mark = mark
	result.Outcome = that.outcome.Clone()
	result.NextTurn = that.turn
	result.OutcomeChanged = that.outcome.IsFinished()
	result.TurnChanged = that.turn != mark

	return result
}

// Restart clears the board and hands the turn back to X. Scores survive.
func (that *Engine) Restart() {
	that.board = entity.Board{}
	that.turn = entity.PlayerX
	that.outcome = entity.InProgress()
	that.moves = 0
}

// NewGame restarts and zeroes both scores.
func (that *Engine) NewGame() {
	that.Restart()

	for i := range that.players {
		that.players[i].Score = 0
	}
}

// SetProfile changes the cosmetic attributes of one player. Scores are never touched.
func (that *Engine) SetProfile(mark entity.Mark, profile entity.Profile) error {
	for i := range that.players {
		if that.players[i].Mark == mark {
			that.players[i].Apply(profile)
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownMark, mark)
}

func (that *Engine) State() entity.State {
	return entity.State{
		ID:      that.id,
		Board:   that.board,
		Turn:    that.turn,
		Outcome: that.outcome,
		Players: that.players,
		Moves:   that.moves,
	}.Clone()
}

// validateMove - checks if the move is valid.
func (that *Engine) validateMove(cell int) error {
	if that.outcome.IsFinished() {
		return ErrGameFinished
	}

	if !that.board.InRange(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	return nil
}

// updateOutcome - evaluates the board after a move and credits the winner once.
func (that *Engine) updateOutcome() {
	that.outcome = CheckGameStatus(that.board)

	if that.outcome.Status != entity.StatusWon {
		return
	}

	for i := range that.players {
		if that.players[i].Mark == that.outcome.Winner {
			that.players[i].Score++
		}
	}
}

// CheckGameStatus classifies a board. The first winning pattern in scan order decides.
func CheckGameStatus(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Outcome{
				Status: entity.StatusWon,
				Winner: a,
				Line:   []int{combo[0], combo[1], combo[2]},
			}
		}
	}

	if board.IsFull() {
		return entity.Outcome{Status: entity.StatusDraw}
	}

	return entity.InProgress()
}
