package entity

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

// WinCombos are scanned in order: rows, columns, then diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Mark is the symbol placed in a cell. It also identifies the player who owns it.
type Mark string

// Opponent returns the other player's mark. Empty stays empty.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Status string

// Board is the 3x3 grid in row-major order (index = row*3+col).
type Board [BoardSize]Mark

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) InRange(cell int) bool {
	return cell >= 0 && cell < len(that)
}

// Outcome classifies the board. Winner and Line are only set when Status is StatusWon.
type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []int  `json:"line,omitempty"`
}

func InProgress() Outcome {
	return Outcome{Status: StatusInProgress}
}

func (that Outcome) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that Outcome) IsOngoing() bool {
	return that.Status == StatusInProgress
}

// Clone copies the winning line so callers cannot alias it.
func (that Outcome) Clone() Outcome {
	if that.Line != nil {
		that.Line = append([]int(nil), that.Line...)
	}

	return that
}

// State is a read-only snapshot of one game session.
type State struct {
	ID      string    `json:"id,omitempty"`
	Board   Board     `json:"board"`
	Turn    Mark      `json:"turn"`
	Outcome Outcome   `json:"outcome"`
	Players [2]Player `json:"players"`
	Moves   int       `json:"moves"`
}

// Clone returns a deep copy.
func (that State) Clone() State {
	that.Outcome = that.Outcome.Clone()

	return that
}

// Player returns the player owning the given mark.
func (that State) Player(mark Mark) (Player, bool) {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player, true
		}
	}

	return Player{}, false
}

func (that State) Score(mark Mark) int {
	player, _ := that.Player(mark)

	return player.Score
}
