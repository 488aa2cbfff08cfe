package entity

type EventKind string

const (
	EventMove    EventKind = "move"
	EventTurn    EventKind = "turn"
	EventWin     EventKind = "win"
	EventDraw    EventKind = "draw"
	EventRestart EventKind = "restart"
	EventNewGame EventKind = "new_game"
)

// Event tells the presentation layer what just happened so it can play cues.
type Event struct {
	Kind EventKind `json:"kind"`
	Mark Mark      `json:"mark,omitempty"`
	Cell int       `json:"cell"`
}
