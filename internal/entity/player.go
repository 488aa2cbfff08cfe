package entity

// Player holds the scoreboard entry for one side of the board.
// Name, Avatar and Color are presentation-only.
type Player struct {
	Mark   Mark   `json:"mark"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
	Score  int    `json:"score"`
}

// Profile is the cosmetic part of a player. Empty fields mean "leave as is".
type Profile struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Color  string `json:"color,omitempty"`
}

func NewPlayer(mark Mark, profile Profile) Player {
	return Player{
		Mark:   mark,
		Name:   profile.Name,
		Avatar: profile.Avatar,
		Color:  profile.Color,
	}
}

func (that *Player) Apply(profile Profile) {
	if profile.Name != "" {
		that.Name = profile.Name
	}

	if profile.Avatar != "" {
		that.Avatar = profile.Avatar
	}

	if profile.Color != "" {
		that.Color = profile.Color
	}
}
