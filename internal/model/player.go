package model

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  Color  `json:"color"`
	IsBot  bool   `json:"is_bot"`
	Avatar string `json:"avatar,omitempty"`
	Score  int    `json:"score"`
}

// PlayerSpec describes a seat when a game is created.
type PlayerSpec struct {
	Name  string `json:"name"`
	IsBot bool   `json:"is_bot"`
}

const MaxPlayerNameLength = 50

type GameMode string

const (
	SinglePlayer GameMode = "1P"
	TwoPlayer    GameMode = "2P"
)

func (m GameMode) Valid() bool {
	return m == SinglePlayer || m == TwoPlayer
}
