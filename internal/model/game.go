package model

import (
	"slices"
	"time"
)

type GameStatus string

const (
	StatusSetup  GameStatus = "setup"
	StatusActive GameStatus = "active"
	StatusWin    GameStatus = "win"
	StatusDraw   GameStatus = "draw"
)

func (s GameStatus) Terminal() bool {
	return s == StatusWin || s == StatusDraw
}

// Sounds are hints for the client's audio cues.
const (
	SoundMove    = "move"
	SoundCapture = "capture"
	SoundTakeMe  = "takeMe"
	SoundTakeWho = "takeWho"
)

// TakeMeState tracks a Take-Me declaration. While Declared is set,
// MustCapture is true exactly when CapturablePieces is non-empty; when not
// declared both square sets are empty.
type TakeMeState struct {
	Declared         bool     `json:"declared"`
	Declarer         *Color   `json:"declarer"`
	ExposedPieces    []Square `json:"exposed_pieces"`
	CapturablePieces []Square `json:"capturable_pieces"`
	MustCapture      bool     `json:"must_capture"`
}

// NoTakeMe is the Normal state.
func NoTakeMe() TakeMeState {
	return TakeMeState{
		ExposedPieces:    []Square{},
		CapturablePieces: []Square{},
	}
}

// Capturable reports whether sq is one of the squares the side to move is
// forced to capture on.
func (t TakeMeState) Capturable(sq Square) bool {
	return slices.Contains(t.CapturablePieces, sq)
}

type PieceCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

func (c PieceCount) Of(color Color) int {
	if color == White {
		return c.White
	}
	return c.Black
}

// GameState is replaced wholesale on every accepted action. MoveHistory and
// PositionHistory only grow: transitions append to a clipped copy so that an
// older snapshot never observes a newer element.
type GameState struct {
	ID              string      `json:"id"`
	Mode            GameMode    `json:"game_mode"`
	Board           Board       `json:"board"`
	CurrentTurn     Color       `json:"current_turn"`
	Players         []Player    `json:"players"`
	Status          GameStatus  `json:"status"`
	Winner          *Player     `json:"winner"`
	TakeMe          TakeMeState `json:"take_me_state"`
	MoveHistory     []Move      `json:"move_history"`
	PositionHistory []string    `json:"position_history"`
	PieceCount      PieceCount  `json:"piece_count"`
	Message         *string     `json:"message"`
	Sound           string      `json:"sound"`
	LastMove        *SimpleMove `json:"last_move"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewGameState sets up an active game in the standard starting position.
// The first player takes white and the second black.
func NewGameState(id string, mode GameMode, white, black Player, now time.Time) GameState {
	white.Color = White
	black.Color = Black
	board := NewBoard()
	return GameState{
		ID:              id,
		Mode:            mode,
		Board:           board,
		CurrentTurn:     White,
		Players:         []Player{white, black},
		Status:          StatusActive,
		TakeMe:          NoTakeMe(),
		MoveHistory:     []Move{},
		PositionHistory: []string{PositionHash(board, White, false)},
		PieceCount:      board.Count(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Player returns the player holding the given color.
func (g GameState) Player(color Color) (Player, bool) {
	for _, p := range g.Players {
		if p.Color == color {
			return p, true
		}
	}
	return Player{}, false
}

// AdjustScore returns the players with delta added to the score of the
// player holding color. The receiver's slice is left untouched.
func (g GameState) AdjustScore(color Color, delta int) []Player {
	players := slices.Clone(g.Players)
	for i := range players {
		if players[i].Color == color {
			players[i].Score += delta
		}
	}
	return players
}

// BotToMove reports whether the side to move is played by the bot.
func (g GameState) BotToMove() bool {
	p, ok := g.Player(g.CurrentTurn)
	return ok && p.IsBot
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Result is the per-player record emitted when a game ends.
type Result struct {
	Player  Player   `json:"player"`
	Mode    GameMode `json:"game_mode"`
	Outcome Outcome  `json:"outcome"`
	Score   int      `json:"score"`
}
