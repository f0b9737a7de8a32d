// Package bot picks moves for the computer player. Its goal is the game's:
// shed pieces. It looks one ply ahead only.
package bot

import (
	"math/rand"
	"sync"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
	"github.com/benbeisheim/takeme-chess-backend/internal/rules"
)

type Strategy struct {
	mu    sync.Mutex
	rng   *rand.Rand
	names *rand.Rand // seat names and avatars; never touches move picks
}

// NewStrategy returns a Strategy drawing its choices from rng. Equal seeds
// give equal games, however many bot seats are named in between.
func NewStrategy(rng *rand.Rand) *Strategy {
	return &Strategy{
		rng:   rng,
		names: rand.New(rand.NewSource(rng.Int63())),
	}
}

// NewSeededStrategy is shorthand for a Strategy over rand.NewSource(seed).
func NewSeededStrategy(seed int64) *Strategy {
	return NewStrategy(rand.New(rand.NewSource(seed)))
}

// ComputeMove chooses a move for the side to move in state.
func (s *Strategy) ComputeMove(state model.GameState) (model.BotMove, bool) {
	return s.Choose(state.Board, state.CurrentTurn, state.TakeMe)
}

// Choose picks a move for color. Captures are preferred over quiet moves;
// within the chosen group the pick is uniform. Take-Me is declared only when
// the opponent will have a capture after the move, so the bot never pays
// the void-declaration penalty. ok is false when color has no legal move.
func (s *Strategy) Choose(b model.Board, color model.Color, tm model.TakeMeState) (model.BotMove, bool) {
	var captures, quiet []model.SimpleMove
	for _, mv := range rules.AllMoves(b, color, tm) {
		if target := b.At(mv.To); target != nil && target.Color != color {
			captures = append(captures, mv)
		} else {
			quiet = append(quiet, mv)
		}
	}

	pool := captures
	if len(pool) == 0 {
		pool = quiet
	}
	if len(pool) == 0 {
		return model.BotMove{}, false
	}

	choice := pool[s.intn(len(pool))]
	move, err := rules.BuildMove(b, choice.From, choice.To, nil)
	if err != nil {
		return model.BotMove{}, false
	}

	after := rules.Apply(b, move)
	declare := len(rules.CapturableSquares(after, color.Opposite())) > 0
	move.TakeMe = declare
	return model.BotMove{Move: move, DeclareTakeMe: declare}, true
}

func (s *Strategy) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
