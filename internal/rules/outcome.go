package rules

import (
	"slices"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

// RepetitionLimit is the number of occurrences of one position that draws
// the game.
const RepetitionLimit = 3

// Repetitions counts how often hash occurs in history.
func Repetitions(history []string, hash string) int {
	count := 0
	for _, h := range history {
		if h == hash {
			count++
		}
	}
	return count
}

// Evaluate settles the status of a freshly transitioned game. Board, turn
// and take-me state must already describe the new position. The position
// hash is appended to the history whatever the outcome. Checks run in
// order and the first match wins:
//
//  1. a side with no pieces left: the other side's player wins
//  2. the side to move has no legal move: that side's player wins
//  3. third occurrence of the position: draw
func Evaluate(state model.GameState) model.GameState {
	hash := model.PositionHash(state.Board, state.CurrentTurn, state.TakeMe.MustCapture)
	state.PositionHistory = append(slices.Clip(state.PositionHistory), hash)
	state.PieceCount = state.Board.Count()
	state.Winner = nil

	switch {
	case state.PieceCount.White == 0:
		state = declareWinner(state, model.Black)
	case state.PieceCount.Black == 0:
		state = declareWinner(state, model.White)
	case !HasMove(state.Board, state.CurrentTurn, state.TakeMe):
		// Being stuck wins, the reverse of an orthodox stalemate.
		state = declareWinner(state, state.CurrentTurn)
	case Repetitions(state.PositionHistory, hash) >= RepetitionLimit:
		state.Status = model.StatusDraw
	default:
		state.Status = model.StatusActive
	}
	return state
}

func declareWinner(state model.GameState, color model.Color) model.GameState {
	state.Status = model.StatusWin
	if p, ok := state.Player(color); ok {
		state.Winner = &p
	}
	return state
}

// Results builds the per-player records for a finished game. It returns
// nil while the game is still in progress.
func Results(state model.GameState) []model.Result {
	if !state.Status.Terminal() {
		return nil
	}
	results := make([]model.Result, 0, len(state.Players))
	for _, p := range state.Players {
		outcome := model.OutcomeDraw
		if state.Status == model.StatusWin {
			outcome = model.OutcomeLoss
			if state.Winner != nil && state.Winner.Color == p.Color {
				outcome = model.OutcomeWin
			}
		}
		results = append(results, model.Result{
			Player:  p,
			Mode:    state.Mode,
			Outcome: outcome,
			Score:   p.Score,
		})
	}
	return results
}
