package rules

import (
	"fmt"
	"slices"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

// Validate checks a prospective move without applying it. LegalMoves holds
// the destinations available from from, must-capture filtered.
func Validate(state model.GameState, from, to model.Square) model.Validation {
	if state.Status != model.StatusActive {
		return model.Validation{LegalMoves: []model.Square{}, Error: ErrGameNotActive.Error()}
	}
	if !from.Valid() || !to.Valid() {
		return model.Validation{LegalMoves: []model.Square{}, Error: ErrInvalidSquare.Error()}
	}
	piece := state.Board.At(from)
	if piece == nil {
		return model.Validation{LegalMoves: []model.Square{}, Error: ErrNoPieceAtSquare.Error()}
	}
	if piece.Color != state.CurrentTurn {
		return model.Validation{LegalMoves: []model.Square{}, Error: ErrWrongTurnOwner.Error()}
	}
	legal := MovesFrom(state, from)
	if !slices.Contains(legal, to) {
		return model.Validation{LegalMoves: legal, Error: ErrIllegalDestination.Error()}
	}
	return model.Validation{Valid: true, LegalMoves: legal}
}

// ApplyMove plays a plain move. Any pending Take-Me declaration ends with it.
func ApplyMove(state model.GameState, req model.MoveRequest) (model.GameState, error) {
	return transition(state, req, false)
}

// DeclareTakeMe plays a move and declares Take-Me on the resulting position.
// Errors come only from the move itself: a declaration with nothing to
// capture still succeeds, costing the declarer TakeMePenalty points and
// setting TakeWhoMessage.
func DeclareTakeMe(state model.GameState, req model.MoveRequest) (model.GameState, error) {
	return transition(state, req, true)
}

// Play applies a bot decision through the same path as a human move.
func Play(state model.GameState, bm model.BotMove) (model.GameState, error) {
	return transition(state, bm.Request(), bm.DeclareTakeMe)
}

func transition(state model.GameState, req model.MoveRequest, declare bool) (model.GameState, error) {
	move, err := check(state, req)
	if err != nil {
		return state, err
	}
	move.TakeMe = declare
	mover := state.CurrentTurn

	next := state
	next.Board = Apply(state.Board, move)
	next.MoveHistory = append(slices.Clip(state.MoveHistory), move)
	next.Players = slices.Clone(state.Players)
	next.Message = nil
	next.LastMove = &model.SimpleMove{From: move.From, To: move.To}
	next.Sound = model.SoundMove
	if move.IsCapture() {
		next.Players = next.AdjustScore(move.CapturedPiece.Color, CaptureReward)
		next.Sound = model.SoundCapture
	}

	next.TakeMe = model.NoTakeMe()
	if declare {
		tm, ok := Declare(next.Board, mover)
		if ok {
			next.TakeMe = tm
			next.Sound = model.SoundTakeMe
		} else {
			msg := TakeWhoMessage
			next.Message = &msg
			next.Players = next.AdjustScore(mover, -TakeMePenalty)
			next.Sound = model.SoundTakeWho
		}
	}

	next.CurrentTurn = mover.Opposite()
	return Evaluate(next), nil
}

// check runs every validation before anything is mutated and returns the
// move to apply.
func check(state model.GameState, req model.MoveRequest) (model.Move, error) {
	if state.Status != model.StatusActive {
		return model.Move{}, fmt.Errorf("%w: status %s", ErrGameNotActive, state.Status)
	}
	if !req.From.Valid() || !req.To.Valid() {
		return model.Move{}, fmt.Errorf("%w: from %v to %v", ErrInvalidSquare, req.From, req.To)
	}
	piece := state.Board.At(req.From)
	if piece == nil {
		return model.Move{}, fmt.Errorf("%w: %s", ErrNoPieceAtSquare, req.From.Notation())
	}
	if piece.Color != state.CurrentTurn {
		return model.Move{}, fmt.Errorf("%w: %s to move", ErrWrongTurnOwner, state.CurrentTurn)
	}
	if !slices.Contains(LegalMoves(state.Board, req.From), req.To) {
		return model.Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalDestination, req.From.Notation(), req.To.Notation())
	}
	if state.TakeMe.MustCapture && !state.TakeMe.Capturable(req.To) {
		return model.Move{}, fmt.Errorf("%w: must capture exposed piece", ErrIllegalDestination)
	}
	return BuildMove(state.Board, req.From, req.To, req.PromotionPiece)
}
