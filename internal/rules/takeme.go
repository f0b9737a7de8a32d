package rules

import "github.com/benbeisheim/takeme-chess-backend/internal/model"

const (
	// TakeMePenalty is deducted from a player whose declaration finds
	// nothing to capture.
	TakeMePenalty = 5
	// CaptureReward goes to the owner of a captured piece.
	CaptureReward = 1

	TakeWhoMessage = "take who??"
)

// ExposedPieces returns the squares of color's pieces that at least one
// opposing legal move lands on.
func ExposedPieces(b model.Board, color model.Color) []model.Square {
	exposed := []model.Square{}
	for _, sq := range CaptureTargets(b, color.Opposite()) {
		if p := b.At(sq); p != nil && p.Color == color {
			exposed = append(exposed, sq)
		}
	}
	return exposed
}

// CapturableSquares returns what attacker could capture on its next turn.
func CapturableSquares(b model.Board, attacker model.Color) []model.Square {
	return CaptureTargets(b, attacker)
}

// Declare evaluates a Take-Me declaration made by mover on the position
// after its move. When the opponent has something to capture the Declared
// state is returned with ok set; otherwise the declaration is void and the
// Normal state is returned.
func Declare(after model.Board, mover model.Color) (state model.TakeMeState, ok bool) {
	capturable := CapturableSquares(after, mover.Opposite())
	if len(capturable) == 0 {
		return model.NoTakeMe(), false
	}
	declarer := mover
	return model.TakeMeState{
		Declared:         true,
		Declarer:         &declarer,
		ExposedPieces:    ExposedPieces(after, mover),
		CapturablePieces: capturable,
		MustCapture:      true,
	}, true
}
