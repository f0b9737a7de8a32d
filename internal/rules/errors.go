package rules

import "errors"

var (
	ErrInvalidSquare      = errors.New("square out of bounds")
	ErrNoPieceAtSquare    = errors.New("no piece at from square")
	ErrWrongTurnOwner     = errors.New("not your turn")
	ErrIllegalDestination = errors.New("invalid move, not legal")
	ErrGameNotActive      = errors.New("game is not active")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
)
