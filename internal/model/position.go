package model

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"
)

// PositionHash returns the canonical key of a position for repetition
// detection: the board layout, the side to move and whether a must-capture
// restriction is in force. Castling and en passant do not exist in this game
// and are always written as "-".
func PositionHash(b Board, toMove Color, mustCapture bool) string {
	side := "w"
	if toMove == Black {
		side = "b"
	}
	layout := b.FEN()
	fen := fmt.Sprintf("%s %s - -", layout, side)

	flag := "0"
	if mustCapture {
		flag = "1"
	}

	hash, err := nchess.NewZobristHasher().HashPosition(fen)
	if err != nil {
		// The layout comes from a well-formed Board, so this only guards
		// against hasher changes; the FEN itself is still a canonical key.
		return fen + ":" + flag
	}
	return hash + ":" + flag
}
