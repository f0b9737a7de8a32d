// Package rules implements Take-Me Chess: move generation without any check
// restriction, move execution, the Take-Me declaration protocol and
// end-of-game evaluation. Every function here is pure; callers own the
// GameState values passed in and receive new ones back.
package rules

import "github.com/benbeisheim/takeme-chess-backend/internal/model"

type direction struct {
	dr, dc int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, bishopDirs...), rookDirs...)
	kingDirs   = queenDirs
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// LegalMoves returns the destinations the piece on from may move to. Kings
// are ordinary pieces: nothing is filtered for leaving a king attacked.
func LegalMoves(b model.Board, from model.Square) []model.Square {
	piece := b.At(from)
	if piece == nil {
		return []model.Square{}
	}
	switch piece.Type {
	case model.Pawn:
		return pawnMoves(b, from, piece.Color)
	case model.Knight:
		return stepMoves(b, from, piece.Color, knightDirs)
	case model.Bishop:
		return slideMoves(b, from, piece.Color, bishopDirs)
	case model.Rook:
		return slideMoves(b, from, piece.Color, rookDirs)
	case model.Queen:
		return slideMoves(b, from, piece.Color, queenDirs)
	case model.King:
		return stepMoves(b, from, piece.Color, kingDirs)
	default:
		return []model.Square{}
	}
}

func pawnForward(color model.Color) int {
	if color == model.White {
		return -1
	}
	return 1
}

func pawnStartRow(color model.Color) int {
	if color == model.White {
		return 6
	}
	return 1
}

func pawnMoves(b model.Board, from model.Square, color model.Color) []model.Square {
	moves := []model.Square{}
	dir := pawnForward(color)

	// Check move forward 1, then 2 from the starting row
	one := from.Offset(dir, 0)
	if one.Valid() && b.At(one) == nil {
		moves = append(moves, one)
		two := from.Offset(2*dir, 0)
		if from.Row == pawnStartRow(color) && two.Valid() && b.At(two) == nil {
			moves = append(moves, two)
		}
	}
	// Diagonal captures only; there is no en passant
	for _, dc := range []int{-1, 1} {
		target := from.Offset(dir, dc)
		if p := b.At(target); p != nil && p.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

func stepMoves(b model.Board, from model.Square, color model.Color, dirs []direction) []model.Square {
	moves := []model.Square{}
	for _, d := range dirs {
		target := from.Offset(d.dr, d.dc)
		if !target.Valid() {
			continue
		}
		if p := b.At(target); p == nil || p.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slideMoves(b model.Board, from model.Square, color model.Color, dirs []direction) []model.Square {
	moves := []model.Square{}
	for _, d := range dirs {
		target := from.Offset(d.dr, d.dc)
		for target.Valid() {
			p := b.At(target)
			if p == nil {
				moves = append(moves, target)
			} else {
				if p.Color != color {
					moves = append(moves, target)
				}
				break
			}
			target = target.Offset(d.dr, d.dc)
		}
	}
	return moves
}

// FilterMustCapture narrows moves to the forced capture squares while a
// must-capture restriction is active, and returns them unchanged otherwise.
func FilterMustCapture(moves []model.Square, tm model.TakeMeState) []model.Square {
	if !tm.MustCapture {
		return moves
	}
	filtered := []model.Square{}
	for _, to := range moves {
		if tm.Capturable(to) {
			filtered = append(filtered, to)
		}
	}
	return filtered
}

// MovesFrom returns the legal destinations for the piece on from in the
// given game, honoring any must-capture restriction.
func MovesFrom(state model.GameState, from model.Square) []model.Square {
	return FilterMustCapture(LegalMoves(state.Board, from), state.TakeMe)
}

// AllMoves enumerates every legal (from, to) pair for color, honoring tm.
func AllMoves(b model.Board, color model.Color, tm model.TakeMeState) []model.SimpleMove {
	moves := []model.SimpleMove{}
	for _, from := range b.Squares(color) {
		for _, to := range FilterMustCapture(LegalMoves(b, from), tm) {
			moves = append(moves, model.SimpleMove{From: from, To: to})
		}
	}
	return moves
}

// HasMove reports whether color has at least one legal move.
func HasMove(b model.Board, color model.Color, tm model.TakeMeState) bool {
	for _, from := range b.Squares(color) {
		if len(FilterMustCapture(LegalMoves(b, from), tm)) > 0 {
			return true
		}
	}
	return false
}

// CaptureTargets returns the squares holding the opponent's pieces that
// attacker can capture in one move, each listed once in row-major order.
func CaptureTargets(b model.Board, attacker model.Color) []model.Square {
	var hit [model.BoardSize][model.BoardSize]bool
	for _, from := range b.Squares(attacker) {
		for _, to := range LegalMoves(b, from) {
			if p := b.At(to); p != nil && p.Color != attacker {
				hit[to.Row][to.Col] = true
			}
		}
	}
	targets := []model.Square{}
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			if hit[row][col] {
				targets = append(targets, model.Square{Row: row, Col: col})
			}
		}
	}
	return targets
}
