package model

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"
)

// BoardSize is the width and height of the board.
const BoardSize = 8

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Notation returns the algebraic prefix for the piece type. Pawns have none.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

// CanPromoteTo reports whether a pawn may become this piece type.
func (p PieceType) CanPromoteTo() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Piece is an immutable value. Boards share *Piece pointers between copies,
// so a piece must never be modified after it is placed.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c}
}

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// Notation returns the algebraic name of the square; row 0 is rank 8.
func (s Square) Notation() string {
	return fmt.Sprintf("%c%d", s.Col+'a', BoardSize-s.Row)
}

func (s Square) FileNotation() string {
	return fmt.Sprintf("%c", s.Col+'a')
}

// Board is an 8x8 grid indexed [row][col]. It is a value type: assigning or
// passing a Board copies the grid, and Set returns a modified copy.
type Board [BoardSize][BoardSize]*Piece

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting arrangement. Black occupies rows 0
// and 1, white rows 6 and 7.
func NewBoard() Board {
	var b Board
	for col := 0; col < BoardSize; col++ {
		b[0][col] = NewPiece(backRank[col], Black)
		b[1][col] = NewPiece(Pawn, Black)
		b[6][col] = NewPiece(Pawn, White)
		b[7][col] = NewPiece(backRank[col], White)
	}
	return b
}

func (b Board) At(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b[sq.Row][sq.Col]
}

func (b Board) Set(sq Square, p *Piece) Board {
	b[sq.Row][sq.Col] = p
	return b
}

// Squares lists the squares holding pieces of the given color in row-major
// order.
func (b Board) Squares(color Color) []Square {
	squares := []Square{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p := b[row][col]; p != nil && p.Color == color {
				squares = append(squares, Square{Row: row, Col: col})
			}
		}
	}
	return squares
}

func (b Board) Count() PieceCount {
	var count PieceCount
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := b[row][col]
			if p == nil {
				continue
			}
			switch p.Color {
			case White:
				count.White++
			case Black:
				count.Black++
			}
		}
	}
	return count
}

// FEN returns the piece-placement field of a FEN string for the board.
func (b Board) FEN() string {
	return b.chessBoard().String()
}

// Draw renders the board as text, white at the bottom.
func (b Board) Draw() string {
	return b.chessBoard().Draw()
}

func (b Board) chessBoard() *nchess.Board {
	squares := make(map[nchess.Square]nchess.Piece)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := b[row][col]
			if p == nil {
				continue
			}
			sq := nchess.NewSquare(nchess.File(col), nchess.Rank(BoardSize-1-row))
			squares[sq] = p.chessPiece()
		}
	}
	return nchess.NewBoard(squares)
}

func (p Piece) chessPiece() nchess.Piece {
	color := nchess.White
	if p.Color == Black {
		color = nchess.Black
	}
	var t nchess.PieceType
	switch p.Type {
	case King:
		t = nchess.King
	case Queen:
		t = nchess.Queen
	case Rook:
		t = nchess.Rook
	case Bishop:
		t = nchess.Bishop
	case Knight:
		t = nchess.Knight
	case Pawn:
		t = nchess.Pawn
	default:
		return nchess.NoPiece
	}
	return nchess.NewPiece(t, color)
}
