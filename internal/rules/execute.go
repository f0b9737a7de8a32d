package rules

import (
	"fmt"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

// DefaultPromotion is used whenever a promoting move names no piece.
const DefaultPromotion = model.Queen

// ShouldPromote reports whether piece lands on its last rank at toRow.
func ShouldPromote(piece model.Piece, toRow int) bool {
	if piece.Type != model.Pawn {
		return false
	}
	return (piece.Color == model.White && toRow == 0) ||
		(piece.Color == model.Black && toRow == model.BoardSize-1)
}

// BuildMove describes moving the piece on from to to. It does not check
// legality. An omitted promotion piece becomes a queen; a promotion piece
// on a non-promoting move is dropped.
func BuildMove(b model.Board, from, to model.Square, promotion *model.PieceType) (model.Move, error) {
	piece := b.At(from)
	if piece == nil {
		return model.Move{}, fmt.Errorf("%w: %s", ErrNoPieceAtSquare, from.Notation())
	}
	move := model.Move{
		From:          from,
		To:            to,
		Piece:         *piece,
		CapturedPiece: b.At(to),
	}
	if ShouldPromote(*piece, to.Row) {
		promo := DefaultPromotion
		if promotion != nil {
			if !promotion.CanPromoteTo() {
				return model.Move{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, *promotion)
			}
			promo = *promotion
		}
		move.IsPromotion = true
		move.PromotionPiece = &promo
	}
	move.Notation = Notation(move)
	return move, nil
}

// Apply returns the board after move. The input board is not modified.
func Apply(b model.Board, move model.Move) model.Board {
	piece := b.At(move.From)
	if piece == nil {
		return b
	}
	next := b.Set(move.From, nil)
	if move.IsPromotion {
		promo := DefaultPromotion
		if move.PromotionPiece != nil {
			promo = *move.PromotionPiece
		}
		piece = model.NewPiece(promo, piece.Color)
	}
	return next.Set(move.To, piece)
}

// Notation renders move in short algebraic form, e.g. "e4", "Nxf7", "exd8=Q".
func Notation(move model.Move) string {
	prefix := move.Piece.Type.Notation()
	capture := ""
	if move.CapturedPiece != nil {
		capture = "x"
	}
	pawnFile := ""
	if move.Piece.Type == model.Pawn && move.From.Col != move.To.Col {
		pawnFile = move.From.FileNotation()
	}
	suffix := ""
	if move.IsPromotion && move.PromotionPiece != nil {
		suffix = "=" + move.PromotionPiece.Notation()
	}
	return fmt.Sprintf("%s%s%s%s%s", prefix, pawnFile, capture, move.To.Notation(), suffix)
}
