package model

// MoveRequest is a move submitted by a client, with or without a Take-Me
// declaration depending on the endpoint or message it arrives on.
type MoveRequest struct {
	From           Square     `json:"from"`
	To             Square     `json:"to"`
	PromotionPiece *PieceType `json:"promotion_piece,omitempty"`
}

type Move struct {
	From           Square     `json:"from"`
	To             Square     `json:"to"`
	Piece          Piece      `json:"piece"`
	CapturedPiece  *Piece     `json:"captured_piece"`
	IsPromotion    bool       `json:"is_promotion"`
	PromotionPiece *PieceType `json:"promotion_piece"`
	Notation       string     `json:"notation"`
	TakeMe         bool       `json:"take_me"`
}

func (m Move) IsCapture() bool {
	return m.CapturedPiece != nil
}

type BotMove struct {
	Move          Move `json:"move"`
	DeclareTakeMe bool `json:"declare_take_me"`
}

func (b BotMove) Request() MoveRequest {
	return MoveRequest{From: b.Move.From, To: b.Move.To, PromotionPiece: b.Move.PromotionPiece}
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type Validation struct {
	Valid      bool     `json:"valid"`
	LegalMoves []Square `json:"legal_moves"`
	Error      string   `json:"error,omitempty"`
}
