package board

import (
	"github.com/notnil/chess"
)

// Move is a chess move between two squares, with an optional promotion piece.
type Move struct {
	from  chess.Square
	to    chess.Square
	promo chess.PieceType
}

func NewMove(from, to chess.Square, promo chess.PieceType) Move {
	return Move{from: from, to: to, promo: promo}
}

func fromChessMove(m *chess.Move) Move {
	return Move{from: m.S1(), to: m.S2(), promo: m.Promo()}
}

func (m Move) matches(cm *chess.Move) bool {
	return m.from == cm.S1() && m.to == cm.S2() && m.promo == cm.Promo()
}

func (m Move) From() string {
	return m.from.String()
}

func (m Move) To() string {
	return m.to.String()
}

func (m Move) FromSquare() chess.Square {
	return m.from
}

func (m Move) ToSquare() chess.Square {
	return m.to
}

// String returns the move in UCI notation, e.g. e2e4 or e7e8q.
func (m Move) String() string {
	s := m.from.String() + m.to.String()
	if m.promo != chess.NoPieceType {
		s += m.promo.String()
	}
	return s
}
