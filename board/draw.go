package board

import "github.com/notnil/chess"

// insufficientMaterial reports dead positions where neither side can mate: bare kings,
// a single minor piece, or only bishops with every bishop on the same square colour.
func insufficientMaterial(b *chess.Board) bool {
	minors := 0
	var bishops []chess.Square
	for sq, piece := range b.SquareMap() {
		switch piece.Type() {
		case chess.King:
		case chess.Bishop:
			minors++
			bishops = append(bishops, sq)
		case chess.Knight:
			minors++
		default:
			return false
		}
	}

	if minors <= 1 {
		return true
	}
	if len(bishops) != minors {
		return false
	}
	for _, sq := range bishops[1:] {
		if squareColor(sq) != squareColor(bishops[0]) {
			return false
		}
	}
	return true
}

func squareColor(sq chess.Square) int {
	return (int(sq.File()) + int(sq.Rank())) % 2
}
