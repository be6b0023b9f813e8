package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/notnil/chess"

	"stuckfish/board"
)

const (
	lightSquare = "#EEEED2"
	darkSquare  = "#769656"
	highlight   = "#BACA44" // Squares of the last move
	whitePiece  = "#FFFFFF"
	blackPiece  = "#000000"
)

// Renderer draws chess positions on a terminal.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer detects the colour profile of w. With noColor the board is plain text.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	if noColor {
		return newRenderer(w, termenv.Ascii)
	}
	return &Renderer{out: termenv.NewOutput(w)}
}

func newRenderer(w io.Writer, profile termenv.Profile) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// Render writes the board followed by a status line.
func (r *Renderer) Render(s *board.State) error {
	_, err := io.WriteString(r.out, r.Board(s)+r.Status(s)+"\n")
	return err
}

// Board returns the position with rank 8 on top.
func (r *Renderer) Board(s *board.State) string {
	last, hasLast := s.LastMove()
	b := s.Board()

	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := chess.NewSquare(chess.File(file), chess.Rank(rank))
			bg := darkSquare
			if (file+rank)%2 == 1 {
				bg = lightSquare
			}
			if hasLast && (sq == last.FromSquare() || sq == last.ToSquare()) {
				bg = highlight
			}
			sb.WriteString(r.square(b.Piece(sq), bg))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  ")
	for file := 0; file < 8; file++ {
		fmt.Fprintf(&sb, " %s ", chess.File(file))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Renderer) square(p chess.Piece, bg string) string {
	style := r.out.String(" " + pieceChar(p) + " ").Background(r.out.Color(bg))
	switch p.Color() {
	case chess.White:
		style = style.Foreground(r.out.Color(whitePiece)).Bold()
	case chess.Black:
		style = style.Foreground(r.out.Color(blackPiece)).Bold()
	}
	return style.String()
}

// Status describes whose turn it is, or how the game ended.
func (r *Renderer) Status(s *board.State) string {
	if outcome := s.Outcome(); outcome.Decided() {
		return fmt.Sprintf("Game over: %s (%s)", outcome, s.Method())
	}
	return fmt.Sprintf("%s to move", s.Player())
}

// pieceChar uses upper case for white pieces, lower case for black, "." for empty squares.
func pieceChar(p chess.Piece) string {
	if p == chess.NoPiece {
		return "."
	}
	c := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(c)
	}
	return c
}
