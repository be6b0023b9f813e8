package board

import (
	"fmt"

	"github.com/notnil/chess"

	"stuckfish/game"
)

// FiftyMoveLimit is the half-move clock value at which the game is drawn.
const FiftyMoveLimit = 100

// State is a chess position implementing game.State. It is immutable: Play returns a
// new State and never touches the receiver.
type State struct {
	pos     *chess.Position
	moves   []game.Move
	outcome game.Outcome
	last    *Move
}

var _ game.State = (*State)(nil)

// New returns the standard starting position.
func New() *State {
	return newState(chess.StartingPosition(), nil)
}

// FromFEN decodes a position in Forsyth-Edwards Notation.
func FromFEN(fen string) (*State, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("decode fen %q: %w", fen, err)
	}
	return newState(chess.NewGame(opt).Position(), nil), nil
}

func newState(pos *chess.Position, last *Move) *State {
	s := &State{pos: pos, last: last}

	switch pos.Status() {
	case chess.Checkmate:
		s.outcome = game.WinFor(toSide(pos.Turn()).Other())
	case chess.Stalemate:
		s.outcome = game.Draw
	default:
		if pos.HalfMoveClock() >= FiftyMoveLimit || insufficientMaterial(pos.Board()) {
			s.outcome = game.Draw
		}
	}

	if !s.outcome.Decided() {
		valid := pos.ValidMoves()
		s.moves = make([]game.Move, len(valid))
		for i, m := range valid {
			s.moves[i] = fromChessMove(m)
		}
	}
	return s
}

func toSide(c chess.Color) game.Side {
	switch c {
	case chess.White:
		return game.White
	case chess.Black:
		return game.Black
	}
	return game.NoSide
}

func (s *State) Player() game.Side {
	return toSide(s.pos.Turn())
}

func (s *State) LegalMoves(side game.Side) []game.Move {
	if side != s.Player() || len(s.moves) == 0 {
		return nil
	}
	moves := make([]game.Move, len(s.moves))
	copy(moves, s.moves)
	return moves
}

func (s *State) Play(move game.Move) game.State {
	m, ok := move.(Move)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	for _, cm := range s.pos.ValidMoves() {
		if m.matches(cm) {
			return newState(s.pos.Update(cm), &m)
		}
	}
	panic(fmt.Sprintf("illegal move %s in position %s", m, s.pos))
}

func (s *State) IsTerminal(side game.Side) bool {
	if s.outcome.Decided() {
		return true
	}
	return side == s.Player() && len(s.moves) == 0
}

func (s *State) Outcome() game.Outcome {
	return s.outcome
}

// Method returns how the game ended, chess.NoMethod while it is undecided.
func (s *State) Method() chess.Method {
	if status := s.pos.Status(); status != chess.NoMethod {
		return status
	}
	switch {
	case !s.outcome.Decided():
		return chess.NoMethod
	case s.pos.HalfMoveClock() >= FiftyMoveLimit:
		return chess.FiftyMoveRule
	}
	return chess.InsufficientMaterial
}

// Board exposes the piece placement for rendering.
func (s *State) Board() *chess.Board {
	return s.pos.Board()
}

// LastMove returns the move that produced this position, if any.
func (s *State) LastMove() (Move, bool) {
	if s.last == nil {
		return Move{}, false
	}
	return *s.last, true
}

// String returns the FEN of the position.
func (s *State) String() string {
	return s.pos.String()
}
