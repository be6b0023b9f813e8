package game

// Any game that aims to be playable by the searcher implements State. The searcher
// package never sees concrete rules.

// Side identifies a player. NoSide is used for "nobody" (draws, undecided games).
type Side int8

const (
	NoSide Side = iota
	White
	Black
)

func (s Side) Other() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	}
	return NoSide
}

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Outcome of a game: undecided, a win for either side, or a draw.
type Outcome int8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

// Winner returns the winning side, NoSide for draws and undecided games.
func (o Outcome) Winner() Side {
	switch o {
	case WhiteWins:
		return White
	case BlackWins:
		return Black
	}
	return NoSide
}

func (o Outcome) Decided() bool {
	return o != Undecided
}

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	}
	return "*"
}

// WinFor returns the outcome in which side wins.
func WinFor(side Side) Outcome {
	switch side {
	case White:
		return WhiteWins
	case Black:
		return BlackWins
	}
	return Draw
}

// Move is a (from, to) location pair. Implementations must be comparable values so
// moves can be used as equality keys.
type Move interface {
	From() string
	To() string
	String() string
}

// State should be immutable - operations on State always return a new copy
type State interface {
	// Player is the side to move.
	Player() Side
	// LegalMoves enumerates every legal move for side, in a deterministic order. It is
	// empty when side is not to move or the game is over.
	LegalMoves(side Side) []Move
	// Play returns the state after move. The receiver is left unmodified. Playing an
	// illegal move is a contract violation and panics.
	Play(move Move) State
	// IsTerminal reports whether side has no legal continuation or the game is decided.
	IsTerminal(side Side) bool
	Outcome() Outcome
	String() string
}
