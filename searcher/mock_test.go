package searcher

import (
	"fmt"
	"strconv"

	"stuckfish/game"
)

// mockMove adds n to the running total of a counterState.
type mockMove struct {
	n int
}

func (m mockMove) From() string   { return "+" }
func (m mockMove) To() string     { return strconv.Itoa(m.n) }
func (m mockMove) String() string { return "+" + strconv.Itoa(m.n) }

// counterState is a race to target: each turn a player adds 1, 2 or 3 to the total and
// whoever reaches target exactly wins.
type counterState struct {
	total  int
	target int
	player game.Side
}

func newCounter(total, target int) counterState {
	return counterState{total: total, target: target, player: game.White}
}

func (s counterState) Player() game.Side {
	return s.player
}

func (s counterState) LegalMoves(side game.Side) []game.Move {
	if side != s.player || s.total >= s.target {
		return nil
	}
	var moves []game.Move
	for n := 1; n <= 3 && s.total+n <= s.target; n++ {
		moves = append(moves, mockMove{n})
	}
	return moves
}

func (s counterState) Play(move game.Move) game.State {
	m, ok := move.(mockMove)
	if !ok || m.n < 1 || m.n > 3 || s.total+m.n > s.target {
		panic(fmt.Sprintf("illegal move %v at %d", move, s.total))
	}
	return counterState{total: s.total + m.n, target: s.target, player: s.player.Other()}
}

func (s counterState) IsTerminal(side game.Side) bool {
	return s.Outcome().Decided() || len(s.LegalMoves(side)) == 0
}

func (s counterState) Outcome() game.Outcome {
	if s.total == s.target {
		return game.WinFor(s.player.Other())
	}
	return game.Undecided
}

func (s counterState) String() string {
	return fmt.Sprintf("%d/%d %s", s.total, s.target, s.player)
}

// endlessState never ends: the side to move always has two moves that change nothing.
type endlessState struct {
	player game.Side
}

func (s endlessState) Player() game.Side { return s.player }
func (s endlessState) LegalMoves(side game.Side) []game.Move {
	if side != s.player {
		return nil
	}
	return []game.Move{mockMove{1}, mockMove{2}}
}
func (s endlessState) Play(game.Move) game.State      { return endlessState{player: s.player.Other()} }
func (s endlessState) IsTerminal(side game.Side) bool { return false }
func (s endlessState) Outcome() game.Outcome          { return game.Undecided }
func (s endlessState) String() string                 { return "endless " + s.player.String() }

// frozenState has no moves and must never be played.
type frozenState struct{}

func (frozenState) Player() game.Side                { return game.White }
func (frozenState) LegalMoves(game.Side) []game.Move { return nil }
func (frozenState) Play(game.Move) game.State        { panic("frozen state cannot be played") }
func (frozenState) IsTerminal(game.Side) bool        { return true }
func (frozenState) Outcome() game.Outcome            { return game.Draw }
func (frozenState) String() string                   { return "frozen" }
