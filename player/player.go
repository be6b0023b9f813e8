package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"stuckfish/experiments/metrics"
	"stuckfish/game"
	"stuckfish/searcher"
)

// Player kinds accepted by New.
const (
	MCTSPlayer      = "MCTSPlayer"
	RandomPlayer    = "RandomPlayer"
	StuckfishPlayer = "StuckfishPlayer" // Random mover, kept under its historical name
	HumanPlayer     = "HumanPlayer"
)

var (
	// ErrNoLegalMoves is returned when the player's side has nothing to play.
	ErrNoLegalMoves = searcher.ErrNoLegalMoves
	// ErrResigned is returned when a player gives up the game.
	ErrResigned = errors.New("player resigned")
	// ErrUnknownPlayer is returned by New for names it does not know.
	ErrUnknownPlayer = errors.New("unknown player")
)

// Player picks moves for one side of a game.
type Player interface {
	Name() string
	Side() game.Side
	ChooseMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error)
}

type Options struct {
	Search []searcher.Option // Applied to MCTS players
	Seed   uint64            // Random players, 0 seeds from the clock
	In     io.Reader         // Human players, defaults to stdin
	Out    io.Writer         // Human players, defaults to stdout
}

// Names lists the player kinds accepted by New.
func Names() []string {
	return []string{MCTSPlayer, RandomPlayer, StuckfishPlayer, HumanPlayer}
}

func New(name string, side game.Side, opts Options) (Player, error) {
	switch name {
	case MCTSPlayer:
		return NewMCTS(side, opts.Search...), nil
	case RandomPlayer, StuckfishPlayer:
		return NewRandom(name, side, opts.Seed), nil
	case HumanPlayer:
		in, out := opts.In, opts.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return NewHuman(side, in, out), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
}
