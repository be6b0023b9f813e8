package player

import (
	"context"
	"time"

	"golang.org/x/exp/rand"

	"stuckfish/experiments/metrics"
	"stuckfish/game"
)

type randomPlayer struct {
	name string
	side game.Side
	rng  *rand.Rand
}

// NewRandom returns a player that picks uniformly among the legal moves.
func NewRandom(name string, side game.Side, seed uint64) Player {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &randomPlayer{
		name: name,
		side: side,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (p *randomPlayer) Name() string {
	return p.name
}

func (p *randomPlayer) Side() game.Side {
	return p.side
}

func (p *randomPlayer) ChooseMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	moves := state.LegalMoves(p.side)
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{StopReason: metrics.StopNoMoves}, ErrNoLegalMoves
	}
	move := moves[p.rng.Intn(len(moves))]
	return move, metrics.SearchMetric{Duration: time.Since(start)}, nil
}
