package player

import (
	"context"

	"stuckfish/experiments/metrics"
	"stuckfish/game"
	"stuckfish/searcher"
)

type mctsPlayer struct {
	side game.Side
	mcts *searcher.MCTS
}

// NewMCTS returns a player that runs a fresh tree search for every move. Search
// metrics are always collected.
func NewMCTS(side game.Side, options ...searcher.Option) Player {
	options = append(options, searcher.WithMetrics())
	return &mctsPlayer{
		side: side,
		mcts: searcher.NewMCTS(options...),
	}
}

func (p *mctsPlayer) Name() string {
	return MCTSPlayer
}

func (p *mctsPlayer) Side() game.Side {
	return p.side
}

func (p *mctsPlayer) ChooseMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	result, err := p.mcts.Search(ctx, state, p.side)
	if err != nil {
		return nil, p.mcts.LastMetric(), err
	}
	return result.Move, result.Metric, nil
}
