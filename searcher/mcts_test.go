package searcher

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"stuckfish/board"
	"stuckfish/experiments/metrics"
	"stuckfish/game"
)

func newTestSearch(state game.State, side game.Side, seed uint64) *search {
	return &search{
		tree:         newTree(state),
		side:         side,
		exploration:  DefaultExploration,
		rolloutLimit: DefaultRolloutLimit,
		rng:          rand.New(rand.NewSource(seed)),
		metrics:      metrics.NewDummyCollector(),
	}
}

func sortedStrings(moves []game.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func TestSimulate(t *testing.T) {
	t.Run("every legal move is either untried or a child", func(t *testing.T) {
		s := newTestSearch(newCounter(0, 12), game.White, 1)
		for i := 0; i < 300; i++ {
			s.simulate()
		}

		for i, n := range s.tree.nodes {
			seen := append([]game.Move{}, n.untried...)
			for _, c := range n.children {
				seen = append(seen, s.tree.nodes[c].move)
			}
			want := sortedStrings(n.state.LegalMoves(n.state.Player()))
			if diff := cmp.Diff(want, sortedStrings(seen)); diff != "" {
				t.Errorf("node %d move partition mismatch (-want +got):\n%s", i, diff)
			}
		}
	})

	t.Run("parents are visited more often than their children", func(t *testing.T) {
		s := newTestSearch(newCounter(0, 12), game.White, 2)
		for i := 0; i < 300; i++ {
			s.simulate()
		}

		sum := 0
		for _, c := range s.tree.nodes[rootIndex].children {
			sum += s.tree.nodes[c].visits
		}
		require.Equal(t, 300, s.tree.nodes[rootIndex].visits)
		require.Equal(t, s.tree.nodes[rootIndex].visits, sum, "Every simulation passes through a root child")

		for i, n := range s.tree.nodes {
			if i == rootIndex {
				continue
			}
			require.GreaterOrEqual(t, n.visits, 1, "Created nodes are visited by the simulation that created them")
			for _, c := range n.children {
				require.GreaterOrEqual(t, n.visits, s.tree.nodes[c].visits+1,
					"Node %d was visited before child %d existed", i, c)
			}
		}
	})

	t.Run("one simulation updates exactly the path to the root", func(t *testing.T) {
		s := newTestSearch(newCounter(0, 12), game.White, 3)

		for sim := 0; sim < 100; sim++ {
			before := make([]node, len(s.tree.nodes))
			copy(before, s.tree.nodes)

			s.simulate()

			changed := map[int]bool{}
			for i, n := range s.tree.nodes {
				visits, wins := 0, 0.0
				if i < len(before) {
					visits, wins = before[i].visits, before[i].wins
				}
				if n.visits != visits {
					require.Equal(t, visits+1, n.visits, "Visits grow by one")
					require.Contains(t, []float64{wins + WIN, wins + LOSS}, n.wins)
					changed[i] = true
				} else {
					require.Equal(t, wins, n.wins, "Unvisited nodes keep their wins")
				}
			}

			// The leaf is the changed node with no changed child
			leaf := -1
			for i := range changed {
				hasChangedChild := false
				for _, c := range s.tree.nodes[i].children {
					hasChangedChild = hasChangedChild || changed[c]
				}
				if !hasChangedChild {
					require.Equal(t, -1, leaf, "A single path was updated")
					leaf = i
				}
			}

			path := 0
			for n := leaf; n != noParent; n = s.tree.nodes[n].parent {
				require.True(t, changed[n], "Node %d on the path was updated", n)
				path++
			}
			require.Equal(t, len(changed), path)

			// All nodes on one path received the same result
			result := s.tree.nodes[leaf].wins
			if leaf < len(before) {
				result -= before[leaf].wins
			}
			for n := range changed {
				prev := 0.0
				if n < len(before) {
					prev = before[n].wins
				}
				require.Equal(t, result, s.tree.nodes[n].wins-prev)
			}
		}
	})

	t.Run("wins are counted for the searching side only", func(t *testing.T) {
		white := newTestSearch(newCounter(9, 10), game.White, 4)
		black := newTestSearch(newCounter(9, 10), game.Black, 4)
		for i := 0; i < 10; i++ {
			white.simulate()
			black.simulate()
		}

		require.Equal(t, 10.0, white.tree.nodes[rootIndex].wins)
		require.Equal(t, 0.0, black.tree.nodes[rootIndex].wins)
	})

	t.Run("rollouts stop at the ply limit", func(t *testing.T) {
		s := newTestSearch(endlessState{player: game.White}, game.White, 5)
		s.rolloutLimit = 5
		for i := 0; i < 10; i++ {
			s.simulate()
		}

		require.Equal(t, 10, s.tree.nodes[rootIndex].visits)
		require.Equal(t, 0.0, s.tree.nodes[rootIndex].wins, "Cut off playouts are not wins")
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the configured number of simulations", func(t *testing.T) {
		m := NewMCTS(WithSimulations(50), WithSeed(1), WithMetrics())

		result, err := m.Search(ctx, newCounter(0, 12), game.White)

		require.NoError(t, err)
		require.Equal(t, 50, result.Metric.Simulations)
		require.Equal(t, metrics.StopSimulations, result.Metric.StopReason)
		require.Equal(t, result.Metric, m.LastMetric())

		visits := 0
		for _, stat := range result.Stats {
			visits += stat.Visits
		}
		require.Equal(t, 50, visits)
		require.Len(t, result.Stats, 3)
		require.Equal(t, result.Move, result.PV[0], "The principal variation starts with the chosen move")
		require.Equal(t, 50, result.Metric.FullPlayouts, "Every playout of this short game reaches the end")
	})

	t.Run("same seed gives the same search", func(t *testing.T) {
		first, err := NewMCTS(WithSimulations(300), WithSeed(7)).Search(ctx, newCounter(0, 15), game.White)
		require.NoError(t, err)
		second, err := NewMCTS(WithSimulations(300), WithSeed(7)).Search(ctx, newCounter(0, 15), game.White)
		require.NoError(t, err)

		require.Equal(t, first.Move, second.Move)
		require.Equal(t, first.Stats, second.Stats)
		require.Equal(t, first.PV, second.PV)
	})

	t.Run("terminal start returns no move without simulating", func(t *testing.T) {
		m := NewMCTS(WithMetrics())

		var result *Result
		var err error
		require.NotPanics(t, func() {
			result, err = m.Search(ctx, frozenState{}, game.White)
		})

		require.ErrorIs(t, err, ErrNoLegalMoves)
		require.Nil(t, result)
		require.Equal(t, 0, m.LastMetric().Simulations)
		require.Equal(t, metrics.StopNoMoves, m.LastMetric().StopReason)
	})

	t.Run("single legal move is returned", func(t *testing.T) {
		for _, simulations := range []int{1, 100} {
			move, err := NewMCTS(WithSimulations(simulations)).ChooseMove(ctx, newCounter(9, 10), game.White)

			require.NoError(t, err)
			require.Equal(t, mockMove{1}, move)
		}
	})

	t.Run("finds the immediate win", func(t *testing.T) {
		result, err := NewMCTS(WithSimulations(500), WithSeed(3)).Search(ctx, newCounter(7, 10), game.White)

		require.NoError(t, err)
		require.Equal(t, mockMove{3}, result.Move)
		for _, stat := range result.Stats {
			if stat.Move == result.Move {
				require.Equal(t, 1.0, stat.WinRate())
			} else {
				require.Less(t, stat.WinRate(), 1.0)
			}
		}
	})

	t.Run("cancelled context stops before the first simulation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		m := NewMCTS(WithMetrics())

		_, err := m.Search(cancelled, newCounter(0, 12), game.White)

		require.ErrorIs(t, err, ErrSearchStopped)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, metrics.StopInterrupt, m.LastMetric().StopReason)
	})

	t.Run("duration bounds the search", func(t *testing.T) {
		m := NewMCTS(
			WithSimulations(1_000_000_000),
			WithDuration(20*time.Millisecond),
			WithRolloutLimit(10),
			WithMetrics(),
		)

		result, err := m.Search(ctx, endlessState{player: game.White}, game.White)

		require.NoError(t, err)
		require.Equal(t, metrics.StopDuration, result.Metric.StopReason)
		require.Greater(t, result.Metric.Simulations, 0)
		require.Equal(t, result.Metric.Simulations, result.Metric.CutoffPlayouts)
	})

	t.Run("default playouts run to the end of the game", func(t *testing.T) {
		m := NewMCTS(WithSimulations(20), WithSeed(1), WithMetrics())

		result, err := m.Search(ctx, board.New(), game.White)

		require.NoError(t, err)
		require.Equal(t, 20, result.Metric.FullPlayouts)
		require.Zero(t, result.Metric.CutoffPlayouts)
	})

	t.Run("chess position with one legal move", func(t *testing.T) {
		state, err := board.FromFEN("7k/8/6K1/8/8/8/8/R7 b - - 0 1")
		require.NoError(t, err)

		move, err := NewMCTS(WithSimulations(20), WithRolloutLimit(40), WithSeed(1)).ChooseMove(ctx, state, game.Black)

		require.NoError(t, err)
		require.Equal(t, "h8g8", move.String())
	})
}

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := NewMCTS()

		require.Equal(t, DefaultSimulations, m.simulations)
		require.Equal(t, DefaultExploration, m.exploration)
		require.Zero(t, m.rolloutLimit, "Playouts are not cut off unless asked")
		require.False(t, m.seeded)
	})

	t.Run("invalid values keep the defaults", func(t *testing.T) {
		m := NewMCTS(WithSimulations(0), WithExploration(-1), WithRolloutLimit(-5), WithDuration(-time.Second))

		require.Equal(t, DefaultSimulations, m.simulations)
		require.Equal(t, DefaultExploration, m.exploration)
		require.Equal(t, DefaultRolloutLimit, m.rolloutLimit)
		require.Zero(t, m.duration)
	})
}
