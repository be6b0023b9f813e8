package searcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"stuckfish/experiments/metrics"
	"stuckfish/game"
)

var (
	// ErrNoLegalMoves is returned when the side to move has nothing to play.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrSearchStopped is returned when the search was stopped before any move was explored.
	ErrSearchStopped = errors.New("search stopped before the first simulation")
)

type Option func(mcts *MCTS)

type MCTS struct {
	simulations  int
	exploration  float64
	seed         uint64
	seeded       bool
	rolloutLimit int
	duration     time.Duration
	metrics      metrics.Collector
	last         metrics.SearchMetric
}

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

// WithSeed makes every search deterministic. Without it each search is seeded from the clock.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
		m.seeded = true
	}
}

// WithRolloutLimit caps the number of plies of a random playout. Zero disables the cap.
func WithRolloutLimit(plies int) Option {
	return func(m *MCTS) {
		if plies >= 0 {
			m.rolloutLimit = plies
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		simulations:  DefaultSimulations,
		exploration:  DefaultExploration,
		rolloutLimit: DefaultRolloutLimit,
		metrics:      metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// MoveStat summarises one root child after a search.
type MoveStat struct {
	Move   game.Move
	Visits int
	Wins   float64
}

func (s MoveStat) WinRate() float64 {
	if s.Visits == 0 {
		return 0
	}
	return s.Wins / float64(s.Visits)
}

type Result struct {
	Move   game.Move
	Stats  []MoveStat  // Root children in expansion order
	PV     []game.Move // Greedy line from the root
	Metric metrics.SearchMetric
}

// ChooseMove searches state and returns the move with the best win rate for side.
func (m *MCTS) ChooseMove(ctx context.Context, state game.State, side game.Side) (game.Move, error) {
	result, err := m.Search(ctx, state, side)
	if err != nil {
		return nil, err
	}
	return result.Move, nil
}

// Search builds a fresh tree rooted at state and runs simulations until the simulation
// budget, the duration or ctx runs out. Wins are counted for side whichever side is to
// move at each node.
func (m *MCTS) Search(ctx context.Context, state game.State, side game.Side) (*Result, error) {
	m.metrics.Start()
	s := &search{
		tree:         newTree(state),
		side:         side,
		exploration:  m.exploration,
		rolloutLimit: m.rolloutLimit,
		rng:          rand.New(rand.NewSource(m.nextSeed())),
		metrics:      m.metrics,
	}

	if s.tree.fullyExpanded(rootIndex) {
		m.last = m.metrics.Complete(s.tree.size(), metrics.StopNoMoves)
		return nil, ErrNoLegalMoves
	}

	reason := m.run(ctx, s)
	m.last = m.metrics.Complete(s.tree.size(), reason)

	root := &s.tree.nodes[rootIndex]
	if len(root.children) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSearchStopped, err)
		}
		return nil, ErrSearchStopped
	}

	result := &Result{
		Move:   s.tree.nodes[s.tree.bestChild(rootIndex, 0)].move,
		Stats:  s.stats(),
		PV:     s.principalVariation(),
		Metric: m.last,
	}

	log.Debug().
		Str("side", side.String()).
		Str("move", result.Move.String()).
		Int("simulations", root.visits).
		Int("tree", m.last.TreeSize).
		Stringer("stop", reason).
		Msg("search complete")
	return result, nil
}

// LastMetric returns the metrics of the most recent search.
func (m *MCTS) LastMetric() metrics.SearchMetric {
	return m.last
}

func (m *MCTS) run(ctx context.Context, s *search) metrics.StopReason {
	start := time.Now()
	for i := 0; i < m.simulations; i++ {
		if ctx.Err() != nil {
			return metrics.StopInterrupt
		}
		if m.duration > 0 && time.Since(start) >= m.duration {
			return metrics.StopDuration
		}
		s.simulate()
		m.metrics.AddSimulation()
	}
	return metrics.StopSimulations
}

func (m *MCTS) nextSeed() uint64 {
	if m.seeded {
		return m.seed
	}
	return uint64(time.Now().UnixNano())
}

// search holds the state of a single tree search.
type search struct {
	tree         *tree
	side         game.Side
	exploration  float64
	rolloutLimit int
	rng          *rand.Rand
	metrics      metrics.Collector
}

func (s *search) simulate() {
	n, depth := s.selection()
	n, depth = s.expansion(n, depth)
	s.metrics.ObserveDepth(depth)
	final := s.rollout(s.tree.nodes[n].state)
	s.backpropagation(n, s.reward(final))
}

// selection descends through fully expanded nodes. Nodes store their own state, so the
// working state of the descent is the state of the current node.
func (s *search) selection() (int, int) {
	n, depth := rootIndex, 0
	for s.tree.fullyExpanded(n) && len(s.tree.nodes[n].children) > 0 {
		n = s.tree.bestChild(n, s.exploration)
		depth++
	}
	return n, depth
}

func (s *search) expansion(n int, depth int) (int, int) {
	untried := s.tree.nodes[n].untried
	if len(untried) == 0 {
		return n, depth
	}
	move := untried[s.rng.Intn(len(untried))]
	return s.tree.addChild(n, move), depth + 1
}

// rollout plays uniformly random moves until the game ends or the ply limit is reached.
func (s *search) rollout(state game.State) game.State {
	for plies := 0; ; plies++ {
		player := state.Player()
		if state.IsTerminal(player) {
			s.metrics.AddFullPlayout()
			return state
		}
		moves := state.LegalMoves(player)
		if len(moves) == 0 {
			s.metrics.AddFullPlayout()
			return state
		}
		if s.rolloutLimit > 0 && plies >= s.rolloutLimit {
			s.metrics.AddCutoffPlayout()
			return state
		}
		state = state.Play(moves[s.rng.Intn(len(moves))])
	}
}

func (s *search) reward(state game.State) float64 {
	if winner := state.Outcome().Winner(); winner != game.NoSide && winner == s.side {
		return WIN
	}
	return LOSS
}

func (s *search) backpropagation(n int, result float64) {
	for n != noParent {
		s.tree.update(n, result)
		n = s.tree.nodes[n].parent
	}
}

func (s *search) stats() []MoveStat {
	root := &s.tree.nodes[rootIndex]
	stats := make([]MoveStat, len(root.children))
	for i, c := range root.children {
		child := &s.tree.nodes[c]
		stats[i] = MoveStat{Move: child.move, Visits: child.visits, Wins: child.wins}
	}
	return stats
}

func (s *search) principalVariation() []game.Move {
	var pv []game.Move
	for n := rootIndex; len(s.tree.nodes[n].children) > 0; {
		n = s.tree.bestChild(n, 0)
		pv = append(pv, s.tree.nodes[n].move)
	}
	return pv
}
