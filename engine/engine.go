package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"stuckfish/board"
	"stuckfish/experiments/metrics"
	"stuckfish/game"
	"stuckfish/player"
)

const MaxTurns = 500

// Methods recorded for games that end outside the rules of chess.
const (
	MethodMaxTurns    = "MaxTurns"
	MethodResignation = "Resignation"
)

// Renderer is notified of the starting position and of every position after a move.
type Renderer interface {
	Render(state *board.State) error
}

type Option func(e *Engine)

func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// Engine plays one game of chess between two players.
type Engine struct {
	players  map[game.Side]player.Player
	state    *board.State
	maxTurns int
	renderer Renderer
}

func New(white, black player.Player, state *board.State, options ...Option) *Engine {
	if white.Side() != game.White || black.Side() != game.Black {
		panic(fmt.Sprintf("players have sides %s and %s, want white and black", white.Side(), black.Side()))
	}

	e := &Engine{
		players:  map[game.Side]player.Player{game.White: white, game.Black: black},
		state:    state,
		maxTurns: MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// State returns the current position, the final one once Run has returned.
func (e *Engine) State() *board.State {
	return e.state
}

// Run executes the game loop until the game is decided, a player resigns or the
// maximum number of turns is reached.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		White:     e.players[game.White].Name(),
		Black:     e.players[game.Black].Name(),
		StartTime: time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().
		Str("white", gameMetric.White).
		Str("black", gameMetric.Black).
		Str("fen", e.state.String()).
		Msg("game started")
	if err := e.render(); err != nil {
		return gameMetric, moveMetrics, err
	}

	outcome, method := game.Undecided, ""
	for turn := 1; ; turn++ {
		side := e.state.Player()
		if e.state.IsTerminal(side) {
			outcome, method = e.state.Outcome(), e.state.Method().String()
			break
		}
		if turn > e.maxTurns {
			method = MethodMaxTurns
			break
		}
		if err := ctx.Err(); err != nil {
			return e.complete(gameMetric, outcome, method, moveMetrics), moveMetrics, err
		}

		move, searchMetric, err := e.players[side].ChooseMove(ctx, e.state)
		if errors.Is(err, player.ErrResigned) {
			log.Info().Str("side", side.String()).Msg("player resigned")
			outcome, method = game.WinFor(side.Other()), MethodResignation
			break
		}
		if err != nil {
			return e.complete(gameMetric, outcome, method, moveMetrics), moveMetrics, fmt.Errorf("turn %d: %s: %w", turn, side, err)
		}

		e.state = e.state.Play(move).(*board.State)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Side:         side,
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		log.Info().
			Int("turn", turn).
			Str("side", side.String()).
			Str("move", move.String()).
			Int("simulations", searchMetric.Simulations).
			Dur("duration", searchMetric.Duration).
			Msg("move played")

		if err := e.render(); err != nil {
			return e.complete(gameMetric, outcome, method, moveMetrics), moveMetrics, err
		}
	}

	gameMetric = e.complete(gameMetric, outcome, method, moveMetrics)
	log.Info().
		Str("outcome", outcome.String()).
		Str("method", method).
		Int("moves", gameMetric.TotalMoves).
		Dur("duration", gameMetric.Duration).
		Msg("game over")
	return gameMetric, moveMetrics, nil
}

func (e *Engine) complete(m metrics.GameMetric, outcome game.Outcome, method string, moves []metrics.MoveMetric) metrics.GameMetric {
	m.Outcome = outcome
	m.Method = method
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.TotalMoves = len(moves)
	return m
}

func (e *Engine) render() error {
	if e.renderer == nil {
		return nil
	}
	if err := e.renderer.Render(e.state); err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	return nil
}
