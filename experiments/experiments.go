package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"stuckfish/board"
	"stuckfish/engine"
	"stuckfish/experiments/metrics"
	"stuckfish/game"
	"stuckfish/player"
	"stuckfish/searcher"
)

// Series describes a number of games between two player kinds.
type Series struct {
	White    string
	Black    string
	Games    int
	FEN      string // Standard starting position if empty
	MaxTurns int
	Seed     uint64 // Varied per game, 0 seeds from the clock
	Search   []searcher.Option
	Players  player.Options // In and Out for human players
	Renderer engine.Renderer
}

// Summary tallies the outcomes of a series.
type Summary struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Draws      int
	Unfinished int
}

func (s *Summary) add(outcome game.Outcome) {
	s.Games++
	switch outcome {
	case game.WhiteWins:
		s.WhiteWins++
	case game.BlackWins:
		s.BlackWins++
	case game.Draw:
		s.Draws++
	default:
		s.Unfinished++
	}
}

// Run plays the series and returns one record per game and one per move.
func Run(ctx context.Context, s Series) ([]metrics.GameRecord, []metrics.MoveRecord, Summary, error) {
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	var summary Summary

	log.Info().Msgf("starting series of %d games between %s and %s...", s.Games, s.White, s.Black)

	for i := 1; i <= s.Games; i++ {
		e, err := s.newEngine(i)
		if err != nil {
			return gameRecords, moveRecords, summary, err
		}

		log.Info().Msgf("starting game %d of %d...", i, s.Games)
		gameMetric, moveMetrics, err := e.Run(ctx)
		if err != nil {
			return gameRecords, moveRecords, summary, fmt.Errorf("game %d: %w", i, err)
		}

		gameRecords = append(gameRecords, metrics.GameRecord{ID: i, GameMetric: gameMetric})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: i, MoveMetric: mm})
		}
		summary.add(gameMetric.Outcome)

		log.Info().Msgf("completed game %d with outcome %s", i, gameMetric.Outcome)
	}

	log.Info().
		Int("white_wins", summary.WhiteWins).
		Int("black_wins", summary.BlackWins).
		Int("draws", summary.Draws).
		Int("unfinished", summary.Unfinished).
		Msg("completed series")
	return gameRecords, moveRecords, summary, nil
}

func (s Series) newEngine(n int) (*engine.Engine, error) {
	state := board.New()
	if s.FEN != "" {
		var err error
		if state, err = board.FromFEN(s.FEN); err != nil {
			return nil, err
		}
	}

	white, err := s.newPlayer(s.White, game.White, n)
	if err != nil {
		return nil, fmt.Errorf("white player: %w", err)
	}
	black, err := s.newPlayer(s.Black, game.Black, n)
	if err != nil {
		return nil, fmt.Errorf("black player: %w", err)
	}

	options := []engine.Option{engine.WithMaxTurns(s.MaxTurns)}
	if s.Renderer != nil {
		options = append(options, engine.WithRenderer(s.Renderer))
	}
	return engine.New(white, black, state, options...), nil
}

// newPlayer derives a distinct seed for every player of every game.
func (s Series) newPlayer(name string, side game.Side, n int) (player.Player, error) {
	opts := s.Players
	opts.Search = append([]searcher.Option{}, s.Search...)
	if s.Seed != 0 {
		seed := s.Seed + uint64(2*(n-1))
		if side == game.Black {
			seed++
		}
		opts.Seed = seed
		opts.Search = append(opts.Search, searcher.WithSeed(seed))
	}
	return player.New(name, side, opts)
}

// Record writes the records into a timestamped folder under dir and returns its path.
func Record(dir string, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
